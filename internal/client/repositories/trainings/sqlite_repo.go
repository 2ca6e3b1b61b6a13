package trainings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/common"
	"github.com/dmitrijs2005/fotogen/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.TrainingRecord) error {
	now := r.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := `INSERT INTO trainings (model_id, archive_name, file_count, total_bytes, step,
			image_url, backend_model_id, error, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(model_id) DO UPDATE SET
				archive_name = excluded.archive_name,
				file_count = excluded.file_count,
				total_bytes = excluded.total_bytes,
				step = excluded.step,
				image_url = excluded.image_url,
				backend_model_id = excluded.backend_model_id,
				error = excluded.error,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ModelID, rec.ArchiveName, rec.FileCount, rec.TotalBytes, string(rec.Step),
		rec.ImageURL, rec.BackendModelID, rec.Error,
		rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert training: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateStep(ctx context.Context, modelID string, step models.TrainingStep) error {
	query := `UPDATE trainings SET step = ?, updated_at = ? WHERE model_id = ?`
	res, err := r.db.ExecContext(ctx, query, string(step), r.now().UnixMilli(), modelID)
	if err != nil {
		return fmt.Errorf("failed to update training step: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) Finish(ctx context.Context, modelID, imageURL, backendModelID, errText string) error {
	query := `UPDATE trainings SET image_url = ?, backend_model_id = ?, error = ?, updated_at = ?`
	args := []any{imageURL, backendModelID, errText, r.now().UnixMilli()}
	if errText == "" {
		query += `, step = ?`
		args = append(args, string(models.StepAccepted))
	}
	query += ` WHERE model_id = ?`
	args = append(args, modelID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to finish training: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, modelID string) (*models.TrainingRecord, error) {
	query := `SELECT model_id, archive_name, file_count, total_bytes, step, image_url,
			backend_model_id, error, created_at, updated_at
			FROM trainings WHERE model_id = ?`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, modelID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.TrainingRecord, error) {
	query := `SELECT model_id, archive_name, file_count, total_bytes, step, image_url,
			backend_model_id, error, created_at, updated_at
			FROM trainings ORDER BY created_at DESC, model_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select trainings: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training: %w", err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainings`); err != nil {
		return fmt.Errorf("failed to clear trainings: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.TrainingRecord, error) {
	var rec models.TrainingRecord
	var step string
	var created, updated int64
	err := s.Scan(&rec.ModelID, &rec.ArchiveName, &rec.FileCount, &rec.TotalBytes, &step,
		&rec.ImageURL, &rec.BackendModelID, &rec.Error, &created, &updated)
	if err != nil {
		return nil, err
	}
	rec.Step = models.TrainingStep(step)
	rec.CreatedAt = time.UnixMilli(created)
	rec.UpdatedAt = time.UnixMilli(updated)
	return &rec, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
