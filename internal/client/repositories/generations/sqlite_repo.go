package generations

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.GenerationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `INSERT INTO generations (id, model_id, owned_model, prompt, output_path, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.ModelID, rec.OwnedModel, rec.Prompt, rec.OutputPath, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.GenerationRecord, error) {
	query := `SELECT id, model_id, owned_model, prompt, output_path, created_at
			FROM generations ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

func (r *SQLiteRepository) ListByModel(ctx context.Context, modelID string) ([]models.GenerationRecord, error) {
	query := `SELECT id, model_id, owned_model, prompt, output_path, created_at
			FROM generations WHERE model_id = ? ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, modelID)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM generations`); err != nil {
		return fmt.Errorf("failed to clear generations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.GenerationRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select generations: %w", err)
	}
	defer rows.Close()

	var result []models.GenerationRecord
	for rows.Next() {
		var item models.GenerationRecord
		var created int64
		if err := rows.Scan(&item.ID, &item.ModelID, &item.OwnedModel, &item.Prompt, &item.OutputPath, &created); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		item.CreatedAt = time.UnixMilli(created)
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
