package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

const (
	KeyRedirectPath    = "redirectPath"
	KeySharedModelInfo = "sharedModelInfo"
)

// Store exposes typed access to the session keys.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// isAbsent reports whether a stored value is one of the markers that mean
// "nothing stored".
func isAbsent(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "null", "undefined":
		return true
	}
	return false
}

// RedirectPath returns the saved redirect intent, or "" if there is none.
func (s *Store) RedirectPath(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, KeyRedirectPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", KeyRedirectPath, err)
	}
	v := string(raw)
	if isAbsent(v) {
		return "", nil
	}
	return v, nil
}

// SetRedirectPath overwrites any previous intent. An absent marker clears it.
func (s *Store) SetRedirectPath(ctx context.Context, path string) error {
	if isAbsent(path) {
		return s.ClearRedirectPath(ctx)
	}
	if err := s.kv.Set(ctx, KeyRedirectPath, []byte(path)); err != nil {
		return fmt.Errorf("write %s: %w", KeyRedirectPath, err)
	}
	return nil
}

func (s *Store) ClearRedirectPath(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyRedirectPath); err != nil {
		return fmt.Errorf("clear %s: %w", KeyRedirectPath, err)
	}
	return nil
}

// SharedModel returns the cached shared model reference, or nil.
// A value that does not decode is treated as absent.
func (s *Store) SharedModel(ctx context.Context) (*models.ModelReference, error) {
	raw, err := s.kv.Get(ctx, KeySharedModelInfo)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeySharedModelInfo, err)
	}
	if isAbsent(string(raw)) {
		return nil, nil
	}

	var ref models.ModelReference
	if err := json.Unmarshal(raw, &ref); err != nil || ref.ID == "" {
		return nil, nil
	}
	return &ref, nil
}

func (s *Store) SetSharedModel(ctx context.Context, ref models.ModelReference) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeySharedModelInfo, err)
	}
	if err := s.kv.Set(ctx, KeySharedModelInfo, data); err != nil {
		return fmt.Errorf("write %s: %w", KeySharedModelInfo, err)
	}
	return nil
}

func (s *Store) ClearSharedModel(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeySharedModelInfo); err != nil {
		return fmt.Errorf("clear %s: %w", KeySharedModelInfo, err)
	}
	return nil
}

// Clear drops all session state.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
