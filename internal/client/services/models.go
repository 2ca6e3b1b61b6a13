package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/router"
	"github.com/dmitrijs2005/fotogen/internal/client/session"
	"github.com/dmitrijs2005/fotogen/internal/common"
	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// ModelService resolves which model generation targets.
//
// Resolve follows three steps: a deep link is checked with the backend and
// cached as the shared model; the home route reuses a cached shared model
// without a backend call; anything else asks the backend about the user's own
// model. A nil reference with a nil error means the user has no model yet.
type ModelService interface {
	Resolve(ctx context.Context, path string) (*models.ModelReference, error)
	// SwitchToOwn drops the shared model and resolves the user's own one.
	SwitchToOwn(ctx context.Context) (*models.ModelReference, error)
	// Active is the last resolved reference.
	Active() *models.ModelReference
}

type modelService struct {
	client client.Client
	auth   AuthService
	store  *session.Store
	log    logging.Logger

	mu     sync.Mutex
	active *models.ModelReference
}

func NewModelService(c client.Client, auth AuthService, store *session.Store, log logging.Logger) ModelService {
	if log == nil {
		log = logging.Nop{}
	}
	return &modelService{client: c, auth: auth, store: store, log: log}
}

func (s *modelService) setActive(ref *models.ModelReference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ref
}

func (s *modelService) Active() *models.ModelReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	ref := *s.active
	return &ref
}

func (s *modelService) identity(ctx context.Context) (*models.Identity, error) {
	id, err := s.auth.Current(ctx)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, common.ErrorUnauthorized
	}
	return id, nil
}

func (s *modelService) Resolve(ctx context.Context, path string) (*models.ModelReference, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}

	if link, ok := router.ParseDeepLink(path); ok {
		return s.resolveShared(ctx, link)
	}

	if router.IsHome(path) {
		cached, err := s.store.SharedModel(ctx)
		if err != nil {
			s.log.Warn(ctx, "shared model cache unreadable", "error", err)
		}
		if cached != nil {
			s.log.Debug(ctx, "reusing cached shared model", "model_id", cached.ID)
			s.setActive(cached)
			return cached, nil
		}
	}

	return s.resolveOwn(ctx, id)
}

func (s *modelService) resolveShared(ctx context.Context, link models.DeepLink) (*models.ModelReference, error) {
	ok, err := s.client.CheckModelAvailable(ctx, link.ModelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	if !ok {
		return nil, ErrModelNotFound
	}

	ref := &models.ModelReference{ID: link.ModelName, OwnerName: link.Username, IsOwnedByUser: false}
	if err := s.store.SetSharedModel(ctx, *ref); err != nil {
		s.log.Warn(ctx, "failed to cache shared model", "model_id", ref.ID, "error", err)
	}
	s.setActive(ref)
	s.log.Info(ctx, "shared model resolved", "model_id", ref.ID, "owner", ref.OwnerName)
	return ref, nil
}

func (s *modelService) resolveOwn(ctx context.Context, id *models.Identity) (*models.ModelReference, error) {
	if err := s.store.ClearSharedModel(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear shared model cache", "error", err)
	}

	ok, err := s.client.CheckModelAvailable(ctx, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		s.setActive(nil)
		return nil, nil
	}

	ref := &models.ModelReference{ID: id.ID, OwnerName: id.DisplayName(), IsOwnedByUser: true}
	s.setActive(ref)
	s.log.Info(ctx, "own model resolved", "model_id", ref.ID)
	return ref, nil
}

func (s *modelService) SwitchToOwn(ctx context.Context) (*models.ModelReference, error) {
	id, err := s.identity(ctx)
	if err != nil {
		return nil, err
	}
	s.setActive(nil)
	return s.resolveOwn(ctx, id)
}
