package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// CrudConfig describes how CrudService handles one entity type.
type CrudConfig[E any, D any] struct {
	Resource   events.Resource
	Repo       repository.Repository[E]
	ToDTO      func(*E) *D
	ToEntity   func(*D) *E
	IDOf       func(*E) int
	SetID      func(*E, int)
	Validate   func(*D) error
	Dispatcher events.Dispatcher
	Logger     *zap.Logger

	// BeforeSave runs after mapping and before persisting. existing is nil on create.
	BeforeSave func(ctx context.Context, entity, existing *E) error
	// BeforeDelete runs before the repository delete.
	BeforeDelete func(ctx context.Context, id int) error
}

// CrudService implements find/save/update/delete for a single entity type,
// mapping every result to its DTO. It performs no recovery: repository errors
// are translated to DomainErrors and returned.
type CrudService[E any, D any] struct {
	cfg CrudConfig[E, D]
}

// NewCrudService constructs the service.
func NewCrudService[E any, D any](cfg CrudConfig[E, D]) *CrudService[E, D] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &CrudService[E, D]{cfg: cfg}
}

// FindAll returns every record in insertion order; never nil.
func (s *CrudService[E, D]) FindAll(ctx context.Context) ([]D, error) {
	entities, err := s.cfg.Repo.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]D, 0, len(entities))
	for i := range entities {
		result = append(result, *s.cfg.ToDTO(&entities[i]))
	}
	return result, nil
}

// FindByID returns the record or a NOT_FOUND error.
func (s *CrudService[E, D]) FindByID(ctx context.Context, id int) (*D, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cfg.ToDTO(entity), nil
}

// Save creates a record. Any id on the payload is ignored; the persisted
// record, including its generated id, is returned.
func (s *CrudService[E, D]) Save(ctx context.Context, payload *D) (*D, error) {
	if err := s.validate(payload); err != nil {
		return nil, err
	}
	entity := s.cfg.ToEntity(payload)
	s.cfg.SetID(entity, 0)

	if s.cfg.BeforeSave != nil {
		if err := s.cfg.BeforeSave(ctx, entity, nil); err != nil {
			return nil, err
		}
	}
	if err := s.cfg.Repo.Create(ctx, entity); err != nil {
		return nil, apperrors.MapError(err)
	}

	id := s.cfg.IDOf(entity)
	saved, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventEntityCreated, id)
	return s.cfg.ToDTO(saved), nil
}

// Update fully replaces the record identified by id. The id argument wins
// over any id in the payload. Absent ids fail with NOT_FOUND; there is no upsert.
func (s *CrudService[E, D]) Update(ctx context.Context, id int, payload *D) (*D, error) {
	if err := s.validate(payload); err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	entity := s.cfg.ToEntity(payload)
	s.cfg.SetID(entity, id)

	if s.cfg.BeforeSave != nil {
		if err := s.cfg.BeforeSave(ctx, entity, existing); err != nil {
			return nil, err
		}
	}
	if err := s.cfg.Repo.Update(ctx, entity); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, s.notFound(id)
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventEntityUpdated, id)
	return s.cfg.ToDTO(updated), nil
}

// DeleteByID removes the record. Deleting an absent id succeeds.
func (s *CrudService[E, D]) DeleteByID(ctx context.Context, id int) error {
	if s.cfg.BeforeDelete != nil {
		if err := s.cfg.BeforeDelete(ctx, id); err != nil {
			return err
		}
	}
	if err := s.cfg.Repo.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventEntityDeleted, id)
	return nil
}

func (s *CrudService[E, D]) load(ctx context.Context, id int) (*E, error) {
	entity, err := s.cfg.Repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, s.notFound(id)
		}
		return nil, apperrors.MapError(err)
	}
	return entity, nil
}

func (s *CrudService[E, D]) validate(payload *D) error {
	if payload == nil {
		return apperrors.NewValidationError(fmt.Sprintf("%s payload required", s.cfg.Resource), nil)
	}
	if s.cfg.Validate == nil {
		return nil
	}
	return s.cfg.Validate(payload)
}

func (s *CrudService[E, D]) notFound(id int) error {
	return apperrors.NewNotFound(fmt.Sprintf("%s with id %d", s.cfg.Resource, id), map[string]any{"id": id})
}

func (s *CrudService[E, D]) publish(ctx context.Context, eventType events.EventType, id int) {
	if s.cfg.Dispatcher == nil {
		return
	}
	err := s.cfg.Dispatcher.Publish(ctx, events.Event{
		Type:       eventType,
		Resource:   s.cfg.Resource,
		ResourceID: id,
	})
	if err != nil {
		s.cfg.Logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("resource", string(s.cfg.Resource)),
			zap.Int("resource_id", id),
			zap.Error(err))
	}
}
