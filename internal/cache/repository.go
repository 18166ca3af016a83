package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
)

// Repository is a read-through cache in front of a repository. GetByID is
// served from the backend when possible; writes go to the inner repository
// and evict the cached entry. Backend failures are logged and never fail the
// request.
type Repository[E any] struct {
	inner   repository.Repository[E]
	backend Backend
	prefix  string
	ttl     time.Duration
	idOf    func(*E) int
	logger  *zap.Logger
}

// NewRepository wraps inner. Keys are "<prefix>:<id>"; idOf extracts the id
// used to evict an entry after Update.
func NewRepository[E any](inner repository.Repository[E], backend Backend, prefix string, ttl time.Duration, idOf func(*E) int, logger *zap.Logger) *Repository[E] {
	return &Repository[E]{inner: inner, backend: backend, prefix: prefix, ttl: ttl, idOf: idOf, logger: logger}
}

// Key returns the cache key for id.
func (r *Repository[E]) Key(id int) string {
	return r.prefix + ":" + strconv.Itoa(id)
}

func (r *Repository[E]) Create(ctx context.Context, entity *E) error {
	return r.inner.Create(ctx, entity)
}

func (r *Repository[E]) Update(ctx context.Context, entity *E) error {
	if err := r.inner.Update(ctx, entity); err != nil {
		return err
	}
	r.evict(ctx, r.idOf(entity))
	return nil
}

func (r *Repository[E]) GetByID(ctx context.Context, id int) (*E, error) {
	key := r.Key(id)
	raw, err := r.backend.Get(ctx, key)
	switch {
	case err == nil:
		var entity E
		if err := json.Unmarshal(raw, &entity); err == nil {
			return &entity, nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, ErrMiss):
		r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	entity, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(entity); err == nil {
		if err := r.backend.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return entity, nil
}

func (r *Repository[E]) List(ctx context.Context) ([]E, error) {
	return r.inner.List(ctx)
}

func (r *Repository[E]) Delete(ctx context.Context, id int) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// Flush drops every entry under this repository's prefix.
func (r *Repository[E]) Flush(ctx context.Context) error {
	return r.backend.DeletePrefix(ctx, r.prefix+":")
}

func (r *Repository[E]) evict(ctx context.Context, id int) {
	if err := r.backend.Delete(ctx, r.Key(id)); err != nil {
		r.logger.Warn("cache delete failed", zap.String("key", r.Key(id)), zap.Error(err))
	}
}

// AccountRepository adds the username lookup, which bypasses the cache.
type AccountRepository struct {
	*Repository[domain.Account]
	accounts repository.AccountRepository
}

// NewAccountRepository wraps an AccountRepository with the id cache.
func NewAccountRepository(inner repository.AccountRepository, backend Backend, prefix string, ttl time.Duration, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		Repository: NewRepository[domain.Account](inner, backend, prefix, ttl,
			func(a *domain.Account) int { return a.User.ID }, logger),
		accounts:   inner,
	}
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.accounts.GetByUsername(ctx, username)
}
