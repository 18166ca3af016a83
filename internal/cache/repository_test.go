package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/repository/memory"
)

type fakeBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{entries: map[string][]byte{}}
}

func (b *fakeBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	v, ok := b.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (b *fakeBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = value
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

func (b *fakeBackend) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.entries {
		if strings.HasPrefix(k, prefix) {
			delete(b.entries, k)
		}
	}
	return nil
}

func (b *fakeBackend) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[key]
	return ok
}

func seedProduct(t *testing.T, store *memory.Store) *domain.Product {
	t.Helper()
	ctx := context.Background()
	category := &domain.Category{Title: "Electronics"}
	require.NoError(t, memory.NewCategoryRepository(store).Create(ctx, category))
	product := &domain.Product{
		Title:     "Laptop Dell XPS",
		SKU:       "LAP-001",
		PriceUnit: decimal.RequireFromString("3500.00"),
		Quantity:  5,
		Category:  &domain.Category{ID: category.ID},
	}
	require.NoError(t, memory.NewProductRepository(store).Create(ctx, product))
	return product
}

func productID(p *domain.Product) int { return p.ID }

func TestRepository_ReadThroughAndEvict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedProduct(t, store)
	backend := newFakeBackend()
	repo := NewRepository[domain.Product](memory.NewProductRepository(store), backend, "product", time.Minute, productID, zap.NewNop())

	first, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, backend.has(repo.Key(seeded.ID)))

	cached, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, cached.Title)
	assert.True(t, first.PriceUnit.Equal(cached.PriceUnit))
	require.NotNil(t, cached.Category)
	assert.Equal(t, "Electronics", cached.Category.Title)

	cached.Title = "Laptop Dell XPS Updated"
	require.NoError(t, repo.Update(ctx, cached))
	assert.False(t, backend.has(repo.Key(seeded.ID)))

	fresh, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Dell XPS Updated", fresh.Title)

	require.NoError(t, repo.Delete(ctx, seeded.ID))
	assert.False(t, backend.has(repo.Key(seeded.ID)))
}

func TestRepository_BackendFailureFallsThrough(t *testing.T) {
	store := memory.NewStore()
	seeded := seedProduct(t, store)
	backend := newFakeBackend()
	backend.getErr = errors.New("connection refused")
	repo := NewRepository[domain.Product](memory.NewProductRepository(store), backend, "product", time.Minute, productID, zap.NewNop())

	got, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "LAP-001", got.SKU)
}

func TestRegisterInvalidation_FlushesDependents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedProduct(t, store)
	backend := newFakeBackend()
	products := NewRepository[domain.Product](memory.NewProductRepository(store), backend, "product", time.Minute, productID, zap.NewNop())
	_, err := products.GetByID(ctx, seeded.ID)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	RegisterInvalidation(dispatcher, zap.NewNop(), map[events.Resource][]Flusher{
		events.ResourceCategory: {products},
	})

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventEntityCreated, Resource: events.ResourceProduct}))
	assert.True(t, backend.has(products.Key(seeded.ID)))

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventEntityUpdated, Resource: events.ResourceCategory, ResourceID: 1}))
	assert.False(t, backend.has(products.Key(seeded.ID)))
}
