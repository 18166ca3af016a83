// Package memory provides process-local repository implementations used when
// no Postgres DSN is configured and in tests. They honour the same contract as
// the Postgres repositories, including pgx.ErrNoRows for absent rows.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// Store holds every table behind a single lock so that cross-table checks
// (foreign keys, unique usernames) are consistent.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	categories  table[domain.Category]
	products    table[domain.Product]
	users       table[domain.User]
	credentials table[domain.Credential]
}

type table[E any] struct {
	seq  int
	rows map[int]E
}

func newTable[E any]() table[E] {
	return table[E]{rows: make(map[int]E)}
}

func (t *table[E]) nextID() int {
	t.seq++
	return t.seq
}

// sortedIDs returns row ids in insertion order.
func (t *table[E]) sortedIDs() []int {
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		categories:  newTable[domain.Category](),
		products:    newTable[domain.Product](),
		users:       newTable[domain.User](),
		credentials: newTable[domain.Credential](),
	}
}
