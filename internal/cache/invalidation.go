package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/events"
)

// Flusher drops a whole cached keyspace.
type Flusher interface {
	Flush(ctx context.Context) error
}

// RegisterInvalidation flushes dependent caches whenever a resource they embed
// changes. Products embed their category and users embed their credential, so
// a category or credential write must drop those entries.
func RegisterInvalidation(dispatcher events.Dispatcher, logger *zap.Logger, rules map[events.Resource][]Flusher) {
	events.SubscribeAll(dispatcher, func(ctx context.Context, event events.Event) error {
		for _, f := range rules[event.Resource] {
			if err := f.Flush(ctx); err != nil {
				logger.Warn("cache invalidation failed",
					zap.String("resource", string(event.Resource)),
					zap.Int("resource_id", event.ResourceID),
					zap.Error(err))
			}
		}
		return nil
	})
}
