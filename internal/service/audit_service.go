package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/events"
)

// AuditService writes one structured log line per entity lifecycle event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	service    string
}

// NewAuditService creates the service. serviceName tags every audit entry.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, serviceName string) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		service:    serviceName,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	events.SubscribeAll(a.dispatcher, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("service", a.service),
		zap.String("event_id", event.ID),
		zap.String("resource", string(event.Resource)),
		zap.Int("resource_id", event.ResourceID),
		zap.Time("timestamp", event.Timestamp))
	return nil
}
