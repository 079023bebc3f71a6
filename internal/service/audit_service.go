package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/events"
)

// AuditService records a structured trail of lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to every lifecycle event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, typ := range []events.EventType{
		events.EventTicketOpened,
		events.EventTicketClaimed,
		events.EventTicketClosed,
		events.EventTicketLockToggled,
		events.EventTicketDeleted,
		events.EventTranscriptDelivered,
	} {
		a.dispatcher.Subscribe(typ, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("thread_id", event.ThreadID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}
