// Package router maps stable control tags to handlers. A tag identifies a
// class of control ("what to do"); the execution context supplies the
// instance ("to what") by resolving the interaction's thread against the
// ticket store. Registering the finite tag table once per process start is
// therefore sufficient for every control rendered before any past restart
// to keep working.
package router

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// Control tags. Persisted in rendered messages; never carry per-ticket data.
const (
	TagTicketSelect         = "ticket_select_v1"
	TagTicketClose          = "ticket_close_v1"
	TagTicketClaim          = "ticket_claim_v1"
	TagTicketTranscript     = "ticket_transcript_v1"
	TagTicketLock           = "ticket_lock_v1"
	TagTicketAdd            = "ticket_add_v1"
	TagTicketRemove         = "ticket_remove_v1"
	TagTicketSetup          = "ticket_setup_v1"
	TagAdminPanel           = "admin_panel_v1"
	TagAdminDelete          = "admin_delete_thread_v1"
	TagAdminDeleteConfirm   = "admin_delete_confirm_v1"
	TagAdminDeleteCancel    = "admin_delete_cancel_v1"
	TagAdminSetTranscript   = "admin_set_transcript_v1"
	TagAdminTranscriptModal = "admin_transcript_modal_v1"
)

// Responder produces the single user-visible acknowledgment every
// interaction must receive. Implementations track whether Ack was called
// and deliver Reply as a follow-up in that case.
type Responder interface {
	// Ack defers the acknowledgment ephemerally before slow work.
	Ack(ctx context.Context) error
	// Reply sends the final ephemeral acknowledgment.
	Reply(ctx context.Context, title, body string) error
	// ReplyError renders a denial or failure ephemerally.
	ReplyError(ctx context.Context, derr *util.DomainError) error
	// ShowAdminPanel, ShowDeleteConfirm and ShowTranscriptModal render the
	// follow-up control surfaces of the admin flows.
	ShowAdminPanel(ctx context.Context) error
	ShowDeleteConfirm(ctx context.Context) error
	ShowTranscriptModal(ctx context.Context) error
}

// Interaction is the transport-neutral view of one inbound interaction
// event. ChannelID is the ambient conversation the control fired in; for
// thread-scoped controls it is the ticket thread id.
type Interaction struct {
	Actor     domain.Actor
	ChannelID string
	IsThread  bool
	// Values carries the control payload: select values, modal inputs, or
	// command arguments, in declaration order.
	Values    []string
	Responder Responder
}

// Value returns the i-th payload value or the empty string.
func (ic *Interaction) Value(i int) string {
	if i < 0 || i >= len(ic.Values) {
		return ""
	}
	return ic.Values[i]
}

// HandlerFunc executes one control class. A returned error is converted to
// exactly one ephemeral failure message; a nil return means the handler
// already responded.
type HandlerFunc func(ctx context.Context, ic *Interaction) error

// Router dispatches interaction events by control tag.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// New creates an empty router.
func New(logger *zap.Logger, metrics *observability.Metrics) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle registers the handler for a control tag. Called once at process
// start for the full template set.
func (r *Router) Handle(tag string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[tag] = fn
}

// Tags returns the registered control tags.
func (r *Router) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	return tags
}

// Dispatch resolves the tag and runs its handler, guaranteeing one
// user-visible acknowledgment whether the handler succeeds, fails, or the
// tag is unknown.
func (r *Router) Dispatch(ctx context.Context, tag string, ic *Interaction) {
	r.mu.RLock()
	fn, ok := r.handlers[tag]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("unroutable interaction", zap.String("tag", tag), zap.String("actor", ic.Actor.ID))
		r.metrics.RecordError(tag, util.CodeUnroutable)
		derr := util.ToDomainError(util.NewUnroutable(tag))
		if err := ic.Responder.ReplyError(ctx, derr); err != nil {
			r.logger.Warn("failed to acknowledge unroutable interaction", zap.Error(err))
		}
		return
	}

	r.metrics.RecordInteraction(tag)
	if err := fn(ctx, ic); err != nil {
		derr := util.ToDomainError(err)
		if derr.Code == util.CodeInternalError {
			r.logger.Error("interaction failed", zap.String("tag", tag), zap.Error(derr))
		} else {
			r.logger.Info("interaction rejected",
				zap.String("tag", tag),
				zap.String("code", derr.Code),
				zap.String("actor", ic.Actor.ID))
		}
		r.metrics.RecordError(tag, derr.Code)
		if err := ic.Responder.ReplyError(ctx, derr); err != nil {
			r.logger.Warn("failed to deliver error acknowledgment", zap.Error(err))
		}
	}
}
