package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/auth"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/internal/repository"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// LifecycleService drives the ticket state machine: claim, close,
// lock/unlock, participant management and the two-step delete flow. Each
// operation performs at most one authoritative state transition, and
// platform preconditions (archive, delete) run before the store write so
// the store never records a transition that did not happen.
type LifecycleService struct {
	store         repository.TicketStore
	confirmations repository.ConfirmationStore
	threads       platform.ThreadService
	messages      platform.MessageService
	transcripts   *TranscriptService
	guard         auth.Guard
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	confirmTTL    time.Duration
}

// LifecycleDependencies bundles collaborators for the lifecycle engine.
type LifecycleDependencies struct {
	Store         repository.TicketStore
	Confirmations repository.ConfirmationStore
	Threads       platform.ThreadService
	Messages      platform.MessageService
	Transcripts   *TranscriptService
	Guard         auth.Guard
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies, confirmTTL time.Duration) *LifecycleService {
	return &LifecycleService{
		store:         deps.Store,
		confirmations: deps.Confirmations,
		threads:       deps.Threads,
		messages:      deps.Messages,
		transcripts:   deps.Transcripts,
		guard:         deps.Guard,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		confirmTTL:    confirmTTL,
	}
}

// Claim records the actor as the ticket's handler. Re-claiming an open
// ticket is allowed; claiming a closed or deleted one is rejected.
func (s *LifecycleService) Claim(ctx context.Context, actor domain.Actor, threadID string) (*domain.TicketRecord, error) {
	rec, err := s.store.GetByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !s.guard.CanClaim(actor) {
		return nil, util.NewPermissionDenied("only staff can claim tickets")
	}
	if rec.Status != domain.TicketStatusOpen {
		return nil, util.NewConflict("ticket is not open")
	}

	if err := s.store.SetClaimedBy(ctx, threadID, actor.ID); err != nil {
		return nil, err
	}
	rec.ClaimedBy = &actor.ID

	s.notify(ctx, threadID, fmt.Sprintf("✅ Ticket claimed by <@%s>", actor.ID))
	s.publish(ctx, events.EventTicketClaimed, threadID, actor.ID, events.TicketClaimedPayload{ClaimedBy: actor.ID})
	return rec, nil
}

// Close archives the thread, marks the ticket closed and exports the
// transcript. A second close attempt on a closed ticket is rejected
// explicitly rather than silently re-archiving. Archival failure aborts
// before any store write.
func (s *LifecycleService) Close(ctx context.Context, actor domain.Actor, threadID, reason string) error {
	rec, err := s.store.GetByThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !s.guard.CanClose(actor, rec) {
		return util.NewPermissionDenied("only the ticket creator or staff can close this ticket")
	}
	if rec.Status != domain.TicketStatusOpen {
		return util.NewConflict("ticket already closed")
	}

	// Transcript is generated before archival; some platforms reject
	// history pagination on archived threads.
	doc, genErr := s.transcripts.Generate(ctx, threadID)

	if err := s.threads.Archive(ctx, threadID); err != nil {
		return util.NewPlatformError("could not archive ticket thread", err)
	}

	now := time.Now().UTC()
	if err := s.store.SetStatus(ctx, threadID, domain.TicketStatusClosed, &now); err != nil {
		return err
	}

	if genErr != nil {
		s.logger.Warn("could not generate transcript on close", zap.String("thread_id", threadID), zap.Error(genErr))
	} else {
		thread, err := s.threads.Thread(ctx, threadID)
		threadName := threadID
		if err == nil {
			threadName = thread.Name
		}
		if _, err := s.transcripts.Deliver(ctx, doc, threadName, threadID, actor.ID); err != nil {
			s.logger.Warn("could not deliver transcript on close", zap.String("thread_id", threadID), zap.Error(err))
		}
	}

	s.notify(ctx, threadID, "Ticket closed and archived.")
	s.publish(ctx, events.EventTicketClosed, threadID, actor.ID, events.TicketClosedPayload{Reason: reason})
	return nil
}

// ToggleLock flips the platform "locked" attribute and announces the new
// state in-thread. No store state is involved; lock is a thread attribute.
func (s *LifecycleService) ToggleLock(ctx context.Context, actor domain.Actor, threadID string) (bool, error) {
	if _, err := s.store.GetByThread(ctx, threadID); err != nil {
		return false, err
	}
	if !s.guard.CanLock(actor) {
		return false, util.NewPermissionDenied("only staff can lock or unlock tickets")
	}

	thread, err := s.threads.Thread(ctx, threadID)
	if err != nil {
		return false, util.NewPlatformError("could not load thread", err)
	}
	locked := !thread.Locked
	if err := s.threads.SetLocked(ctx, threadID, locked); err != nil {
		return false, util.NewPlatformError("could not change thread lock", err)
	}

	state := "unlocked"
	if locked {
		state = "locked"
	}
	s.notify(ctx, threadID, fmt.Sprintf("🔒 Ticket %s by <@%s>", state, actor.ID))
	s.publish(ctx, events.EventTicketLockToggled, threadID, actor.ID, events.TicketLockToggledPayload{Locked: locked})
	return locked, nil
}

// AddParticipant adds a user to the ticket thread. The operation is
// thread-scoped; the platform rejects it for non-threads.
func (s *LifecycleService) AddParticipant(ctx context.Context, actor domain.Actor, threadID, userID string) error {
	if !s.guard.CanAddParticipant(actor) {
		return util.NewPermissionDenied("only staff can add members")
	}
	if err := s.threads.AddMember(ctx, threadID, userID); err != nil {
		return util.NewPlatformError("could not add member to thread", err)
	}
	return nil
}

// RemoveParticipant removes a user from the ticket thread.
func (s *LifecycleService) RemoveParticipant(ctx context.Context, actor domain.Actor, threadID, userID string) error {
	if !s.guard.CanRemoveParticipant(actor) {
		return util.NewPermissionDenied("only staff can remove members")
	}
	if err := s.threads.RemoveMember(ctx, threadID, userID); err != nil {
		return util.NewPlatformError("could not remove member from thread", err)
	}
	return nil
}

// RequestDelete arms the delete-confirmation marker for the thread. The
// caller renders the confirm/cancel pair; the marker's TTL bounds how long
// that pair stays actionable.
func (s *LifecycleService) RequestDelete(ctx context.Context, actor domain.Actor, threadID string) error {
	rec, err := s.store.GetByThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !s.guard.CanDelete(actor) {
		return util.NewPermissionDenied("only staff can delete tickets")
	}
	if rec.Status == domain.TicketStatusDeleted {
		return util.NewConflict("ticket already deleted")
	}
	return s.confirmations.Arm(ctx, threadID, s.confirmTTL)
}

// ConfirmDelete executes the delete. Authorization is re-evaluated here,
// not trusted from RequestDelete: the staff role may have been revoked
// between the two steps. An expired marker makes the confirmation inert.
func (s *LifecycleService) ConfirmDelete(ctx context.Context, actor domain.Actor, threadID string) error {
	if !s.guard.CanDelete(actor) {
		return util.NewPermissionDenied("only staff can delete tickets")
	}
	armed, err := s.confirmations.Armed(ctx, threadID)
	if err != nil {
		return util.NewInternalError(err)
	}
	if !armed {
		return util.NewConflict("delete confirmation expired; open the admin panel again")
	}

	rec, err := s.store.GetByThread(ctx, threadID)
	if err != nil {
		return err
	}
	if rec.Status == domain.TicketStatusDeleted {
		return util.NewConflict("ticket already deleted")
	}

	if err := s.threads.Delete(ctx, threadID); err != nil {
		return util.NewPlatformError("could not delete ticket thread", err)
	}

	now := time.Now().UTC()
	if err := s.store.SetStatus(ctx, threadID, domain.TicketStatusDeleted, &now); err != nil {
		return err
	}
	if err := s.confirmations.Clear(ctx, threadID); err != nil {
		s.logger.Warn("could not clear delete confirmation", zap.String("thread_id", threadID), zap.Error(err))
	}

	s.publish(ctx, events.EventTicketDeleted, threadID, actor.ID, nil)
	return nil
}

// CancelDelete disarms the pending confirmation.
func (s *LifecycleService) CancelDelete(ctx context.Context, actor domain.Actor, threadID string) error {
	if !s.guard.CanDelete(actor) {
		return util.NewPermissionDenied("only staff can delete tickets")
	}
	return s.confirmations.Clear(ctx, threadID)
}

// notify posts a status line into the thread, best-effort.
func (s *LifecycleService) notify(ctx context.Context, threadID, content string) {
	if err := s.messages.Send(ctx, threadID, content); err != nil {
		s.logger.Warn("could not post thread notice", zap.String("thread_id", threadID), zap.Error(err))
	}
}

func (s *LifecycleService) publish(ctx context.Context, typ events.EventType, threadID, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      typ,
		ThreadID:  threadID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
