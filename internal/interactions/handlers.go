// Package interactions binds control tags to the lifecycle, provisioning
// and transcript operations. Handlers never cache ticket state between
// invocations: everything per-ticket is re-derived from the store through
// the services, which is what lets rendered controls outlive restarts.
package interactions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/auth"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/platform"
	"github.com/spec-kit/ticket-bot/internal/router"
	"github.com/spec-kit/ticket-bot/internal/service"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

// Handler owns the interaction handlers for every control tag.
type Handler struct {
	guard       auth.Guard
	provision   *service.ProvisionService
	lifecycle   *service.LifecycleService
	transcripts *service.TranscriptService
	composer    platform.Composer
	guild       platform.GuildService
	logger      *zap.Logger
}

// Dependencies bundles collaborators for the interaction handlers.
type Dependencies struct {
	Guard       auth.Guard
	Provision   *service.ProvisionService
	Lifecycle   *service.LifecycleService
	Transcripts *service.TranscriptService
	Composer    platform.Composer
	Guild       platform.GuildService
	Logger      *zap.Logger
}

// NewHandler constructs the handler set.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		guard:       deps.Guard,
		provision:   deps.Provision,
		lifecycle:   deps.Lifecycle,
		transcripts: deps.Transcripts,
		composer:    deps.Composer,
		guild:       deps.Guild,
		logger:      deps.Logger,
	}
}

// Register installs the full control-tag table. Called once at process
// start; the table is the only state the router needs to route controls
// rendered before any restart.
func (h *Handler) Register(r *router.Router) {
	r.Handle(router.TagTicketSelect, h.OpenTicket)
	r.Handle(router.TagTicketClose, h.CloseTicket)
	r.Handle(router.TagTicketClaim, h.ClaimTicket)
	r.Handle(router.TagTicketTranscript, h.Transcript)
	r.Handle(router.TagTicketLock, h.ToggleLock)
	r.Handle(router.TagTicketAdd, h.AddMember)
	r.Handle(router.TagTicketRemove, h.RemoveMember)
	r.Handle(router.TagTicketSetup, h.Setup)
	r.Handle(router.TagAdminPanel, h.AdminPanel)
	r.Handle(router.TagAdminDelete, h.RequestDelete)
	r.Handle(router.TagAdminDeleteConfirm, h.ConfirmDelete)
	r.Handle(router.TagAdminDeleteCancel, h.CancelDelete)
	r.Handle(router.TagAdminSetTranscript, h.OpenTranscriptModal)
	r.Handle(router.TagAdminTranscriptModal, h.SetTranscriptChannel)
}

// OpenTicket handles a category selection from the ticket menu.
func (h *Handler) OpenTicket(ctx context.Context, ic *router.Interaction) error {
	category, ok := domain.ParseCategory(ic.Value(0))
	if !ok {
		return util.NewConflict("unknown ticket category")
	}

	// Bulk staff additions are slow; defer before starting.
	h.ack(ctx, ic)

	res, err := h.provision.Provision(ctx, category, ic.Actor, ic.ChannelID)
	if err != nil {
		return err
	}

	h.reply(ctx, ic, "Ticket created", fmt.Sprintf("Your ticket has been created: <#%s>", res.Thread.ID))
	return nil
}

// CloseTicket archives and closes the ticket of the ambient thread.
func (h *Handler) CloseTicket(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	// Archival, transcript generation and delivery are slow.
	h.ack(ctx, ic)

	if err := h.lifecycle.Close(ctx, ic.Actor, ic.ChannelID, ic.Value(0)); err != nil {
		return err
	}
	h.reply(ctx, ic, "Closed", "Ticket closed and archived.")
	return nil
}

// ClaimTicket marks the ticket as claimed by the actor.
func (h *Handler) ClaimTicket(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	if _, err := h.lifecycle.Claim(ctx, ic.Actor, ic.ChannelID); err != nil {
		return err
	}
	h.reply(ctx, ic, "Ticket claimed", fmt.Sprintf("<@%s> has taken this ticket.", ic.Actor.ID))
	return nil
}

// Transcript generates and delivers the transcript on demand.
func (h *Handler) Transcript(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	h.ack(ctx, ic)

	dest, err := h.transcripts.Request(ctx, ic.Actor, ic.ChannelID)
	if err != nil {
		return err
	}
	if dest == service.DeliveredToChannel {
		h.reply(ctx, ic, "Posted", "Transcript posted to the configured transcript channel.")
	} else {
		h.reply(ctx, ic, "Sent", "Transcript sent to you via direct message.")
	}
	return nil
}

// ToggleLock flips the thread lock.
func (h *Handler) ToggleLock(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	locked, err := h.lifecycle.ToggleLock(ctx, ic.Actor, ic.ChannelID)
	if err != nil {
		return err
	}
	if locked {
		h.reply(ctx, ic, "Done", "Ticket locked.")
	} else {
		h.reply(ctx, ic, "Done", "Ticket unlocked.")
	}
	return nil
}

// AddMember adds the referenced member to the ticket thread.
func (h *Handler) AddMember(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	target := ic.Value(0)
	if target == "" {
		return util.NewConflict("no member provided")
	}
	if err := h.lifecycle.AddParticipant(ctx, ic.Actor, ic.ChannelID, target); err != nil {
		return err
	}
	h.reply(ctx, ic, "Added", fmt.Sprintf("<@%s> was added to the ticket.", target))
	return nil
}

// RemoveMember removes the referenced member from the ticket thread.
func (h *Handler) RemoveMember(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	target := ic.Value(0)
	if target == "" {
		return util.NewConflict("no member provided")
	}
	if err := h.lifecycle.RemoveParticipant(ctx, ic.Actor, ic.ChannelID, target); err != nil {
		return err
	}
	h.reply(ctx, ic, "Removed", fmt.Sprintf("<@%s> was removed from the ticket.", target))
	return nil
}

// Setup posts the ticket category menu into the referenced channel.
func (h *Handler) Setup(ctx context.Context, ic *router.Interaction) error {
	if !h.guard.IsStaff(ic.Actor) {
		return util.NewPermissionDenied("only staff can post the ticket menu")
	}
	channel, err := router.ResolveChannelRef(ctx, ic.Value(0), h.guild)
	if err != nil {
		return err
	}
	if err := h.composer.PostTicketMenu(ctx, channel.ID); err != nil {
		return util.NewPlatformError("could not post the ticket menu", err)
	}
	h.reply(ctx, ic, "Posted", fmt.Sprintf("Ticket menu posted in <#%s>.", channel.ID))
	return nil
}

// AdminPanel renders the staff panel for the ambient ticket thread.
func (h *Handler) AdminPanel(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	if !h.guard.CanOpenAdminPanel(ic.Actor) {
		return util.NewPermissionDenied("only staff can open the admin panel")
	}
	return ic.Responder.ShowAdminPanel(ctx)
}

// RequestDelete arms the delete confirmation and renders confirm/cancel.
func (h *Handler) RequestDelete(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	if err := h.lifecycle.RequestDelete(ctx, ic.Actor, ic.ChannelID); err != nil {
		return err
	}
	return ic.Responder.ShowDeleteConfirm(ctx)
}

// ConfirmDelete executes the armed delete.
func (h *Handler) ConfirmDelete(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	h.ack(ctx, ic)
	if err := h.lifecycle.ConfirmDelete(ctx, ic.Actor, ic.ChannelID); err != nil {
		return err
	}
	// The thread is gone; the ephemeral follow-up may be undeliverable.
	h.reply(ctx, ic, "Deleted", "Ticket thread deleted.")
	return nil
}

// CancelDelete disarms the pending delete.
func (h *Handler) CancelDelete(ctx context.Context, ic *router.Interaction) error {
	if err := requireThread(ic); err != nil {
		return err
	}
	if err := h.lifecycle.CancelDelete(ctx, ic.Actor, ic.ChannelID); err != nil {
		return err
	}
	h.reply(ctx, ic, "Canceled", "Deletion canceled.")
	return nil
}

// OpenTranscriptModal renders the set-transcript-channel modal. The modal
// must be the first response, so no ack here.
func (h *Handler) OpenTranscriptModal(ctx context.Context, ic *router.Interaction) error {
	if !h.guard.CanOpenAdminPanel(ic.Actor) {
		return util.NewPermissionDenied("only staff can change the transcript channel")
	}
	return ic.Responder.ShowTranscriptModal(ctx)
}

// SetTranscriptChannel parses the modal payload and stores the new default
// transcript destination.
func (h *Handler) SetTranscriptChannel(ctx context.Context, ic *router.Interaction) error {
	if !h.guard.CanOpenAdminPanel(ic.Actor) {
		return util.NewPermissionDenied("only staff can change the transcript channel")
	}
	channel, err := router.ResolveChannelRef(ctx, ic.Value(0), h.guild)
	if err != nil {
		return err
	}
	if err := h.transcripts.SetDestination(ctx, channel.ID); err != nil {
		return err
	}
	h.reply(ctx, ic, "Saved", fmt.Sprintf("Transcripts will be posted to <#%s>.", channel.ID))
	return nil
}

func requireThread(ic *router.Interaction) error {
	if !ic.IsThread {
		return util.NewConflict("this only works inside a ticket thread")
	}
	return nil
}

func (h *Handler) ack(ctx context.Context, ic *router.Interaction) {
	if err := ic.Responder.Ack(ctx); err != nil {
		h.logger.Warn("could not defer acknowledgment", zap.Error(err))
	}
}

func (h *Handler) reply(ctx context.Context, ic *router.Interaction, title, body string) {
	if err := ic.Responder.Reply(ctx, title, body); err != nil {
		h.logger.Warn("could not deliver acknowledgment", zap.Error(err))
	}
}
