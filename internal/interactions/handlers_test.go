package interactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/auth"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/internal/router"
	"github.com/spec-kit/ticket-bot/pkg/util"
)

type stubResponder struct {
	acks    int
	replies int
	panels  int
	modals  int
}

func (s *stubResponder) Ack(context.Context) error                      { s.acks++; return nil }
func (s *stubResponder) Reply(context.Context, string, string) error    { s.replies++; return nil }
func (s *stubResponder) ReplyError(context.Context, *util.DomainError) error { return nil }
func (s *stubResponder) ShowAdminPanel(context.Context) error           { s.panels++; return nil }
func (s *stubResponder) ShowDeleteConfirm(context.Context) error        { return nil }
func (s *stubResponder) ShowTranscriptModal(context.Context) error      { s.modals++; return nil }

func newTestHandler() *Handler {
	return NewHandler(Dependencies{
		Guard:  auth.NewGuard("role-staff"),
		Logger: zap.NewNop(),
	})
}

func interactionIn(channelID string, isThread bool, actor domain.Actor, values ...string) (*router.Interaction, *stubResponder) {
	resp := &stubResponder{}
	return &router.Interaction{
		Actor:     actor,
		ChannelID: channelID,
		IsThread:  isThread,
		Values:    values,
		Responder: resp,
	}, resp
}

func TestRegisterCoversAllControlTags(t *testing.T) {
	r := router.New(zap.NewNop(), observability.NewMetrics())
	newTestHandler().Register(r)

	want := []string{
		router.TagTicketSelect,
		router.TagTicketClose,
		router.TagTicketClaim,
		router.TagTicketTranscript,
		router.TagTicketLock,
		router.TagTicketAdd,
		router.TagTicketRemove,
		router.TagTicketSetup,
		router.TagAdminPanel,
		router.TagAdminDelete,
		router.TagAdminDeleteConfirm,
		router.TagAdminDeleteCancel,
		router.TagAdminSetTranscript,
		router.TagAdminTranscriptModal,
	}
	assert.ElementsMatch(t, want, r.Tags())
}

func TestOpenTicketRejectsUnknownCategory(t *testing.T) {
	h := newTestHandler()
	ic, resp := interactionIn("channel-1", false, domain.Actor{ID: "user-1"}, "billing")

	err := h.OpenTicket(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeConflict))
	assert.Zero(t, resp.acks)
}

func TestThreadScopedControlsOutsideThread(t *testing.T) {
	h := newTestHandler()
	staff := domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}

	handlers := map[string]router.HandlerFunc{
		"close":          h.CloseTicket,
		"claim":          h.ClaimTicket,
		"transcript":     h.Transcript,
		"lock":           h.ToggleLock,
		"add":            h.AddMember,
		"remove":         h.RemoveMember,
		"admin panel":    h.AdminPanel,
		"request delete": h.RequestDelete,
		"confirm delete": h.ConfirmDelete,
		"cancel delete":  h.CancelDelete,
	}

	for name, fn := range handlers {
		t.Run(name, func(t *testing.T) {
			ic, _ := interactionIn("channel-1", false, staff, "x")
			err := fn(context.Background(), ic)
			require.Error(t, err)
			assert.True(t, util.IsCode(err, util.CodeConflict))
		})
	}
}

func TestSetupDeniedForNonStaff(t *testing.T) {
	h := newTestHandler()
	ic, _ := interactionIn("channel-1", false, domain.Actor{ID: "user-1"}, "support")

	err := h.Setup(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodePermissionDenied))
}

func TestAdminPanelRendersForStaff(t *testing.T) {
	h := newTestHandler()
	staff := domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}
	ic, resp := interactionIn("thread-1", true, staff)

	require.NoError(t, h.AdminPanel(context.Background(), ic))
	assert.Equal(t, 1, resp.panels)
}

func TestAdminPanelDeniedForNonStaff(t *testing.T) {
	h := newTestHandler()
	ic, resp := interactionIn("thread-1", true, domain.Actor{ID: "user-1"})

	err := h.AdminPanel(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodePermissionDenied))
	assert.Zero(t, resp.panels)
}

func TestTranscriptModalGatedAndUnacked(t *testing.T) {
	h := newTestHandler()
	staff := domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}

	ic, resp := interactionIn("channel-1", false, staff)
	require.NoError(t, h.OpenTranscriptModal(context.Background(), ic))
	// The modal must be the first response; a prior ack would break it.
	assert.Zero(t, resp.acks)
	assert.Equal(t, 1, resp.modals)

	ic, _ = interactionIn("channel-1", false, domain.Actor{ID: "user-1"})
	err := h.OpenTranscriptModal(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodePermissionDenied))
}

func TestMemberControlsRequireTarget(t *testing.T) {
	h := newTestHandler()
	staff := domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}

	ic, _ := interactionIn("thread-1", true, staff)
	err := h.AddMember(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeConflict))

	ic, _ = interactionIn("thread-1", true, staff)
	err = h.RemoveMember(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeConflict))
}
