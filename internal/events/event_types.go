package events

import (
	"time"

	"github.com/spec-kit/ticket-bot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened        EventType = "ticket_opened"
	EventTicketClaimed       EventType = "ticket_claimed"
	EventTicketClosed        EventType = "ticket_closed"
	EventTicketLockToggled   EventType = "ticket_lock_toggled"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTranscriptDelivered EventType = "transcript_delivered"
)

// Event represents a lifecycle event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	ThreadID  string      `json:"thread_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketOpenedPayload payload.
type TicketOpenedPayload struct {
	Category        domain.Category `json:"category"`
	CreatorUserID   string          `json:"creator_user_id"`
	StaffAdded      int             `json:"staff_added"`
	StaffAddFailed  int             `json:"staff_add_failed"`
	FallbackMention bool            `json:"fallback_mention"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	ClaimedBy string `json:"claimed_by"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	Reason string `json:"reason,omitempty"`
}

// TicketLockToggledPayload payload.
type TicketLockToggledPayload struct {
	Locked bool `json:"locked"`
}

// TranscriptDeliveredPayload payload.
type TranscriptDeliveredPayload struct {
	Destination string `json:"destination"`
}
