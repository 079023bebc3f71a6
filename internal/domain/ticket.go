package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Status only moves
// forward: open -> closed -> deleted, or open -> deleted for administrative
// deletes. Claim and lock are orthogonal attributes, not statuses.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusClosed  TicketStatus = "closed"
	TicketStatusDeleted TicketStatus = "deleted"
)

// Category is the reason code chosen when a ticket is opened.
type Category string

const (
	CategoryPurchase Category = "purchase"
	CategoryStaff    Category = "staff"
	CategoryOther    Category = "other"
)

// Categories lists the selectable reason codes in menu order.
func Categories() []Category {
	return []Category{CategoryPurchase, CategoryStaff, CategoryOther}
}

// ParseCategory validates a raw reason code.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryPurchase, CategoryStaff, CategoryOther:
		return Category(raw), true
	}
	return "", false
}

// Label returns the human-readable menu label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryPurchase:
		return "Purchase Items"
	case CategoryStaff:
		return "Staff Help"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// Description returns the menu description for the category.
func (c Category) Description() string {
	switch c {
	case CategoryPurchase:
		return "Buy any item in our market!"
	case CategoryStaff:
		return "Reach staff about your questions and concerns!"
	case CategoryOther:
		return "All other questions or requests"
	}
	return ""
}

// TicketRecord is the durable record for one support ticket. ThreadID is the
// natural external key: every lifecycle operation looks tickets up by the
// thread the interaction fired in.
type TicketRecord struct {
	ID            int64
	ThreadID      string
	ChannelID     string
	CreatorUserID string
	Category      Category
	Status        TicketStatus
	ClaimedBy     *string
	CreatedAt     time.Time
	ClosedAt      *time.Time
}
