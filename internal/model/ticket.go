package model

import "time"

// Ticket status constants.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// Ticket priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Ticket is a single support work item. ID and CreatedAt are assigned at
// creation and never change afterwards.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TicketDraft holds the caller-supplied fields for creating a ticket.
// Title validation is the caller's responsibility; the store accepts the
// draft as-is.
type TicketDraft struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TicketPatch holds optional field overrides for a partial update.
// Nil fields are left untouched.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// Statuses lists the valid ticket statuses in display order.
func Statuses() []string {
	return []string{StatusOpen, StatusInProgress, StatusClosed}
}

// Priorities lists the valid ticket priorities in display order.
func Priorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh}
}
