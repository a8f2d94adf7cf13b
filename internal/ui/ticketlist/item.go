package ticketlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/theme"
)

// TicketItem wraps a model.Ticket so it can be used in a bubbles/list.
type TicketItem struct {
	Ticket model.Ticket
}

// FilterValue returns the string used for fuzzy filtering.
func (i TicketItem) FilterValue() string { return i.Ticket.Title }

// Title returns the ticket title for the list.
func (i TicketItem) Title() string { return i.Ticket.Title }

// Description returns a short summary line for the list.
func (i TicketItem) Description() string {
	status := theme.StatusStyle(i.Ticket.Status).
		Render(strings.ReplaceAll(i.Ticket.Status, "_", " "))

	parts := []string{status}
	if i.Ticket.Priority != "" {
		parts = append(parts,
			theme.PriorityStyle(i.Ticket.Priority).Render(i.Ticket.Priority))
	}
	parts = append(parts, relativeTime(i.Ticket.CreatedAt))

	return strings.Join(parts, " | ")
}

// relativeTime formats t as a coarse "how long ago" string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
