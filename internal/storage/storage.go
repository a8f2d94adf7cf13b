package storage

import (
	"context"

	"github.com/ticketdesk/ticketdesk/internal/model"
)

// Durable storage keys.
const (
	KeySession = "ticketapp_session"
	KeyTickets = "tickets"
)

// TokenStore persists the opaque session token. Absence of a token is the
// initial state, not an error: LoadToken returns the empty string.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Storage is the persistence surface for the application: the session
// token plus the serialized ticket collection. It holds no state of its
// own beyond the underlying store.
type Storage interface {
	TokenStore

	// LoadTickets returns the persisted collection in stored order.
	// A missing or malformed record loads as an empty collection.
	LoadTickets(ctx context.Context) ([]model.Ticket, error)

	// SaveTickets replaces the persisted collection.
	SaveTickets(ctx context.Context, tickets []model.Ticket) error
}
