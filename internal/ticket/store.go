// Package ticket holds the in-memory ticket collection and mirrors every
// mutation to durable storage.
package ticket

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/clock"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/storage"
)

// Store owns the ordered ticket collection, newest first. It performs no
// field validation; that belongs to the caller. All mutations persist the
// full collection synchronously.
type Store struct {
	storage storage.Storage
	clk     clock.Clock
	logger  *zap.Logger
	tickets []model.Ticket
}

// NewStore constructs a store seeded from the persisted collection.
func NewStore(ctx context.Context, st storage.Storage, clk clock.Clock, logger *zap.Logger) (*Store, error) {
	tickets, err := st.LoadTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tickets: %w", err)
	}
	return &Store{
		storage: st,
		clk:     clk,
		logger:  logger,
		tickets: tickets,
	}, nil
}

// List returns a copy of the collection, newest first.
func (s *Store) List() []model.Ticket {
	out := make([]model.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Get returns the ticket with the given id, if present.
func (s *Store) Get(id string) (model.Ticket, bool) {
	for _, t := range s.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}

// StatusCounts returns the number of tickets per status.
func (s *Store) StatusCounts() map[string]int {
	counts := make(map[string]int, 3)
	for _, t := range s.tickets {
		counts[t.Status]++
	}
	return counts
}

// Create assigns a fresh id and creation timestamp, prepends the ticket to
// the collection, and persists. Status defaults to open and priority to
// medium when unset. The created ticket is returned even when persistence
// fails; the in-memory collection is authoritative for the session.
func (s *Store) Create(ctx context.Context, draft model.TicketDraft) (model.Ticket, error) {
	t := model.Ticket{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		CreatedAt:   s.clk.Now(),
	}
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}

	s.tickets = append([]model.Ticket{t}, s.tickets...)
	return t, s.persist(ctx)
}

// Update merges the non-nil patch fields into the ticket matching id,
// leaving ID and CreatedAt untouched, and persists. It reports whether a
// matching ticket was found; an unknown id is a no-op.
func (s *Store) Update(ctx context.Context, id string, patch model.TicketPatch) (bool, error) {
	for i := range s.tickets {
		if s.tickets[i].ID != id {
			continue
		}
		if patch.Title != nil {
			s.tickets[i].Title = *patch.Title
		}
		if patch.Description != nil {
			s.tickets[i].Description = *patch.Description
		}
		if patch.Status != nil {
			s.tickets[i].Status = *patch.Status
		}
		if patch.Priority != nil {
			s.tickets[i].Priority = *patch.Priority
		}
		return true, s.persist(ctx)
	}
	return false, nil
}

// Delete removes the ticket matching id, if present, and persists. It
// reports whether a removal occurred.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	for i := range s.tickets {
		if s.tickets[i].ID != id {
			continue
		}
		s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
		return true, s.persist(ctx)
	}
	return false, nil
}

// persist writes the full collection to durable storage.
func (s *Store) persist(ctx context.Context) error {
	if err := s.storage.SaveTickets(ctx, s.tickets); err != nil {
		s.logger.Warn("persisting tickets", zap.Error(err))
		return fmt.Errorf("persisting tickets: %w", err)
	}
	return nil
}
