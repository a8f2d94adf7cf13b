package ticket_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/clock"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/storage"
	"github.com/ticketdesk/ticketdesk/internal/ticket"
	"github.com/ticketdesk/ticketdesk/tests/testutil"
)

var testInstant = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestStore(t *testing.T) (*ticket.Store, *storage.SQLiteStorage) {
	t.Helper()
	st := testutil.NewTestStorage(t)
	s, err := ticket.NewStore(context.Background(), st, clock.NewFixed(testInstant), zap.NewNop())
	require.NoError(t, err)
	return s, st
}

func strPtr(s string) *string { return &s }

func TestCreatePrependsAndDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, model.TicketDraft{Title: "First"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, model.StatusOpen, first.Status)
	assert.Equal(t, model.PriorityMedium, first.Priority)
	assert.Equal(t, testInstant, first.CreatedAt)

	second, err := s.Create(ctx, model.TicketDraft{Title: "Second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest ticket must be at the front")
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCreateThenUpdateScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.TicketDraft{
		Title:    "Fix login bug",
		Status:   model.StatusOpen,
		Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, model.StatusOpen, created.Status)
	assert.Equal(t, model.PriorityHigh, created.Priority)

	found, err := s.Update(ctx, created.ID, model.TicketPatch{
		Status: strPtr(model.StatusClosed),
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusClosed, got.Status)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, created.Title, got.Title, "unpatched fields stay untouched")
	assert.Equal(t, created.Priority, got.Priority)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, model.TicketDraft{Title: "Keep me"})
	require.NoError(t, err)
	before := s.List()

	found, err := s.Update(ctx, "nonexistent-id", model.TicketPatch{
		Title: strPtr("changed"),
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, s.List(), "collection must be unchanged")
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, model.TicketDraft{Title: "A"})
	require.NoError(t, err)
	b, err := s.Create(ctx, model.TicketDraft{Title: "B"})
	require.NoError(t, err)

	found, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, found)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID, "exactly the deleted id must be gone")

	found, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, found, "deleting an absent id reports false")
	assert.Len(t, s.List(), 1)
}

func TestMutationsPersistAcrossReload(t *testing.T) {
	s, st := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, model.TicketDraft{Title: "Older"})
	require.NoError(t, err)
	newer, err := s.Create(ctx, model.TicketDraft{
		Title:       "Newer",
		Description: "with details",
		Status:      model.StatusInProgress,
		Priority:    model.PriorityLow,
	})
	require.NoError(t, err)

	reloaded, err := ticket.NewStore(ctx, st, clock.NewFixed(testInstant), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, s.List(), reloaded.List(), "reload must preserve fields and order")
	got, ok := reloaded.Get(newer.ID)
	require.True(t, ok)
	assert.Equal(t, "with details", got.Description)
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.TicketDraft{Title: "Original"})
	require.NoError(t, err)

	list := s.List()
	list[0].Title = "mutated by caller"

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Original", got.Title)
}

func TestStatusCounts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, status := range []string{
		model.StatusOpen, model.StatusOpen,
		model.StatusInProgress,
		model.StatusClosed,
	} {
		_, err := s.Create(ctx, model.TicketDraft{Title: "t", Status: status})
		require.NoError(t, err)
	}

	counts := s.StatusCounts()
	assert.Equal(t, 2, counts[model.StatusOpen])
	assert.Equal(t, 1, counts[model.StatusInProgress])
	assert.Equal(t, 1, counts[model.StatusClosed])
}
