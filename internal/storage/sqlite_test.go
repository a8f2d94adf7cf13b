package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk/ticketdesk/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func sampleTickets() []model.Ticket {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return []model.Ticket{
		{
			ID:        "t3",
			Title:     "Fix login bug",
			Status:    model.StatusOpen,
			Priority:  model.PriorityHigh,
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID:          "t2",
			Title:       "Add dark mode",
			Description: "Respect the terminal palette",
			Status:      model.StatusInProgress,
			Priority:    model.PriorityMedium,
			CreatedAt:   base.Add(time.Hour),
		},
		{
			ID:        "t1",
			Title:     "Update docs",
			Status:    model.StatusClosed,
			Priority:  model.PriorityLow,
			CreatedAt: base,
		},
	}
}

func TestTokenLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	token, err := s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "fresh storage must have no token")

	require.NoError(t, s.SaveToken(ctx, "dXNlckBleGFtcGxlLmNvbQ=="))

	token, err = s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dXNlckBleGFtcGxlLmNvbQ==", token)

	// A second save replaces the first.
	require.NoError(t, s.SaveToken(ctx, "second"))
	token, err = s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, s.ClearToken(ctx))
	token, err = s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an absent token is a no-op.
	require.NoError(t, s.ClearToken(ctx))
}

func TestLoadTicketsMissingKey(t *testing.T) {
	s := newTestStorage(t)

	tickets, err := s.LoadTickets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestTicketsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	want := sampleTickets()
	require.NoError(t, s.SaveTickets(ctx, want))

	got, err := s.LoadTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got, "tickets must round-trip exactly, order included")

	// Persisting the loaded collection again must not change it.
	require.NoError(t, s.SaveTickets(ctx, got))
	again, err := s.LoadTickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestSaveTicketsNilCollection(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTickets(ctx, nil))

	tickets, err := s.LoadTickets(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestLoadTicketsMalformedData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "truncated json", raw: `[{"id":"x"`},
		{name: "wrong shape", raw: `{"id":"x"}`},
		{name: "plain text", raw: "not json at all"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t)
			ctx := context.Background()

			require.NoError(t, s.setValue(ctx, KeyTickets, tc.raw))

			tickets, err := s.LoadTickets(ctx)
			require.NoError(t, err, "malformed data must degrade, not fail")
			assert.Empty(t, tickets)
		})
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	s := newTestStorage(t)

	// Re-running migrations on an up-to-date schema must be a no-op.
	require.NoError(t, s.runMigrations())

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, migrations[len(migrations)-1].version, version)
}
