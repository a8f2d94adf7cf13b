package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/app"
	"github.com/ticketdesk/ticketdesk/internal/model"
)

func testConfig(t *testing.T) *model.AppConfig {
	t.Helper()
	return &model.AppConfig{
		Storage: model.StorageConfig{Path: filepath.Join(t.TempDir(), "ticketdesk.db")},
		Session: model.SessionConfig{Backend: model.SessionBackendStore},
		Display: model.DisplayConfig{Theme: "default", ToastSec: 3},
	}
}

func TestStateLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	state, err := app.NewState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, state.Session.Current(), "fresh state starts logged out")
	assert.Empty(t, state.Tickets.List())

	require.True(t, state.Session.Login(ctx, "user@example.com", "secret1"))
	created, err := state.Tickets.Create(ctx, model.TicketDraft{
		Title:    "Fix login bug",
		Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	require.NoError(t, state.Close())

	// Reopening the same database restores both the session and the
	// ticket collection.
	reopened, err := app.NewState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	require.NotNil(t, reopened.Session.Current())
	assert.Equal(t, model.PlaceholderEmail, reopened.Session.Current().Email)

	list := reopened.Tickets.List()
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestStateLogoutDoesNotSurviveReopen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	state, err := app.NewState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, state.Session.Login(ctx, "user@example.com", "secret1"))
	state.Session.Logout(ctx)
	require.NoError(t, state.Close())

	reopened, err := app.NewState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	assert.Nil(t, reopened.Session.Current())
}
