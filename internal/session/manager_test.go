package session_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/clock"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/session"
	"github.com/ticketdesk/ticketdesk/tests/testutil"
)

var testInstant = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	st := testutil.NewTestStorage(t)
	clk := clock.NewFixed(testInstant)
	return session.NewManager(context.Background(), st, clk, zap.NewNop())
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{name: "valid credentials", email: "user@example.com", password: "secret1", want: true},
		{name: "password exactly six chars", email: "user@example.com", password: "123456", want: true},
		{name: "password too short", email: "user@example.com", password: "12345", want: false},
		{name: "empty password", email: "user@example.com", password: "", want: false},
		{name: "empty email", email: "", password: "longenough", want: false},
		{name: "both empty", email: "", password: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := testutil.NewTestStorage(t)
			m := session.NewManager(context.Background(), st, clock.NewFixed(testInstant), zap.NewNop())

			got := m.Login(context.Background(), tc.email, tc.password)
			assert.Equal(t, tc.want, got)

			if tc.want {
				require.NotNil(t, m.Current())
				assert.Equal(t, tc.email, m.Current().Email)
				assert.NotEmpty(t, m.Current().Token)

				token, err := st.LoadToken(context.Background())
				require.NoError(t, err)
				assert.Equal(t, m.Current().Token, token, "token must be persisted")
			} else {
				assert.Nil(t, m.Current(), "failed login must not establish a session")

				token, err := st.LoadToken(context.Background())
				require.NoError(t, err)
				assert.Empty(t, token)
			}
		})
	}
}

func TestSignupBehavesLikeLogin(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	assert.False(t, m.Signup(ctx, "", "longenough"))
	assert.False(t, m.Signup(ctx, "new@example.com", "short"))
	assert.True(t, m.Signup(ctx, "new@example.com", "longenough"))
	require.NotNil(t, m.Current())
	assert.Equal(t, "new@example.com", m.Current().Email)
}

func TestLogoutClearsTokenAndIsIdempotent(t *testing.T) {
	st := testutil.NewTestStorage(t)
	ctx := context.Background()
	m := session.NewManager(ctx, st, clock.NewFixed(testInstant), zap.NewNop())

	require.True(t, m.Login(ctx, "user@example.com", "secret1"))

	m.Logout(ctx)
	assert.Nil(t, m.Current())

	token, err := st.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// Logging out twice is equivalent to once.
	m.Logout(ctx)
	assert.Nil(t, m.Current())
}

func TestSessionRestoredFromPersistedToken(t *testing.T) {
	st := testutil.NewTestStorage(t)
	ctx := context.Background()

	first := session.NewManager(ctx, st, clock.NewFixed(testInstant), zap.NewNop())
	require.True(t, first.Login(ctx, "alice@example.com", "secret1"))
	token := first.Current().Token

	// A fresh manager over the same storage restores the session, but with
	// the placeholder email: the token carries no verifiable identity.
	second := session.NewManager(ctx, st, clock.NewFixed(testInstant), zap.NewNop())
	require.NotNil(t, second.Current())
	assert.Equal(t, model.PlaceholderEmail, second.Current().Email)
	assert.Equal(t, token, second.Current().Token)
}

func TestNoSessionWithoutToken(t *testing.T) {
	m := newTestManager(t)
	assert.Nil(t, m.Current())
}

func TestTokenEncodesEmailAndInstant(t *testing.T) {
	token := session.Token("alice@example.com", testInstant)

	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com:1741944413000", string(decoded))
}
