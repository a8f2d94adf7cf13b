// Package session owns the current-user state and its persisted token.
// There is no backing account registry and no credential verification:
// the token is only a local "logged in" marker.
package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/clock"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/storage"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// Token derives the opaque session token from an email and an instant.
// Uniqueness within a session is sufficient; there is no cross-session
// collision guarantee.
func Token(email string, at time.Time) string {
	raw := fmt.Sprintf("%s:%d", email, at.UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Manager holds the active session and keeps the persisted token in sync
// with it. At most one session is active at a time.
type Manager struct {
	tokens storage.TokenStore
	clk    clock.Clock
	logger *zap.Logger
	user   *model.User
}

// NewManager constructs a manager, restoring a session from any persisted
// token. The token's authenticity is not verified (there is no server to
// ask), so the restored session carries the placeholder email.
func NewManager(ctx context.Context, tokens storage.TokenStore, clk clock.Clock, logger *zap.Logger) *Manager {
	m := &Manager{tokens: tokens, clk: clk, logger: logger}

	token, err := tokens.LoadToken(ctx)
	if err != nil {
		logger.Warn("restoring session", zap.Error(err))
		return m
	}
	if token != "" {
		m.user = &model.User{Email: model.PlaceholderEmail, Token: token}
	}
	return m
}

// Current returns the signed-in user, or nil when logged out.
func (m *Manager) Current() *model.User {
	return m.user
}

// Login establishes a session iff email is non-empty and the password is at
// least MinPasswordLen characters. On success it derives a fresh token,
// persists it, and returns true. On failure state is unchanged and it
// returns false; no further error detail is surfaced.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	if email == "" || len(password) < MinPasswordLen {
		return false
	}

	token := Token(email, m.clk.Now())
	if err := m.tokens.SaveToken(ctx, token); err != nil {
		// The in-memory session is still established; the user just will
		// not survive a restart.
		m.logger.Warn("persisting session token", zap.Error(err))
	}
	m.user = &model.User{Email: email, Token: token}
	m.logger.Info("session established", zap.String("email", email))
	return true
}

// Signup is behaviorally identical to Login: with no account registry there
// is nothing to distinguish a new account from an existing one.
func (m *Manager) Signup(ctx context.Context, email, password string) bool {
	return m.Login(ctx, email, password)
}

// Logout clears the in-memory session and removes the persisted token.
// Calling it while already logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.tokens.ClearToken(ctx); err != nil {
		m.logger.Warn("clearing session token", zap.Error(err))
	}
	if m.user != nil {
		m.logger.Info("session cleared", zap.String("email", m.user.Email))
	}
	m.user = nil
}
