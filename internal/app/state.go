package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/clock"
	"github.com/ticketdesk/ticketdesk/internal/credential"
	"github.com/ticketdesk/ticketdesk/internal/model"
	"github.com/ticketdesk/ticketdesk/internal/notify"
	"github.com/ticketdesk/ticketdesk/internal/session"
	"github.com/ticketdesk/ticketdesk/internal/storage"
	"github.com/ticketdesk/ticketdesk/internal/ticket"
)

// State is the long-lived application state container: session manager,
// ticket store, and toast channel. It is constructed exactly once, in main,
// and passed by reference to the views that need it; there is no ambient
// singleton to reach for.
type State struct {
	Config  *model.AppConfig
	Session *session.Manager
	Tickets *ticket.Store
	Toasts  *notify.Toaster
	Logger  *zap.Logger

	storage *storage.SQLiteStorage
}

// NewState opens durable storage and wires the container: any persisted
// session is restored and the ticket collection is loaded.
func NewState(ctx context.Context, cfg *model.AppConfig, logger *zap.Logger) (*State, error) {
	st, err := storage.NewSQLiteStorage(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	var tokens storage.TokenStore = st
	if cfg.Session.Backend == model.SessionBackendKeyring {
		tokens = credential.NewTokenStore()
	}

	clk := clock.NewSystem()
	sess := session.NewManager(ctx, tokens, clk, logger)

	tickets, err := ticket.NewStore(ctx, st, clk, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	toasts := notify.NewToaster(time.Duration(cfg.Display.ToastSec)*time.Second, nil)

	return &State{
		Config:  cfg,
		Session: sess,
		Tickets: tickets,
		Toasts:  toasts,
		Logger:  logger,
		storage: st,
	}, nil
}

// Close releases the container's resources.
func (s *State) Close() error {
	s.Toasts.Dismiss()
	return s.storage.Close()
}
