package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ticketdesk/ticketdesk/internal/app"
	"github.com/ticketdesk/ticketdesk/internal/model"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath()), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting", zap.String("version", version), zap.String("db", cfg.DBPath()))

	state, err := app.NewState(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer state.Close()

	p := tea.NewProgram(app.New(state), tea.WithAltScreen())

	// The toast auto-clear fires on a timer goroutine; wake the UI so the
	// cleared slot is repainted.
	state.Toasts.SetOnChange(func() {
		p.Send(app.ToastChangedMsg{})
	})

	if _, err := p.Run(); err != nil {
		logger.Error("ui error", zap.Error(err))
		return fmt.Errorf("running ui: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newLogger builds a file-backed logger; stdout belongs to the TUI.
func newLogger(cfg *model.AppConfig) (*zap.Logger, error) {
	logPath := filepath.Join(filepath.Dir(cfg.DBPath()), "ticketdesk.log")

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{logPath}
	zcfg.ErrorOutputPaths = []string{logPath}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
