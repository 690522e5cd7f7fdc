package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thomaskoefod/newsadmin/internal/admin"
	"github.com/thomaskoefod/newsadmin/internal/journal"
	"github.com/thomaskoefod/newsadmin/internal/tui"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// Run is a command to run the admin console.
type Run struct {
	CommonOpts `no-flag:"true"`

	Style string `long:"style" env:"NEWSADMIN_STYLE" default:"dark" description:"glamour style of the article view"`
}

// Execute runs the command.
func (r *Run) Execute(_ []string) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}

	// the console owns the terminal, so logs go to a file
	logFile, err := openLog(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()
	SetupLog(logFile, r.Debug, r.JSONLogs)

	lg := slog.Default()
	lg.Info("starting console", slog.String("version", r.Version), slog.String("backend", cfg.Server.BaseURL))

	cl, err := newClient(cfg, lg)
	if err != nil {
		return err
	}

	var rec admin.Recorder
	if !cfg.Journal.Disabled {
		j, err := journal.New(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				lg.Error("close journal", slog.Any("err", err))
			}
		}()
		rec = j
	}

	m := tui.New(
		admin.New[models.Article](admin.NewsSchema(cfg.Server.BaseURL), admin.NewsResource{Backend: cl}, admin.Options{
			Logger:   lg.With(slog.String("prefix", "news")),
			Timeout:  cfg.Server.Timeout,
			Recorder: rec,
		}),
		admin.New[models.User](admin.UserSchema(), admin.UserResource{Backend: cl, PageSize: cfg.UI.UsersPageSize}, admin.Options{
			Logger:   lg.With(slog.String("prefix", "users")),
			Timeout:  cfg.Server.Timeout,
			Recorder: rec,
		}),
		tui.NewRenderer(r.Style, cfg.UI.DetailCacheTTL),
		lg,
	)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}

	lg.Info("console stopped")
	return nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
