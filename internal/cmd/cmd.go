// Package cmd contains commands for the application.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/thomaskoefod/newsadmin/internal/api"
	"github.com/thomaskoefod/newsadmin/internal/config"
)

// CommonOpts are the global options every command gets.
type CommonOpts struct {
	ConfigPath string
	Debug      bool
	JSONLogs   bool
	Version    string
}

// SetCommon sets the global options.
func (c *CommonOpts) SetCommon(opts CommonOpts) { *c = opts }

// SetupLog makes the default logger write to w.
func SetupLog(w io.Writer, debug, json bool) {
	handler := &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}

	if debug {
		handler.Level = slog.LevelDebug
		handler.AddSource = true
	}

	if json {
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, handler)))
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, handler)))
}

func (c CommonOpts) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", c.ConfigPath, err)
	}
	return cfg, nil
}

func newClient(cfg *config.Config, lg *slog.Logger) (*api.Client, error) {
	cl, err := api.NewClient(api.Options{
		BaseURL:   cfg.Server.BaseURL,
		Timeout:   cfg.Server.Timeout,
		SessionID: cfg.Server.SessionID,
		CSRFToken: cfg.Server.CSRFToken,
		Endpoints: api.Endpoints{
			NewsList:   cfg.Endpoints.NewsList,
			NewsUpdate: cfg.Endpoints.NewsUpdate,
			NewsDelete: cfg.Endpoints.NewsDelete,
			Users:      cfg.Endpoints.Users,
		},
		Logger: lg.With(slog.String("prefix", "api")),
	})
	if err != nil {
		return nil, fmt.Errorf("make api client: %w", err)
	}
	return cl, nil
}
