package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thomaskoefod/newsadmin/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Server.Timeout)
	require.Equal(t, "/api/admin/news/", cfg.Endpoints.NewsList)
	require.Equal(t, "/news/update/{id}/", cfg.Endpoints.NewsUpdate)
	require.Equal(t, "/news/delete/{id}/", cfg.Endpoints.NewsDelete)
	require.Equal(t, "/api/admin/users/", cfg.Endpoints.Users)
	require.Equal(t, 20, cfg.UI.UsersPageSize)
	require.Equal(t, 10*time.Minute, cfg.UI.DetailCacheTTL)
	require.Equal(t, filepath.Join(home, ".local/share/newsadmin/journal.db"), cfg.Journal.Path)
	require.Equal(t, filepath.Join(home, ".local/state/newsadmin/newsadmin.log"), cfg.Log.Path)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  base_url: https://news.example.com/
  timeout: 5s
  session_id: abc
endpoints:
  news_update: /api/admin/news/{id}/
  news_delete: /api/admin/news/{id}/
ui:
  users_page_size: 7
journal:
  path: /tmp/j.db
`), 0o600))

	t.Setenv("NEWSADMIN_CSRF_TOKEN", "tok")
	t.Setenv("NEWSADMIN_USERS_PAGE_SIZE", "9")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://news.example.com", cfg.Server.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Server.Timeout)
	require.Equal(t, "abc", cfg.Server.SessionID)
	require.Equal(t, "tok", cfg.Server.CSRFToken)
	require.Equal(t, "/api/admin/news/{id}/", cfg.Endpoints.NewsUpdate)
	require.Equal(t, "/api/admin/news/", cfg.Endpoints.NewsList)
	require.Equal(t, 9, cfg.UI.UsersPageSize)
	require.Equal(t, "/tmp/j.db", cfg.Journal.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "relative base url", body: "server:\n  base_url: localhost\n"},
		{name: "update without id", body: "endpoints:\n  news_update: /news/update/\n"},
		{name: "delete without id", body: "endpoints:\n  news_delete: /news/delete/\n"},
		{name: "negative page size", body: "ui:\n  users_page_size: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := config.Load(path)
			require.Error(t, err)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	cfg.Server.BaseURL = "http://admin.local:9000"
	cfg.Journal.Disabled = true

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
