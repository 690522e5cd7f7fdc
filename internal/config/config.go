package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// IDPlaceholder marks where an entity identifier goes in an endpoint template.
const IDPlaceholder = "{id}"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	UI        UIConfig        `yaml:"ui"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	BaseURL   string        `yaml:"base_url" env:"NEWSADMIN_BASE_URL" env-default:"http://localhost:8000"`
	Timeout   time.Duration `yaml:"timeout" env:"NEWSADMIN_TIMEOUT" env-default:"15s"`
	SessionID string        `yaml:"session_id" env:"NEWSADMIN_SESSION_ID"`
	CSRFToken string        `yaml:"csrf_token" env:"NEWSADMIN_CSRF_TOKEN"`
}

// EndpointsConfig is the per-entity endpoint table. Update and delete
// templates for news carry the {id} placeholder; the users endpoint takes
// the identifier in the request body.
type EndpointsConfig struct {
	NewsList   string `yaml:"news_list" env:"NEWSADMIN_NEWS_LIST" env-default:"/api/admin/news/"`
	NewsUpdate string `yaml:"news_update" env:"NEWSADMIN_NEWS_UPDATE" env-default:"/news/update/{id}/"`
	NewsDelete string `yaml:"news_delete" env:"NEWSADMIN_NEWS_DELETE" env-default:"/news/delete/{id}/"`
	Users      string `yaml:"users" env:"NEWSADMIN_USERS" env-default:"/api/admin/users/"`
}

type UIConfig struct {
	UsersPageSize  int           `yaml:"users_page_size" env:"NEWSADMIN_USERS_PAGE_SIZE" env-default:"20"`
	DetailCacheTTL time.Duration `yaml:"detail_cache_ttl" env:"NEWSADMIN_DETAIL_CACHE_TTL" env-default:"10m"`
}

type JournalConfig struct {
	Disabled bool   `yaml:"disabled" env:"NEWSADMIN_JOURNAL_DISABLED"`
	Path     string `yaml:"path" env:"NEWSADMIN_JOURNAL_PATH" env-default:"~/.local/share/newsadmin/journal.db"`
}

type LogConfig struct {
	Path string `yaml:"path" env:"NEWSADMIN_LOG_PATH" env-default:"~/.local/state/newsadmin/newsadmin.log"`
}

// Load reads configuration from file, applying environment overrides and
// defaults. A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	cfg.Journal.Path = expandPath(cfg.Journal.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that defaults cannot fix.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	for name, tmpl := range map[string]string{
		"endpoints.news_update": c.Endpoints.NewsUpdate,
		"endpoints.news_delete": c.Endpoints.NewsDelete,
	} {
		if !strings.Contains(tmpl, IDPlaceholder) {
			return fmt.Errorf("%s must contain %s, got %q", name, IDPlaceholder, tmpl)
		}
	}
	if c.Endpoints.NewsList == "" || c.Endpoints.Users == "" {
		return fmt.Errorf("endpoints.news_list and endpoints.users cannot be empty")
	}

	if c.UI.UsersPageSize <= 0 {
		return fmt.Errorf("ui.users_page_size must be positive")
	}
	if !c.Journal.Disabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path cannot be empty unless the journal is disabled")
	}

	return nil
}

// Save writes configuration to file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// the file may hold a session cookie
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "newsadmin", "config.yaml")
}
