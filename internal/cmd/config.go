package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thomaskoefod/newsadmin/internal/config"
)

// Config writes the effective configuration, defaults and environment
// overrides included, so it can be edited.
type Config struct {
	CommonOpts `no-flag:"true"`

	Output string `short:"o" long:"output" description:"where to write the config, defaults to the config path"`
	Force  bool   `short:"f" long:"force" description:"overwrite an existing file"`

	out io.Writer
}

// Execute runs the command.
func (c *Config) Execute(_ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	path := c.Output
	if path == "" {
		path = c.ConfigPath
	}

	if !c.Force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("check %s: %w", path, err)
		}
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "config written to %s\n", path)
	return nil
}
