package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/thomaskoefod/newsadmin/internal/journal"
)

// Journal prints the most recent mutations issued from the console.
type Journal struct {
	CommonOpts `no-flag:"true"`

	Limit int `short:"n" long:"limit" default:"20" description:"number of entries to print"`

	out io.Writer
}

// Execute runs the command.
func (j *Journal) Execute(_ []string) error {
	cfg, err := j.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Disabled {
		return fmt.Errorf("journal is disabled in %s", j.ConfigPath)
	}

	db, err := journal.New(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	return j.print(context.Background(), db)
}

func (j *Journal) print(ctx context.Context, db *journal.DB) error {
	out := j.out
	if out == nil {
		out = os.Stdout
	}

	entries, err := db.Recent(ctx, j.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no mutations recorded")
		return nil
	}

	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed: " + e.Error
		}
		id := e.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(out, "%s  %-14s  %-6s %-6s %-12s %s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), humanize.Time(e.At), e.Entity, e.Action, id, result)
	}
	return nil
}
