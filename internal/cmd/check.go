package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/thomaskoefod/newsadmin/internal/admin"
	"github.com/thomaskoefod/newsadmin/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Check fetches the first news page and the user list to verify the backend
// configuration.
type Check struct {
	CommonOpts `no-flag:"true"`

	out io.Writer
}

// Execute runs the command.
func (c *Check) Execute(_ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	cl, err := newClient(cfg, slog.Default())
	if err != nil {
		return err
	}

	return c.check(context.Background(), cl, cfg.Server.Timeout)
}

type checkBackend interface {
	admin.NewsBackend
	admin.UserBackend
}

func (c *Check) check(ctx context.Context, cl checkBackend, timeout time.Duration) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		news  models.NewsPage
		users []models.User
	)

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() (err error) {
		if news, err = cl.ListNews(ctx, models.Filter{}, 1); err != nil {
			return fmt.Errorf("list news: %w", err)
		}
		return nil
	})
	ewg.Go(func() (err error) {
		if users, err = cl.ListUsers(ctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})

	if err := ewg.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "news: %d articles on page 1 of %d\n", len(news.News), max(news.TotalPages, 1))
	fmt.Fprintf(out, "users: %d accounts\n", len(users))
	return nil
}
