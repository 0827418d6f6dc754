package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/dashboard"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type WatchCmd struct {
	flags    *Flags
	interval string
	limit    int
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Poll the message list and reprint it on change",
		UsageText: "portfolio-admin watch [--interval 10s]",
		Description: `Runs the admin dashboard in the terminal. The current page is fetched
every --interval. Send SIGUSR1 to pause polling and SIGUSR2 to resume
with an immediate fetch.

If the credential is rejected, --fallback-token is tried once. When that
also fails polling stops until you log in again.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "interval",
				Usage:       "poll interval (e.g., 10s, 1m)",
				Value:       dashboard.DefaultInterval.String(),
				Destination: &cmd.interval,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Value:       10,
				Usage:       "messages per page",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	interval, err := time.ParseDuration(cmd.interval)
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	cred, err := cmd.flags.Credential()
	if err != nil && cmd.flags.FallbackToken == "" {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &renderer{out: c.Root().Writer}
	d := dashboard.New(cmd.flags.Client, dashboard.Config{
		Credential:         cred,
		FallbackCredential: cmd.flags.FallbackToken,
		Interval:           interval,
		Limit:              cmd.limit,
		OnChange:           r.render,
		Logger:             log.With().Str("component", "dashboard").Logger(),
	})

	visibility := make(chan os.Signal, 1)
	signal.Notify(visibility, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(visibility)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-visibility:
				d.SetVisible(sig == syscall.SIGUSR2)
			}
		}
	}()

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// renderer serializes snapshot output. OnChange fires from both the polling
// loop and the signal goroutine.
type renderer struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *renderer) render(s dashboard.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	render(r.out, s)
}

func render(out io.Writer, s dashboard.Snapshot) {
	switch s.State {
	case dashboard.StateLoading:
		return
	case dashboard.StateError:
		_, _ = fmt.Fprintf(out, "error: %s\n", s.Error)
		return
	}
	_, _ = fmt.Fprintf(out, "\n%s  %d unread", time.Now().Format("15:04:05"), s.UnreadCount())
	if !s.Polling {
		_, _ = fmt.Fprint(out, "  (paused)")
	}
	_, _ = fmt.Fprintln(out)
	printPage(out, s.Messages, s.Pagination)
}
