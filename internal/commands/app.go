package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/portfolio/backend/internal/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// NewApp builds the portfolio-admin command tree.
func NewApp(flags *Flags, version string) *cli.Command {
	app := &cli.Command{
		Name:      "portfolio-admin",
		Usage:     "Review contact messages sent through the portfolio site",
		UsageText: "portfolio-admin [global options] command [command options]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("PORTFOLIO_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "base URL of the portfolio API",
				Sources:     cli.EnvVars("PORTFOLIO_API_URL"),
				Value:       "http://localhost:8080",
				Destination: &flags.APIURL,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "admin bearer credential (overrides the saved login)",
				Sources:     cli.EnvVars("PORTFOLIO_ADMIN_TOKEN"),
				Destination: &flags.Token,
			},
			&cli.StringFlag{
				Name:        "fallback-token",
				Usage:       "credential retried once when the current one is rejected",
				Sources:     cli.EnvVars("PORTFOLIO_FALLBACK_TOKEN"),
				Destination: &flags.FallbackToken,
			},
			&cli.StringFlag{
				Name:        "token-file",
				Usage:       "where login stores the session token",
				Sources:     cli.EnvVars("PORTFOLIO_TOKEN_FILE"),
				Value:       DefaultTokenPath(),
				Destination: &flags.TokenFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := setupLogger(flags.LogLevel, c.Root().ErrWriter); err != nil {
				return ctx, err
			}
			if flags.Client == nil {
				flags.Client = client.New(flags.APIURL)
			}
			return ctx, nil
		},
	}

	app = NewLoginCmd(flags).Register(app)
	app = NewContactCmd(flags).Register(app)
	app = NewListCmd(flags).Register(app)
	app = NewMarkCmd(flags).Register(app)
	app = NewDeleteCmd(flags).Register(app)
	app = NewWatchCmd(flags).Register(app)

	return app
}

func setupLogger(level string, w io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	if w == nil {
		w = io.Discard
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w}).Level(parsedLevel)
	return nil
}
