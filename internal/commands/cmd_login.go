package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type LoginCmd struct {
	flags    *Flags
	username string
	password string
}

// NewLoginCmd creates a new login command
func NewLoginCmd(flags *Flags) *LoginCmd {
	return &LoginCmd{flags: flags}
}

// Register adds the login command to the application
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "login",
		Usage:     "Exchange the admin username and password for a session token",
		UsageText: "portfolio-admin login --username <name> --password <secret>",
		Description: `Creates an admin session and saves its token to --token-file.
Later commands use the saved token unless --token is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "admin username",
				Sources:     cli.EnvVars("PORTFOLIO_ADMIN_USERNAME"),
				Required:    true,
				Destination: &cmd.username,
			},
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Usage:       "admin password",
				Sources:     cli.EnvVars("PORTFOLIO_ADMIN_PASSWORD"),
				Required:    true,
				Destination: &cmd.password,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LoginCmd) run(ctx context.Context, c *cli.Command) error {
	session, err := cmd.flags.Client.CreateSession(ctx, cmd.username, cmd.password)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := cmd.flags.SaveToken(session.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	log.Debug().Str("file", cmd.flags.TokenFile).Msg("session token saved")
	_, _ = fmt.Fprintf(c.Root().Writer, "Logged in, session valid until %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
