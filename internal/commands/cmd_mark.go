package commands

import (
	"context"
	"fmt"

	"github.com/portfolio/backend/internal/model"
	"github.com/urfave/cli/v3"
)

// MarkCmd registers the read, unread, replied and unreplied commands.
type MarkCmd struct {
	flags *Flags
}

// NewMarkCmd creates the flag-toggling commands
func NewMarkCmd(flags *Flags) *MarkCmd {
	return &MarkCmd{flags: flags}
}

// Register adds the flag-toggling commands to the application
func (cmd *MarkCmd) Register(app *cli.Command) *cli.Command {
	yes, no := true, false
	app.Commands = append(app.Commands,
		cmd.command("read", "Mark a message as read", model.MessageUpdate{Read: &yes}),
		cmd.command("unread", "Mark a message as unread", model.MessageUpdate{Read: &no}),
		cmd.command("replied", "Mark a message as replied", model.MessageUpdate{Replied: &yes}),
		cmd.command("unreplied", "Mark a message as not replied", model.MessageUpdate{Replied: &no}),
	)
	return app
}

func (cmd *MarkCmd) command(name, usage string, upd model.MessageUpdate) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		UsageText: "portfolio-admin " + name + " <message-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("message id is required")
			}
			cred, err := cmd.flags.Credential()
			if err != nil {
				return err
			}
			if err := cmd.flags.Client.UpdateMessage(ctx, cred, id, upd); err != nil {
				return fmt.Errorf("update message %s: %w", id, err)
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "Message %s marked %s\n", id, name)
			return nil
		},
	}
}
