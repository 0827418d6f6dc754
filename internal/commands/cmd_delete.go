package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/portfolio/backend/internal/client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type DeleteCmd struct {
	flags *Flags
}

// NewDeleteCmd creates a new delete command
func NewDeleteCmd(flags *Flags) *DeleteCmd {
	return &DeleteCmd{flags: flags}
}

// Register adds the delete command to the application
func (cmd *DeleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete one or more messages",
		UsageText: "portfolio-admin delete <message-id>...",
		Description: `Deletes each message in turn. A message that is already gone is
reported and skipped rather than treated as a failure.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *DeleteCmd) run(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one message id is required")
	}
	cred, err := cmd.flags.Credential()
	if err != nil {
		return err
	}

	out := c.Root().Writer
	for _, id := range ids {
		err := cmd.flags.Client.DeleteMessage(ctx, cred, id)
		switch {
		case errors.Is(err, client.ErrNotFound):
			log.Warn().Str("message_id", id).Msg("message already gone")
			_, _ = fmt.Fprintf(out, "Message %s not found, skipped\n", id)
		case err != nil:
			return fmt.Errorf("delete message %s: %w", id, err)
		default:
			_, _ = fmt.Fprintf(out, "Message %s deleted\n", id)
		}
	}
	return nil
}
