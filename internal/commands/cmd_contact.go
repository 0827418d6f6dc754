package commands

import (
	"context"
	"fmt"

	"github.com/portfolio/backend/internal/client"
	"github.com/urfave/cli/v3"
)

type ContactCmd struct {
	flags *Flags
	form  client.ContactForm
}

// NewContactCmd creates a new contact command
func NewContactCmd(flags *Flags) *ContactCmd {
	return &ContactCmd{flags: flags}
}

// Register adds the contact command to the application
func (cmd *ContactCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "contact",
		Usage:     "Send a message through the public contact form",
		UsageText: "portfolio-admin contact --name <name> --email <email> --subject <subject> --message <text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "sender name", Destination: &cmd.form.Name},
			&cli.StringFlag{Name: "email", Usage: "sender email", Destination: &cmd.form.Email},
			&cli.StringFlag{Name: "subject", Usage: "message subject", Destination: &cmd.form.Subject},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "message body", Destination: &cmd.form.Message},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ContactCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := cmd.flags.Client.SubmitContact(ctx, cmd.form)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Message sent successfully! (id %s)\n", id)
	return nil
}
