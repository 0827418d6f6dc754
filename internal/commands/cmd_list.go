package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/portfolio/backend/internal/model"
	"github.com/urfave/cli/v3"
)

type ListCmd struct {
	flags *Flags
	page  int
	limit int
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags) *ListCmd {
	return &ListCmd{flags: flags}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "list",
		Aliases:     []string{"ls"},
		Usage:       "List contact messages, newest first",
		UsageText:   "portfolio-admin list [--page N] [--limit N]",
		Description: "Displays one page of messages with their read and replied flags.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "page",
				Value:       model.DefaultPage,
				Usage:       "page number, starting at 1",
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Value:       model.DefaultLimit,
				Usage:       "messages per page (max 100)",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	cred, err := cmd.flags.Credential()
	if err != nil {
		return err
	}

	page, err := cmd.flags.Client.ListMessages(ctx, cred, cmd.page, cmd.limit)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	printPage(c.Root().Writer, page.Messages, &page.Pagination)
	return nil
}

func printPage(out io.Writer, msgs []*model.Message, p *model.Pagination) {
	if len(msgs) == 0 {
		_, _ = fmt.Fprintln(out, "No messages found")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tRECEIVED\tFROM\tSUBJECT\tREAD\tREPLIED")
		for _, m := range msgs {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s <%s>\t%s\t%s\t%s\n",
				m.ID,
				m.CreatedAt.Local().Format("2006-01-02 15:04"),
				m.Name, m.Email,
				m.Subject,
				yesNo(m.Read),
				yesNo(m.Replied),
			)
		}
		_ = w.Flush()
	}
	if p != nil {
		_, _ = fmt.Fprintf(out, "Page %d of %d (%d messages)\n", p.Page, max(p.TotalPages, 1), p.TotalCount)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
