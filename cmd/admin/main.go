package main

import (
	"context"
	"fmt"
	"os"

	"github.com/portfolio/backend/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func main() {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	app := commands.NewApp(&commands.Flags{}, fmt.Sprintf("%s (%s)", version, short))
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
