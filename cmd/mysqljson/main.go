// Command mysqljson inspects MySQL json column mappings.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/mysqljson/internal/cli"
)

func main() {
	level := slog.LevelWarn
	if os.Getenv("MYSQLJSON_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
