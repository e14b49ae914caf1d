// Package main implements the todo CLI tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/ihower/todoapp/remote"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), remote.ShutdownSignals()...)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Keep a todo list in memory, a hosted table, or a SQL database",
	Long: `Keep a todo list in memory, a hosted table, or a SQL database.

The backend is chosen by --mode, or by [backend] mode in todoapp.toml.
Local mode starts from a sample list every run and keeps changes only
for the life of the process.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadApp,
}

var (
	rootMode      string
	rootLogLevel  string
	rootConfigDir string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootMode, "mode", "", "Backend: local, remote, or sql (default from config, else local)")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	flags.StringVar(&rootConfigDir, "dir", "", "Directory holding todoapp.toml (default: current directory)")
}
