package main

import (
	"github.com/ihower/todoapp/internal/todotui"
	"github.com/ihower/todoapp/todo"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive todo list",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	backend, closeBackend, err := current.openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBackend()

	store, err := todo.NewStore(backend, todo.Options{Logger: current.logger})
	if err != nil {
		return err
	}
	return todotui.Run(cmd.Context(), store)
}
