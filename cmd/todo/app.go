package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/internal/config"
	"github.com/ihower/todoapp/internal/logging"
	"github.com/ihower/todoapp/remote"
	"github.com/ihower/todoapp/sqlstore"
	"github.com/ihower/todoapp/todo"
	"github.com/spf13/cobra"
)

// logLevelAnnotation sets a command's default log level. Commands without
// it only log fatal errors unless --log-level or the config asks for more.
const logLevelAnnotation = "todo/log-level"

type app struct {
	cfg    *config.Config
	mode   config.Mode
	logger *log.Logger
}

var current *app

func loadApp(cmd *cobra.Command, args []string) error {
	dir := rootConfigDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("mode") {
		cfg.Backend.Mode = rootMode
	}
	mode, err := cfg.Mode()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:  resolveLogLevel(cmd, cfg),
		Format: cfg.Log.Format,
		Prefix: "todo",
	})
	if err != nil {
		return err
	}

	current = &app{cfg: cfg, mode: mode, logger: logger}
	return nil
}

func resolveLogLevel(cmd *cobra.Command, cfg *config.Config) string {
	if rootLogLevel != "" {
		return rootLogLevel
	}
	if cfg.Log.Level != "" {
		return cfg.Log.Level
	}
	if level, ok := cmd.Annotations[logLevelAnnotation]; ok {
		return level
	}
	return "fatal"
}

// openBackend builds the backend for the configured mode. The returned
// close function is never nil.
func (a *app) openBackend(ctx context.Context) (todo.Backend, func() error, error) {
	noop := func() error { return nil }

	switch a.mode {
	case config.ModeRemote:
		if a.cfg.Remote.URL == "" {
			return nil, noop, fmt.Errorf("remote mode requires a URL: set SUPABASE_URL or [remote] url")
		}
		client, err := remote.NewClient(remote.ClientOptions{
			URL:    a.cfg.Remote.URL,
			Key:    a.cfg.Remote.Key,
			Table:  a.cfg.Remote.Table,
			Logger: a.logger.WithPrefix("remote"),
		})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	case config.ModeSQL:
		if a.cfg.SQL.DSN == "" {
			return nil, noop, fmt.Errorf("sql mode requires [sql] dsn")
		}
		store, err := sqlstore.Open(ctx, sqlstore.Options{
			Driver: sqlstore.Driver(a.cfg.SQL.Driver),
			DSN:    a.cfg.SQL.DSN,
			Table:  a.cfg.SQL.Table,
		})
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return todo.NewSeededMemoryBackend(), noop, nil
	}
}

// openStore opens the backend and loads the list.
func (a *app) openStore(ctx context.Context) (*todo.Store, func() error, error) {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return nil, closeBackend, err
	}
	store, err := todo.NewStore(backend, todo.Options{Logger: a.logger})
	if err != nil {
		closeBackend()
		return nil, func() error { return nil }, err
	}
	if err := store.Load(ctx); err != nil {
		closeBackend()
		return nil, func() error { return nil }, err
	}
	return store, closeBackend, nil
}
