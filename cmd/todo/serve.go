package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ihower/todoapp/internal/config"
	"github.com/ihower/todoapp/remote"
	"github.com/ihower/todoapp/todo"
	"github.com/ihower/todoapp/web"
	"github.com/spf13/cobra"
)

// todo web
var webCmd = &cobra.Command{
	Use:         "web",
	Short:       "Serve the todo list as a web page",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{logLevelAnnotation: "info"},
	RunE:        runWeb,
}

var webAddr string

// todo serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API that remote mode talks to",
	Long: `Serve the REST API that remote mode talks to, backed by the local
sample list or, with --mode sql, by the configured database. The web page
is served on the same address.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{logLevelAnnotation: "info"},
	RunE:        runServe,
}

var (
	serveAddr string
	serveKey  string
)

const webShutdownTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(webCmd, serveCmd)

	webCmd.Flags().StringVar(&webAddr, "addr", "", "Listen address or port (default from [server] port)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address or port (default from [server] port)")
	serveCmd.Flags().StringVar(&serveKey, "key", "", "Require this apikey (default from [remote] key)")
}

func runWeb(cmd *cobra.Command, args []string) error {
	addr, err := remote.ResolveAddr(webAddr, current.cfg.Server.Port)
	if err != nil {
		return err
	}
	store, closeStore, err := current.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := web.NewHandler(web.Options{Store: store, Logger: current.logger})
	if err != nil {
		return err
	}
	return listenAndServe(cmd.Context(), addr, handler, current.logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	if current.mode == config.ModeRemote {
		return fmt.Errorf("serve needs a local or sql backend, not %s", current.mode)
	}
	addr, err := remote.ResolveAddr(serveAddr, current.cfg.Server.Port)
	if err != nil {
		return err
	}

	backend, closeBackend, err := current.openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBackend()

	store, err := todo.NewStore(backend, todo.Options{Logger: current.logger})
	if err != nil {
		return err
	}
	if err := store.Load(cmd.Context()); err != nil {
		return err
	}
	pages, err := web.NewHandler(web.Options{Store: store, Logger: current.logger})
	if err != nil {
		return err
	}

	key := serveKey
	if !cmd.Flags().Changed("key") {
		key = current.cfg.Remote.Key
	}
	server, err := remote.NewServer(remote.ServerOptions{
		Backend: backend,
		Table:   current.cfg.Remote.Table,
		Key:     key,
		Pages:   pages,
		Logger:  current.logger.WithPrefix("remote"),
	})
	if err != nil {
		return err
	}
	return server.Serve(cmd.Context(), addr)
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  handler,
		ErrorLog: logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	logger.Info("serving web page", "addr", "http://"+addr)

	select {
	case err := <-listenErrs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
		defer cancel()
		shutdownErr := server.Shutdown(shutdownCtx)
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}
