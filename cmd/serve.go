package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"regdraft/internal/log"
	"regdraft/internal/osfapi"
	"regdraft/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mock registry API server",
	Long: `Run a local registry API server backed by scenario fixtures and a
SQLite draft store. Draft edits survive restarts; editing the fixtures
file reloads schemas, nodes and files without one.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("fixtures", "", "scenario fixtures YAML (default: built-in scenario)")
	serveCmd.Flags().String("db", "", "sqlite draft store path")

	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.fixtures", serveCmd.Flags().Lookup("fixtures"))
	_ = viper.BindPFlag("serve.db", serveCmd.Flags().Lookup("db"))
}

func runServe(_ *cobra.Command, _ []string) error {
	cleanup, err := initLogging("regdraft-serve")
	if err != nil {
		return err
	}
	defer cleanup()

	scenario := osfapi.DefaultScenario()
	if cfg.Serve.Fixtures != "" {
		scenario, err = osfapi.LoadScenario(cfg.Serve.Fixtures)
		if err != nil {
			return fmt.Errorf("loading fixtures: %w", err)
		}
	}

	store, err := osfapi.OpenStore(cfg.Serve.DB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	srv, err := osfapi.NewServer(scenario, store)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	drafts, err := store.ListDrafts()
	if err != nil {
		return fmt.Errorf("reading draft store: %w", err)
	}
	fmt.Fprintf(os.Stderr, "draft store holds %d draft(s)\n", len(drafts))

	// Live-reload fixtures on edit.
	var w *watcher.Watcher
	if cfg.Serve.Fixtures != "" {
		w, err = watcher.New(watcher.DefaultConfig(cfg.Serve.Fixtures))
		if err != nil {
			return fmt.Errorf("creating fixtures watcher: %w", err)
		}
		onChange, err := w.Start()
		if err != nil {
			return fmt.Errorf("watching fixtures: %w", err)
		}
		defer func() { _ = w.Stop() }()

		go func() {
			for range onChange {
				next, err := osfapi.LoadScenario(cfg.Serve.Fixtures)
				if err != nil {
					log.ErrorErr(log.CatWatcher, "fixtures reload failed", err, "path", cfg.Serve.Fixtures)
					continue
				}
				if err := srv.SetScenario(next); err != nil {
					log.ErrorErr(log.CatWatcher, "scenario swap failed", err)
				}
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "regdraft mock registry listening on %s\n", cfg.Serve.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		log.Info(log.CatAPI, "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
