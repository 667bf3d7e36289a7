package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/davidbz/semcache/internal/config"
	"github.com/davidbz/semcache/internal/dashboard"
	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/history"
	"github.com/davidbz/semcache/internal/http"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	defaultDashboardLogFile = "semcache.log"
	shutdownTimeout         = 10 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "semcache",
		Short:         "Semantic response cache in front of a language model",
		Long:          "Reuse stored answers for queries that mean the same thing, and call the answer provider only for new ones.",
		RunE:          runDashboard,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Float64("threshold", 0, "override ENGINE_THRESHOLD")
	cmd.PersistentFlags().String("backend", "", "override VECTOR_STORE_BACKEND (memory, redis, qdrant, sqlite)")

	cmd.AddCommand(newDashboardCmd(), newServeCmd())
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Run the interactive terminal dashboard",
		RunE:  runDashboard,
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cache over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "override SERVER_PORT")
	return cmd
}

// flagOverrides turns explicitly set flags into configuration overrides.
func flagOverrides(cmd *cobra.Command) []func(*config.Config) {
	var overrides []func(*config.Config)

	if flag := cmd.Flags().Lookup("threshold"); flag != nil && flag.Changed {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		overrides = append(overrides, func(cfg *config.Config) { cfg.Engine.Threshold = threshold })
	}
	if flag := cmd.Flags().Lookup("backend"); flag != nil && flag.Changed {
		backend, _ := cmd.Flags().GetString("backend")
		overrides = append(overrides, func(cfg *config.Config) { cfg.VectorStore.Backend = backend })
	}
	if flag := cmd.Flags().Lookup("port"); flag != nil && flag.Changed {
		port, _ := cmd.Flags().GetInt("port")
		overrides = append(overrides, func(cfg *config.Config) { cfg.Server.Port = port })
	}

	return overrides
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to a file so they do not tear through the terminal UI.
	overrides := append(flagOverrides(cmd), func(cfg *config.Config) {
		if cfg.Logger.File == "" {
			cfg.Logger.File = defaultDashboardLogFile
		}
	})

	container, err := buildContainer(overrides...)
	if err != nil {
		return err
	}
	defer closeResources(container)

	return invoke(container, func(engine *domain.Engine, recorder *history.Recorder, cfg *dashboard.Config) error {
		if err := engine.Reset(ctx); err != nil {
			return fmt.Errorf("failed to prepare cache: %w", err)
		}
		return dashboard.Run(ctx, engine, recorder, *cfg)
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := buildContainer(flagOverrides(cmd)...)
	if err != nil {
		return err
	}
	defer closeResources(container)

	return invoke(container, func(engine *domain.Engine, server *http.Server) error {
		if err := engine.Reset(ctx); err != nil {
			return fmt.Errorf("failed to prepare cache: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}

// invoke runs fn inside the container and unwraps dig's error chain so the
// user sees the root cause.
func invoke(container *dig.Container, fn interface{}) error {
	if err := container.Invoke(fn); err != nil {
		return dig.RootCause(err)
	}
	return nil
}

func closeResources(container *dig.Container) {
	_ = container.Invoke(func(c *closers) {
		if err := c.closeAll(); err != nil {
			observability.FromContext(context.Background()).Warn("failed to close resources", observability.Error(err))
		}
	})
}
