package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snishimura/agentdeck/internal/app"
	"github.com/snishimura/agentdeck/internal/domain"
	"github.com/snishimura/agentdeck/internal/infra/config"
	"github.com/snishimura/agentdeck/internal/infra/httpapi"
	"github.com/snishimura/agentdeck/internal/usecase"
)

const shutdownGrace = 5 * time.Second

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	var configPath string
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server",
		Long: `Starts the HTTP API, the WebSocket push channel, and the background
poll loops that keep board state and remote workers in sync.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			container, err := app.New(cfg)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), container, seedPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agentdeck.toml", "Path to the config file")
	cmd.Flags().StringVar(&seedPath, "projects", "projects.yaml", "Path to the optional project seed file")
	return cmd
}

// runServer wires the API, the push hub, and the poll loops, then serves
// until interrupted.
func runServer(parent context.Context, c *app.Container, seedPath string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedProjects(ctx, c, seedPath); err != nil {
		return err
	}

	api := httpapi.New(
		c.CreateTaskUseCase(),
		c.UpdateTaskUseCase(),
		c.DeleteTaskUseCase(),
		c.ListTasksUseCase(),
		c.RespawnWorkerUseCase(),
		c.CreateProjectUseCase(),
		c.UpdateProjectUseCase(),
		c.DeleteProjectUseCase(),
		c.ListProjectsUseCase(),
		c.Tasks,
		c.Hub,
		c.Logger,
	)

	go func() {
		if err := c.MonitorWorkersUseCase().Run(ctx); err != nil {
			c.Logger.Error("worker monitor stopped", "error", err)
		}
	}()
	go func() {
		if err := c.StreamLogsUseCase().Run(ctx); err != nil {
			c.Logger.Error("log streamer stopped", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              c.Config.Listen,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", c.Config.Listen)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// seedProjects registers the repositories listed in the seed file. Already
// registered paths are skipped silently; anything else is logged and skipped
// so one bad entry does not prevent startup.
func seedProjects(ctx context.Context, c *app.Container, seedPath string) error {
	seeds, err := config.LoadProjectSeed(seedPath)
	if err != nil {
		return err
	}

	create := c.CreateProjectUseCase()
	for _, seed := range seeds {
		_, err := create.Execute(ctx, usecase.CreateProjectInput{
			Path: seed.Path,
			Name: seed.Name,
		})
		if err != nil && !errors.Is(err, domain.ErrProjectExists) {
			c.Logger.Warn("seed project failed", "path", seed.Path, "error", err)
		}
	}
	return nil
}
