package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/handler"
	"github.com/greatchat/onboarding/backend/service"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the onboarding HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

// serve runs the server until ctx is cancelled, then drains requests and
// stops every pending timer.
func serve(ctx context.Context, cfg *config.Config) error {
	drafts, documents, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	seed, err := service.DefaultSeed()
	if err != nil {
		return fmt.Errorf("failed to load seed fixtures: %w", err)
	}

	workspaces := service.NewWorkspaceRegistry(service.RegistryOptions{
		Config:    cfg,
		Drafts:    drafts,
		Documents: documents,
		Seed:      seed,
	})
	sessionScope := service.NewScope(context.Background())
	sessions := service.NewSessionService(drafts, cfg.Users, sessionScope, cfg.Onboarding.ResetDelay, workspaces)
	defer func() {
		sessionScope.Close()
		workspaces.CloseAll()
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.NewRouter(cfg, sessions, workspaces),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "minio", cfg.Minio.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}
