package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/handler"
	"github.com/fakhrymubarak/weather-dashboard/internal/middleware"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ln, err := net.Listen("tcp", ":"+port)
			if err != nil {
				return fmt.Errorf("listen on port %s: %w", port, err)
			}
			return serve(ctx, a.dashboard, ln)
		},
	}
	cmd.Flags().StringVar(&port, "port", config.GetServerPort(), "port to listen on")
	return cmd
}

func newServer(d *dashboard.Dashboard) *http.Server {
	routes := handler.NewDashboardHandler(d).Routes()
	return &http.Server{
		Handler:           middleware.RequestLogger(config.GetLogger())(routes),
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 30*time.Second),
	}
}

// serve mounts the dashboard in the background and serves it on ln until
// ctx is cancelled, then shuts the server down gracefully.
func serve(ctx context.Context, d *dashboard.Dashboard, ln net.Listener) error {
	logger := config.GetLogger()
	srv := newServer(d)

	go func() {
		if err := d.Mount(ctx); err != nil {
			logger.Warnw("Initial dashboard load incomplete", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Starting dashboard server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infow("Shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetServerTimeoutDuration("shutdown_timeout", 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Infow("Shutdown complete")
	return nil
}
