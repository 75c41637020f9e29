package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer svc.close()

		addr := svc.cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		opts := []httpapi.Option{
			httpapi.WithLogger(svc.logger),
			httpapi.WithRecorder(svc.events),
			httpapi.WithHealthCheck("sqlite", svc.store.Ping),
		}
		if svc.remote != nil {
			opts = append(opts, httpapi.WithHealthCheck("postgres", func(context.Context) error {
				return svc.remote.Health()
			}))
		}
		api := httpapi.NewServer(svc.bank, svc.tracker, opts...)
		server := &http.Server{
			Addr:         addr,
			Handler:      api,
			ReadTimeout:  svc.cfg.Server.ReadTimeout,
			WriteTimeout: svc.cfg.Server.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			svc.logger.Info("starting HTTP server",
				zap.String("addr", addr),
				zap.Int("questions", svc.bank.Len()))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		svc.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides KUBIKA_ADDR, default :8080)")
}
