package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agenthands/ledger/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline and serve the read-only query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.pipeline(cmd.Context())
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:              ":" + a.cfg.Server.Port,
			Handler:           server.NewServer(res, a.logger).SetupRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info().Str("port", a.cfg.Server.Port).Str("run_id", res.RunID).Msg("starting server")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	},
}
