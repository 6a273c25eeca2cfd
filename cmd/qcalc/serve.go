package main

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

	"github.com/kobzarvs/qcalc/internal/app"
	"github.com/kobzarvs/qcalc/internal/logger"
	"github.com/kobzarvs/qcalc/internal/metrics"
	"github.com/kobzarvs/qcalc/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve calculator sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
			addr = flag
		}

		store, err := app.OpenStore(cmd.Context(), cfg.Session)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		srv := &http.Server{
			Addr: addr,
			Handler: server.New(store, metrics.New(), server.Options{
				Engine:       engineConfig(cfg.Calculator),
				HistoryLimit: cfg.Calculator.HistoryLimit,
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server starting", "addr", addr, "store", cfg.Session.Store)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-shutdown:
			logger.Info("server shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown failed", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
