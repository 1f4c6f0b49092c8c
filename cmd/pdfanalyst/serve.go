package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/pdf-analyst/internal/export"
	"github.com/joseph-ayodele/pdf-analyst/internal/server"
	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

const sessionIdle = 12 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8501)")
	serveCmd.Flags().String("grpc-health-addr", "", "optional gRPC health listen address")
	_ = viper.BindPFlag("server.listen_addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("grpc.health_addr", serveCmd.Flags().Lookup("grpc-health-addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	inputs := initialInputs(cfg)
	store := server.NewMemoryStore(func() session.State { return ctrl.NewState(inputs) })
	h := server.NewHandler(store, ctrl, export.NewService(logger), server.Info{
		Model:     cfg.LLM.Model,
		Backend:   cfg.Recorder.Backend,
		PageLimit: cfg.Extract.PageLimit,
		Version:   version,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           server.NewRouter(h, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute, // uploads
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http.server.starting", "addr", cfg.Server.ListenAddr, "model", cfg.LLM.Model, "recorder", cfg.Recorder.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.GRPC.HealthAddr != "" {
		go func() {
			if err := server.ServeHealth(ctx, cfg.GRPC.HealthAddr, logger); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := store.Sweep(sessionIdle); n > 0 {
					logger.Info("session.sweep", "removed", n, "live", store.Len())
				}
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
		stop()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http.server.shutdown_error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
