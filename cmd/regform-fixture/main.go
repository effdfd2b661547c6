// Registration Fixture Server
//
// This server stands in for the storefront's registration page so the suite
// can run against a local browser without grid credentials:
//
//	go run ./cmd/regform-fixture --addr :8080
//	go run ./cmd/regform run --backend local --target-url 'http://localhost:8080/index.php?route=account/register'
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thesyncim/regform/cmd/regform-fixture/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := server.DefaultConfig()
	cfg.Addr = ":8080"

	cmd := &cobra.Command{
		Use:          "regform-fixture",
		Short:        "Serve a local copy of the registration page",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	return cmd
}

func serve(ctx context.Context, cfg server.Config, log *zap.Logger) error {
	srv, err := server.NewServer(cfg, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	log.Info("registration fixture listening", zap.String("addr", addr), zap.String("url", srv.RegisterURL()))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
