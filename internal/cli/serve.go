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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"lessontictactoe/internal/config"
	"lessontictactoe/internal/server"
	"lessontictactoe/internal/store"
)

const shutdownTimeout = 5 * time.Second

func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve game sessions to a graphical front-end",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`serve exposes game sessions over gRPC and a REST gateway
			so that a touch front-end can drive them. Each session
			keeps its own board, scores and turn countdown.

			Ports and the countdown length are read from the config
			file and TICTACTOE_* environment variables; the flags
			below take precedence.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flag("grpc-port").Changed {
				cfg.GRPCPort, _ = cmd.Flags().GetInt("grpc-port")
			}
			if cmd.Flag("http-port").Changed {
				cfg.HTTPPort, _ = cmd.Flags().GetInt("http-port")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().Int("grpc-port", 50051, "The gRPC server port")
	cmd.Flags().Int("http-port", 8080, "The HTTP/REST server port")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if !cmd.Flag("trace").Changed {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log-level %q: %w", cfg.LogLevel, err)
		}
		logrus.SetLevel(level)
	}

	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	sessions := store.NewSessionStore(cfg.Shards)
	tallies := store.NewTallyStore(cfg.Shards)

	sessionServer := server.NewSessionServer(sessions, tallies, server.Options{
		TurnSeconds:  cfg.TurnSeconds,
		TickInterval: time.Second,
		Logger:       logrus.StandardLogger(),
	})
	defer sessionServer.Shutdown()

	grpcServer := grpc.NewServer()
	sessionServer.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	handler, err := server.NewGateway(sessionServer)
	if err != nil {
		return fmt.Errorf("failed to register gateway: %w", err)
	}

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: handler,
	}

	errCh := make(chan error, 2)

	go func() {
		logrus.Infof("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(grpcListener); err != nil {
			errCh <- fmt.Errorf("failed to serve gRPC: %w", err)
		}
	}()

	go func() {
		logrus.Infof("HTTP/REST server listening on %s", httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	// Handle graceful shutdown
	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	logrus.Info("Shutting down servers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	httpServer.Shutdown(shutdownCtx)
	sessionServer.Shutdown()
	grpcServer.GracefulStop()
	logrus.Info("Servers stopped")

	return serveErr
}
