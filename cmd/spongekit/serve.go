package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rshade/spongekit/internal/presets"
	"github.com/rshade/spongekit/internal/scenario"
	"github.com/rshade/spongekit/internal/server"
	"github.com/rs/zerolog"
	"github.com/rshade/spongekit/internal/store"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var grpcAddr, metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scenario engine over gRPC with Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, grpcAddr, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", a.env.GRPCAddr, "gRPC listen address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", a.env.MetricsAddr, "metrics listen address; empty disables")
	return cmd
}

func (a *app) serve(ctx context.Context, grpcAddr, metricsAddr string) error {
	catalog, err := presets.NewCatalog(a.logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var builderOpts []scenario.Option
	if a.env.Workers > 0 {
		builderOpts = append(builderOpts, scenario.WithWorkers(a.env.Workers))
	}
	opts := []server.Option{
		server.WithMetrics(server.NewMetrics(reg)),
		server.WithBuilder(scenario.NewBuilder(a.logger, builderOpts...)),
	}

	if a.env.DatabaseURL != "" {
		if err := store.InitDB(ctx, a.env.DatabaseURL); err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer store.Close()

		repo := store.NewRunRepo(store.GetPool())
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, server.WithRunStore(repo))
		a.logger.Info().Msg("run storage enabled")
	}

	gs, hs := server.New(server.NewService(a.logger, catalog, opts...), a.logger)

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", grpcAddr, err)
	}

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			a.logger.Info().Str("addr", metricsAddr).Msg("Starting metrics endpoint")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", lis.Addr().String()).Str("version", version).Msg("Starting scenario service")
		serveErr <- gs.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		a.logger.Error().Err(err).Msg("scenario service stopped unexpectedly")
		stopServers(a.logger, hs, gs, metricsSrv)
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("Shutting down")
	stopServers(a.logger, hs, gs, metricsSrv)
	return nil
}

// stopServers marks the service unhealthy and stops the metrics endpoint and
// the gRPC server, forcing the gRPC stop once shutdownTimeout elapses.
func stopServers(logger zerolog.Logger, hs *health.Server, gs *grpc.Server, metricsSrv *http.Server) {
	hs.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}

	stopped := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		gs.Stop()
	}
}
