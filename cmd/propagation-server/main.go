// Command propagation-server serves one simulation session over gRPC, with
// Prometheus metrics on a separate HTTP listener.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/hf-propagation-sim/internal/api"
	"github.com/signalsfoundry/hf-propagation-sim/internal/config"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logging.NewFromEnv().Error(ctx, "failed to load configuration", logging.Err(err))
		os.Exit(1)
	}

	grpcAddr := flag.String("grpc-addr", cfg.GRPCAddr, "TCP address the gRPC server listens on")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "HTTP address for Prometheus /metrics (empty disables)")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.Parse()
	cfg.GRPCAddr = *grpcAddr
	cfg.MetricsAddr = *metricsAddr
	cfg.LogLevel = *logLevel

	log := logging.New(cfg.Logging())

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.GRPCAddr), logging.Err(err))
		os.Exit(1)
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(stopCtx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves until ctx is done, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logging.Logger, lis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	apiCollector, err := observability.NewAPICollector(reg)
	if err != nil {
		return err
	}
	propCollector, err := observability.NewPropagationCollector(reg)
	if err != nil {
		return err
	}

	// Session time follows the wall clock in one-minute ticks.
	clock := timectrl.NewTimeController(time.Now().UTC().Truncate(time.Minute), time.Minute, timectrl.RealTime)
	clockCtx, stopClock := context.WithCancel(ctx)
	clockDone := clock.Start(clockCtx, 0)
	defer func() {
		stopClock()
		<-clockDone
	}()
	session := state.NewSimulationState(log,
		state.WithClock(clock),
		state.WithActivityLevel(cfg.Activity()),
		state.WithStation(propagation.Station{AntennaID: cfg.DefaultAntenna, PowerID: cfg.DefaultPower}),
		state.WithMetricsRecorder(propCollector),
	)

	metricsSrv := serveMetrics(ctx, cfg.MetricsAddr, apiCollector, log)

	server := api.NewServer(api.NewPropagationService(session, log), log, apiCollector)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(lis)
	}()
	log.Info(ctx, "serving PropagationService",
		logging.String("addr", lis.Addr().String()),
		logging.String("activity", cfg.ActivityLevel),
		logging.Time("sim_time", session.Now()),
	)

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	log.Info(context.Background(), "shutting down")
	server.GracefulStop()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, collector *observability.APICollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(ctx, "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
