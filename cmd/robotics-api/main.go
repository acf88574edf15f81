// Package main provides the entry point for the robotics API service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nekazari/nkz-module-robotics/internal/config"
	"github.com/nekazari/nkz-module-robotics/internal/health"
	"github.com/nekazari/nkz-module-robotics/internal/logging"
	"github.com/nekazari/nkz-module-robotics/internal/metrics"
	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"github.com/nekazari/nkz-module-robotics/internal/server"
	"github.com/nekazari/nkz-module-robotics/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var version = "1.0.0"

const startupCheckTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger := logging.Must(config.LoggingConfig{})
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger := logging.Must(cfg.Logging)
	defer logger.Sync()

	logger.Info("starting Robotics Module API",
		zap.String("version", version),
		zap.Int("server_port", cfg.Server.Port),
		zap.Strings("router_endpoints", cfg.Generator.RouterEndpoints),
		zap.Duration("watchdog_timeout", cfg.Generator.WatchdogTimeout),
	)

	generator, err := robotconfig.NewGenerator(cfg.Policy(), nil)
	if err != nil {
		logger.Fatal("failed to create config generator", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checkers := openSharedServices(ctx, cfg, logger)
	defer func() {
		for _, c := range checkers {
			closeChecker(c)
		}
	}()

	healthCheck := health.NewHealthCheck(version, logger, checkers...)

	var m *metrics.Metrics
	var metricsServer *metrics.MetricsServer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(reg)
		healthCheck.OnChange(m.SetHealthStatus)
		metricsServer = metrics.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, reg, logger)
	}

	httpServer := server.NewServer(cfg, generator, healthCheck, m, version, logger)
	httpServer.SetupRoutes()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(httpServer.Start)
	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}
	g.Go(func() error {
		healthCheck.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")
		if m != nil {
			m.SetHealthStatus(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown HTTP server", zap.Error(err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shutdown metrics server", zap.Error(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("Robotics Module API shutdown complete")
}

// openSharedServices connects to the configured database and Redis. Failures
// are logged and the service keeps running; readiness reports them.
func openSharedServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) []health.Checker {
	var checkers []health.Checker

	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			logger.Warn("database initialization warning", zap.Error(err))
		} else {
			checkers = append(checkers, pg)
		}
	}

	if cfg.Redis.URL != "" {
		rdb, err := store.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis initialization warning", zap.Error(err))
		} else {
			checkers = append(checkers, rdb)
		}
	}

	for _, c := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
		if err := c.Check(checkCtx); err != nil {
			logger.Warn("shared service unreachable at startup", zap.String("service", c.Name()), zap.Error(err))
		} else {
			logger.Info("shared service connected", zap.String("service", c.Name()))
		}
		cancel()
	}

	return checkers
}

func closeChecker(c health.Checker) {
	switch s := c.(type) {
	case *store.Postgres:
		s.Close()
	case *store.Redis:
		_ = s.Close()
	}
}
