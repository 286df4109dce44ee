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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/edvin/governance/internal/api"
	"github.com/edvin/governance/internal/config"
	"github.com/edvin/governance/internal/db"
	"github.com/edvin/governance/internal/logging"
	"github.com/edvin/governance/internal/metrics"
	"github.com/edvin/governance/internal/registry"
)

func main() {
	flags := pflag.NewFlagSet("governance-api", pflag.ContinueOnError)
	migrateFlag := flags.Bool("migrate", false, "Run registry migrations before starting")
	migrateDirFlag := flags.String("migrate-dir", "migrations/registry", "Migration files directory")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := openStore(ctx, logger, cfg, *migrateFlag, *migrateDirFlag)
	defer closeStore()

	if cfg.RegistrySeedFile != "" {
		n, err := registry.LoadSeedFile(logger.WithContext(ctx), store, cfg.RegistrySeedFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.RegistrySeedFile).Msg("failed to seed registry")
		}
		logger.Info().Int("nodes", n).Str("file", cfg.RegistrySeedFile).Msg("registry seeded")
	}

	tlsConfig, err := cfg.ServerTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure TLS")
	}

	srv := api.NewServer(logger, store, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		TLSConfig:    tlsConfig,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Bool("tls", tlsConfig != nil).Msg("starting governance API server")
		var err error
		if tlsConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsListenAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsListenAddr, prometheus.DefaultGatherer, func(ctx context.Context) error {
			_, err := store.GetChildrenKeys(ctx, registry.ProxyNodesRootPath())
			return err
		})
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("metrics server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}
}

// openStore connects the configured registry backend.
func openStore(ctx context.Context, logger zerolog.Logger, cfg *config.Config, migrate bool, migrateDir string) (registry.Store, func()) {
	if cfg.RegistryBackend == config.BackendMemory {
		logger.Warn().Msg("using in-memory registry; state is lost on restart")
		return registry.NewMemoryStore(), func() {}
	}

	if migrate {
		logger.Info().Str("dir", migrateDir).Msg("running registry migrations")
		if err := db.RunMigrations(cfg.RegistryDatabaseURL, migrateDir); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	pool, err := db.NewRegistryPool(ctx, cfg.RegistryDatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to registry database")
	}
	metrics.RegisterRegistryPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.RegistryNamespace)

	return registry.NewPostgresStore(pool, cfg.RegistryNamespace), pool.Close
}
