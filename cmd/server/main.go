package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/api"
	"github.com/bestcasinoportal/offerserve/internal/audit"
	"github.com/bestcasinoportal/offerserve/internal/config"
	"github.com/bestcasinoportal/offerserve/internal/db"
	"github.com/bestcasinoportal/offerserve/internal/geoip"
	"github.com/bestcasinoportal/offerserve/internal/middleware"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/observability"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TracingEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	metricsRegistry := observability.NewPrometheusRegistry()

	var pg *db.Postgres
	if cfg.CatalogSource == config.CatalogSourcePostgres {
		var err error
		pg, err = db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
		if err != nil {
			return fmt.Errorf("failed to connect postgres: %w", err)
		}
		defer pg.Close()
	}

	var store *db.RedisStore
	if cfg.RedisAddr != "" {
		var err error
		store, err = db.InitRedis(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		defer store.Close()
	}

	var geoSvc *geoip.GeoIP
	if cfg.GeoIPDB != "" {
		var err error
		geoSvc, err = geoip.Init(cfg.GeoIPDB)
		if err != nil {
			return fmt.Errorf("failed to load geoip db: %w", err)
		}
		defer func() { _ = geoSvc.Close() }()
	}

	auditWriter, err := audit.NewWriter(cfg.AuditLogPath, logger, metricsRegistry)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = auditWriter.Close() }()

	perfWriter, err := audit.NewWriter(cfg.PerfLogPath, logger, metricsRegistry)
	if err != nil {
		return fmt.Errorf("open perf log: %w", err)
	}
	defer func() { _ = perfWriter.Close() }()

	catalog := models.NewInMemoryCatalog()
	builder := tracking.NewBuilder(cfg.TrackingDomain)

	srvDeps := api.NewServer(logger, catalog, builder, audit.NewFileAuditor(auditWriter), store, pg, geoSvc, metricsRegistry, cfg)
	srvDeps.PerfLog = perfWriter

	if err := srvDeps.Reload(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(logger))
	r.HandleFunc("/api/go/{slug}", srvDeps.RedirectHandler).Methods("GET")
	r.HandleFunc("/api/offers/top", srvDeps.TopOfferHandler).Methods("GET")
	r.HandleFunc("/api/perf", srvDeps.PerfHandler).Methods("POST")
	r.HandleFunc("/health", srvDeps.HealthHandler).Methods("GET")
	r.HandleFunc("/reload", srvDeps.ReloadHandler).Methods("POST")
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, "offerserve"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Offer server running", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	if cfg.ReloadInterval > 0 {
		ticker := time.NewTicker(cfg.ReloadInterval)
		go func() {
			for {
				select {
				case <-ticker.C:
					if err := srvDeps.Reload(); err != nil {
						logger.Error("auto reload", zap.Error(err))
					}
				case <-ctx.Done():
					ticker.Stop()
					return
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
