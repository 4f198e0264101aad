package api

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/audit"
	"github.com/bestcasinoportal/offerserve/internal/config"
	"github.com/bestcasinoportal/offerserve/internal/db"
	"github.com/bestcasinoportal/offerserve/internal/geoip"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/observability"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

var tracer = otel.Tracer("offerserve/api")

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger  *zap.Logger
	Catalog *models.InMemoryCatalog
	Builder *tracking.Builder
	Audit   audit.Service
	Store   *db.RedisStore
	PG      *db.Postgres
	GeoIP   *geoip.GeoIP
	Metrics observability.MetricsRegistry
	Config  config.Config
	PerfLog *audit.Writer

	reloadMu sync.Mutex
}

// NewServer constructs a Server. Store, PG, GeoIP and PerfLog may be nil;
// the corresponding features degrade gracefully.
func NewServer(logger *zap.Logger, catalog *models.InMemoryCatalog, builder *tracking.Builder, auditSvc audit.Service, store *db.RedisStore, pg *db.Postgres, geo *geoip.GeoIP, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	if builder == nil {
		builder = tracking.NewBuilder(cfg.TrackingDomain)
	}
	return &Server{
		Logger:  logger,
		Catalog: catalog,
		Builder: builder,
		Audit:   auditSvc,
		Store:   store,
		PG:      pg,
		GeoIP:   geo,
		Metrics: metrics,
		Config:  cfg,
	}
}

// Reload refreshes the offer catalog from the configured source and swaps it
// in atomically. Resolutions in flight keep the snapshot they started with.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	offers, err := s.loadOffers()
	if err != nil {
		s.Metrics.IncrementCatalogReloads("error")
		return err
	}
	if err := s.Catalog.Reload(offers); err != nil {
		s.Metrics.IncrementCatalogReloads("error")
		return fmt.Errorf("swap catalog: %w", err)
	}

	s.Metrics.IncrementCatalogReloads("ok")
	s.Metrics.SetCatalogOffers(len(offers))
	s.Logger.Info("catalog reloaded",
		zap.String("source", s.Config.CatalogSource),
		zap.Int("offers", len(offers)))
	return nil
}

func (s *Server) loadOffers() ([]models.Offer, error) {
	switch s.Config.CatalogSource {
	case config.CatalogSourcePostgres:
		if s.PG == nil {
			return nil, fmt.Errorf("postgres unavailable")
		}
		return s.PG.LoadOffers()
	case config.CatalogSourceFile:
		return db.LoadOffersFile(s.Config.CatalogFile)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", s.Config.CatalogSource)
	}
}
