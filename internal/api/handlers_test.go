package api

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/audit"
	"github.com/bestcasinoportal/offerserve/internal/config"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/observability"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

func testConfig() config.Config {
	return config.Config{
		CatalogSource:     config.CatalogSourceFile,
		TrackingDomain:    "trk.bestcasinoportal.com",
		ErrorRedirectPath: "/?error=redirect-failed",
	}
}

func newTestServer(t *testing.T, offers []models.Offer) (*Server, *audit.Mock) {
	t.Helper()
	catalog := models.NewInMemoryCatalog()
	if err := catalog.Reload(offers); err != nil {
		t.Fatalf("reload catalog: %v", err)
	}
	mock := audit.NewMock()
	cfg := testConfig()
	srv := NewServer(zap.NewNop(), catalog, tracking.NewBuilder(cfg.TrackingDomain), mock, nil, nil, nil, observability.NewNoOpRegistry(), cfg)
	return srv, mock
}

func testRouter(s *Server) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/go/{slug}", s.RedirectHandler).Methods("GET")
	r.HandleFunc("/api/offers/top", s.TopOfferHandler).Methods("GET")
	r.HandleFunc("/api/perf", s.PerfHandler).Methods("POST")
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.HandleFunc("/reload", s.ReloadHandler).Methods("POST")
	return r
}

func testOffers() []models.Offer {
	return []models.Offer{
		{
			Slug:           "aerobet",
			Brand:          "AeroBet",
			AffiliateURL:   "https://trk.bestcasinoportal.com/x",
			FallbackURL:    "https://aerobet.com",
			PriorityWeight: 5,
		},
		{
			Slug:            "lunaplay",
			Brand:           "LunaPlay",
			FallbackURL:     "https://lunaplay.com",
			PriorityWeight:  2,
			GeoRestrictions: []string{"GB"},
		},
	}
}
