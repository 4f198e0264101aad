package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/audit"
	"github.com/bestcasinoportal/offerserve/internal/logic"
	"github.com/bestcasinoportal/offerserve/internal/middleware"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

// Attribution tags stamped on redirect destinations. The render-time
// component surface uses its own set, see top_offer.go.
const (
	redirectSource   = "bestcasinoportal"
	redirectMedium   = "affiliate"
	redirectCampaign = "casino-redirect"
)

// noCacheValue prevents intermediaries from caching per-visitor redirect
// decisions.
const noCacheValue = "no-cache, no-store, must-revalidate"

// RedirectHandler handles GET /api/go/{slug}: it resolves the casino's best
// monetizable destination, tags it, and 302-redirects the visitor. Business
// misses (unknown slug, geo block, bad catalog data) redirect to the
// configured error path; a visitor never sees a 5xx for those.
func (s *Server) RedirectHandler(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "RedirectHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/api/go/{slug}"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/api/go"
	const method = "GET"

	slug := mux.Vars(r)["slug"]
	span.SetAttributes(attribute.String("offer.slug", slug))

	visitor := logic.ResolveVisitor(r, s.GeoIP)

	offer, err := logic.ResolveForCasino(s.Catalog, slug, visitor.Geo)
	if err != nil {
		reason := missReason(err)
		logger.Warn("resolution miss",
			zap.String("slug", slug),
			zap.String("geo", visitor.Geo),
			zap.String("reason", reason))
		span.SetAttributes(attribute.String("resolution.miss", reason))
		s.Metrics.IncrementResolutionMisses(reason)
		s.errorRedirect(w, r, endpoint, method, start)
		return
	}

	chosen := logic.ChooseURL(offer, models.PriorityAffiliate)
	finalURL, err := s.Builder.BuildForOffer(offer, chosen, tracking.Context{
		Source:     redirectSource,
		Medium:     redirectMedium,
		Campaign:   redirectCampaign,
		ContentID:  slug,
		ContentKey: tracking.ContentKeyRedirect,
	})
	if err != nil {
		// Both the chosen and the fallback URL are malformed catalog data.
		logger.Error("destination url rejected",
			zap.String("slug", slug),
			zap.String("url", chosen),
			zap.Error(err))
		span.RecordError(err)
		s.Metrics.IncrementResolutionMisses("invalid_url")
		s.errorRedirect(w, r, endpoint, method, start)
		return
	}

	destination := "fallback"
	if offer.HasAffiliate() && chosen == offer.AffiliateURL {
		destination = "affiliate"
	}

	s.Metrics.IncrementRedirects(destination)
	s.Metrics.IncrementRequests(endpoint, method, "302")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))

	w.Header().Set("Cache-Control", noCacheValue)
	http.Redirect(w, r, finalURL, http.StatusFound)

	logger.Debug("affiliate redirect",
		zap.String("slug", slug),
		zap.String("brand", offer.Brand),
		zap.String("destination", destination),
		zap.String("final_url", finalURL))

	// Response is written; everything below is fire-and-forget.
	if s.Audit != nil {
		rec := audit.Record{
			ID:           uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Brand:        offer.Brand,
			Slug:         offer.Slug,
			FinalURL:     finalURL,
			ClientOrigin: visitor.Origin,
			Geo:          visitor.Geo,
			DeviceType:   visitor.DeviceType,
			Bot:          visitor.Bot,
		}
		if err := s.Audit.RecordRedirect(r.Context(), rec); err != nil {
			logger.Warn("audit record", zap.Error(err))
		}
	}
	if s.Store != nil && !visitor.Bot {
		go func(slug string) {
			if err := s.Store.IncrementRedirect(slug); err != nil {
				s.Logger.Debug("redirect counter", zap.String("slug", slug), zap.Error(err))
			}
		}(offer.Slug)
	}
}

// errorRedirect sends the visitor to the generic error destination. This is
// a business outcome, not a server error, so the status is still 302.
func (s *Server) errorRedirect(w http.ResponseWriter, r *http.Request, endpoint, method string, start time.Time) {
	s.Metrics.IncrementRedirects("error")
	s.Metrics.IncrementRequests(endpoint, method, "302")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	w.Header().Set("Cache-Control", noCacheValue)
	http.Redirect(w, r, s.Config.ErrorRedirectPath, http.StatusFound)
}

// missReason maps resolution errors to a metric label. GeoBlocked keeps its
// own label internally but is indistinguishable from NotFound at the HTTP
// surface.
func missReason(err error) string {
	switch {
	case errors.Is(err, logic.ErrOfferNotFound):
		return "not_found"
	case errors.Is(err, logic.ErrGeoBlocked):
		return "geo_blocked"
	case errors.Is(err, logic.ErrCatalogUnavailable):
		return "catalog_unavailable"
	default:
		return "unknown"
	}
}
