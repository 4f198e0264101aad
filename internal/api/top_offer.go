package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bestcasinoportal/offerserve/internal/logic"
	"github.com/bestcasinoportal/offerserve/internal/middleware"
	"github.com/bestcasinoportal/offerserve/internal/models"
	"github.com/bestcasinoportal/offerserve/internal/tracking"
)

// Attribution tags for the render-time component surface (offer buttons,
// sticky CTAs). Note the content key is "a" here, not "utm_content".
const (
	componentSource   = "bcp"
	componentMedium   = "rankings"
	componentCampaign = "sitewide"
)

// TopOfferHandler handles GET /api/offers/top?geo=XX&exclude=a,b. It returns
// the highest-priority offer available to the visitor as JSON, or 204 when
// nothing can be shown. An empty result is a business condition the caller
// renders around, never an error.
func (s *Server) TopOfferHandler(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "TopOfferHandler",
		trace.WithAttributes(
			attribute.String("http.method", "GET"),
			attribute.String("http.route", "/api/offers/top"),
		))
	defer span.End()

	logger := middleware.LoggerFromRequest(r, s.Logger)

	start := time.Now()
	const endpoint = "/api/offers/top"
	const method = "GET"

	visitor := logic.ResolveVisitor(r, s.GeoIP)

	var exclude []string
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				exclude = append(exclude, slug)
			}
		}
	}

	offer, ok := logic.ResolveTopOffer(s.Catalog, visitor.Geo, exclude)
	if !ok {
		s.Metrics.IncrementTopOfferEmpty()
		s.Metrics.IncrementRequests(endpoint, method, "204")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	chosen := logic.ChooseURL(offer, models.PriorityAffiliate)
	finalURL, err := s.Builder.BuildForOffer(offer, chosen, tracking.Context{
		Source:     componentSource,
		Medium:     componentMedium,
		Campaign:   componentCampaign,
		ContentID:  offer.Slug,
		ContentKey: tracking.ContentKeyComponent,
	})
	if err != nil {
		logger.Error("top offer url rejected",
			zap.String("slug", offer.Slug),
			zap.Error(err))
		span.RecordError(err)
		s.Metrics.IncrementResolutionMisses("invalid_url")
		s.Metrics.IncrementRequests(endpoint, method, "204")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", noCacheValue)
	if err := json.NewEncoder(w).Encode(models.ResolvedOffer{FinalURL: finalURL, Offer: offer}); err != nil {
		logger.Error("encode top offer", zap.Error(err))
	}
}
