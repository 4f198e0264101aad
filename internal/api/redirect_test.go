package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bestcasinoportal/offerserve/internal/models"
)

func TestRedirectHandler_TrackingDomainPassthrough(t *testing.T) {
	srv, mock := newTestServer(t, testOffers())
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/aerobet", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	// Already on the tracking domain: passed through byte for byte.
	assert.Equal(t, "https://trk.bestcasinoportal.com/x", rec.Header().Get("Location"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	recs := mock.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "affiliate_redirect", recs[0].Event)
	assert.Equal(t, "AeroBet", recs[0].Brand)
	assert.Equal(t, "aerobet", recs[0].Slug)
	assert.Equal(t, "https://trk.bestcasinoportal.com/x", recs[0].FinalURL)
	assert.NotEmpty(t, recs[0].ID)
	assert.NotEmpty(t, recs[0].ClientOrigin)
}

func TestRedirectHandler_FallbackIsTagged(t *testing.T) {
	srv, _ := newTestServer(t, testOffers())
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/lunaplay", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		"https://lunaplay.com?utm_source=bestcasinoportal&utm_medium=affiliate&utm_campaign=casino-redirect&utm_content=lunaplay",
		rec.Header().Get("Location"))
}

func TestRedirectHandler_UnknownSlug(t *testing.T) {
	srv, mock := newTestServer(t, testOffers())
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/unknown-casino", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Business miss: still a 302, to the generic error path, never a 404/500.
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=redirect-failed", rec.Header().Get("Location"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Empty(t, mock.Records())
}

func TestRedirectHandler_GeoBlocked(t *testing.T) {
	srv, _ := newTestServer(t, testOffers())
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/lunaplay?geo=gb", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Indistinguishable from a missing offer at the HTTP surface.
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=redirect-failed", rec.Header().Get("Location"))

	// Same casino elsewhere still resolves.
	req = httptest.NewRequest(http.MethodGet, "/api/go/lunaplay?geo=de", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://lunaplay.com")
}

func TestRedirectHandler_BadAffiliateURLFallsBack(t *testing.T) {
	srv, _ := newTestServer(t, []models.Offer{
		{Slug: "broken", Brand: "Broken", AffiliateURL: "::garbage::", FallbackURL: "https://broken.example"},
	})
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/broken", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		"https://broken.example?utm_source=bestcasinoportal&utm_medium=affiliate&utm_campaign=casino-redirect&utm_content=broken",
		rec.Header().Get("Location"))
}

func TestRedirectHandler_AllURLsBad(t *testing.T) {
	srv, mock := newTestServer(t, []models.Offer{
		{Slug: "hopeless", Brand: "Hopeless", FallbackURL: "not a url"},
	})
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/go/hopeless", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=redirect-failed", rec.Header().Get("Location"))
	assert.Empty(t, mock.Records())
}

func TestRedirectHandler_Idempotent(t *testing.T) {
	srv, _ := newTestServer(t, testOffers())
	router := testRouter(srv)

	var locations []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/go/lunaplay", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)
		locations = append(locations, rec.Header().Get("Location"))
	}
	assert.Equal(t, locations[0], locations[1])
}
