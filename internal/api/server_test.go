package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "casinos.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReloadHandler_SwapsCatalog(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.Config.CatalogFile = writeCatalogFile(t, `[
		{"slug":"aerobet","brand":"AeroBet","url":"https://aerobet.com","priorityWeight":5}
	]`)
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, srv.Catalog.Len())
	offer, ok := srv.Catalog.Lookup("aerobet")
	require.True(t, ok)
	assert.Equal(t, "AeroBet", offer.Brand)
}

func TestReloadHandler_BadFileKeepsOldCatalog(t *testing.T) {
	srv, _ := newTestServer(t, testOffers())
	srv.Config.CatalogFile = writeCatalogFile(t, `{"not":"an array"}`)
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// Interrupted reload leaves the last good snapshot serving.
	assert.Equal(t, 2, srv.Catalog.Len())
}

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	router := testRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
