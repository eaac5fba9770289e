package query

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorgate/internal/platform/logger"
)

func newRouter(t *testing.T, cat Catalog) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(NewService(cat, 0), logger.New()).Register(r)
	return r
}

func TestHandleRecentRecords(t *testing.T) {
	router := newRouter(t, seedCatalog(t, 15))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/records?limit=4", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 4)

	for _, entry := range entries {
		// Identifiers are strings; blob content never appears in the payload.
		_, isString := entry["record_id"].(string)
		assert.True(t, isString, "record_id must render as a string")
		assert.NotContains(t, entry, "content")
	}
}

func TestHandleRecentRecordsDefaultsLimit(t *testing.T) {
	router := newRouter(t, seedCatalog(t, 15))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, DefaultLimit)
}

func TestHandleRecentRecordsRejectsBadLimit(t *testing.T) {
	router := newRouter(t, seedCatalog(t, 1))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/records?limit=abc", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRecentRecordsCatalogDown(t *testing.T) {
	router := newRouter(t, failingCatalog{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp["error"])
}

func TestHandleRecentRecordsEmptyCatalogReturnsEmptyArray(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(t, seedCatalog(t, 0)).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
