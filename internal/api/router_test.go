package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	routes "geocover/internal/api/handlers"
	"geocover/internal/config"
	"geocover/internal/model"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitSquareGeoJSON = `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`

var testConfig = config.Config{
	Port:             ":0",
	DefaultPrecision: 1,
	Workers:          2,
	MaxCells:         5000,
	RequestTimeout:   5 * time.Second,
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(testConfig, nil)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]string
	gets int
	fail bool
}

func (m *memoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.fail {
		return nil, false, errors.New("cache down")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache down")
	}
	m.data[key] = cells
	return nil
}

func post(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cover", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestInfoAndHealth(t *testing.T) {
	r := testRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(routes.RequestIDKey))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var info routes.ServiceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "geocover", info.Name)
	assert.Equal(t, 1, info.DefaultPrecision)
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter()
	post(t, r, `{"geometry":`+unitSquareGeoJSON+`}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "geocover_requests_total")
}

func TestCover_GeoJSONGeometry(t *testing.T) {
	rec := post(t, testRouter(), `{"geometry":`+unitSquareGeoJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.CoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, 1, resp.Precision)
	assert.Equal(t, "touching", resp.Mode)
	assert.Equal(t, []string{"7", "e", "k", "s"}, resp.Geohashes)
}

func TestCover_WKTAndFullyContained(t *testing.T) {
	rec := post(t, testRouter(), `{"geometry":"POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))","precision":4,"fully_contained":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.CoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Count)
	assert.Len(t, resp.Geohashes, 10)
	assert.Equal(t, "fully_contained", resp.Mode)
}

func TestCover_GeoJSONFormat(t *testing.T) {
	rec := post(t, testRouter(), `{"geometry":`+unitSquareGeoJSON+`,"format":"geojson"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Count    int `json:"count"`
		Features struct {
			Type     string `json:"type"`
			Features []struct {
				Geometry struct {
					Type string `json:"type"`
				} `json:"geometry"`
				Properties map[string]interface{} `json:"properties"`
			} `json:"features"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, "FeatureCollection", resp.Features.Type)
	require.Len(t, resp.Features.Features, 4)
	assert.Equal(t, "Polygon", resp.Features.Features[0].Geometry.Type)
	assert.Equal(t, "7", resp.Features.Features[0].Properties["geohash"])
}

func TestCover_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"malformed json", `{"geometry":`, http.StatusBadRequest, "bad_request"},
		{"missing geometry", `{"precision":3}`, http.StatusBadRequest, "bad_request"},
		{"unknown format", `{"geometry":` + unitSquareGeoJSON + `,"format":"csv"}`, http.StatusBadRequest, "bad_request"},
		{"bad wkt", `{"geometry":"POLYGON((0 0, 1 zz, 1 1, 0 0))"}`, http.StatusBadRequest, "parse"},
		{"point", `{"geometry":{"type":"Point","coordinates":[1,2]}}`, http.StatusBadRequest, "unsupported_geometry"},
		{"precision too high", `{"geometry":` + unitSquareGeoJSON + `,"precision":13}`, http.StatusBadRequest, "precision"},
		{"precision zero", `{"geometry":` + unitSquareGeoJSON + `,"precision":0}`, http.StatusBadRequest, "precision"},
		{"cell limit", `{"geometry":` + unitSquareGeoJSON + `,"precision":7}`, http.StatusUnprocessableEntity, "cell_limit"},
	}
	r := testRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, r, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestCover_RequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cover", bytes.NewBufferString(`{"geometry":{"type":"Point","coordinates":[1,2]}}`))
	req.Header.Set(routes.RequestIDKey, "abc123")
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, "abc123", rec.Header().Get(routes.RequestIDKey))
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.RequestID)
}

func TestCover_MatchesLibrary(t *testing.T) {
	body := `{"geometry":"MULTIPOLYGON(((0 0, 1 0, 1 1, 0 1, 0 0)),((3 3, 4 3, 4 4, 3 4, 3 3)))","precision":3}`
	rec := post(t, testRouter(), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.CoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Geohashes), resp.Count)
	for _, code := range resp.Geohashes {
		assert.Len(t, code, 3)
	}
}

func TestCover_Cache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cache := &memoryCache{data: make(map[string][]string)}
	r := NewRouter(testConfig, cache)

	body := `{"geometry":` + unitSquareGeoJSON + `,"precision":2}`
	first := post(t, r, body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	require.Len(t, cache.data, 1)

	// a poisoned entry proves the second response is served from the cache
	for k := range cache.data {
		cache.data[k] = []string{"s0"}
	}
	second := post(t, r, body)
	require.Equal(t, http.StatusOK, second.Code)
	var resp model.CoverResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, []string{"s0"}, resp.Geohashes)
	assert.Equal(t, 2, cache.gets)

	other := post(t, r, `{"geometry":`+unitSquareGeoJSON+`,"precision":2,"fully_contained":true}`)
	require.Equal(t, http.StatusOK, other.Code)
	assert.Len(t, cache.data, 2)
}

func TestCover_CacheFailureFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig, &memoryCache{data: make(map[string][]string), fail: true})

	rec := post(t, r, `{"geometry":`+unitSquareGeoJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp model.CoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
}
