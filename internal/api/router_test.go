package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/auth"
	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/database"
	"github.com/jengzang/lastmile-backend-go/internal/dataset"
	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/repository"
	"github.com/jengzang/lastmile-backend-go/internal/service"
)

const deliveriesCSV = `Order_ID,Agent_Age,Agent_Rating,Store_Latitude,Store_Longitude,Drop_Latitude,Drop_Longitude,Order_Date,Weather,Traffic,Vehicle,Area,Delivery_Time,Category
a,25,4.8,12.9716,77.5946,12.9816,77.6046,2022-03-01,Sunny,Low,motorcycle,Urban,40,Toys
b,25,4.6,12.9720,77.5950,12.9620,77.5850,2022-03-02,Sunny,High,scooter,Urban,60,Grocery
c,35,4.0,13.0827,80.2707,13.0927,80.2807,2022-03-03,Stormy,Jam,van,Metropolitian,150,Toys
d,35,,13.0830,80.2710,13.0730,80.2610,2022-03-04,Fog,Low,van,Semi-Urban,90,Electronics
`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	issuer *auth.Issuer
	path   string
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := filepath.Join(dir, "deliveries.csv")
	require.NoError(t, os.WriteFile(path, []byte(deliveriesCSV), 0644))

	cfg := config.Default()
	cfg.Data.Path = path
	cfg.Auth.JWTSecret = secret
	cfg.Export.Dir = filepath.Join(dir, "exports")

	db, err := database.Open(database.Config{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = database.NewMigrationManager(db, nil).RunMigrations()
	require.NoError(t, err)

	store := dataset.NewStore(path, dataset.NewOptions(cfg), nil)
	issuer := auth.NewIssuer(cfg.Auth)
	router := SetupRouter(Dependencies{
		Config:    cfg,
		Analytics: service.NewAnalyticsService(store, cfg.Analytics),
		Exports:   service.NewExportService(store, repository.NewExportRepository(db), cfg.Export, nil),
		Datasets:  service.NewDatasetService(store, repository.NewLoadRepository(db), nil),
		Issuer:    issuer,
	})
	return &testServer{router: router, issuer: issuer, path: path}
}

func (s *testServer) do(t *testing.T, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	w := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestKPIsWithFilters(t *testing.T) {
	s := newTestServer(t, "")

	var kpis models.KPISummary
	w := s.do(t, http.MethodGet, "/api/v1/dashboard/kpis?weather=Sunny&weather=Fog", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, &kpis)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, 3, kpis.TotalOrders)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/kpis?start=2022-03-02&end=2022-03-03", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &kpis)
	assert.Equal(t, 2, kpis.TotalOrders)
}

func TestEmptySelection(t *testing.T) {
	s := newTestServer(t, "")

	var dash models.Dashboard
	w := s.do(t, http.MethodGet, "/api/v1/dashboard?vehicle=", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &dash)
	assert.Equal(t, 0, dash.RowCount)
	assert.Equal(t, models.NoDataMessage, dash.KPIs.Message)
	assert.Equal(t, models.NoDataMessage, dash.Geographic.Message)

	// the echo tells an empty selection apart from an unfiltered column
	assert.Contains(t, w.Body.String(), `"vehicle":[]`)
	assert.Contains(t, w.Body.String(), `"weather":null`)
	require.NotNil(t, dash.Filter.Vehicle)
	assert.Empty(t, dash.Filter.Vehicle)
	assert.Nil(t, dash.Filter.Weather)
	require.Len(t, dash.Recommendations, 1)
	assert.Equal(t, service.NoRecommendationMessage, dash.Recommendations[0].Message)
}

func TestBadFilters(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodGet, "/api/v1/dashboard/overview?start=2022-03-05&end=2022-03-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/overview?start=03/01/2022", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Message, "start")
}

func TestPanels(t *testing.T) {
	s := newTestServer(t, "")

	var geo models.GeographicPanel
	w := s.do(t, http.MethodGet, "/api/v1/dashboard/geographic", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &geo)
	assert.True(t, geo.MapAvailable)
	assert.Len(t, geo.StoreLocations, 4)

	var recs []models.Recommendation
	w = s.do(t, http.MethodGet, "/api/v1/dashboard/recommendations", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &recs)
	require.Len(t, recs, 3)
	assert.Equal(t, "Stormy", recs[0].Subject)

	for _, path := range []string{"overview", "agents", "weather-traffic"} {
		w = s.do(t, http.MethodGet, "/api/v1/dashboard/"+path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestFiltersAndDeliveries(t *testing.T) {
	s := newTestServer(t, "")

	var opts models.FilterOptions
	w := s.do(t, http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &opts)
	assert.Equal(t, []string{"Sunny", "Stormy", "Fog"}, opts.Weather)
	assert.Equal(t, "2022-03-01", opts.MinDate)

	var page models.DeliveryPage
	w = s.do(t, http.MethodGet, "/api/v1/deliveries?category=Toys&page=1&pageSize=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].OrderID)
}

func TestExportRequiresToken(t *testing.T) {
	s := newTestServer(t, "secret")

	w := s.do(t, http.MethodGet, "/api/v1/export", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := s.issuer.Issue("tester")
	require.NoError(t, err)

	w = s.do(t, http.MethodGet, "/api/v1/export?format=csv&area=Urban", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filtered_delivery_data_")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)

	w = s.do(t, http.MethodGet, "/api/v1/export?area=Nowhere", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/export?format=pdf", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var history struct {
		Exports []models.ExportRecord `json:"exports"`
		Count   int                   `json:"count"`
	}
	w = s.do(t, http.MethodGet, "/api/v1/exports", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &history)
	require.Equal(t, 1, history.Count)
	assert.Equal(t, 2, history.Exports[0].RowCount)
	assert.Equal(t, models.ExportTriggerAPI, history.Exports[0].Trigger)
}

func TestDatasetEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	var status models.DatasetStatus
	w := s.do(t, http.MethodGet, "/api/v1/dataset", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	assert.Equal(t, 4, status.RowCount)
	assert.True(t, status.HasCoordinates)

	w = s.do(t, http.MethodPost, "/api/v1/dataset/reload", "")
	require.Equal(t, http.StatusOK, w.Code)

	var loads struct {
		Loads []models.DatasetLoad `json:"loads"`
		Count int                  `json:"count"`
	}
	w = s.do(t, http.MethodGet, "/api/v1/dataset/loads", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &loads)
	assert.Equal(t, 2, loads.Count)
}

func TestMissingDataIsUnavailable(t *testing.T) {
	s := newTestServer(t, "")
	require.NoError(t, os.Remove(s.path))

	w := s.do(t, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Message, "make sure")
}
