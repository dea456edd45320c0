package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/iocache"
	"github.com/huangsam/sparkline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const weeklyDataset = `{
  "fields": {
    "dimension_like": [
      {"name": "orders.created_week", "type": "date_week"},
      {"name": "orders.created_date", "type": "date_date"}
    ],
    "measure_like": [{"name": "orders.total_sales", "label": "Total Sales"}]
  },
  "data": [
    {"orders.created_week": {"value": "2024-01-01"}, "orders.created_date": {"value": "2024-01-01"}, "orders.total_sales": {"value": 50}},
    {"orders.created_week": {"value": "2024-01-01"}, "orders.created_date": {"value": "2024-01-03"}, "orders.total_sales": {"value": 30}},
    {"orders.created_week": {"value": "2024-01-08"}, "orders.created_date": {"value": "2024-01-08"}, "orders.total_sales": {"value": 100, "links": [{"url": "/explore?w=2"}]}},
    {"orders.created_week": {"value": "2024-01-08"}, "orders.created_date": {"value": "2024-01-10"}, "orders.total_sales": {"value": 50}}
  ]
}`

func baseConfig() *contract.Config {
	return &contract.Config{
		ComparisonType: schema.PercentageComparison,
		PositiveIsGood: true,
		Addr:           "127.0.0.1:0",
	}
}

func emptyManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSummaryStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func newTestRouter(mgr contract.CacheManager) http.Handler {
	logger := zap.NewNop()
	return Routes(NewHandler(baseConfig(), mgr, logger), logger)
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestRouter(emptyManager())
	rec := post(t, h, "/v1/summary", map[string]any{
		"dataset":         json.RawMessage(weeklyDataset),
		"comparison_type": "absolute",
		"points":          3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	headline := resp["headline"].(map[string]any)
	assert.Equal(t, "70", headline["change"])
	assert.Equal(t, "150", headline["value"])
	assert.Len(t, resp["series"], 3)

	// Drill links pass through untouched
	comparison := resp["comparison"].(map[string]any)
	cell := comparison["measure_cell"].(map[string]any)
	links := cell["links"].([]any)
	assert.Equal(t, "/explore?w=2", links[0].(map[string]any)["url"])
}

func TestSeriesEndpoint(t *testing.T) {
	h := newTestRouter(emptyManager())
	rec := post(t, h, "/v1/series", map[string]any{
		"csv":    "week,day,sales\n2024-01-01,2024-01-01,5\n2024-01-01,2024-01-02,7\n2024-01-08,2024-01-08,9\n",
		"points": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SeriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalPoints)
	assert.Equal(t, schema.DayGranularity, resp.Granularity)
	require.Len(t, resp.Series, 2)
	assert.Equal(t, "2024-01-01", resp.Series[0].Key)
	assert.Equal(t, "2024-01-08", resp.Series[1].Key)
}

func TestClassifyEndpoint(t *testing.T) {
	h := newTestRouter(nil)
	rec := post(t, h, "/v1/classify", map[string]any{"dataset": json.RawMessage(weeklyDataset)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cls schema.Classification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cls))
	assert.Equal(t, "orders.created_date", cls.Fine.Descriptor.Name)
	assert.Len(t, cls.TimeLikes, 2)
}

func TestEndpointErrors(t *testing.T) {
	h := newTestRouter(emptyManager())
	oneDimension := `{"fields":{"dimension_like":[{"name":"orders.created_date"}],"measure_like":[{"name":"x"}]},"data":[]}`
	noMeasure := `{"fields":{"dimension_like":[{"name":"a_date"},{"name":"a_week"}],"measure_like":[]},"data":[]}`

	tests := []struct {
		name string
		path string
		body any
		code int
		msg  string
	}{
		{"missing dataset", "/v1/summary", map[string]any{}, http.StatusBadRequest, "missing dataset"},
		{"both inputs", "/v1/summary", map[string]any{"dataset": json.RawMessage(weeklyDataset), "csv": "a,b\n"}, http.StatusBadRequest, "not both"},
		{"bad comparison", "/v1/summary", map[string]any{"dataset": json.RawMessage(weeklyDataset), "comparison_type": "ratio"}, http.StatusBadRequest, "invalid comparison type"},
		{"too many points", "/v1/series", map[string]any{"dataset": json.RawMessage(weeklyDataset), "points": contract.MaxPoints + 1}, http.StatusBadRequest, "points must be between"},
		{"one time dimension", "/v1/summary", map[string]any{"dataset": json.RawMessage(oneDimension)}, http.StatusUnprocessableEntity, "two time dimensions"},
		{"no measure", "/v1/summary", map[string]any{"dataset": json.RawMessage(noMeasure)}, http.StatusUnprocessableEntity, "one measure"},
		{"unknown measure", "/v1/summary", map[string]any{"dataset": json.RawMessage(weeklyDataset), "measure": "orders.count"}, http.StatusUnprocessableEntity, "measure not found"},
		{"classify one dimension", "/v1/classify", map[string]any{"dataset": json.RawMessage(oneDimension)}, http.StatusUnprocessableEntity, "two time dimensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.msg)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/summary", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/summary", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSummaryEndpointRecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, "http", mock.Anything).Return(int64(11), nil)
	history.On("EndRun", int64(11), mock.Anything, mock.Anything).Return(nil)
	history.On("RecordPoints", int64(11), mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSummaryStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	rec := post(t, newTestRouter(mgr), "/v1/summary", map[string]any{"dataset": json.RawMessage(weeklyDataset)})
	require.Equal(t, http.StatusOK, rec.Code)
	history.AssertExpectations(t)
}

func TestHealthEndpoint(t *testing.T) {
	get := func(mgr contract.CacheManager) (*httptest.ResponseRecorder, HealthResponse) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		newTestRouter(mgr).ServeHTTP(rec, req)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec, resp
	}

	t.Run("no stores", func(t *testing.T) {
		rec, resp := get(emptyManager())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "disabled", resp.Services["cache"])
	})

	t.Run("healthy cache", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("GetStatus").Return(schema.CacheStatus{Connected: true}, nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetSummaryStore").Return(store)
		mgr.On("GetHistoryStore").Return(nil)

		rec, resp := get(mgr)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", resp.Services["cache"])
	})

	t.Run("broken history", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("GetStatus").Return(schema.HistoryStatus{}, assert.AnError)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetSummaryStore").Return(nil)
		mgr.On("GetHistoryStore").Return(history)

		rec, resp := get(mgr)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Services["history"])
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, baseConfig(), emptyManager(), zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(zapcore.WarnLevel)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
