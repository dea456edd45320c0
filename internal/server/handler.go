package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
	"go.uber.org/zap"
)

// runSource labels the history runs started over HTTP.
const runSource = "http"

// maxBodyBytes caps the size of a posted dataset.
const maxBodyBytes = 32 << 20

// Handler serves the summary engine over HTTP.
type Handler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	logger  *zap.Logger
}

// NewHandler creates a new Handler. baseCfg supplies the option defaults.
func NewHandler(baseCfg *contract.Config, mgr contract.CacheManager, logger *zap.Logger) *Handler {
	return &Handler{baseCfg: baseCfg, mgr: mgr, logger: logger}
}

// Request is the body accepted by every /v1 endpoint.
// Exactly one of Dataset (Looker-style JSON) or CSV must be set.
type Request struct {
	Dataset        json.RawMessage `json:"dataset,omitempty"`
	CSV            string          `json:"csv,omitempty"`
	Points         *int            `json:"points,omitempty"`
	Measure        string          `json:"measure,omitempty"`
	ComparisonType string          `json:"comparison_type,omitempty"`
	PositiveIsGood *bool           `json:"positive_is_good,omitempty"`
	Title          string          `json:"title,omitempty"`
	MeasureLabel   string          `json:"measure_label,omitempty"`
}

// SeriesResponse is the body returned by /v1/series.
type SeriesResponse struct {
	MeasureLabel string                `json:"measure_label"`
	Granularity  schema.Granularity    `json:"granularity"`
	TotalPoints  int                   `json:"total_points"`
	Series       []dataset.SeriesPoint `json:"series"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// options overlays the request fields on the server defaults.
func (h *Handler) options(in Request) (schema.SummaryOptions, error) {
	opts := h.baseCfg.SummaryOptions()
	if in.Points != nil {
		opts.Points = *in.Points
	}
	if in.Measure != "" {
		opts.Measure = in.Measure
	}
	if in.ComparisonType != "" {
		opts.ComparisonType = schema.ComparisonType(in.ComparisonType)
	}
	if in.PositiveIsGood != nil {
		opts.PositiveIsGood = *in.PositiveIsGood
	}
	if in.Title != "" {
		opts.Title = in.Title
	}
	if in.MeasureLabel != "" {
		opts.MeasureLabel = in.MeasureLabel
	}
	return opts, contract.ValidateSummaryOptions(opts)
}

// decodeRequest reads the body and its dataset.
func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, dataset.Dataset, []byte, error) {
	var in Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		return in, dataset.Dataset{}, nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	switch {
	case len(in.Dataset) > 0 && in.CSV != "":
		return in, dataset.Dataset{}, nil, errors.New("set either dataset or csv, not both")
	case len(in.Dataset) > 0:
		ds, err := dataset.DecodeJSON(in.Dataset)
		return in, ds, in.Dataset, err
	case in.CSV != "":
		raw := []byte(in.CSV)
		ds, err := dataset.DecodeCSV(raw, in.Measure)
		return in, ds, raw, err
	default:
		return in, dataset.Dataset{}, nil, errors.New("missing dataset")
	}
}

// summarize runs the shared part of /v1/summary and /v1/series.
// It writes the error response itself and reports whether the caller should continue.
func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) (dataset.Summary, bool) {
	in, ds, raw, err := decodeRequest(w, r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return dataset.Summary{}, false
	}
	opts, err := h.options(in)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return dataset.Summary{}, false
	}

	s, err := core.RunSummary(core.WithSource(r.Context(), runSource), ds, raw, opts, h.mgr)
	if err != nil {
		h.logger.Debug("summary rejected", zap.Error(err))
		writeJSONError(w, err.Error(), engineStatus(err))
		return dataset.Summary{}, false
	}
	return s, true
}

// Summary handles POST /v1/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summarize(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

// Series handles POST /v1/series.
func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	s, ok := h.summarize(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, SeriesResponse{
		MeasureLabel: s.MeasureLabel,
		Granularity:  s.Classification.Fine.Granularity,
		TotalPoints:  s.TotalPoints,
		Series:       s.Series,
	})
}

// Classify handles POST /v1/classify.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	_, ds, _, err := decodeRequest(w, r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	cls, err := core.Classify(ds.Fields.Dimensions)
	if err != nil {
		writeJSONError(w, err.Error(), engineStatus(err))
		return
	}
	h.writeJSON(w, http.StatusOK, cls)
}

// Health handles GET /healthz. A store that cannot report its status degrades the service.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Services: map[string]string{"cache": "disabled", "history": "disabled"}}

	if h.mgr != nil {
		if store := h.mgr.GetSummaryStore(); store != nil {
			resp.Services["cache"] = "ok"
			if _, err := store.GetStatus(); err != nil {
				resp.Status, resp.Services["cache"] = "degraded", "unavailable"
				h.logger.Warn("health check: cache status failed", zap.Error(err))
			}
		}
		if store := h.mgr.GetHistoryStore(); store != nil {
			resp.Services["history"] = "ok"
			if _, err := store.GetStatus(); err != nil {
				resp.Status, resp.Services["history"] = "degraded", "unavailable"
				h.logger.Warn("health check: history status failed", zap.Error(err))
			}
		}
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, resp)
}

// engineStatus maps engine validation failures to 422 and everything else to 500.
func engineStatus(err error) int {
	switch {
	case errors.Is(err, schema.ErrInsufficientTimeDimensions),
		errors.Is(err, schema.ErrMissingMeasure),
		errors.Is(err, schema.ErrUnknownMeasure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
