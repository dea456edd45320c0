package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/huangsam/sparkline/core"
	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// runSource labels the history runs started by MCP tools.
const runSource = "mcp"

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// downsampleResult is the payload of the downsample_series tool.
type downsampleResult struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// loadDataset decodes the dataset named by the path argument, or the inline dataset argument.
func loadDataset(request mcp.CallToolRequest) (dataset.Dataset, []byte, error) {
	format := schema.DatasetFormat(request.GetString("format", string(schema.AutoFormat)))
	if _, ok := schema.ValidDatasetFormats[format]; !ok {
		return dataset.Dataset{}, nil, fmt.Errorf("invalid dataset format '%s'", format)
	}
	measure := request.GetString("measure", "")

	if path := request.GetString("path", ""); path != "" {
		if path == contract.StdinDatasetPath {
			return dataset.Dataset{}, nil, errors.New("stdin is reserved for the MCP transport")
		}
		return dataset.Load(path, format, measure, nil)
	}
	content := request.GetString("dataset", "")
	if content == "" {
		return dataset.Dataset{}, nil, errors.New("either dataset or path is required")
	}
	raw := []byte(content)
	ds, err := dataset.Decode(raw, dataset.ResolveFormat("", format, raw), measure)
	return ds, raw, err
}

// summaryOptions overlays the tool arguments on the server defaults.
func (h *toolHandler) summaryOptions(request mcp.CallToolRequest) (schema.SummaryOptions, error) {
	opts := h.baseCfg.SummaryOptions()
	opts.Points = request.GetInt("points", opts.Points)
	opts.Measure = request.GetString("measure", opts.Measure)
	opts.ComparisonType = schema.ComparisonType(request.GetString("comparison_type", string(opts.ComparisonType)))
	opts.PositiveIsGood = request.GetBool("positive_is_good", opts.PositiveIsGood)
	opts.Title = request.GetString("title", opts.Title)
	opts.MeasureLabel = request.GetString("measure_label", opts.MeasureLabel)
	return opts, contract.ValidateSummaryOptions(opts)
}

func (h *toolHandler) handleSummarizeDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := h.summaryOptions(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}
	ds, raw, err := loadDataset(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}

	summary, err := core.RunSummary(core.WithSource(ctx, runSource), ds, raw, opts, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, _, err := loadDataset(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}

	cls, err := core.Classify(ds.Fields.Dimensions)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(cls, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDownsampleSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	values := request.GetFloatSlice("values", nil)
	points := request.GetInt("points", 0)
	if points < 0 || points > contract.MaxPoints {
		return mcp.NewToolResultError(fmt.Sprintf("points must be between 0 and %d", contract.MaxPoints)), nil
	}

	series := make([]schema.SeriesPoint[struct{}], len(values))
	for i, v := range values {
		series[i] = schema.SeriesPoint[struct{}]{Key: strconv.Itoa(i), Value: v}
	}

	result := downsampleResult{Indices: []int{}, Values: []float64{}}
	for _, p := range core.Downsample(series, points) {
		idx, _ := strconv.Atoi(p.Key)
		result.Indices = append(result.Indices, idx)
		result.Values = append(result.Values, p.Value)
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
