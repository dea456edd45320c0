// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// datasetOptions are the tool arguments shared by every dataset-based tool.
func datasetOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("dataset", mcp.Description("Inline dataset: Looker-style JSON or CSV with a header row. Ignored when path is set.")),
		mcp.WithString("path", mcp.Description("Path to a dataset file on the server.")),
		mcp.WithString("format", mcp.Description("Dataset format. Defaults to 'auto'."), mcp.Enum("auto", "json", "csv")),
		mcp.WithString("measure", mcp.Description("Measure to summarize. Defaults to the first measure.")),
	}
}

// NewMCPServer initializes and configures the Sparkline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Sparkline Summary Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_dataset ---
	summarizeOpts := append(datasetOptions(),
		mcp.WithDescription("Compare the last two coarse periods of a dataset and sample its fine series into a sparkline."),
		mcp.WithNumber("points", mcp.Description("Sampled series size. 0 keeps every point.")),
		mcp.WithString("comparison_type", mcp.Description("Headline change style. Defaults to 'percentage'."), mcp.Enum("percentage", "absolute")),
		mcp.WithBoolean("positive_is_good", mcp.Description("Whether an increase is good news. Defaults to true.")),
		mcp.WithString("title", mcp.Description("Title passed through to the summary.")),
		mcp.WithString("measure_label", mcp.Description("Label shown for the measure.")),
	)
	s.AddTool(mcp.NewTool("summarize_dataset", summarizeOpts...), h.handleSummarizeDataset)

	// --- 2. Tool: classify_fields ---
	classifyOpts := append(datasetOptions(),
		mcp.WithDescription("Rank the time-like dimensions of a dataset and pick the series and comparison dimensions."),
	)
	s.AddTool(mcp.NewTool("classify_fields", classifyOpts...), h.handleClassifyFields)

	// --- 3. Tool: downsample_series ---
	s.AddTool(mcp.NewTool("downsample_series",
		mcp.WithDescription("Reduce a numeric series to a target size by uniform index selection, keeping the first and last values."),
		mcp.WithArray("values", mcp.Description("The series values in order."), mcp.Required(), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithNumber("points", mcp.Description("Target number of points."), mcp.Required()),
	), h.handleDownsampleSeries)

	return s
}

// StartMCPServer starts the Sparkline MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
