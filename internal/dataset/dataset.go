// Package dataset loads query results from JSON or CSV into the engine's data model.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/schema"
)

// RawLink is an opaque drill link kept as raw JSON and passed through untouched.
type RawLink = json.RawMessage

// Dataset is the concrete dataset type used by the CLI, server and MCP surfaces.
type Dataset = schema.Dataset[RawLink]

// Summary is the concrete summary type matching Dataset.
type Summary = schema.Summary[RawLink]

// Concrete forms of the generic result parts.
type (
	Cell         = schema.Cell[RawLink]
	SeriesPoint  = schema.SeriesPoint[RawLink]
	PeriodBucket = schema.PeriodBucket[RawLink]
)

// ReadSource reads all bytes from a file path, or from stdin when path is "-".
func ReadSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == contract.StdinDatasetPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return data, nil
}

// ResolveFormat turns the auto format into a concrete one.
// The file extension wins; otherwise the content is sniffed for a leading '{'.
func ResolveFormat(path string, format schema.DatasetFormat, data []byte) schema.DatasetFormat {
	if format != schema.AutoFormat && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return schema.CSVFormat
	case ".json":
		return schema.JSONFormat
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return schema.JSONFormat
	}
	return schema.CSVFormat
}

// Decode parses raw bytes in the given format.
// measure names a CSV column that must be treated as a measure even when its values
// are not numeric; it is ignored for JSON.
func Decode(data []byte, format schema.DatasetFormat, measure string) (Dataset, error) {
	switch format {
	case schema.JSONFormat:
		return DecodeJSON(data)
	case schema.CSVFormat:
		return DecodeCSV(data, measure)
	default:
		return Dataset{}, fmt.Errorf("unsupported dataset format: %s", format)
	}
}

// Load reads and decodes a dataset in one step. The raw bytes are returned as well so
// callers can fingerprint the input.
func Load(path string, format schema.DatasetFormat, measure string, stdin io.Reader) (Dataset, []byte, error) {
	data, err := ReadSource(path, stdin)
	if err != nil {
		return Dataset{}, nil, err
	}
	ds, err := Decode(data, ResolveFormat(path, format, data), measure)
	if err != nil {
		return Dataset{}, nil, err
	}
	return ds, data, nil
}

// DecodeJSON parses a Looker-style payload with fields.dimension_like, fields.measure_like and data.
// Numbers are kept as json.Number so integer period keys survive unchanged.
func DecodeJSON(data []byte) (Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode JSON dataset: %w", err)
	}
	return ds, nil
}
