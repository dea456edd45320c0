package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/sparkline/internal/dataset"
)

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter returns a fixed-precision float formatter for machine-readable output.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// humanNumber comma-groups a value for tables, keeping precision decimals.
func humanNumber(v float64, precision int) string {
	return humanize.CommafWithDigits(v, precision)
}

// firstLink renders the first drill link of a cell as compact JSON, or "".
func firstLink(cell *dataset.Cell) string {
	if cell == nil || len(cell.Links) == 0 {
		return ""
	}
	return strings.TrimSpace(string(cell.Links[0]))
}
