package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sparkline/schema"
)

// Declared types given to inferred CSV columns.
const (
	dateType   = "date"
	stringType = "string"
	numberType = "number"
)

// dateFormats are the layouts that mark a column as a date dimension.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01",
	"01/02/2006",
	"Jan 2006",
	"January 2006",
}

// nullValues are treated as empty when inferring column roles.
var nullValues = map[string]struct{}{
	"": {}, "null": {}, "NULL": {}, "N/A": {}, "n/a": {},
}

// column collects the values of one CSV column for role inference.
type column struct {
	name     string
	values   []string
	nonNull  int
	numeric  int
	dates    int
	isMetric bool
}

// DecodeCSV parses CSV with a header row. Column roles are inferred: time-like columns
// and columns with any non-numeric value become dimensions, the rest become measures.
// forceMeasure names a column that is always a measure.
func DecodeCSV(data []byte, forceMeasure string) (Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, fmt.Errorf("CSV dataset is empty")
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make([]*column, len(headers))
	for i, h := range headers {
		columns[i] = &column{name: strings.TrimSpace(h)}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		for i, col := range columns {
			val := ""
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			col.observe(val)
		}
	}

	var ds Dataset
	for _, col := range columns {
		col.isMetric = col.name == forceMeasure || col.looksLikeMeasure()
		desc := schema.FieldDescriptor{Name: col.name, Label: col.name}
		switch {
		case col.isMetric:
			desc.Type = numberType
			ds.Fields.Measures = append(ds.Fields.Measures, desc)
		case col.looksLikeDate():
			desc.Type = dateType
			ds.Fields.Dimensions = append(ds.Fields.Dimensions, desc)
		default:
			desc.Type = stringType
			ds.Fields.Dimensions = append(ds.Fields.Dimensions, desc)
		}
	}

	rowCount := 0
	if len(columns) > 0 {
		rowCount = len(columns[0].values)
	}
	ds.Rows = make([]schema.Row[RawLink], 0, rowCount)
	for r := range rowCount {
		row := make(schema.Row[RawLink], len(columns))
		for _, col := range columns {
			raw := col.values[r]
			cell := schema.Cell[RawLink]{Value: raw}
			if col.isMetric {
				if f, ok := parseNumber(raw); ok {
					cell.Value = f
				}
			}
			row[col.name] = cell
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// observe records one value of the column.
func (c *column) observe(val string) {
	c.values = append(c.values, val)
	if _, isNull := nullValues[val]; isNull {
		return
	}
	c.nonNull++
	if _, ok := parseNumber(val); ok {
		c.numeric++
	}
	if isDate(val) {
		c.dates++
	}
}

// looksLikeMeasure requires every non-null value to be numeric and the name not to be
// time-like, so columns such as "year" stay dimensions.
func (c *column) looksLikeMeasure() bool {
	if c.nonNull == 0 || c.numeric != c.nonNull {
		return false
	}
	return !schema.FieldDescriptor{Name: c.name}.IsTimeLike()
}

// looksLikeDate requires every non-null value to parse as a date.
func (c *column) looksLikeDate() bool {
	return c.nonNull > 0 && c.dates == c.nonNull
}

// parseNumber parses a number, accepting thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
