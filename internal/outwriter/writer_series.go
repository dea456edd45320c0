package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesView is the JSON shape of the series command.
type seriesView struct {
	MeasureLabel string                     `json:"measure_label"`
	Fine         schema.ClassifiedDimension `json:"fine"`
	TotalPoints  int                        `json:"total_points"`
	Series       []dataset.SeriesPoint      `json:"series"`
}

func newSeriesView(s dataset.Summary) seriesView {
	return seriesView{
		MeasureLabel: s.MeasureLabel,
		Fine:         s.Classification.Fine,
		TotalPoints:  s.TotalPoints,
		Series:       s.Series,
	}
}

// printSeriesText prints the inline sparkline followed by the point table.
func (ow *OutWriter) printSeriesText(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	ow.printSparkline(s, cfg)
	if err := ow.renderSeriesTable(s, cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.Stdout, "Sampled %d of %d %s points in %v\n",
		len(s.Series), s.TotalPoints, s.Classification.Fine.Granularity, duration)
	return nil
}

// renderSeriesTable prints one row per sampled point.
func (ow *OutWriter) renderSeriesTable(s dataset.Summary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(ow.Stdout)
	table.Header([]string{"#", "Point", s.MeasureLabel})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxLabelWidth(cfg)
	var data [][]string
	for i, p := range s.Series {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(p.Label, labelWidth),
			humanNumber(p.Value, cfg.Precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVSeries writes one row per sampled point.
func writeCSVSeries(w io.Writer, s dataset.Summary, fmtFloat func(float64) string) error {
	header := []string{"position", "key", "label", "value", "link"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, p := range s.Series {
			row := []string{strconv.Itoa(i), p.Key, p.Label, fmtFloat(p.Value), firstLink(p.Cell)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
