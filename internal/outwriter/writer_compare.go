package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// comparisonView is the JSON shape of the compare command.
type comparisonView struct {
	Title        string                                  `json:"title,omitempty"`
	MeasureLabel string                                  `json:"measure_label"`
	Coarse       schema.ClassifiedDimension              `json:"coarse"`
	Comparison   schema.ComparisonResult[dataset.RawLink] `json:"comparison"`
	Headline     schema.Headline                         `json:"headline"`
	Buckets      []dataset.PeriodBucket                  `json:"buckets"`
}

func newComparisonView(s dataset.Summary) comparisonView {
	return comparisonView{
		Title:        s.Title,
		MeasureLabel: s.MeasureLabel,
		Coarse:       s.Classification.Coarse,
		Comparison:   s.Comparison,
		Headline:     s.Headline,
		Buckets:      s.Buckets,
	}
}

// printComparisonText prints the headline and a table of period totals.
// The current and previous periods are marked in the last column.
func (ow *OutWriter) printComparisonText(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	ow.printHeadline(s, cfg)

	table := tablewriter.NewWriter(ow.Stdout)
	table.Header([]string{"Period", s.MeasureLabel, "Share", "Role"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var grand float64
	for _, b := range s.Buckets {
		grand += b.Total
	}

	var data [][]string
	for _, b := range s.Buckets {
		share := "-"
		if grand != 0 {
			share = fmt.Sprintf("%.*f%%", cfg.Precision, b.Total/grand*100)
		}
		data = append(data, []string{
			contract.TruncateLabel(b.Key, GetMaxLabelWidth(cfg)),
			humanNumber(b.Total, cfg.Precision),
			share,
			bucketRole(b.Key, s.Comparison, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ow.Stdout, "Compared %d %s periods in %v\n", len(s.Buckets), s.Comparison.PeriodName, duration)
	return nil
}

// bucketRole labels the two compared periods.
func bucketRole(key string, c schema.ComparisonResult[dataset.RawLink], useColors bool) string {
	switch {
	case key == c.CurrentKey && c.CurrentKey != "":
		if useColors {
			return contract.NeutralColor.Sprint("current")
		}
		return "current"
	case key == c.PreviousKey && c.HasPrevious:
		return "previous"
	default:
		return ""
	}
}

// writeCSVBuckets writes one row per period bucket.
func writeCSVBuckets(w io.Writer, s dataset.Summary, fmtFloat func(float64) string) error {
	header := []string{"period", "total", "role", "link"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range s.Buckets {
			row := []string{b.Key, fmtFloat(b.Total), bucketRole(b.Key, s.Comparison, false), firstLink(b.Cell)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
