package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/internal/parquet"
)

// printSummaryText prints the headline, the inline sparkline and the sampled points.
func (ow *OutWriter) printSummaryText(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	ow.printHeadline(s, cfg)
	ow.printSparkline(s, cfg)
	if err := ow.renderSeriesTable(s, cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.Stdout, "Summarized %d of %d points in %v. Cache backend: %s\n",
		len(s.Series), s.TotalPoints, duration, cfg.CacheBackend)
	return nil
}

// printHeadline prints the title, the current total and the colored change.
func (ow *OutWriter) printHeadline(s dataset.Summary, cfg *contract.Config) {
	if s.Title != "" {
		title := s.Title
		if cfg.UseEmojis {
			title = "📈 " + title
		}
		_, _ = fmt.Fprintln(ow.Stdout, title)
	}

	h := s.Headline
	change := h.Arrow + " " + h.Change
	label := contract.GetPlainLabel(h)
	caption := h.Caption
	if cfg.UseColors {
		change = contract.GetColorChange(h)
		caption = contract.NeutralColor.Sprint(caption)
	}
	_, _ = fmt.Fprintf(ow.Stdout, "%s: %s  %s %s (%s)\n", s.MeasureLabel, h.Value, change, caption, label)
}

// printSparkline prints the block-rune sparkline of the sampled series with the
// range of the drawn points.
func (ow *OutWriter) printSparkline(s dataset.Summary, cfg *contract.Config) {
	values := make([]float64, len(s.Series))
	for i, p := range s.Series {
		values[i] = p.Value
	}
	drawn := visibleWindow(values, GetSparklineWidth(cfg))
	if len(drawn) == 0 {
		return
	}
	lo, hi := drawn[0], drawn[0]
	for _, v := range drawn {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	spark := highlightLast(RenderSparkline(drawn, len(drawn)), cfg.UseColors)
	_, _ = fmt.Fprintf(ow.Stdout, "%s  min %s max %s\n", spark, humanNumber(lo, cfg.Precision), humanNumber(hi, cfg.Precision))
}

// writeCSVSummary writes the comparison and headline as key/value rows.
func writeCSVSummary(w io.Writer, s dataset.Summary, fmtFloat func(float64) string) error {
	c := s.Comparison
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"title", s.Title},
			{"measure", s.Measure.Name},
			{"measure_label", s.MeasureLabel},
			{"fine_dimension", s.Classification.Fine.Descriptor.Name},
			{"coarse_dimension", s.Classification.Coarse.Descriptor.Name},
			{"period_name", c.PeriodName},
			{"current_key", c.CurrentKey},
			{"previous_key", c.PreviousKey},
			{"current_total", fmtFloat(c.CurrentTotal)},
			{"previous_total", fmtFloat(c.PreviousTotal)},
			{"delta", fmtFloat(c.Delta)},
			{"delta_percent", fmtFloat(c.DeltaPercent)},
			{"change", s.Headline.Change},
			{"direction", string(s.Headline.Direction)},
			{"good", strconv.FormatBool(s.Headline.Good)},
			{"sampled_points", strconv.Itoa(len(s.Series))},
			{"total_points", strconv.Itoa(s.TotalPoints)},
		}
		return cw.WriteAll(rows)
	})
}

// writeSeriesParquet writes the sampled series to a Parquet file.
func (ow *OutWriter) writeSeriesParquet(s dataset.Summary, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	rows := make([]parquet.SeriesRow, len(s.Series))
	for i, p := range s.Series {
		rows[i] = parquet.SeriesRow{
			Position: int32(i),
			Key:      p.Key,
			Label:    p.Label,
			Value:    p.Value,
			Measure:  s.Measure.Name,
		}
		if link := firstLink(p.Cell); link != "" {
			rows[i].Link = &link
		}
	}
	if err := parquet.WriteSeriesParquet(rows, outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.Stderr, "💾 Wrote Parquet series (%d points) to %s\n", len(rows), outputFile)
	return nil
}
