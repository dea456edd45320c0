// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/sparkline/internal/contract"
	"github.com/huangsam/sparkline/internal/dataset"
	"github.com/huangsam/sparkline/schema"
)

// OutWriter provides a unified interface for all output operations.
// Stdout receives tables and encoded results; Stderr receives file notices.
type OutWriter struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewOutWriter creates an output writer bound to the process streams.
func NewOutWriter() *OutWriter {
	return &OutWriter{Stdout: os.Stdout, Stderr: os.Stderr}
}

// WriteSummary prints a full summary using the configured output format.
func (ow *OutWriter) WriteSummary(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, s)
		}, "Wrote JSON summary")
	case schema.CSVOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSummary(w, s, fmtFloat)
		}, "Wrote CSV summary")
	case schema.ParquetOut:
		err = ow.writeSeriesParquet(s, cfg.OutputFile)
	default:
		err = ow.printSummaryText(s, cfg, duration)
	}
	if err != nil {
		return fmt.Errorf("error writing %s summary output: %w", cfg.Output, err)
	}
	return nil
}

// WriteComparison prints the headline and period buckets using the configured output format.
func (ow *OutWriter) WriteComparison(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, newComparisonView(s))
		}, "Wrote JSON comparison")
	case schema.CSVOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBuckets(w, s, fmtFloat)
		}, "Wrote CSV comparison")
	case schema.ParquetOut:
		err = fmt.Errorf("parquet output is only available for series data")
	default:
		err = ow.printComparisonText(s, cfg, duration)
	}
	if err != nil {
		return fmt.Errorf("error writing %s comparison output: %w", cfg.Output, err)
	}
	return nil
}

// WriteSeries prints the sampled series using the configured output format.
func (ow *OutWriter) WriteSeries(s dataset.Summary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, newSeriesView(s))
		}, "Wrote JSON series")
	case schema.CSVOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSeries(w, s, fmtFloat)
		}, "Wrote CSV series")
	case schema.ParquetOut:
		err = ow.writeSeriesParquet(s, cfg.OutputFile)
	default:
		err = ow.printSeriesText(s, cfg, duration)
	}
	if err != nil {
		return fmt.Errorf("error writing %s series output: %w", cfg.Output, err)
	}
	return nil
}

// WriteClassification prints the classified time dimensions using the configured output format.
func (ow *OutWriter) WriteClassification(cls schema.Classification, cfg *contract.Config) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, cls)
		}, "Wrote JSON classification")
	case schema.CSVOut:
		err = ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVClassification(w, cls)
		}, "Wrote CSV classification")
	case schema.ParquetOut:
		err = fmt.Errorf("parquet output is only available for series data")
	default:
		err = ow.printClassificationText(cls, cfg)
	}
	if err != nil {
		return fmt.Errorf("error writing %s classification output: %w", cfg.Output, err)
	}
	return nil
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// An empty outputFile writes to Stdout.
func (ow *OutWriter) writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(ow.Stdout)
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writer(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}
