// Package main provides a performance benchmarking tool for the sparkline CLI.
// It generates synthetic datasets of increasing size, runs each command several
// times with and without the summary cache, treats the first cached run as cold
// and averages the rest as warm, then writes the timings to CSV.
//
// Prerequisites:
// - sparkline binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated datasets and the benchmark cache
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Points      int
	RowCounts   map[string]int // dataset name -> number of rows
	Commands    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Points:      30,
		RowCounts: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
		},
		Commands: []string{"summary", "compare", "series"},
	}

	if _, err := exec.LookPath("sparkline"); err != nil {
		fmt.Println("Prerequisites check failed: sparkline binary not found in PATH")
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// generateDatasets writes one Looker-style JSON dataset per configured size.
// Rows are spread over hours so every size yields a fine series and a daily comparison.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return nil, err
	}

	type cell struct {
		Value any `json:"value"`
	}
	type field struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	paths := make(map[string]string, len(config.RowCounts))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, rows := range config.RowCounts {
		data := make([]map[string]cell, rows)
		for i := range rows {
			ts := start.Add(time.Duration(i) * time.Minute)
			data[i] = map[string]cell{
				"events.created_day":  {Value: ts.Format("2006-01-02")},
				"events.created_hour": {Value: ts.Format("2006-01-02 15")},
				"events.count":        {Value: (i*7919)%100 + 1},
			}
		}
		doc := map[string]any{
			"fields": map[string]any{
				"dimension_like": []field{{"events.created_day", "date_date"}, {"events.created_hour", "date_hour"}},
				"measure_like":   []field{{"events.count", "count"}},
			},
			"data": data,
		}

		path := filepath.Join(config.WorkDir, name+".json")
		payload, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return nil, err
		}
		fmt.Printf("Generated %s dataset: %d rows at %s\n", name, rows, path)
		paths[name] = path
	}
	return paths, nil
}

// runBenchmarks executes all benchmark suites across the generated datasets.
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range []string{"small", "medium", "large"} {
		path, ok := datasets[name]
		if !ok {
			continue
		}
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, name, path, command))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, name, path, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	// A fresh cache file per suite keeps the cold run cold
	cacheFile := filepath.Join(config.WorkDir, fmt.Sprintf("cache-%s-%s.db", name, command))
	_ = os.Remove(cacheFile)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, cacheBackend, cacheFile, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a sparkline command numRuns times and returns the first time and the rest.
func runBenchmark(config BenchmarkConfig, path, command, cacheBackend, cacheFile string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command, path,
		"--points", fmt.Sprint(config.Points),
		"--output", "json",
		"--cache-backend", cacheBackend,
		"--cache-db-connect", cacheFile,
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("sparkline", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && json.Valid(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("sparkline_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
