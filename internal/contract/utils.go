package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/sparkline/schema"
)

// Change label constants.
const (
	GoodValue = "Good"
	BadValue  = "Bad"
)

// Color variables for console output.
var (
	GoodColor    = color.New(color.FgGreen, color.Bold) // GoodColor marks a change in the desired direction.
	BadColor     = color.New(color.FgRed, color.Bold)   // BadColor marks a change against the desired direction.
	NeutralColor = color.New(color.FgCyan)              // NeutralColor is for labels and captions.
)

// GetPlainLabel returns a plain text label for a headline.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(h schema.Headline) string {
	if h.Good {
		return GoodValue
	}
	return BadValue
}

// GetColorChange returns the arrow and change text colored by whether the change is good news.
func GetColorChange(h schema.Headline) string {
	text := h.Arrow + " " + h.Change
	if h.Good {
		return GoodColor.Sprint(text)
	}
	return BadColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for summary caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sparkline_cache.db"
	}
	return filepath.Join(homeDir, ".sparkline_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sparkline_history.db"
	}
	return filepath.Join(homeDir, ".sparkline_history.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for "..." and at least one character of content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
