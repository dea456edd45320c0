package outwriter

import (
	"os"

	"github.com/huangsam/sparkline/internal/contract"
	"golang.org/x/term"
)

// Bounds for label columns and the inline sparkline.
const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	minLabelWidth    = 10
	maxLabelWidth    = 40
	minSparkWidth    = 8
	maxSparkWidth    = 120
)

// terminalWidth returns the width override, the detected terminal width, or a default.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if detected, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && detected > 0 {
		return detected
	}
	return defaultTermWidth
}

// GetMaxLabelWidth calculates the maximum width for point labels in table output.
func GetMaxLabelWidth(cfg *contract.Config) int {
	// Reserve space for the position and value columns plus borders
	available := terminalWidth(cfg) - 40
	return min(max(available, minLabelWidth), maxLabelWidth)
}

// GetSparklineWidth calculates how many runes the inline sparkline may use.
func GetSparklineWidth(cfg *contract.Config) int {
	// Leave room for the min/max annotation
	available := terminalWidth(cfg) - 30
	return min(max(available, minSparkWidth), maxSparkWidth)
}
