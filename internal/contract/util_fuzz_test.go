package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateLabel fuzzes TruncateLabel with random labels and widths.
func FuzzTruncateLabel(f *testing.F) {
	f.Add("orders.created_date", 10)
	f.Add("", 0)
	f.Add("äöü", 4)
	f.Add("2024-01-01", -1)

	f.Fuzz(func(t *testing.T, label string, maxWidth int) {
		got := TruncateLabel(label, maxWidth)
		if maxWidth > 3 && utf8.RuneCountInString(got) > maxWidth {
			t.Fatalf("label %q exceeds width %d", got, maxWidth)
		}
	})
}
