package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes the TruncateText function with random text and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Lanelet 42 has no left bound.", 10},
		{"short", 80},
		{"", 0},
		{"日本語のメッセージ", 5},
		{"abc", 3},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		got := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(got) > width && utf8.ValidString(text) {
			t.Fatalf("TruncateText(%q, %d) = %q exceeds width", text, width, got)
		}
	})
}
