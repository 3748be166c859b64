package outwriter

import (
	"os"

	"github.com/tier4/mapvalidator/internal/contract"
	"golang.org/x/term"
)

// Column budgets of the findings table, borders and padding included.
const (
	severityColumnWidth  = 12
	primitiveColumnWidth = 22
	idColumnWidth        = 14
	codeColumnWidth      = 38
	minMessageWidth      = 20
	maxMessageWidth      = 90
)

// terminalWidth returns the configured width override, the detected terminal width,
// or a conservative default when neither is available.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxMessageWidth calculates the maximum width for finding messages in table output
// based on terminal width and the widest check name shown.
func GetMaxMessageWidth(cfg *contract.Config, checkWidth int) int {
	baseWidth := severityColumnWidth + primitiveColumnWidth + idColumnWidth + codeColumnWidth
	baseWidth += checkWidth + 4

	available := terminalWidth(cfg) - baseWidth
	if available < minMessageWidth {
		return minMessageWidth
	}
	if available > maxMessageWidth {
		return maxMessageWidth
	}
	return available
}
