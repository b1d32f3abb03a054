package outwriter

import (
	"os"

	"github.com/devflow/devflow/internal/contract"
	"golang.org/x/term"
)

// Bounds for the free-text column of a table.
const (
	minTextWidth = 20
	maxTextWidth = 90
)

// GetMaxTableTextWidth returns how wide a free-text column (recommendations,
// repository names) may be, given the terminal width and reservedWidth for
// the other columns.
func GetMaxTableTextWidth(cfg *contract.Config, reservedWidth int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detected
		}
	}

	// Borders, separators and padding
	available := termWidth - reservedWidth - 10
	return min(max(available, minTextWidth), maxTextWidth)
}
