// Package format holds small text helpers shared by the renderer.
package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// blocks are the partial-cell characters, lightest to heaviest. A cell
// fills in eighths, so a ten-cell bar has eighty distinguishable levels.
var blocks = []rune("▏▎▍▌▋▊▉█")

const (
	fullCell  = '█'
	emptyCell = '░'
)

// Bar renders a progress bar of width cells for percent in [0, 100].
// Out-of-range values are clamped and the filled amount rounds down, so
// the bar never overstates progress.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	eighths := int(percent * float64(width) * 8 / 100)
	full := eighths / 8
	rem := eighths % 8

	var b strings.Builder
	b.Grow(width * 3)
	for i := 0; i < full; i++ {
		b.WriteRune(fullCell)
	}
	empty := width - full
	if rem > 0 {
		b.WriteRune(blocks[rem-1])
		empty--
	}
	for i := 0; i < empty; i++ {
		b.WriteRune(emptyCell)
	}
	return b.String()
}

// ShortenPath rewrites path for display: the home prefix becomes "~"
// and deep paths keep only the last two elements.
func ShortenPath(path, home string) string {
	if path == "" {
		return ""
	}
	if home != "" {
		switch {
		case path == home:
			return "~"
		case strings.HasPrefix(path, home+"/"):
			path = "~" + strings.TrimPrefix(path, home)
		}
	}

	parts := make([]string, 0, 8)
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) <= 3 {
		return path
	}

	head := "…"
	if parts[0] == "~" {
		head = "~"
	}
	return head + "/" + parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// Truncate bounds s to maxWidth terminal cells, appending an ellipsis
// when something was cut. Widths are display widths, so CJK runes and
// emoji count as two cells.
func Truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}
