package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette holds the segment styles. They are built against an explicit
// renderer with a forced profile: stdout is a pipe when the host runs
// us, and profile detection on a pipe would strip every color the host
// is prepared to display.
type Palette struct {
	Plain  lipgloss.Style
	Model  lipgloss.Style
	Green  lipgloss.Style
	Yellow lipgloss.Style
	Red    lipgloss.Style
}

// NewPalette builds the basic ANSI palette, or a sequence-free palette
// when noColor is set.
func NewPalette(noColor bool) Palette {
	profile := termenv.ANSI
	if noColor {
		profile = termenv.Ascii
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return Palette{
		Plain:  r.NewStyle(),
		Model:  r.NewStyle().Foreground(lipgloss.Color("6")),
		Green:  r.NewStyle().Foreground(lipgloss.Color("2")),
		Yellow: r.NewStyle().Foreground(lipgloss.Color("3")),
		Red:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// forPercent picks the style for a utilization percentage: green below
// 50, yellow from 50, red from 80. Band boundaries belong to the hotter
// band.
func (p Palette) forPercent(pct float64) lipgloss.Style {
	switch {
	case pct >= 80:
		return p.Red
	case pct >= 50:
		return p.Yellow
	default:
		return p.Green
	}
}
