// Package render turns the collected session, git, and quota state
// into the final status line.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bacongravy/claude-code-statusline/internal/format"
	"github.com/bacongravy/claude-code-statusline/internal/gitstate"
	"github.com/bacongravy/claude-code-statusline/internal/session"
	"github.com/bacongravy/claude-code-statusline/internal/usage"
)

const separator = " · "

const (
	iconDir      = "📂"
	iconBranch   = "🌿"
	iconModel    = "🧠"
	iconContext  = "📝"
	iconFiveHour = "🕔"
	iconSevenDay = "🗓️"
)

const maxBranchWidth = 20

// Options carries the environment facts the renderer needs. Render is
// a pure function of its arguments: identical inputs produce identical
// bytes.
type Options struct {
	Palette    Palette
	Home       string
	Hyperlinks bool
	BarWidth   int

	ShowGit     bool
	ShowModel   bool
	ShowContext bool
	ShowUsage   bool

	// HadToken distinguishes "fetch failed" from "nothing to report":
	// the N/A marker only appears when a token existed.
	HadToken bool
}

// Segment is one icon-plus-text unit of the line.
type Segment struct {
	Icon  string
	Text  string
	Style lipgloss.Style
}

// Render produces the status line, without a trailing newline.
func Render(d session.Descriptor, g gitstate.Status, u usage.Windows, opts Options) string {
	if opts.BarWidth <= 0 {
		opts.BarWidth = 10
	}
	return joinSegments(buildSegments(d, g, u, opts))
}

func buildSegments(d session.Descriptor, g gitstate.Status, u usage.Windows, opts Options) []Segment {
	segs := make([]Segment, 0, 6)

	if text := dirText(d, opts); text != "" {
		segs = append(segs, Segment{Icon: iconDir, Text: text, Style: opts.Palette.Plain})
	}
	if opts.ShowGit {
		if text := gitText(g); text != "" {
			segs = append(segs, Segment{Icon: iconBranch, Text: text, Style: opts.Palette.Plain})
		}
	}
	if opts.ShowModel && d.ModelName != "" {
		segs = append(segs, Segment{Icon: iconModel, Text: d.ModelName, Style: opts.Palette.Model})
	}
	if opts.ShowContext {
		pct := d.PercentUsed()
		segs = append(segs, Segment{
			Icon:  iconContext,
			Text:  barText(pct, opts.BarWidth),
			Style: opts.Palette.forPercent(pct),
		})
	}
	if opts.ShowUsage {
		segs = append(segs, usageSegments(u, opts)...)
	}
	return segs
}

func dirText(d session.Descriptor, opts Options) string {
	if d.Cwd == "" {
		return ""
	}
	path := format.ShortenPath(d.Cwd, opts.Home)
	if opts.Hyperlinks {
		return termenv.Hyperlink("vscode://file"+d.Cwd, path)
	}
	return path
}

// gitText renders the branch or abbreviated commit plus a parenthetical
// of the non-zero counts, in a fixed order.
func gitText(g gitstate.Status) string {
	if !g.InRepo {
		return ""
	}
	name := g.Branch
	if name == "" {
		name = g.ShortHash
	}
	if name == "" {
		return ""
	}
	name = format.Truncate(name, maxBranchWidth)

	parts := make([]string, 0, 5)
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(g.Staged, "staged")
	add(g.Unstaged, "unstaged")
	add(g.Untracked, "untracked")
	add(g.Ahead, "ahead")
	add(g.Behind, "behind")

	if len(parts) == 0 {
		return name
	}
	return name + " (" + strings.Join(parts, ", ") + ")"
}

func usageSegments(u usage.Windows, opts Options) []Segment {
	segs := make([]Segment, 0, 2)
	if u.FiveHour.Available {
		segs = append(segs, Segment{
			Icon:  iconFiveHour,
			Text:  barText(u.FiveHour.Utilization, opts.BarWidth),
			Style: opts.Palette.forPercent(u.FiveHour.Utilization),
		})
	}
	if u.SevenDay.Available {
		segs = append(segs, Segment{
			Icon:  iconSevenDay,
			Text:  barText(u.SevenDay.Utilization, opts.BarWidth),
			Style: opts.Palette.forPercent(u.SevenDay.Utilization),
		})
	}
	if len(segs) == 0 && opts.HadToken {
		segs = append(segs, Segment{Text: "Usage: N/A", Style: opts.Palette.Red})
	}
	return segs
}

func barText(pct float64, width int) string {
	return fmt.Sprintf("%s %.0f%%", format.Bar(pct, width), pct)
}

func joinSegments(segs []Segment) string {
	if len(segs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		text := s.Style.Render(s.Text)
		if s.Icon != "" {
			text = s.Icon + " " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, separator)
}
