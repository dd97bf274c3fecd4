package render

import "strings"

// SupportsHyperlinks reports whether the terminal advertises OSC 8
// support. The host passes its TERM* environment through, so the
// environment is a workable proxy for the real capability.
func SupportsHyperlinks(getenv func(string) string) bool {
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Hyper", "Alacritty", "vscode", "ghostty":
		return true
	}
	for _, key := range []string{"ITERM_SESSION_ID", "WEZTERM_PANE", "WT_SESSION", "KITTY_WINDOW_ID"} {
		if getenv(key) != "" {
			return true
		}
	}
	return strings.Contains(getenv("TERM"), "kitty")
}
