// Package session parses the JSON descriptor the host pipes to stdin.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultContextMax is assumed when the payload carries no window size.
const DefaultContextMax = 200000

// ErrMalformedInput marks stdin payloads that cannot be decoded at all.
// This is the only fatal condition in the program.
var ErrMalformedInput = errors.New("malformed session descriptor")

// Descriptor is the normalized view of one render request.
type Descriptor struct {
	ModelName   string
	ContextUsed int
	ContextMax  int
	Cwd         string
	ProjectDir  string
	SessionID   string
}

// PercentUsed returns context utilization in [0, 100].
func (d Descriptor) PercentUsed() float64 {
	if d.ContextMax <= 0 {
		return 0
	}
	return float64(d.ContextUsed) / float64(d.ContextMax) * 100
}

// model accepts both wire shapes: a bare string and an object with
// id/display_name.
type model struct {
	Name string
}

func (m *model) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Name)
	}
	var obj struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.Name = obj.DisplayName
	if m.Name == "" {
		m.Name = obj.ID
	}
	return nil
}

type payload struct {
	Model         model  `json:"model"`
	ContextUsed   *int   `json:"context_tokens_used"`
	ContextMax    *int   `json:"context_tokens_max"`
	Cwd           string `json:"cwd"`
	SessionID     string `json:"session_id"`
	ContextWindow struct {
		UsedPercentage    *float64 `json:"used_percentage"`
		ContextWindowSize int      `json:"context_window_size"`
	} `json:"context_window"`
	Workspace struct {
		ProjectDir string `json:"project_dir"`
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
}

// Parse reads the whole descriptor from r. Unknown fields are ignored
// and missing ones fall back to defaults; only an undecodable payload
// is an error.
func Parse(r io.Reader) (Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	d := Descriptor{
		ModelName: p.Model.Name,
		Cwd:       p.Cwd,
		SessionID: p.SessionID,
	}
	if d.Cwd == "" {
		d.Cwd = p.Workspace.CurrentDir
	}
	d.ProjectDir = p.Workspace.ProjectDir
	if d.ProjectDir == "" {
		d.ProjectDir = d.Cwd
	}

	d.ContextMax = DefaultContextMax
	switch {
	case p.ContextMax != nil && *p.ContextMax > 0:
		d.ContextMax = *p.ContextMax
	case p.ContextWindow.ContextWindowSize > 0:
		d.ContextMax = p.ContextWindow.ContextWindowSize
	}

	switch {
	case p.ContextUsed != nil:
		d.ContextUsed = *p.ContextUsed
	case p.ContextWindow.UsedPercentage != nil:
		pct := *p.ContextWindow.UsedPercentage
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		d.ContextUsed = int(pct / 100 * float64(d.ContextMax))
	}

	if d.ContextUsed < 0 {
		d.ContextUsed = 0
	}
	if d.ContextUsed > d.ContextMax {
		d.ContextUsed = d.ContextMax
	}
	return d, nil
}
