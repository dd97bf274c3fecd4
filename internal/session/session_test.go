package session

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `{
		"model": "Opus 4.5",
		"context_tokens_used": 23000,
		"context_tokens_max": 100000,
		"cwd": "/home/u/app",
		"session_id": "sess-123"
	}`

	d, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if d.ModelName != "Opus 4.5" {
		t.Errorf("ModelName = %q, want %q", d.ModelName, "Opus 4.5")
	}
	if d.ContextUsed != 23000 {
		t.Errorf("ContextUsed = %d, want 23000", d.ContextUsed)
	}
	if d.ContextMax != 100000 {
		t.Errorf("ContextMax = %d, want 100000", d.ContextMax)
	}
	if d.Cwd != "/home/u/app" {
		t.Errorf("Cwd = %q, want %q", d.Cwd, "/home/u/app")
	}
	if d.ProjectDir != "/home/u/app" {
		t.Errorf("ProjectDir = %q, want cwd fallback", d.ProjectDir)
	}
	if d.SessionID != "sess-123" {
		t.Errorf("SessionID = %q, want %q", d.SessionID, "sess-123")
	}
}

func TestParseNestedShape(t *testing.T) {
	input := `{
		"cwd": "/tmp/test",
		"model": {"id": "claude-opus-4-5", "display_name": "Claude Opus 4.5"},
		"context_window": {"used_percentage": 38, "context_window_size": 200000},
		"workspace": {"project_dir": "/tmp/proj", "current_dir": "/tmp/test"}
	}`

	d, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if d.ModelName != "Claude Opus 4.5" {
		t.Errorf("ModelName = %q, want display_name", d.ModelName)
	}
	if d.ContextMax != 200000 {
		t.Errorf("ContextMax = %d, want 200000", d.ContextMax)
	}
	if d.ContextUsed != 76000 {
		t.Errorf("ContextUsed = %d, want 76000 (38%% of 200000)", d.ContextUsed)
	}
	if d.ProjectDir != "/tmp/proj" {
		t.Errorf("ProjectDir = %q, want %q", d.ProjectDir, "/tmp/proj")
	}
}

func TestParseModelIDFallback(t *testing.T) {
	d, err := Parse(strings.NewReader(`{"model":{"id":"claude-sonnet-4-5"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.ModelName != "claude-sonnet-4-5" {
		t.Errorf("ModelName = %q, want id fallback", d.ModelName)
	}
}

func TestParseDefaults(t *testing.T) {
	d, err := Parse(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.ContextMax != DefaultContextMax {
		t.Errorf("ContextMax = %d, want default %d", d.ContextMax, DefaultContextMax)
	}
	if d.ContextUsed != 0 || d.ModelName != "" || d.Cwd != "" {
		t.Errorf("empty payload should give zero fields, got %+v", d)
	}
}

func TestParseClamping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		used  int
		max   int
	}{
		{"used above max", `{"context_tokens_used":150000,"context_tokens_max":100000}`, 100000, 100000},
		{"negative used", `{"context_tokens_used":-50,"context_tokens_max":100000}`, 0, 100000},
		{"zero max ignored", `{"context_tokens_used":500,"context_tokens_max":0}`, 500, DefaultContextMax},
		{"percentage above 100", `{"context_window":{"used_percentage":250,"context_window_size":1000}}`, 1000, 1000},
		{"negative percentage", `{"context_window":{"used_percentage":-3,"context_window_size":1000}}`, 0, 1000},
	}
	for _, tt := range tests {
		d, err := Parse(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("%s: Parse: %v", tt.name, err)
		}
		if d.ContextUsed != tt.used || d.ContextMax != tt.max {
			t.Errorf("%s: used/max = %d/%d, want %d/%d", tt.name, d.ContextUsed, d.ContextMax, tt.used, tt.max)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "{invalid", "not json at all", `"just a string"`} {
		_, err := Parse(strings.NewReader(input))
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Parse(%q) err = %v, want ErrMalformedInput", input, err)
		}
	}
}

func TestPercentUsed(t *testing.T) {
	tests := []struct {
		used, max int
		want      float64
	}{
		{23000, 100000, 23},
		{0, 100000, 0},
		{100000, 100000, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		d := Descriptor{ContextUsed: tt.used, ContextMax: tt.max}
		if got := d.PercentUsed(); got != tt.want {
			t.Errorf("PercentUsed(%d/%d) = %v, want %v", tt.used, tt.max, got, tt.want)
		}
	}
}
