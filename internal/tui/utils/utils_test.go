package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/tuidoist/internal/api"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "fits", input: "hello", width: 10, want: "hello"},
		{name: "exact", input: "hello", width: 5, want: "hello"},
		{name: "cut", input: "hello world", width: 8, want: "hello w…"},
		{name: "one cell", input: "hello", width: 1, want: "…"},
		{name: "zero", input: "hello", width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.width); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateStringWideRunes(t *testing.T) {
	got := TruncateString("日本語のタスク", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("%q is %d cells wide, want <= 7", got, w)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 200); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := TruncateRunes("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
}

func TestFormatDue(t *testing.T) {
	datetime := "2025-03-05T17:00:00"
	tests := []struct {
		name string
		due  *api.Due
		want string
	}{
		{name: "none", due: nil, want: ""},
		{name: "human string", due: &api.Due{String: "every monday", Date: "2025-03-10"}, want: "every monday"},
		{name: "datetime", due: &api.Due{Date: "2025-03-05", Datetime: &datetime}, want: "2025-03-05 17:00"},
		{name: "date", due: &api.Due{Date: "2025-03-05"}, want: "2025-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDue(tt.due); got != tt.want {
				t.Errorf("FormatDue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTimestampPassesThroughGarbage(t *testing.T) {
	if got := FormatTimestamp("yesterday"); got != "yesterday" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimestamp(""); got != "" {
		t.Errorf("got %q", got)
	}
}
