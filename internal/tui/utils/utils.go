// Package utils provides shared formatting helpers for the TUI.
package utils

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/tuidoist/internal/api"
)

// TruncateString shortens s to width terminal cells, ending in "…" when cut.
// Wide runes are counted by their display width.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// TruncateRunes caps s at n characters, adding "..." when cut.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FormatDue renders a due date the way the task table shows it:
// the server's human string when present, else the date and optional time.
func FormatDue(due *api.Due) string {
	if due == nil {
		return ""
	}
	if due.String != "" {
		return due.String
	}
	if due.Datetime != nil && *due.Datetime != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(*due.Datetime, "Z")); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return due.Date
}

// FormatTimestamp shortens an RFC 3339 timestamp to "2006-01-02 15:04".
// Unparseable input is returned unchanged.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}
