// Package colors maps Todoist color names to terminal colors.
package colors

import (
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default is the color Todoist assigns to labels and filters created without one.
const Default = "charcoal"

// palette holds the official Todoist colors (IDs 30-49) keyed by API name.
var palette = map[string]string{
	"berry_red":   "#B8255F",
	"red":         "#DC4C3E",
	"orange":      "#C77100",
	"yellow":      "#B29104",
	"olive_green": "#949C31",
	"lime_green":  "#65A33A",
	"green":       "#369307",
	"mint_green":  "#42A393",
	"teal":        "#148FAD",
	"sky_blue":    "#319DC0",
	"light_blue":  "#6988A4",
	"blue":        "#4180FF",
	"grape":       "#692EC2",
	"violet":      "#CA3FEE",
	"lavender":    "#A4698C",
	"magenta":     "#E05095",
	"salmon":      "#C9766F",
	"charcoal":    "#808080",
	"grey":        "#999999",
	"taupe":       "#8F7A69",

	// alternative spelling accepted by the API
	"gray": "#999999",
}

// Hex returns the hex value for a Todoist color name.
// Names are matched case-insensitively.
func Hex(name string) (string, bool) {
	hex, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	return hex, ok
}

// HexOrDefault returns the hex value for name, falling back to the default color.
func HexOrDefault(name string) string {
	if hex, ok := Hex(name); ok {
		return hex
	}
	return palette[Default]
}

// IsKnown reports whether name is a Todoist color.
func IsKnown(name string) bool {
	_, ok := Hex(name)
	return ok
}

// Names returns every known color name in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contrast returns black or white, whichever reads better on top of hex.
// Unparseable input yields white.
func Contrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#FFFFFF"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}
