package colors

import "testing"

func TestHex(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "known", input: "red", want: "#DC4C3E", wantOK: true},
		{name: "case insensitive", input: "Berry_Red", want: "#B8255F", wantOK: true},
		{name: "alias", input: "gray", want: "#999999", wantOK: true},
		{name: "padded", input: " blue ", want: "#4180FF", wantOK: true},
		{name: "unknown", input: "chartreuse", want: "", wantOK: false},
		{name: "empty", input: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Hex(tt.input)
			if ok != tt.wantOK {
				t.Errorf("Hex(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Hex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexOrDefault(t *testing.T) {
	if got := HexOrDefault("nope"); got != "#808080" {
		t.Errorf("expected charcoal fallback, got %q", got)
	}
	if got := HexOrDefault("teal"); got != "#148FAD" {
		t.Errorf("expected teal, got %q", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 21 {
		t.Fatalf("expected 21 names, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
	if !IsKnown(Default) {
		t.Errorf("default color %q is not in the palette", Default)
	}
}

func TestContrast(t *testing.T) {
	if got := Contrast("#FFFFFF"); got != "#000000" {
		t.Errorf("white background should get black text, got %q", got)
	}
	if got := Contrast("#000000"); got != "#FFFFFF" {
		t.Errorf("black background should get white text, got %q", got)
	}
	if got := Contrast("not-a-color"); got != "#FFFFFF" {
		t.Errorf("invalid input should fall back to white, got %q", got)
	}
}
