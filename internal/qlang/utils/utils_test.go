package utils

import (
	"reflect"
	"testing"
)

func TestSourceLine(t *testing.T) {
	source := "dec a = 1\r\necrire a\nfin"

	tests := []struct {
		name     string
		line     int
		expected string
	}{
		{"first line strips CR", 1, "dec a = 1"},
		{"middle line", 2, "ecrire a"},
		{"last line", 3, "fin"},
		{"zero", 0, ""},
		{"past end", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SourceLine(source, tt.line); got != tt.expected {
				t.Errorf("SourceLine(%d) = %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		name          string
		column, width int
		expected      string
	}{
		{"start of line", 1, 3, "^^^"},
		{"indented", 5, 2, "    ^^"},
		{"zero width", 3, 0, "  ^"},
		{"invalid column", 0, 1, "^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Underline(tt.column, tt.width); got != tt.expected {
				t.Errorf("Underline(%d, %d) = %q, want %q", tt.column, tt.width, got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if got := SplitLines(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
