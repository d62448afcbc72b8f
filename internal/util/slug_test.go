package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// List titles
		{"To Do", "to-do"},
		{"In Progress", "in-progress"},
		{"Done", "done"},
		{"in progress", "in-progress"},
		{"IN_PROGRESS", "in-progress"},

		// Special characters
		{"Fix: login issue", "fix-login-issue"},
		{"API v2.0 release", "api-v2-0-release"},

		// Multiple spaces/hyphens
		{"Multiple   spaces", "multiple-spaces"},
		{"Already--hyphenated", "already-hyphenated"},
		{"  Leading spaces", "leading-spaces"},

		// Unicode and accents
		{"Café au lait", "cafe-au-lait"},
		{"Terminé", "termine"},

		// Edge cases
		{"", ""},
		{"   ", ""},
		{"---", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugWords_Empty(t *testing.T) {
	if words := SlugWords("!!!"); words != nil {
		t.Errorf("SlugWords(%q) = %v, want nil", "!!!", words)
	}
}
