package describer

import (
	"strings"
	"testing"
)

func TestCleanCaption(t *testing.T) {
	cases := []struct {
		in, expected string
	}{
		{"a cat on a windowsill", "a cat on a windowsill"},
		{"  a man, a baby, and a window\n", "a man a baby and a window"},
		{`a "smiling" cactus, in an office`, "a smiling cactus in an office"},
		{`",,""`, ""},
	}
	for _, c := range cases {
		actual := CleanCaption(c.in)
		if actual != c.expected {
			t.Errorf("CleanCaption(%q): expected %q, got %q", c.in, c.expected, actual)
		}
		if strings.ContainsAny(actual, `,"`) {
			t.Errorf("CleanCaption(%q) left a comma or quote in %q", c.in, actual)
		}
	}
}

func TestCleanCategory(t *testing.T) {
	if expected, actual := "desk", CleanCategory("  Desk\n"); expected != actual {
		t.Errorf("Expected %q, got %q", expected, actual)
	}
	// Out of vocabulary output is passed through, only normalized
	if expected, actual := "kitchen table", CleanCategory("Kitchen Table"); expected != actual {
		t.Errorf("Expected %q, got %q", expected, actual)
	}
}

func TestCategoryPrompt(t *testing.T) {
	p := CategoryPrompt("a cat on a windowsill")
	if !strings.Contains(p, "outside, inside, working, activity, desk, gallery") {
		t.Errorf("prompt does not list the categories: %q", p)
	}
	if !strings.HasSuffix(p, "Description: a cat on a windowsill") {
		t.Errorf("prompt does not end with the description: %q", p)
	}
}

func TestIsKnownCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsKnownCategory(c) {
			t.Errorf("Expected %q to be known", c)
		}
	}
	if IsKnownCategory("kitchen") {
		t.Error("Expected kitchen to be unknown")
	}
}
