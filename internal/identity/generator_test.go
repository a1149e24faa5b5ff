package identity

import (
	"strings"
	"testing"
)

func TestGenerator_New(t *testing.T) {
	t.Parallel()

	for _, n := range []int{8, 12, 32, 40} {
		g := NewGenerator("mog", n)
		id := g.New()
		if !strings.HasPrefix(id, "mog_") {
			t.Errorf("id %q missing prefix", id)
		}
		if got := len(id) - len("mog_"); got != n {
			t.Errorf("suffix length = %d, want %d", got, n)
		}
		if !g.Valid(id) {
			t.Errorf("minted id %q not valid", id)
		}
	}
}

func TestGenerator_Unique(t *testing.T) {
	t.Parallel()

	g := NewGenerator("mog", 12)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestGenerator_Valid(t *testing.T) {
	t.Parallel()

	g := NewGenerator("mog", 12)
	tests := []struct {
		id   string
		want bool
	}{
		{"mog_abc123def456", true},
		{"mog_abcdef", true},
		{"mog_abcde", false},
		{"mog_ABC123DEF456", false},
		{"mog_abc-123", false},
		{"mog_", false},
		{"mogabc123def456", false},
		{"dev_abc123def456", false},
		{"mog_" + strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := g.Valid(tt.id); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestGenerator_Normalize(t *testing.T) {
	t.Parallel()

	g := NewGenerator("mog", 12)
	id, err := g.Normalize(" MOG_ABC123DEF456\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "mog_abc123def456" {
		t.Errorf("got %q", id)
	}

	if _, err := g.Normalize("nope"); err == nil {
		t.Error("expected error for malformed id")
	}
}
