package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	if h == nil {
		t.Fatal("expected non-nil hover result")
	}
	mc, ok := h.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("expected MarkupContent, got %T", h.Contents)
	}
	if mc.Kind != protocol.MarkupKindMarkdown {
		t.Errorf("expected markdown, got %s", mc.Kind)
	}
	return mc.Value
}

func TestHover(t *testing.T) {
	result := analyze(validConfig)

	tests := []struct {
		name    string
		pos     protocol.Position
		want    []string
		notWant []string
	}{
		{
			name: "reference to color",
			pos:  protocol.Position{Line: 8, Character: 17},
			want: []string{"**bar/top.background**", "`${colors.bg}` → `#1d1f21`", "rgb(29, 31, 33)"},
		},
		{
			name:    "color literal",
			pos:     protocol.Position{Line: 1, Character: 12},
			want:    []string{"**colors.bg**", "`#1d1f21`", "rgb(29, 31, 33)", "alpha 255"},
			notWant: []string{"→"},
		},
		{
			name:    "non-color reference",
			pos:     protocol.Position{Line: 15, Character: 13},
			want:    []string{"**module/date.label**", "`${root.height}` → `24`"},
			notWant: []string{"rgb("},
		},
		{
			name: "list element",
			pos:  protocol.Position{Line: 11, Character: 30},
			want: []string{"**bar/top.font-1**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := hoverText(t, hover(result, tt.pos))
			for _, w := range tt.want {
				if !strings.Contains(md, w) {
					t.Errorf("hover %q does not contain %q", md, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(md, w) {
					t.Errorf("hover %q should not contain %q", md, w)
				}
			}
		})
	}
}

func TestHover_UnresolvedKey(t *testing.T) {
	result := analyze("colors {\n  home = env(\"NOPE\")\n}\n")

	md := hoverText(t, hover(result, protocol.Position{Line: 1, Character: 12}))
	if !strings.Contains(md, "does not resolve") || !strings.Contains(md, "NOPE") {
		t.Errorf("hover %q does not explain the failure", md)
	}
}

func TestHover_Nothing(t *testing.T) {
	result := analyze(validConfig)

	positions := []protocol.Position{
		{Line: 1, Character: 3},  // key name
		{Line: 6, Character: 0},  // blank line
		{Line: 40, Character: 0}, // past the end
	}
	for _, pos := range positions {
		if h := hover(result, pos); h != nil {
			t.Errorf("hover at %+v = %+v, want nil", pos, h)
		}
	}
	if h := hover(nil, protocol.Position{}); h != nil {
		t.Error("hover on nil result should be nil")
	}
}

func TestPosInRange(t *testing.T) {
	r := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 10},
	}
	tests := []struct {
		pos  protocol.Position
		want bool
	}{
		{protocol.Position{Line: 1, Character: 4}, true},
		{protocol.Position{Line: 1, Character: 9}, true},
		{protocol.Position{Line: 1, Character: 10}, false},
		{protocol.Position{Line: 1, Character: 3}, false},
		{protocol.Position{Line: 0, Character: 5}, false},
	}
	for _, tt := range tests {
		if got := posInRange(tt.pos, r); got != tt.want {
			t.Errorf("posInRange(%+v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestExtractText(t *testing.T) {
	content := "colors {\n  bg = \"#000\"\n}"
	got := extractText(content, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 7},
		End:   protocol.Position{Line: 1, Character: 13},
	})
	if got != `"#000"` {
		t.Errorf("extractText() = %q", got)
	}
}
