package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/barconf/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	if startLine == endLine {
		line := lines[startLine]
		startChar := int(r.Start.Character)
		endChar := int(r.End.Character)
		if startChar > len(line) {
			startChar = len(line)
		}
		if endChar > len(line) {
			endChar = len(line)
		}
		return line[startChar:endChar]
	}

	// Multi-line range
	var parts []string
	for i := startLine; i <= endLine; i++ {
		line := lines[i]
		if i == startLine {
			startChar := int(r.Start.Character)
			if startChar > len(line) {
				startChar = len(line)
			}
			parts = append(parts, line[startChar:])
		} else if i == endLine {
			endChar := int(r.End.Character)
			if endChar > len(line) {
				endChar = len(line)
			}
			parts = append(parts, line[:endChar])
		} else {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// hover produces a Hover response for the key value under the cursor.
// References show the raw value and what it resolves to; literal colors
// show their hex and RGB forms. Returns nil outside of any key value.
func hover(result *AnalysisResult, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	k, ok := result.keyAt(pos)
	if !ok {
		return nil
	}

	var md strings.Builder
	fmt.Fprintf(&md, "**%s**", k.Path)
	switch {
	case k.Err != nil:
		fmt.Fprintf(&md, "\n\n`%s` does not resolve: %s", k.Raw, k.Err)
	case k.Raw != k.Resolved:
		fmt.Fprintf(&md, "\n\n`%s` \u2192 `%s`", k.Raw, k.Resolved)
	}
	if k.Err == nil {
		if c, err := color.Parse(k.Resolved); err == nil {
			p := c.Packed()
			fmt.Fprintf(&md, "\n\n`%s` \u00b7 `rgb(%d, %d, %d)` \u00b7 alpha %d", p.Short(), p.Red(), p.Green(), p.Blue(), p.Alpha())
		}
	}

	rng := k.Range
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md.String(),
		},
		Range: &rng,
	}
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	return hover(s.docs.Result(string(params.TextDocument.URI)), params.Position), nil
}
