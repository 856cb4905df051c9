package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// refAtCursor extracts the dotted reference under the cursor, such as
// "colors.bg" in a traversal or "bar/top.height" inside "${...}".
// Returns "" if the cursor is not on a word containing a dot.
func refAtCursor(line string, character uint32) string {
	col := int(character)
	if col >= len(line) || !isRefChar(line[col]) {
		return ""
	}

	end := col
	for end < len(line) && isRefChar(line[end]) {
		end++
	}
	start := col
	for start > 0 && isRefChar(line[start-1]) {
		start--
	}

	word := strings.Trim(line[start:end], ".")
	if !strings.Contains(word, ".") {
		return ""
	}
	return word
}

// isRefChar returns true for bytes that may appear in a section or key
// name, plus the dot separating them.
func isRefChar(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_' || b == '-' || b == '/' || b == '.'
}

// symbolFor maps a reference to its symbol table key. The last dotted part
// is the key; the rest is the section, where HCL traversals separate block
// labels with dots ("bar.top.height" is "bar/top.height"). self and root
// are resolved against the key at pos and the analyzed bar.
func symbolFor(result *AnalysisResult, ref string, pos protocol.Position) string {
	i := strings.LastIndex(ref, ".")
	section, key := strings.ReplaceAll(ref[:i], ".", "/"), ref[i+1:]

	switch section {
	case "self":
		k, ok := result.keyAt(pos)
		if !ok {
			return ""
		}
		section = k.Section
	case "root", "BAR":
		section = "bar/" + result.Bar
	}
	return section + "." + key
}

// definition returns the definition location for the reference at the
// given cursor position, or nil if the cursor is not on a known reference.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}

	lines := strings.Split(content, "\n")
	lineIdx := int(pos.Line)
	if lineIdx >= len(lines) {
		return nil
	}

	ref := refAtCursor(lines[lineIdx], pos.Character)
	if ref == "" {
		return nil
	}

	symRange, ok := result.Symbols[symbolFor(result, ref, pos)]
	if !ok {
		return nil
	}

	return &protocol.Location{
		URI:   protocol.DocumentUri(uri),
		Range: symRange,
	}
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	result := s.docs.Result(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return definition(result, content, uri, params.Position), nil
}
