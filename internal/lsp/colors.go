package lsp

import (
	"strings"

	"github.com/jsvensson/barconf/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts a color to a protocol.Color with 0.0-1.0 channels.
func colorToLSP(c color.Color) protocol.Color {
	p := c.Packed()
	return protocol.Color{
		Red:   float32(p.Red()) / 255.0,
		Green: float32(p.Green()) / 255.0,
		Blue:  float32(p.Blue()) / 255.0,
		Alpha: float32(p.Alpha()) / 255.0,
	}
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// colorPresentation produces color presentation options for a given color and range.
// Only quoted hex literals are offered a TextEdit; references and function
// calls are left alone.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	c := color.RGBA(
		float64(params.Color.Red),
		float64(params.Color.Green),
		float64(params.Color.Blue),
		float64(params.Color.Alpha),
	)
	hexStr := c.Packed().Short()

	text := extractText(content, params.Range)
	literal := strings.Trim(text, `"`)
	if !strings.HasPrefix(literal, "#") {
		return []protocol.ColorPresentation{}
	}

	newText := hexStr
	if strings.HasPrefix(text, `"`) {
		newText = `"` + hexStr + `"`
	}

	return []protocol.ColorPresentation{
		{
			Label: hexStr,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: newText,
			},
		},
	}
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	result := s.docs.Result(string(params.TextDocument.URI))
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(content, params), nil
}
