package lsp

import (
	"errors"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/barconf/internal/color"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/jsvensson/barconf/internal/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
)

const diagSource = "barconf"

// AnalysisResult holds all information produced by analyzing a config file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	// Symbols maps "section.key" to the range of the key's name, and
	// "section" to the range of the block header.
	Symbols map[string]protocol.Range
	Keys    []KeyInfo
	Colors  []ColorLocation
	// Bar is the section root references resolve against.
	Bar string
}

// KeyInfo is one evaluated key with its resolved value.
type KeyInfo struct {
	Path     string
	Section  string
	Raw      string
	Resolved string
	Err      error
	Range    protocol.Range // value range
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	IsRef bool // true if the value is a reference rather than a literal
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses HCL content from memory, resolves every key and produces
// diagnostics, a symbol table and color locations. It collects ALL errors
// rather than short-circuiting on the first. Sections from included files
// are not loaded, so references into them are reported as unknown.
func Analyze(filename, content string, opts ...config.Option) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	doc, diags := parser.ParseHCL([]byte(content), filename)
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
	}
	if doc == nil {
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}

	for section, rng := range doc.Blocks {
		result.Symbols[section] = hclRangeToLSP(rng)
	}
	for _, k := range doc.Keys {
		if _, ok := result.Symbols[k.Path()]; !ok {
			result.Symbols[k.Path()] = hclRangeToLSP(k.NameRange)
		}
	}

	result.Bar = barName(doc.Sections)
	cfg := config.New(filename, result.Bar, opts...)
	if err := cfg.SetSections(doc.Sections); err != nil {
		result.addError(result.errorRange(doc, err), err.Error())
		return result
	}

	for _, k := range doc.Keys {
		info := KeyInfo{
			Path:    k.Path(),
			Section: k.Section,
			Raw:     k.Value,
			Range:   hclRangeToLSP(k.ValueRange),
		}
		info.Resolved, info.Err = cfg.Resolve(k.Section, k.Name, k.Value)
		result.Keys = append(result.Keys, info)

		if info.Err != nil {
			continue
		}
		if c, err := color.Parse(info.Resolved); err == nil {
			result.Colors = append(result.Colors, ColorLocation{
				Range: info.Range,
				Color: c,
				IsRef: config.IsReference(k.Value),
			})
		}
	}

	var merr *multierror.Error
	if errors.As(cfg.Check(), &merr) {
		for _, err := range merr.Errors {
			result.addError(result.errorRange(doc, err), err.Error())
		}
	}

	return result
}

// barName picks the first bar section so root references resolve.
func barName(sections config.SectionMap) string {
	var bars []string
	for name := range sections {
		if bar, ok := strings.CutPrefix(name, "bar/"); ok {
			bars = append(bars, bar)
		}
	}
	if len(bars) == 0 {
		return ""
	}
	return slices.Min(bars)
}

// errorRange finds the source range an error refers to: the failing key's
// value, its section's header, or the start of the file.
func (r *AnalysisResult) errorRange(doc *parser.Document, err error) protocol.Range {
	var ke *config.KeyError
	if errors.As(err, &ke) {
		for _, k := range r.Keys {
			if k.Path == ke.Path {
				return k.Range
			}
		}
		for _, k := range doc.Keys {
			if k.Path() == ke.Path {
				return hclRangeToLSP(k.ValueRange)
			}
		}
		section, _, _ := strings.Cut(ke.Path, ".")
		if rng, ok := doc.Blocks[section]; ok {
			return hclRangeToLSP(rng)
		}
	}
	return protocol.Range{}
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addError adds an error-level diagnostic at the given range.
func (r *AnalysisResult) addError(rng protocol.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    rng,
		Severity: &DiagError,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func strPtr(s string) *string {
	return &s
}

// keyAt returns the key whose value contains pos.
func (r *AnalysisResult) keyAt(pos protocol.Position) (KeyInfo, bool) {
	for _, k := range r.Keys {
		if posInRange(pos, k.Range) {
			return k, true
		}
	}
	return KeyInfo{}, false
}
