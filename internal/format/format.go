// Package format rewrites bar configuration files in canonical style.
package format

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/jsvensson/barconf/internal/parser"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// File formats content as HCL or INI depending on the extension of path.
func File(path, content string) (string, error) {
	if parser.IsHCL(path) {
		return Format(content)
	}
	return INI(content)
}

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing.
func Format(content string) (string, error) {
	formatted := hclwrite.Format([]byte(content))
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed, nil
}

// INI rewrites INI source with aligned keys and one blank line between
// sections. Unlike Format it needs parseable input.
func INI(content string) (string, error) {
	f, err := parser.ParseINI([]byte(content))
	if err != nil {
		return "", fmt.Errorf("parsing INI: %w", err)
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("writing INI: %w", err)
	}
	return multipleBlankLines.ReplaceAllString(buf.String(), "\n\n"), nil
}
