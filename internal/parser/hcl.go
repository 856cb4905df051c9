package parser

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/barconf/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Document is an evaluated HCL configuration file.
type Document struct {
	Sections config.SectionMap
	// Includes holds include-file and include-directory directives in
	// source order.
	Includes []Include
	// Keys lists every evaluated key in source order.
	Keys []Key
	// Blocks maps section names to the range of their block header.
	Blocks map[string]hcl.Range
}

type Include struct {
	Directive string
	Path      string
	Range     hcl.Range
}

// Key locates one section key in the source. List attributes produce one
// Key per element, named "<attr>-<index>".
type Key struct {
	Section    string
	Name       string
	Value      string
	NameRange  hcl.Range
	ValueRange hcl.Range
}

// Path returns "section.key".
func (k Key) Path() string {
	return k.Section + "." + k.Name
}

// ParseHCL parses and evaluates a single HCL file without following its
// includes. References may only use variables for sections in this file.
func ParseHCL(src []byte, filename string) (*Document, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	body := file.Body.(*hclsyntax.Body)

	names := map[string]map[string]bool{}
	declareHCL(body, func(section, key string) {
		if names[section] == nil {
			names[section] = map[string]bool{}
		}
		if key != "" {
			names[section][key] = true
		}
	})

	doc, evalDiags := evaluate(body, names)
	return doc, append(diags, evalDiags...)
}

// SectionName returns the section a block defines: the block type followed
// by its labels, joined by "/". bar "top" {} is section "bar/top".
func SectionName(block *hclsyntax.Block) string {
	return strings.Join(append([]string{block.Type}, block.Labels...), "/")
}

func (l *loader) includeHCL(path string, src []byte, stack []string) error {
	file, diags := hclsyntax.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return fmt.Errorf("parsing HCL: %s", diags.Error())
	}
	body := file.Body.(*hclsyntax.Body)

	includes, diags := topLevel(body)
	if diags.HasErrors() {
		return fmt.Errorf("parsing HCL: %s", diags.Error())
	}
	for _, inc := range includes {
		if err := l.includeAll(path, inc.Directive, inc.Path, stack); err != nil {
			return fmt.Errorf("%s: %w", inc.Range, err)
		}
	}

	declareHCL(body, l.declare)
	l.units = append(l.units, hclUnit{path: path, body: body})
	return nil
}

func declareHCL(body *hclsyntax.Body, declare func(section, key string)) {
	for _, block := range body.Blocks {
		section := SectionName(block)
		declare(section, "")
		for name := range block.Body.Attributes {
			declare(section, name)
		}
	}
}

// topLevel evaluates the include directives, the only attributes allowed
// outside of blocks.
func topLevel(body *hclsyntax.Body) ([]Include, hcl.Diagnostics) {
	var includes []Include
	var diags hcl.Diagnostics
	ctx := &hcl.EvalContext{Functions: Functions()}

	for _, attr := range sortedAttributes(body) {
		if attr.Name != includeFileKey && attr.Name != includeDirectoryKey {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected top-level attribute",
				Detail:   fmt.Sprintf("Only %s and %s may appear outside of a section block.", includeFileKey, includeDirectoryKey),
				Subject:  attr.NameRange.Ptr(),
			})
			continue
		}
		values, _, valDiags := attributeValues(attr, ctx)
		diags = append(diags, valDiags...)
		for _, v := range values {
			includes = append(includes, Include{Directive: attr.Name, Path: v, Range: attr.SrcRange})
		}
	}
	return includes, diags
}

func evaluate(body *hclsyntax.Body, names map[string]map[string]bool) (*Document, hcl.Diagnostics) {
	doc := &Document{
		Sections: config.SectionMap{},
		Blocks:   map[string]hcl.Range{},
	}

	includes, diags := topLevel(body)
	doc.Includes = includes

	vars := variables(names)
	for _, block := range body.Blocks {
		section := SectionName(block)
		if prev, ok := doc.Blocks[section]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate section",
				Detail:   fmt.Sprintf("Section %q was already defined at %s.", section, prev),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		doc.Blocks[section] = block.DefRange()

		for _, nested := range block.Body.Blocks {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected nested block",
				Detail:   fmt.Sprintf("Section %q may only contain attributes.", section),
				Subject:  nested.DefRange().Ptr(),
			})
		}

		ctx := sectionContext(vars, names, section)
		values := map[string]string{}
		doc.Sections[section] = values

		for _, attr := range sortedAttributes(block.Body) {
			vals, ranges, attrDiags := attributeValues(attr, ctx)
			diags = append(diags, attrDiags...)
			if attrDiags.HasErrors() {
				continue
			}
			if _, isList := attr.Expr.(*hclsyntax.TupleConsExpr); !isList && len(vals) == 1 {
				values[attr.Name] = vals[0]
				doc.Keys = append(doc.Keys, Key{Section: section, Name: attr.Name, Value: vals[0], NameRange: attr.NameRange, ValueRange: ranges[0]})
				continue
			}
			for i, v := range vals {
				name := fmt.Sprintf("%s-%d", attr.Name, i)
				values[name] = v
				doc.Keys = append(doc.Keys, Key{Section: section, Name: name, Value: v, NameRange: attr.NameRange, ValueRange: ranges[i]})
			}
		}
	}
	return doc, diags
}

// attributeValues evaluates attr to one string, or one string per element
// when it is a list.
func attributeValues(attr *hclsyntax.Attribute, ctx *hcl.EvalContext) ([]string, []hcl.Range, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	if !val.IsKnown() || val.IsNull() {
		return []string{""}, []hcl.Range{attr.Expr.Range()}, diags
	}

	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		s, err := toString(val)
		if err != nil {
			return nil, nil, append(diags, valueDiag(attr.Expr.Range(), attr.Name, err))
		}
		return []string{s}, []hcl.Range{attr.Expr.Range()}, diags
	}

	var elems []hclsyntax.Expression
	if tuple, ok := attr.Expr.(*hclsyntax.TupleConsExpr); ok {
		elems = tuple.Exprs
	}

	var out []string
	var ranges []hcl.Range
	for i, elem := range val.AsValueSlice() {
		rng := attr.Expr.Range()
		if i < len(elems) {
			rng = elems[i].Range()
		}
		s, err := toString(elem)
		if err != nil {
			return nil, nil, append(diags, valueDiag(rng, attr.Name, err))
		}
		out = append(out, s)
		ranges = append(ranges, rng)
	}
	return out, ranges, diags
}

func toString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected a string, number or bool, got %s", val.Type().FriendlyName())
	}
	return s.AsString(), nil
}

func valueDiag(rng hcl.Range, name string, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid value",
		Detail:   fmt.Sprintf("%s: %s", name, err),
		Subject:  rng.Ptr(),
	}
}

func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := slices.Collect(maps.Values(body.Attributes))
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

// node is one level of the variable tree built from section names.
type node struct {
	keys     map[string]string
	children map[string]*node
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = &node{keys: map[string]string{}, children: map[string]*node{}}
		n.children[name] = c
	}
	return c
}

func (n *node) value() cty.Value {
	vals := make(map[string]cty.Value, len(n.keys)+len(n.children))
	for k, v := range n.keys {
		vals[k] = cty.StringVal(v)
	}
	for k, c := range n.children {
		vals[k] = c.value()
	}
	return cty.ObjectVal(vals)
}

// variables exposes every known key as a variable holding its reference
// string: colors.bg evaluates to "${colors.bg}" and bar.top.height to
// "${bar/top.height}". Resolution happens later, in config.
func variables(names map[string]map[string]bool) map[string]cty.Value {
	root := &node{keys: map[string]string{}, children: map[string]*node{}}
	rootKeys := map[string]string{}
	for section, keys := range names {
		n := root
		for _, part := range strings.Split(section, "/") {
			n = n.child(part)
		}
		for k := range keys {
			n.keys[k] = "${" + section + "." + k + "}"
			if strings.HasPrefix(section, "bar/") {
				rootKeys[k] = "${root." + k + "}"
			}
		}
	}

	vars := make(map[string]cty.Value, len(root.children)+2)
	for k, c := range root.children {
		vars[k] = c.value()
	}
	vars["root"] = stringObject(rootKeys)
	return vars
}

// sectionContext adds self, the keys of section, to vars.
func sectionContext(vars map[string]cty.Value, names map[string]map[string]bool, section string) *hcl.EvalContext {
	self := map[string]string{}
	for k := range names[section] {
		self[k] = "${self." + k + "}"
	}

	scoped := maps.Clone(vars)
	scoped["self"] = stringObject(self)
	return &hcl.EvalContext{
		Variables: scoped,
		Functions: functions,
	}
}

var functions = Functions()

func stringObject(m map[string]string) cty.Value {
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}
