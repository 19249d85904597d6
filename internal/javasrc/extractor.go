package javasrc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// TypeKind is the declaration keyword of a type
type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "annotation"
)

var typeKinds = map[string]TypeKind{
	"class_declaration":           KindClass,
	"interface_declaration":       KindInterface,
	"enum_declaration":            KindEnum,
	"record_declaration":          KindRecord,
	"annotation_type_declaration": KindAnnotation,
}

// TypeInfo is the member fingerprint of one top-level type. Fields include
// enum constants and record components; methods include annotation
// elements.
type TypeInfo struct {
	Name         string
	Kind         TypeKind
	Fields       []string
	Constructors []string
	Methods      []string
}

// FileInfo is what a compilation unit declares
type FileInfo struct {
	Package string
	Types   []TypeInfo
	// HasErrors is set when tree-sitter recovered from syntax errors
	HasErrors bool
}

// Primary returns the top-level type with the shortest name, the first one
// on ties.
func (f *FileInfo) Primary() (TypeInfo, bool) {
	if len(f.Types) == 0 {
		return TypeInfo{}, false
	}
	best := f.Types[0]
	for _, t := range f.Types[1:] {
		if len(t.Name) < len(best.Name) {
			best = t
		}
	}
	return best, true
}

// Fqn returns the dotted name of t. Types in the unnamed package are placed
// under prefix.
func (f *FileInfo) Fqn(t TypeInfo, defaultPrefix string) string {
	if f.Package == "" {
		return defaultPrefix + t.Name
	}
	return f.Package + "." + t.Name
}

// Extractor parses Java compilation units with tree-sitter. An Extractor is
// not safe for concurrent use.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates an extractor with the Java grammar loaded
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	return &Extractor{parser: parser}
}

// Extract reads the package and the top-level types of source
func (e *Extractor) Extract(ctx context.Context, source []byte) (*FileInfo, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	root := tree.RootNode()
	info := &FileInfo{HasErrors: root.HasError()}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "package_declaration" {
			info.Package = packageName(child, source)
			continue
		}
		if kind, ok := typeKinds[child.Type()]; ok {
			info.Types = append(info.Types, extractType(child, kind, source))
		}
	}
	return info, nil
}

func packageName(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch c := n.NamedChild(i); c.Type() {
		case "scoped_identifier", "identifier":
			return c.Content(source)
		}
	}
	return ""
}

func extractType(n *sitter.Node, kind TypeKind, source []byte) TypeInfo {
	t := TypeInfo{Kind: kind}
	if name := n.ChildByFieldName("name"); name != nil {
		t.Name = name.Content(source)
	}
	if kind == KindRecord {
		if params := n.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				if p := params.NamedChild(i); p.Type() == "formal_parameter" {
					t.Fields = appendName(t.Fields, p, source)
				}
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		t.collectMembers(body, source)
	}
	return t
}

// collectMembers records the members declared directly in body. Nested
// types are skipped.
func (t *TypeInfo) collectMembers(body *sitter.Node, source []byte) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "field_declaration", "constant_declaration":
			for j := 0; j < int(member.NamedChildCount()); j++ {
				if d := member.NamedChild(j); d.Type() == "variable_declarator" {
					t.Fields = appendName(t.Fields, d, source)
				}
			}
		case "enum_constant":
			t.Fields = appendName(t.Fields, member, source)
		case "constructor_declaration", "compact_constructor_declaration":
			t.Constructors = appendName(t.Constructors, member, source)
		case "method_declaration", "annotation_type_element_declaration":
			t.Methods = appendName(t.Methods, member, source)
		case "enum_body_declarations":
			t.collectMembers(member, source)
		}
	}
}

func appendName(names []string, n *sitter.Node, source []byte) []string {
	if name := n.ChildByFieldName("name"); name != nil {
		return append(names, name.Content(source))
	}
	return names
}
