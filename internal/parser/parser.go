package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ludo-technologies/docaudit/domain"
)

// Parser wraps the tree-sitter Python parser
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := python.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ExtractFunctions parses a Python file and returns its function units in
// source order. Functions nested inside other functions or classes are
// emitted as independent units after their enclosing unit; the enclosing
// unit's source still contains them verbatim.
//
// Fails with a PARSE_ERROR when the text is not syntactically valid Python.
func (p *Parser) ExtractFunctions(filename string, source []byte) ([]domain.FunctionUnit, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		if tree != nil {
			tree.Close()
		}
		return nil, domain.NewParseError(fmt.Sprintf("failed to parse %s", filename), err)
	}
	if tree == nil {
		return nil, domain.NewParseError(fmt.Sprintf("failed to parse %s", filename), nil)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, domain.NewParseError(fmt.Sprintf("no parse tree for %s", filename), nil)
	}
	if root.HasError() {
		return nil, domain.NewParseError(fmt.Sprintf("%s is not valid Python", filename), nil)
	}

	var units []domain.FunctionUnit
	p.visit(root, source, filename, &units)
	return units, nil
}

// visit walks the CST emitting function units. The enclosing definition is
// emitted before any definition nested in its body.
func (p *Parser) visit(node *sitter.Node, src []byte, file string, units *[]domain.FunctionUnit) {
	switch node.Type() {
	case "decorated_definition":
		// Decorators belong to the unit's signature span
		if def := node.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
			if unit := buildUnit(node, def, src, file); unit != nil {
				*units = append(*units, *unit)
			}
			p.visitBody(def, src, file, units)
			return
		}
	case "function_definition":
		if unit := buildUnit(node, node, src, file); unit != nil {
			*units = append(*units, *unit)
		}
		p.visitBody(node, src, file, units)
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		p.visit(node.NamedChild(i), src, file, units)
	}
}

// visitBody descends into a definition's body to find nested definitions
func (p *Parser) visitBody(def *sitter.Node, src []byte, file string, units *[]domain.FunctionUnit) {
	body := def.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		p.visit(body.NamedChild(i), src, file, units)
	}
}

// buildUnit assembles a FunctionUnit from a function_definition node. outer
// is the span anchor and differs from def only for decorated definitions.
func buildUnit(outer, def *sitter.Node, src []byte, file string) *domain.FunctionUnit {
	nameNode := def.ChildByFieldName("name")
	bodyNode := def.ChildByFieldName("body")
	if nameNode == nil || bodyNode == nil {
		return nil
	}

	start := int(outer.StartByte())
	bodyStart := int(bodyNode.StartByte())
	bodyEnd := int(bodyNode.EndByte())

	unit := &domain.FunctionUnit{
		Name:      nameNode.Content(src),
		Signature: domain.Span{Start: start, End: bodyStart},
		Body:      domain.Span{Start: bodyStart, End: bodyEnd},
		Source:    string(src[start:bodyEnd]),
		File:      file,
		StartLine: int(outer.StartPoint().Row) + 1,
	}

	if doc := docstringNode(bodyNode); doc != nil {
		unit.Doc = &domain.Span{Start: int(doc.StartByte()), End: int(doc.EndByte())}
	}

	return unit
}

// docstringNode returns the string node of the body's docstring, or nil.
// Only a literal string expression as the first body statement qualifies;
// f-strings, concatenations, and computed values do not.
func docstringNode(body *sitter.Node) *sitter.Node {
	if body.NamedChildCount() == 0 {
		return nil
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() != 1 {
		return nil
	}
	expr := first.NamedChild(0)
	if expr.Type() != "string" {
		return nil
	}
	// f-strings parse as string nodes with interpolation children
	for i := 0; i < int(expr.NamedChildCount()); i++ {
		if expr.NamedChild(i).Type() == "interpolation" {
			return nil
		}
	}
	return expr
}

// FilterByName keeps only units whose name exactly matches. An empty result
// is not an error: the caller decides how to report a missing match.
func FilterByName(units []domain.FunctionUnit, name string) []domain.FunctionUnit {
	if name == "" {
		return units
	}
	var filtered []domain.FunctionUnit
	for _, u := range units {
		if u.Name == name {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
