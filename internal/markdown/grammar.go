// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown parses coil documents with a restricted Markdown grammar:
// one leading YAML frontmatter block plus fenced and indented code blocks.
// Every other construct (headings, lists, links, emphasis, tables, raw HTML,
// extensions) is absent from the grammar itself, so it is never recognized
// and falls through as plain paragraph text.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/coil/pkg/types"
)

// Grammar is an immutable construct allow-list bound to a goldmark parser.
// The only instance is FrontmatterCodeOnly.
type Grammar struct {
	name       string
	constructs []string
	parser     parser.Parser
}

// FrontmatterCodeOnly recognizes frontmatter, fenced code, indented code,
// and character references in fence info strings. Paragraphs are kept as
// the catch-all for unrecognized text.
var FrontmatterCodeOnly = &Grammar{
	name: "frontmatter+code",
	constructs: []string{
		"frontmatter",
		"code_fenced",
		"code_indented",
		"character_reference",
	},
	parser: parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(&frontmatterParser{}, 0),
			util.Prioritized(parser.NewCodeBlockParser(), 500),
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
	),
}

// Name returns the profile name.
func (g *Grammar) Name() string { return g.name }

// Constructs lists the enabled construct families.
func (g *Grammar) Constructs() []string {
	return append([]string(nil), g.constructs...)
}

// GrammarViolationError reports a parse whose root is not a document node.
type GrammarViolationError struct {
	Kind string
}

func (e *GrammarViolationError) Error() string {
	return fmt.Sprintf("markdown: root node is %s, not a document", e.Kind)
}

// Parse parses text with the FrontmatterCodeOnly grammar.
func Parse(text string) (*types.Document, error) {
	return FrontmatterCodeOnly.Parse(text)
}

// Parse parses text into a Document. Unsupported syntax never fails the
// parse; it becomes NodeOther.
func (g *Grammar) Parse(src string) (*types.Document, error) {
	source := []byte(src)
	root := g.parser.Parse(text.NewReader(source))
	if root == nil || root.Kind() != ast.KindDocument {
		kind := "nil"
		if root != nil {
			kind = root.Kind().String()
		}
		return nil, &GrammarViolationError{Kind: kind}
	}
	return convert(root, source), nil
}
