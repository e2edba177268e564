// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/coil/pkg/types"
)

// convert maps the goldmark root's direct children onto the tagged node
// variant. Nested content cannot occur under this grammar.
func convert(root ast.Node, source []byte) *types.Document {
	idx := newLineIndex(source)
	doc := &types.Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *frontmatterNode:
			line := 1
			doc.Nodes = append(doc.Nodes, types.Node{
				Kind:        types.NodeFrontmatter,
				Line:        line,
				Frontmatter: &types.FrontmatterBlock{Raw: joinLines(node.Lines(), source), Line: line},
			})
		case *ast.FencedCodeBlock:
			block := fencedBlock(node, source, idx)
			doc.Nodes = append(doc.Nodes, types.Node{Kind: types.NodeCode, Line: block.Line, Code: block})
		case *ast.CodeBlock:
			block := &types.CodeBlock{
				Kind:    types.CodeIndented,
				Content: joinLines(node.Lines(), source),
				Line:    firstLine(node.Lines(), idx),
			}
			doc.Nodes = append(doc.Nodes, types.Node{Kind: types.NodeCode, Line: block.Line, Code: block})
		default:
			line := 0
			if n.Type() == ast.TypeBlock {
				line = firstLine(n.Lines(), idx)
			}
			doc.Nodes = append(doc.Nodes, types.Node{Kind: types.NodeOther, Line: line})
		}
	}
	return doc
}

func fencedBlock(node *ast.FencedCodeBlock, source []byte, idx lineIndex) *types.CodeBlock {
	block := &types.CodeBlock{
		Kind:    types.CodeFenced,
		Content: joinLines(node.Lines(), source),
	}
	switch {
	case node.Info != nil:
		block.Lang, block.Meta = splitInfo(node.Info.Segment.Value(source))
		block.Line = idx.line(node.Info.Segment.Start)
	case node.Lines().Len() > 0:
		block.Line = firstLine(node.Lines(), idx) - 1
	}
	return block
}

// splitInfo separates the language token from the metadata string and
// resolves character references in both.
func splitInfo(info []byte) (lang, meta string) {
	info = resolveReferences(bytes.TrimSpace(info))
	i := bytes.IndexAny(info, " \t")
	if i < 0 {
		return string(info), ""
	}
	return string(info[:i]), strings.TrimSpace(string(info[i+1:]))
}

func resolveReferences(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}

func joinLines(lines *text.Segments, source []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

func firstLine(lines *text.Segments, idx lineIndex) int {
	if lines.Len() == 0 {
		return 0
	}
	return idx.line(lines.At(0).Start)
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	idx := lineIndex{0}
	for i, c := range source {
		if c == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) line(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}
