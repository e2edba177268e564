// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KindFrontmatter is the goldmark node kind for a --- fenced YAML block.
var KindFrontmatter = ast.NewNodeKind("Frontmatter")

// frontmatterNode holds the body lines between the fences.
type frontmatterNode struct {
	ast.BaseBlock
}

func (n *frontmatterNode) Kind() ast.NodeKind { return KindFrontmatter }

func (n *frontmatterNode) IsRaw() bool { return true }

func (n *frontmatterNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// frontmatterParser opens only on the very first line of the source and
// only when a closing fence exists further down. An unclosed fence is left
// to the paragraph parser.
type frontmatterParser struct{}

func (b *frontmatterParser) Trigger() []byte {
	return []byte{'-'}
}

func (b *frontmatterParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if lineNum, _ := reader.Position(); lineNum != 0 {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	if !isFence(line) || !hasClosingFence(reader.Source()[segment.Stop:]) {
		return nil, parser.NoChildren
	}
	return &frontmatterNode{}, parser.NoChildren
}

func (b *frontmatterParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if isFence(line) {
		newline := 0
		if line[len(line)-1] == '\n' {
			newline = 1
		}
		reader.Advance(segment.Len() - newline)
		return parser.Close
	}
	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (b *frontmatterParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *frontmatterParser) CanInterruptParagraph() bool { return false }

func (b *frontmatterParser) CanAcceptIndentedLine() bool { return false }

var fence = []byte("---")

// isFence reports whether line is exactly "---", allowing trailing
// whitespace and a line ending.
func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r\n"), fence)
}

func hasClosingFence(rest []byte) bool {
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i+1], rest[i+1:]
		} else {
			rest = nil
		}
		if isFence(line) {
			return true
		}
	}
	return false
}
