// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NodeKind tags the variant held by a Node.
type NodeKind string

const (
	NodeFrontmatter NodeKind = "frontmatter"
	NodeCode        NodeKind = "code"
	// NodeOther covers every construct outside the restricted grammar.
	// Downstream stages skip it without inspecting it.
	NodeOther NodeKind = "other"
)

// Node is one top-level block of a parsed document. Exactly one of
// Frontmatter or Code is set, matching Kind; both are nil for NodeOther.
type Node struct {
	Kind        NodeKind
	Line        int
	Frontmatter *FrontmatterBlock
	Code        *CodeBlock
}

// Document is the parsed tree root: the top-level nodes in source order.
// It is built once per run and treated as read-only by every later stage.
type Document struct {
	Nodes []Node
}

// First returns the node at position 0, or false for an empty document.
func (d *Document) First() (Node, bool) {
	if d == nil || len(d.Nodes) == 0 {
		return Node{}, false
	}
	return d.Nodes[0], true
}

// FrontmatterBlock holds the raw, undecoded body between the --- fences.
type FrontmatterBlock struct {
	// Raw is the text between the fences, without the fence lines.
	Raw string

	// Line is the 1-based line of the opening fence.
	Line int
}

// CodeKind distinguishes fenced from indented code blocks.
type CodeKind string

const (
	CodeFenced   CodeKind = "fenced"
	CodeIndented CodeKind = "indented"
)

// CodeBlock is a verbatim region of the document. Content is whitespace
// significant and includes the trailing newline of each line.
type CodeBlock struct {
	Kind CodeKind

	// Lang is the first token of the fence info string. Empty for
	// indented blocks.
	Lang string

	// Meta is the info string after the language token, trimmed. It is the
	// binding key matched against coil.files.
	Meta string

	Content string

	// Line is the 1-based line of the opening fence (or first line for
	// indented blocks).
	Line int
}
