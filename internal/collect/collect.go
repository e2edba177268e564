// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers the top-level code blocks of a parsed document.
package collect

import "github.com/pdiddy/coil/pkg/types"

// Collect returns copies of the document's top-level code blocks in source
// order. It never fails; a document without code yields an empty slice.
func Collect(doc *types.Document) []types.CodeBlock {
	blocks := []types.CodeBlock{}
	if doc == nil {
		return blocks
	}
	for _, n := range doc.Nodes {
		if n.Kind != types.NodeCode || n.Code == nil {
			continue
		}
		blocks = append(blocks, *n.Code)
	}
	return blocks
}

// Keys returns the non-empty metadata keys of blocks in order, duplicates
// included.
func Keys(blocks []types.CodeBlock) []string {
	var keys []string
	for _, b := range blocks {
		if b.Meta != "" {
			keys = append(keys, b.Meta)
		}
	}
	return keys
}
