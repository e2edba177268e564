// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter extracts the leading frontmatter block of a parsed
// document and decodes its coil section into a CoilConfig.
package frontmatter

import (
	"errors"
	"fmt"

	"github.com/pdiddy/coil/pkg/types"
)

// ErrMissingFrontmatter is returned when the document does not start with
// a frontmatter block.
var ErrMissingFrontmatter = errors.New("document must start with a --- frontmatter block")

// Extract returns the frontmatter block at position 0 of doc.
func Extract(doc *types.Document) (types.FrontmatterBlock, error) {
	first, ok := doc.First()
	if !ok {
		return types.FrontmatterBlock{}, fmt.Errorf("%w: document is empty", ErrMissingFrontmatter)
	}
	if first.Kind != types.NodeFrontmatter || first.Frontmatter == nil {
		return types.FrontmatterBlock{}, fmt.Errorf("%w: found %s node at line %d", ErrMissingFrontmatter, first.Kind, first.Line)
	}
	return *first.Frontmatter, nil
}
