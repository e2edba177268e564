// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve binds collected code blocks to coil.files entries by
// metadata key.
package resolve

import (
	"github.com/pdiddy/coil/pkg/types"
)

// Resolve pairs each block whose metadata names a coil.files key with that
// entry. Each key binds at most once: the first block in document order
// wins and later blocks with the same key are dropped with a
// duplicate_binding diagnostic. Blocks without a known key produce
// unmatched_block; keys no block claimed produce unmatched_mapping, in
// sorted key order, after all block diagnostics. Diagnostics never stop
// resolution.
func Resolve(blocks []types.CodeBlock, cfg *types.CoilConfig) ([]types.ResolvedEmission, []types.Diagnostic) {
	var (
		emissions []types.ResolvedEmission
		diags     []types.Diagnostic
	)
	files := map[string]string{}
	var opts types.CoilOptions
	if cfg != nil {
		files = cfg.Files
		opts = cfg.Options
	}

	bound := make(map[string]int, len(files))
	for _, b := range blocks {
		path, ok := files[b.Meta]
		if b.Meta == "" || !ok {
			diags = append(diags, types.Diagnostic{
				Kind: types.DiagUnmatchedBlock,
				Key:  b.Meta,
				Line: b.Line,
			})
			continue
		}
		if _, taken := bound[b.Meta]; taken {
			diags = append(diags, types.Diagnostic{
				Kind: types.DiagDuplicateBinding,
				Key:  b.Meta,
				Path: path,
				Line: b.Line,
			})
			continue
		}
		bound[b.Meta] = b.Line
		emissions = append(emissions, types.ResolvedEmission{
			Key:     b.Meta,
			Path:    path,
			Block:   b,
			Options: opts,
		})
	}

	if cfg != nil {
		for _, key := range cfg.Keys() {
			if _, ok := bound[key]; ok {
				continue
			}
			diags = append(diags, types.Diagnostic{
				Kind: types.DiagUnmatchedMapping,
				Key:  key,
				Path: files[key],
			})
		}
	}
	return emissions, diags
}
