// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a coil extraction end to end: parse the document,
// decode its frontmatter, collect and resolve code blocks, then emit files.
// Stages run in order on one goroutine and never overlap.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/coil/internal/collect"
	"github.com/pdiddy/coil/internal/emit"
	"github.com/pdiddy/coil/internal/frontmatter"
	"github.com/pdiddy/coil/internal/markdown"
	"github.com/pdiddy/coil/internal/resolve"
	"github.com/pdiddy/coil/pkg/types"
)

// Options controls a single run.
type Options struct {
	// OutputRoot bounds every emitted path. Empty means the current
	// working directory.
	OutputRoot string

	// DryRun resolves targets and checks path safety without writing.
	DryRun bool

	// Out receives one progress line per emission and diagnostic.
	// Nil discards them.
	Out io.Writer

	// Logger receives debug logging. Nil discards it.
	Logger *slog.Logger
}

// Result holds the outcome of a run that got past the fatal stages.
type Result struct {
	// Written lists the absolute paths written (or, for a dry run, that
	// would be written) in emission order.
	Written []string

	// Diagnostics lists every recoverable problem: resolution diagnostics
	// first, then emission failures.
	Diagnostics []types.Diagnostic
}

// HasDiagnostics reports whether any recoverable problem was found.
func (r *Result) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}

// Run extracts the code blocks of text into files under opts.OutputRoot.
// A structurally unusable document (grammar violation, missing frontmatter,
// YAML or schema error) returns an error before any file is written.
func Run(text string, opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	log.Debug("parsing document", "grammar", markdown.FrontmatterCodeOnly.Name(), "bytes", len(text))
	doc, err := markdown.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	for i, n := range doc.Nodes {
		log.Debug("node", "index", i, "kind", n.Kind, "line", n.Line)
	}

	fm, err := frontmatter.Extract(doc)
	if err != nil {
		return nil, err
	}
	cfg, err := frontmatter.Decode(fm.Raw)
	if err != nil {
		return nil, fmt.Errorf("decoding frontmatter: %w", err)
	}
	log.Debug("config decoded", "keep_indentation", cfg.Options.KeepIndentation, "files", cfg.Keys())

	blocks := collect.Collect(doc)
	log.Debug("blocks found", "count", len(blocks), "keys", collect.Keys(blocks))

	emissions, diags := resolve.Resolve(blocks, cfg)
	result := &Result{Diagnostics: diags}

	for _, e := range emissions {
		var (
			path string
			err  error
		)
		if opts.DryRun {
			path, err = emit.Target(e, opts.OutputRoot)
		} else {
			path, err = emit.Emit(e, opts.OutputRoot)
		}
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, emissionDiagnostic(e, err))
			log.Debug("emission failed", "key", e.Key, "path", e.Path, "err", err)
			continue
		}
		result.Written = append(result.Written, path)
		if opts.DryRun {
			fmt.Fprintf(out, "would write: %s (key %q, line %d)\n", path, e.Key, e.Block.Line)
		} else {
			fmt.Fprintf(out, "wrote: %s (key %q, line %d)\n", path, e.Key, e.Block.Line)
		}
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(out, "warning: %s\n", d)
	}
	fmt.Fprintf(out, "\nSummary: %d written, %d diagnostics\n", len(result.Written), len(result.Diagnostics))
	return result, nil
}

func emissionDiagnostic(e types.ResolvedEmission, err error) types.Diagnostic {
	d := types.Diagnostic{
		Kind: types.DiagIO,
		Key:  e.Key,
		Path: e.Path,
		Line: e.Block.Line,
		Err:  err,
	}
	var perr *emit.PathEscapeError
	if errors.As(err, &perr) {
		d.Kind = types.DiagPathEscape
	}
	return d
}
