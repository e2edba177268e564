// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ResolvedEmission pairs one code block with one coil.files entry. It is
// created per match and handed straight to the emitter.
type ResolvedEmission struct {
	Key     string
	Path    string
	Block   CodeBlock
	Options CoilOptions
}

// DiagnosticKind classifies a recoverable problem found during resolution
// or emission.
type DiagnosticKind string

const (
	DiagDuplicateBinding DiagnosticKind = "duplicate_binding"
	DiagUnmatchedBlock   DiagnosticKind = "unmatched_block"
	DiagUnmatchedMapping DiagnosticKind = "unmatched_mapping"
	DiagPathEscape       DiagnosticKind = "path_escape"
	DiagIO               DiagnosticKind = "io_error"
)

// Diagnostic reports one recoverable problem. Key and Path identify the
// binding involved; Line is the code block's line when a block is involved.
type Diagnostic struct {
	Kind DiagnosticKind
	Key  string
	Path string
	Line int
	Err  error
}

// String renders the diagnostic with the key, path, and line it concerns.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	if d.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", d.Line)
	}
	b.WriteString(": ")
	switch d.Kind {
	case DiagDuplicateBinding:
		fmt.Fprintf(&b, "key %q already bound to an earlier block; block dropped", d.Key)
	case DiagUnmatchedBlock:
		if d.Key == "" {
			b.WriteString("code block has no metadata key")
		} else {
			fmt.Fprintf(&b, "key %q not found in coil.files", d.Key)
		}
	case DiagUnmatchedMapping:
		fmt.Fprintf(&b, "coil.files entry %q -> %q has no matching code block", d.Key, d.Path)
	default:
		fmt.Fprintf(&b, "key %q -> %q", d.Key, d.Path)
		if d.Err != nil {
			fmt.Fprintf(&b, ": %v", d.Err)
		}
	}
	return b.String()
}
