// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// CoilOptions holds the global options from coil.options.
type CoilOptions struct {
	// KeepIndentation writes code block content verbatim when true. When
	// false the common leading whitespace of each block is stripped.
	KeepIndentation bool `json:"keep_indentation" yaml:"keep_indentation"`
}

// CoilConfig is the decoded coil section of a document's frontmatter.
type CoilConfig struct {
	Options CoilOptions `json:"options" yaml:"options"`

	// Files maps binding keys (code block metadata) to output paths
	// relative to the output root.
	Files map[string]string `json:"files" yaml:"files"`
}

// Keys returns the Files keys in sorted order.
func (c *CoilConfig) Keys() []string {
	keys := make([]string, 0, len(c.Files))
	for k := range c.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunConfig holds the CLI settings resolved from flags, environment, and
// the coil.yaml config file.
type RunConfig struct {
	// InputFile is the Markdown document to extract from.
	InputFile string `json:"input_file" yaml:"input_file"`

	// OutputDir is the root all emitted paths must stay inside
	// (default: current working directory).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DryRun resolves and checks targets without writing files.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Strict turns any diagnostic into a failing exit status.
	Strict bool `json:"strict" yaml:"strict"`

	// Verbose enables debug logging, including the parsed tree.
	Verbose bool `json:"verbose" yaml:"verbose"`
}
