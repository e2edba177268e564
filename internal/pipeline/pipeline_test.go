// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coil/internal/frontmatter"
	"github.com/pdiddy/coil/pkg/types"
)

const scenarioDoc = "---\n" +
	"coil:\n" +
	"  options:\n" +
	"    keep_indentation: false\n" +
	"  files:\n" +
	"    a: out/a.txt\n" +
	"---\n" +
	"\n" +
	"The greeting below is indented to sit under this paragraph.\n" +
	"\n" +
	"```text a\n" +
	"  hello\n" +
	"  world\n" +
	"```\n"

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func diagKinds(r *Result) []types.DiagnosticKind {
	var out []types.DiagnosticKind
	for _, d := range r.Diagnostics {
		out = append(out, d.Kind)
	}
	return out
}

func TestRun_Scenario(t *testing.T) {
	root := t.TempDir()
	var log bytes.Buffer

	result, err := Run(scenarioDoc, Options{OutputRoot: root, Out: &log})
	require.NoError(t, err)
	assert.False(t, result.HasDiagnostics())
	require.Len(t, result.Written, 1)

	data, err := os.ReadFile(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(data))
	assert.Contains(t, log.String(), "wrote:")
	assert.Contains(t, log.String(), "1 written, 0 diagnostics")
}

func TestRun_KeepIndentation(t *testing.T) {
	root := t.TempDir()
	doc := "---\ncoil:\n  options:\n    keep_indentation: true\n  files:\n    a: a.txt\n---\n```text a\n  hello\n  world\n```\n"

	_, err := Run(doc, Options{OutputRoot: root})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "  hello\n  world\n", string(data))
}

func TestRun_UnmatchedMapping(t *testing.T) {
	root := t.TempDir()
	doc := "---\ncoil:\n  options:\n    keep_indentation: false\n  files:\n    a: x.txt\n    b: y.txt\n---\n```txt a\nA\n```\n"

	var log bytes.Buffer
	result, err := Run(doc, Options{OutputRoot: root, Out: &log})
	require.NoError(t, err)
	assert.Len(t, result.Written, 1)
	assert.Equal(t, []types.DiagnosticKind{types.DiagUnmatchedMapping}, diagKinds(result))
	assert.Equal(t, "b", result.Diagnostics[0].Key)
	assert.Contains(t, log.String(), `warning: unmatched_mapping`)
	assert.Equal(t, []string{"x.txt"}, listFiles(t, root))
}

func TestRun_DuplicateBinding(t *testing.T) {
	root := t.TempDir()
	doc := "---\ncoil:\n  options:\n    keep_indentation: false\n  files:\n    a: x.txt\n---\n```txt a\nfirst\n```\n\n```txt a\nsecond\n```\n"

	result, err := Run(doc, Options{OutputRoot: root})
	require.NoError(t, err)
	assert.Len(t, result.Written, 1)
	assert.Equal(t, []types.DiagnosticKind{types.DiagDuplicateBinding}, diagKinds(result))
	assert.Equal(t, 12, result.Diagnostics[0].Line)

	data, err := os.ReadFile(filepath.Join(root, "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}

func TestRun_FatalErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, err error)
	}{
		{
			name: "missing frontmatter",
			doc:  "# Title\n\n```txt a\nbody\n```\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, frontmatter.ErrMissingFrontmatter))
			},
		},
		{
			name: "frontmatter not leading",
			doc:  "\n---\ncoil:\n  options:\n    keep_indentation: false\n  files:\n    a: a.txt\n---\n```txt a\nbody\n```\n",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, frontmatter.ErrMissingFrontmatter))
			},
		},
		{
			name: "yaml syntax error",
			doc:  "---\ncoil: [\n---\n```txt a\nbody\n```\n",
			check: func(t *testing.T, err error) {
				var perr *frontmatter.ParseError
				assert.True(t, errors.As(err, &perr))
			},
		},
		{
			name: "schema error",
			doc:  "---\ncoil:\n  files:\n    a: a.txt\n---\n```txt a\nbody\n```\n",
			check: func(t *testing.T, err error) {
				var serr *frontmatter.SchemaError
				require.True(t, errors.As(err, &serr))
				assert.Equal(t, "coil.options", serr.Field)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			result, err := Run(tt.doc, Options{OutputRoot: root})
			require.Error(t, err)
			assert.Nil(t, result)
			tt.check(t, err)
			assert.Empty(t, listFiles(t, root))
		})
	}
}

func TestRun_PathEscapeDoesNotStopOthers(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	doc := "---\ncoil:\n  options:\n    keep_indentation: false\n  files:\n    bad: ../evil.txt\n    good: good.txt\n---\n" +
		"```txt bad\nevil\n```\n\n```txt good\ngood\n```\n"

	result, err := Run(doc, Options{OutputRoot: root})
	require.NoError(t, err)
	assert.Len(t, result.Written, 1)
	require.Equal(t, []types.DiagnosticKind{types.DiagPathEscape}, diagKinds(result))
	assert.Equal(t, "bad", result.Diagnostics[0].Key)
	assert.Contains(t, result.Diagnostics[0].String(), "../evil.txt")

	_, statErr := os.Stat(filepath.Join(parent, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, []string{"good.txt"}, listFiles(t, root))
}

func TestRun_Idempotent(t *testing.T) {
	root := t.TempDir()
	_, err := Run(scenarioDoc, Options{OutputRoot: root})
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)

	_, err = Run(scenarioDoc, Options{OutputRoot: root})
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	var log bytes.Buffer

	result, err := Run(scenarioDoc, Options{OutputRoot: root, DryRun: true, Out: &log})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "out", "a.txt")}, result.Written)
	assert.Contains(t, log.String(), "would write:")
	assert.Empty(t, listFiles(t, root))
}

func TestRun_DefaultsToWorkingDirectory(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	result, err := Run(scenarioDoc, Options{})
	require.NoError(t, err)
	require.Len(t, result.Written, 1)

	data, err := os.ReadFile(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(data))
}
