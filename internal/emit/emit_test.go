// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coil/pkg/types"
)

func emission(key, path, content string, keep bool) types.ResolvedEmission {
	return types.ResolvedEmission{
		Key:     key,
		Path:    path,
		Block:   types.CodeBlock{Kind: types.CodeFenced, Meta: key, Content: content},
		Options: types.CoilOptions{KeepIndentation: keep},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestEmit_StripsIndentation(t *testing.T) {
	root := t.TempDir()
	got, err := Emit(emission("a", "out/a.txt", "  hello\n  world\n", false), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "a.txt"), got)
	assert.Equal(t, "hello\nworld\n", readFile(t, got))
}

func TestEmit_KeepIndentation(t *testing.T) {
	root := t.TempDir()
	content := "  hello\n\tworld\n"
	got, err := Emit(emission("a", "a.txt", content, true), root)
	require.NoError(t, err)
	assert.Equal(t, content, readFile(t, got))
}

func TestEmit_OverwritesAndIsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("stale contents"), 0o644))

	e := emission("a", "a.txt", "fresh\n", false)
	first, err := Emit(e, root)
	require.NoError(t, err)
	firstData := readFile(t, first)

	second, err := Emit(e, root)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", firstData)
	assert.Equal(t, firstData, readFile(t, second))
}

func TestEmit_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not", "yet")
	got, err := Emit(emission("a", "deep/file.txt", "x\n", false), root)
	require.NoError(t, err)
	assert.Equal(t, "x\n", readFile(t, got))
}

func TestEmit_PathEscape(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0o755))

	tests := []struct {
		name string
		path string
	}{
		{name: "parent traversal", path: "../escape.txt"},
		{name: "nested traversal", path: "a/../../escape.txt"},
		{name: "traversal that stays inside", path: "a/../inside.txt"},
		{name: "absolute outside", path: filepath.Join(parent, "escape.txt")},
		{name: "root itself", path: "."},
		{name: "absolute root", path: root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Emit(emission("k", tt.path, "data\n", false), root)
			require.Error(t, err)

			var perr *PathEscapeError
			require.True(t, errors.As(err, &perr), "want *PathEscapeError, got %T: %v", err, err)
			assert.Equal(t, "k", perr.Key)
			assert.Equal(t, tt.path, perr.Path)
			assert.Contains(t, err.Error(), tt.path)

			_, statErr := os.Stat(filepath.Join(parent, "escape.txt"))
			assert.True(t, os.IsNotExist(statErr), "no file may be written outside the root")
		})
	}
}

func TestEmit_AbsoluteInsideRoot(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "sub", "ok.txt")
	got, err := Emit(emission("k", target, "ok\n", false), root)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestEmit_SymlinkEscape(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	outside := filepath.Join(parent, "outside")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.Mkdir(outside, 0o755))
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Emit(emission("k", "link/new/file.txt", "data\n", false), root)
	var perr *PathEscapeError
	require.True(t, errors.As(err, &perr), "want *PathEscapeError, got %T: %v", err, err)

	_, statErr := os.Stat(filepath.Join(outside, "new"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEmit_SymlinkInsideRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "real"), 0o755))
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Emit(emission("k", "alias/file.txt", "data\n", false), root)
	require.NoError(t, err)
	assert.Equal(t, "data\n", readFile(t, filepath.Join(root, "real", "file.txt")))
}

func TestEmit_IOError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocker"), []byte("file"), 0o644))

	_, err := Emit(emission("k", "blocker/child.txt", "data\n", false), root)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "want *IOError, got %T: %v", err, err)
	assert.Equal(t, "blocker/child.txt", ioErr.Path)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestTarget_DoesNotWrite(t *testing.T) {
	root := t.TempDir()
	got, err := Target(emission("k", "a/b.txt", "x", false), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.txt"), got)

	_, statErr := os.Stat(filepath.Join(root, "a"))
	assert.True(t, os.IsNotExist(statErr))
}
