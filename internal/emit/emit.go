// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit writes resolved code blocks to disk under an output root.
// A target path must stay strictly inside the root; anything else is
// refused before a directory is created.
package emit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/coil/pkg/types"
)

// PathEscapeError reports a configured path that leaves the output root.
type PathEscapeError struct {
	Key    string
	Path   string
	Root   string
	Reason string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("path %q for key %q escapes output root %s: %s", e.Path, e.Key, e.Root, e.Reason)
}

// IOError wraps a filesystem failure for one emission.
type IOError struct {
	Key  string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %q for key %q: %v", e.Path, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Emit applies the indentation policy and writes the block to its target,
// creating parent directories and overwriting any existing file. It
// returns the absolute path written.
func Emit(e types.ResolvedEmission, root string) (string, error) {
	target, err := Target(e, root)
	if err != nil {
		return "", err
	}

	content := e.Block.Content
	if !e.Options.KeepIndentation {
		content = Dedent(content)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", &IOError{Key: e.Key, Path: e.Path, Err: err}
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return "", &IOError{Key: e.Key, Path: e.Path, Err: err}
	}
	return target, nil
}

// Target resolves the emission's path against root without writing
// anything. An empty root means the current working directory. Paths with
// a ".." segment, absolute paths outside root, the root itself, and paths
// reached through a symlink that leaves root are all rejected.
func Target(e types.ResolvedEmission, root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &IOError{Key: e.Key, Path: e.Path, Err: err}
	}
	escape := func(reason string) error {
		return &PathEscapeError{Key: e.Key, Path: e.Path, Root: absRoot, Reason: reason}
	}

	if hasParentSegment(e.Path) {
		return "", escape("contains a parent directory segment")
	}

	p := filepath.FromSlash(e.Path)
	var target string
	if filepath.IsAbs(p) {
		target = filepath.Clean(p)
	} else {
		target = filepath.Join(absRoot, p)
	}
	if !within(absRoot, target) {
		return "", escape("resolves outside the output root")
	}

	ok, err := realWithin(absRoot, target)
	if err != nil {
		return "", &IOError{Key: e.Key, Path: e.Path, Err: err}
	}
	if !ok {
		return "", escape("a symlink on the path leaves the output root")
	}
	return target, nil
}

func hasParentSegment(path string) bool {
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	for _, s := range segments {
		if s == ".." {
			return true
		}
	}
	return false
}

// within reports whether target is a strict descendant of root. Both must
// be clean absolute paths.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// realWithin resolves symlinks on the deepest existing part of target and
// checks the result against the real root. A root that does not exist yet
// cannot contain links.
func realWithin(root, target string) (bool, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing := target
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return true, nil
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if errors.Is(err, fs.ErrNotExist) {
		// dangling link
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if existing == target {
		return within(realRoot, resolved), nil
	}
	return resolved == realRoot || within(realRoot, resolved), nil
}
