// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// DIRECTORY ERRORS
// =============================================================================

// DirErrorKind categorizes directory-change failures.
type DirErrorKind int

const (
	// DirNotFound: the target does not exist.
	DirNotFound DirErrorKind = iota
	// DirInvalidEncoding: the resolved path is not valid UTF-8.
	DirInvalidEncoding
	// DirHomeUnset: no target was given and HOME is not set.
	DirHomeUnset
	// DirNotDirectory: the target exists but is not a directory.
	DirNotDirectory
)

// DirError reports a failed directory change.
type DirError struct {
	Kind DirErrorKind
	Path string
	Err  error
}

func (e *DirError) Error() string {
	switch e.Kind {
	case DirNotFound:
		return fmt.Sprintf("Directory %s does not exist", e.Path)
	case DirInvalidEncoding:
		return "Invalid path encoding"
	case DirHomeUnset:
		return "HOME environment variable not set"
	case DirNotDirectory:
		return fmt.Sprintf("%s is not a directory", e.Path)
	default:
		return "cannot change directory to " + e.Path
	}
}

func (e *DirError) Unwrap() error {
	return e.Err
}

// IsDirKind reports whether err is a *DirError of the given kind.
func IsDirKind(err error, kind DirErrorKind) bool {
	var de *DirError
	return errors.As(err, &de) && de.Kind == kind
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveDir resolves target against cwd and returns the canonical directory.
//
// An empty target means home. A leading "~" is expanded to home. Relative
// targets are joined to cwd. The result has its symlinks evaluated and must
// be an existing directory with a UTF-8 name. home is usually $HOME; an
// empty home only matters when the target needs it.
func ResolveDir(cwd, target, home string) (string, error) {
	target = strings.TrimSpace(target)

	switch {
	case target == "" || target == "~":
		if home == "" {
			return "", &DirError{Kind: DirHomeUnset}
		}
		target = home
	case strings.HasPrefix(target, "~/"):
		if home == "" {
			return "", &DirError{Kind: DirHomeUnset}
		}
		target = filepath.Join(home, target[2:])
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(cwd, target)
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", &DirError{Kind: DirNotFound, Path: target, Err: err}
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", &DirError{Kind: DirNotFound, Path: target, Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &DirError{Kind: DirNotFound, Path: target, Err: err}
	}
	if !info.IsDir() {
		return "", &DirError{Kind: DirNotDirectory, Path: target}
	}

	if !utf8.ValidString(resolved) {
		return "", &DirError{Kind: DirInvalidEncoding, Path: resolved}
	}

	return resolved, nil
}
