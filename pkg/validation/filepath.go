package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxPathLen bounds user-provided path input before any processing.
const maxPathLen = 1024

// PathValidator validates user-provided file paths to prevent directory
// traversal. Event definition import and export accept paths from the command
// line; everything they touch must stay inside the configured base directory.
//
// Validation layers:
//   - Lexical: reject absolute paths and ".." components (filepath.IsLocal)
//   - Normalization: clean and join against the base
//   - Symlink resolution and containment verification
//
// Safe for concurrent use.
type PathValidator struct {
	basePath     string
	resolvedBase string
}

// NewPathValidator creates a validator rooted at basePath. The base must be
// an absolute path to an existing directory.
func NewPathValidator(basePath string) (*PathValidator, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if !filepath.IsAbs(basePath) {
		return nil, fmt.Errorf("base path must be absolute: %s", basePath)
	}

	info, err := os.Stat(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("base path does not exist: %s", basePath)
		}
		return nil, fmt.Errorf("cannot access base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	resolvedBase, err := filepath.EvalSymlinks(basePath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve symbolic links in base path: %w", err)
	}

	return &PathValidator{
		basePath:     basePath,
		resolvedBase: resolvedBase,
	}, nil
}

// Validate checks that userPath is safe to access within the base directory
// and returns the validated absolute path. The path may name a file that does
// not exist yet, as long as its parent resolves inside the base.
func (v *PathValidator) Validate(userPath string) (string, error) {
	if userPath == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(userPath) > maxPathLen {
		return "", fmt.Errorf("path length exceeds maximum of %d bytes", maxPathLen)
	}

	// Rejects absolute paths, paths starting with "..", and Windows reserved
	// names.
	if !filepath.IsLocal(userPath) {
		return "", fmt.Errorf("path escapes allowed directory: %s", userPath)
	}

	fullPath := filepath.Join(v.basePath, filepath.Clean(userPath))

	// Resolve symlinks. If the target doesn't exist yet, resolve its parent
	// so new files can be validated before creation.
	resolvedPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		parent := filepath.Dir(fullPath)
		resolvedParent, parentErr := filepath.EvalSymlinks(parent)
		if parentErr != nil {
			return "", fmt.Errorf("cannot resolve path: %s", userPath)
		}
		resolvedPath = filepath.Join(resolvedParent, filepath.Base(fullPath))
	}

	// Containment check against the resolved base.
	relPath, err := filepath.Rel(v.resolvedBase, resolvedPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("resolved path escapes base directory: %s", userPath)
	}

	return resolvedPath, nil
}

// ValidateSecurePath is a convenience function that validates a path without
// creating a PathValidator instance. For repeated validations, create a
// PathValidator to avoid re-resolving the base path.
func ValidateSecurePath(basePath, userPath string) (string, error) {
	validator, err := NewPathValidator(basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	return validator.Validate(userPath)
}
