// Package atomicfile replaces files atomically with a predictable mode.
package atomicfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// DefaultPerm is the mode given to files that did not exist before the write.
const DefaultPerm fs.FileMode = 0o644

// WriteFile atomically replaces path with the contents of r. An existing file
// keeps its mode; a new file gets perm.
func WriteFile(path string, r io.Reader, perm fs.FileMode) error {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(path, r); err != nil {
		return err
	}
	if !created {
		return nil
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	return nil
}
