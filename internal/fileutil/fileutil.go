// Package fileutil writes report artifacts and the temporary HTML pages handed
// to the browser.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadExtension rejects temp file extensions that are empty or could leave
// the temp directory.
var ErrBadExtension = errors.New("invalid temp file extension")

const tempPrefix = "co2report-"

// WriteTempFile stores content in a new file of the OS temp directory and
// returns its path with a function that removes it.
func WriteTempFile(content, extension string) (string, func(), error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	remove := func() { _ = os.Remove(path) }

	if err := fill(f, []byte(content), false); err != nil {
		remove()
		return "", nil, err
	}
	return path, remove, nil
}

// WriteAtomic replaces path with data. The parent directory is created
// (0o750) if needed. Readers see the old file or the complete new one, and a
// failed write leaves no temp file behind.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+tempPrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	err = fill(f, data, true)
	if err == nil {
		err = os.Chmod(tmp, perm)
	}
	if err == nil {
		if rerr := os.Rename(tmp, path); rerr != nil {
			err = fmt.Errorf("renaming temp file: %w", rerr)
		}
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	return err
}

// fill writes data and closes f, syncing first when durable is set.
func fill(f *os.File, data []byte, durable bool) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if durable {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return fmt.Errorf("syncing temp file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return nil
}

// ValidateExtension accepts a bare extension such as "html".
func ValidateExtension(extension string) error {
	if extension == "" || strings.ContainsAny(extension, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrBadExtension, extension)
	}
	return nil
}

// FileExists reports whether path is an existing non-directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s contains a path separator. Config and roster
// arguments without one are treated as names.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
