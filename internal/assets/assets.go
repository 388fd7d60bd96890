package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrStyleNotFound    = errors.New("stylesheet not found")
	ErrInvalidAssetName = errors.New("invalid stylesheet name")
	ErrInvalidBasePath  = errors.New("invalid stylesheet directory")
	ErrAssetRead        = errors.New("failed to read stylesheet")
	ErrPathTraversal    = errors.New("stylesheet escapes its directory")
)

// StyleExt is the required stylesheet extension.
const StyleExt = ".css"

// StyleLoader loads a stylesheet by name, without extension.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// LoadStylesheet reads the stylesheet at path.
func LoadStylesheet(path string) (string, error) {
	base := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(base), StyleExt) {
		return "", fmt.Errorf("%w: %q: want a %s file", ErrInvalidAssetName, path, StyleExt)
	}

	dir, err := OpenStyleDir(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return dir.LoadStyle(base[:len(base)-len(StyleExt)])
}

// ValidateAssetName rejects empty names and names containing a separator or
// a dot, so a name can neither leave the directory nor change extension.
func ValidateAssetName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
