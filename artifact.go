package co2report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-co2report/internal/fileutil"
)

// artifactTimeLayout is the timestamp layout in artifact file names.
const artifactTimeLayout = "20060102_150405"

// unnamedSubject replaces a subject that sanitizes to nothing.
const unnamedSubject = "unnamed"

// artifactPerm is the file mode of written artifacts.
const artifactPerm = 0o644

// SanitizeSubject makes a subject name safe for file names: every rune other
// than an ASCII letter, digit or underscore becomes an underscore. An empty
// name becomes "unnamed".
func SanitizeSubject(name string) string {
	if name == "" {
		return unnamedSubject
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// ArtifactPath returns {dir}/{prefix}_{sanitized subject}_{YYYYMMDD_HHMMSS}.{ext}.
func ArtifactPath(dir, prefix, subject, ext string, t time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.%s", prefix, SanitizeSubject(subject), t.Format(artifactTimeLayout), ext)
	return filepath.Join(dir, name)
}

// writeArtifact writes data to path atomically.
func writeArtifact(path string, data []byte) error {
	if err := fileutil.WriteAtomic(path, data, artifactPerm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteArtifact, path, err)
	}
	return nil
}
