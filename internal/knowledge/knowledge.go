// Package knowledge loads the well documents every specialist reads, such as
// a well completion report, as plain text bounded by a character budget.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tsawler/tabula"
)

// DefaultMaxChars bounds the combined knowledge text.
const DefaultMaxChars = 60000

var (
	ErrUnsupportedFormat = errors.New("unsupported knowledge file format")
	ErrKnowledgeFile     = errors.New("failed to load knowledge file")
)

// Document is one loaded knowledge file.
type Document struct {
	Path      string
	Text      string
	Truncated bool
}

// extractFunc returns the text of a binary document.
type extractFunc func(path string) (text string, warnings int, err error)

// Loader reads knowledge files. PDF, DOCX and ODT files go through tabula
// with running headers and footers removed; markdown and text files are read
// as is.
type Loader struct {
	maxChars int
	log      zerolog.Logger
	extract  extractFunc
}

// NewLoader creates a Loader. maxChars <= 0 selects DefaultMaxChars.
func NewLoader(log zerolog.Logger, maxChars int) *Loader {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Loader{
		maxChars: maxChars,
		log:      log.With().Str("component", "knowledge").Logger(),
		extract:  extractWithTabula,
	}
}

func extractWithTabula(path string) (string, int, error) {
	text, warnings, err := tabula.Open(path).ExcludeHeadersAndFooters().Text()
	if err != nil {
		return "", 0, err
	}
	return text, len(warnings), nil
}

// Load reads paths in order and returns them with the combined prompt text.
// Once the budget is spent, later documents are truncated or left empty.
func (l *Loader) Load(ctx context.Context, paths []string) (string, []Document, error) {
	docs := make([]Document, 0, len(paths))
	remaining := l.maxChars

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		text, err := l.read(path)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %w", ErrKnowledgeFile, path, err)
		}
		text = strings.TrimSpace(text)

		doc := Document{Path: path}
		doc.Text, doc.Truncated = truncate(text, remaining)
		remaining -= utf8.RuneCountInString(doc.Text)

		l.log.Debug().
			Str("path", path).
			Int("chars", utf8.RuneCountInString(doc.Text)).
			Bool("truncated", doc.Truncated).
			Msg("loaded knowledge file")
		if doc.Truncated {
			l.log.Warn().Str("path", path).Int("budget", l.maxChars).Msg("knowledge truncated")
		}
		docs = append(docs, doc)
	}

	return Combine(docs), docs, nil
}

func (l *Loader) read(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		data, err := os.ReadFile(path) // #nosec G304 -- knowledge paths come from config
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf", ".docx", ".odt":
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		text, warnings, err := l.extract(path)
		if err != nil {
			return "", err
		}
		if warnings > 0 {
			l.log.Debug().Str("path", path).Int("warnings", warnings).Msg("extraction warnings")
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

// Combine joins documents under per-file headings. Empty documents are
// skipped.
func Combine(docs []Document) string {
	var b strings.Builder
	for _, d := range docs {
		if d.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### Source: %s\n\n%s", filepath.Base(d.Path), d.Text)
		if d.Truncated {
			b.WriteString("\n[truncated]")
		}
	}
	return b.String()
}
