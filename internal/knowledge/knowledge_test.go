package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "  Utsira sand, 32% porosity.\n")
	pdf := writeFile(t, dir, "15_9_14_Well_completion_report.pdf", "%PDF-1.4")

	l := NewLoader(zerolog.Nop(), 0)
	var extracted string
	l.extract = func(path string) (string, int, error) {
		extracted = path
		return "Core 1: 2 m recovered.", 3, nil
	}

	text, docs, err := l.Load(context.Background(), []string{md, pdf})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, pdf, extracted)
	assert.Equal(t, "Utsira sand, 32% porosity.", docs[0].Text)
	assert.False(t, docs[1].Truncated)
	assert.Equal(t,
		"### Source: notes.md\n\nUtsira sand, 32% porosity.\n\n"+
			"### Source: 15_9_14_Well_completion_report.pdf\n\nCore 1: 2 m recovered.",
		text)
}

func TestLoader_Budget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "CO₂CO₂CO₂")
	b := writeFile(t, dir, "b.txt", "more")

	l := NewLoader(zerolog.Nop(), 5)
	text, docs, err := l.Load(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, "CO₂CO", docs[0].Text, "truncation counts runes")
	assert.True(t, docs[0].Truncated)
	assert.Empty(t, docs[1].Text)
	assert.True(t, docs[1].Truncated)
	assert.Equal(t, "### Source: a.txt\n\nCO₂CO\n[truncated]", text)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewLoader(zerolog.Nop(), 100)
	l.extract = func(string) (string, int, error) { return "", 0, errors.New("encrypted") }

	tests := []struct {
		name  string
		path  string
		match error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.md"), match: os.ErrNotExist},
		{name: "missing pdf", path: filepath.Join(dir, "missing.pdf"), match: os.ErrNotExist},
		{name: "unsupported", path: writeFile(t, dir, "log.las", "~V"), match: ErrUnsupportedFormat},
		{name: "extraction failure", path: writeFile(t, dir, "r.pdf", "%PDF"), match: ErrKnowledgeFile},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := l.Load(context.Background(), []string{tt.path})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrKnowledgeFile)
			assert.ErrorIs(t, err, tt.match)
		})
	}
}

func TestLoader_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewLoader(zerolog.Nop(), 0).Load(ctx, []string{"x.md"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_NoFiles(t *testing.T) {
	t.Parallel()

	text, docs, err := NewLoader(zerolog.Nop(), 0).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Empty(t, docs)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		n        int
		want     string
		wantTrnc bool
	}{
		{in: "abc", n: 5, want: "abc"},
		{in: "abc", n: 3, want: "abc"},
		{in: "abcd", n: 3, want: "abc", wantTrnc: true},
		{in: "", n: 0, want: ""},
		{in: "a", n: 0, want: "", wantTrnc: true},
		{in: "ééé", n: 2, want: "éé", wantTrnc: true},
	}
	for _, tt := range tests {
		got, trnc := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.n)
		assert.Equal(t, tt.wantTrnc, trnc, "truncate(%q, %d) truncated", tt.in, tt.n)
	}
}
