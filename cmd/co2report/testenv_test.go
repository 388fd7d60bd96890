package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/llm"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fakes shared by command tests
// ---------------------------------------------------------------------------

// fixedNow is the clock used by every command test.
var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// testEnv is an Environment with captured output and a fake model.
type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	vars      map[string]string
	completer *stubCompleter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		vars:      map[string]string{},
		completer: &stubCompleter{},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		LookupEnv: func(key string) (string, bool) {
			v, ok := te.vars[key]
			return v, ok
		},
		NewRunID: func() string { return "test-run" },
		NewCompleter: func(zerolog.Logger, llm.Config) (llm.Completer, error) {
			return te.completer, nil
		},
	}
	return te
}

// stubCompleter answers every task with a short markdown section.
type stubCompleter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	role := strings.TrimSuffix(strings.TrimPrefix(strings.SplitN(req.System, "\n", 2)[0], "You are the "), ".")
	return "## Findings\n\nPorosity averages 24 percent according to the " + role + ".", nil
}

// stubGenerator returns fixed HTML and records its inputs.
type stubGenerator struct {
	mu     sync.Mutex
	inputs []co2report.Input
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, input co2report.Input) (*co2report.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputs = append(g.inputs, input)
	if g.err != nil {
		return nil, g.err
	}
	res := &co2report.Result{HTML: []byte("<html>" + input.SubjectName + "</html>")}
	if !input.HTMLOnly {
		res.PDF = []byte("%PDF-1.4 stub")
		res.Path = filepath.Join("out", input.SubjectName+".pdf")
	}
	return res, nil
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
