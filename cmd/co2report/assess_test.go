package main

// Notes:
// - The model is a stubCompleter injected through Environment.NewCompleter.
// - Searches are disabled with --no-search so no network is used.
// - --html-only keeps Chrome out of the loop.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/config"
	"github.com/alnah/go-co2report/internal/llm"
)

// ---------------------------------------------------------------------------
// TestRunAssess_HTMLOnly - Full pipeline with a stub model
// ---------------------------------------------------------------------------

func TestRunAssess_HTMLOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "reports")
	well := writeFile(t, dir, "well.md", "# Well 15/9-14\n\nUtsira sand, 800 m depth.\n")

	env := newTestEnv(t)
	env.vars[config.EnvAPIKey] = "sk-test"

	code := runMain([]string{
		"co2report", "assess", "15/9-14",
		"--no-search", "--html-only", "--markdown", "--appendix",
		"-k", well, "-o", outDir, "-q",
	}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}

	if env.completer.calls != 4 {
		t.Errorf("model called %d times, want 4", env.completer.calls)
	}

	html := co2report.ArtifactPath(outDir, "CO2_Storage_Assessment", "15/9-14", "html", fixedNow)
	data, err := os.ReadFile(html)
	if err != nil {
		t.Fatalf("expected %s: %v", html, err)
	}
	if !strings.Contains(string(data), "Technical Report Writer") {
		t.Error("report should contain the writer's output")
	}
	if !strings.Contains(string(data), "Structural Geologist") {
		t.Error("appendix should contain the specialist analyses")
	}

	md := strings.TrimSuffix(html, ".html") + ".md"
	if _, err := os.Stat(md); err != nil {
		t.Errorf("expected markdown copy at %s: %v", md, err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet run should print nothing, got %q", env.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunAssess_Errors - Failures map to exit codes
// ---------------------------------------------------------------------------

func TestRunAssess_Errors(t *testing.T) {
	t.Parallel()

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.vars[config.EnvAPIKey] = "sk-test"
		env.completer.err = llm.ErrUpstream

		code := runMain([]string{"co2report", "assess", "W", "--no-search", "--html-only", "-o", t.TempDir()}, env.Environment)
		if code != ExitUpstream {
			t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitUpstream, env.stderr.String())
		}
		if !strings.Contains(env.stderr.String(), "petrophysical_analysis") {
			t.Errorf("error should name the failing task, got %q", env.stderr.String())
		}
	})

	t.Run("missing knowledge file", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.vars[config.EnvAPIKey] = "sk-test"

		code := runMain([]string{"co2report", "assess", "W", "--no-search", "-k", filepath.Join(t.TempDir(), "gone.pdf")}, env.Environment)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitIO, env.stderr.String())
		}
		if env.completer.calls != 0 {
			t.Error("model should not be called")
		}
	})

	t.Run("invalid roster", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.vars[config.EnvAPIKey] = "sk-test"
		roster := writeFile(t, t.TempDir(), "roster.yaml", "agents: []\ntasks:\n  - name: t\n    agent: ghost\n    description: d\n")

		code := runMain([]string{"co2report", "assess", "W", "--roster", roster}, env.Environment)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitUsage, env.stderr.String())
		}
	})

	t.Run("max results out of range", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.vars[config.EnvAPIKey] = "sk-test"

		code := runMain([]string{"co2report", "assess", "W", "--max-results", "500"}, env.Environment)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("completer construction", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.vars[config.EnvAPIKey] = "sk-test"
		env.NewCompleter = func(_ zerolog.Logger, _ llm.Config) (llm.Completer, error) {
			return nil, llm.ErrMissingBaseURL
		}

		code := runMain([]string{"co2report", "assess", "W", "--no-search"}, env.Environment)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeAssessFlags - CLI values win over config
// ---------------------------------------------------------------------------

func TestMergeAssessFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Knowledge.Files = []string{"from-config.pdf"}

	f := &assessFlags{
		output:     outputFlags{dir: "out", timeout: "2m"},
		knowledge:  []string{"a.pdf"},
		roster:     "team.yaml",
		model:      "gpt-4o",
		maxResults: 7,
		appendix:   true,
	}
	if err := mergeAssessFlags(f, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Dir != "out" || cfg.Page.Timeout.String() != "2m0s" {
		t.Errorf("output = %q, timeout = %s", cfg.Output.Dir, cfg.Page.Timeout)
	}
	if len(cfg.Knowledge.Files) != 1 || cfg.Knowledge.Files[0] != "a.pdf" {
		t.Errorf("knowledge = %v, flag list should replace config list", cfg.Knowledge.Files)
	}
	if cfg.Agents.Roster != "team.yaml" || cfg.LLM.Model != "gpt-4o" || cfg.Search.MaxResults != 7 || !cfg.Report.Appendix {
		t.Errorf("merged config = %+v", cfg)
	}

	bad := &assessFlags{output: outputFlags{timeout: "never"}}
	if err := mergeAssessFlags(bad, config.DefaultConfig()); !errors.Is(err, ErrInvalidTimeout) {
		t.Errorf("expected ErrInvalidTimeout, got %v", err)
	}
}
