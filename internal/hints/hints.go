// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-co2report/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the CI services we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "run 'co2report doctor'")
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for long reports, use --timeout or raise page.timeout in the config")
}

// ForConfigNotFound returns hints for config file not found errors.
// configDir is the user config directory; empty skips the suggestion.
func ForConfigNotFound(configDir string) string {
	hint := "use --config /path/to/file.yaml"
	if configDir != "" {
		hint += " or create " + filepath.Join(configDir, "co2report", "co2report.yaml")
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable, or use --output")
}

// ForAPIKey returns hints for a missing completion API key.
func ForAPIKey() string {
	return format("set OPENAI_API_KEY or llm.apiKey in the config")
}

// ForUpstream returns hints for completion endpoint failures.
func ForUpstream(baseURL string) string {
	hints := []string{"check network access and the API key"}
	if baseURL != "" {
		hints = append(hints, "endpoint is "+baseURL+" (override with CO2REPORT_LLM_BASE_URL)")
	}
	return formatHints(hints)
}

// ForKnowledgeFile returns hints for well documents that cannot be read.
func ForKnowledgeFile() string {
	return format("supported formats: PDF, DOCX, ODT, Markdown, plain text")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
