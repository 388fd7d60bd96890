package main

import (
	"errors"
	"os"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/agents"
	"github.com/alnah/go-co2report/internal/assets"
	"github.com/alnah/go-co2report/internal/config"
	"github.com/alnah/go-co2report/internal/knowledge"
	"github.com/alnah/go-co2report/internal/llm"
)

// Exit codes for the co2report CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Report produced
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, roster or input
	ExitIO       = 3 // File not found, permission denied, artifact write
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitUpstream = 5 // Completion endpoint errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, co2report.ErrBrowserConnect) ||
		errors.Is(err, co2report.ErrPageCreate) ||
		errors.Is(err, co2report.ErrPageLoad) ||
		errors.Is(err, co2report.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Upstream model errors (exit 5)
	if errors.Is(err, llm.ErrUpstream) ||
		errors.Is(err, llm.ErrNoChoices) ||
		errors.Is(err, agents.ErrEmptyOutput) {
		return ExitUpstream
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadReport) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, co2report.ErrWriteArtifact) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, knowledge.ErrKnowledgeFile) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, agents.ErrEmptyRoster) ||
		errors.Is(err, agents.ErrInvalidRoster) ||
		errors.Is(err, agents.ErrUnknownAgent) ||
		errors.Is(err, agents.ErrUnknownCapability) ||
		errors.Is(err, llm.ErrMissingAPIKey) ||
		errors.Is(err, llm.ErrMissingBaseURL) ||
		errors.Is(err, co2report.ErrEmptyReport) ||
		errors.Is(err, co2report.ErrInvalidOption) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrPathTraversal) {
		return ExitUsage
	}

	return ExitGeneral
}
