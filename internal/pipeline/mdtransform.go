package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// A whole report wrapped in a single ```markdown fence
	outerFence = regexp.MustCompile("(?s)\\A\\s*```(?:markdown|md)?[ \\t]*\\n(.*?)\\n```\\s*\\z")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// ReportPreprocessor cleans up generated report text before it is parsed
// into layout blocks.
type ReportPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, unwraps a report that was
// returned inside a single code fence and compresses runs of blank lines.
// None of these steps changes which blocks the parser commits.
func (p *ReportPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = unwrapFence(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines reduces 3+ consecutive newlines to 2.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// unwrapFence returns the fenced body if the whole content is one fenced
// block, otherwise content unchanged.
func unwrapFence(content string) string {
	m := outerFence.FindStringSubmatch(content)
	if m == nil || strings.Contains(m[1], "\n```") {
		return content
	}
	return m[1]
}
