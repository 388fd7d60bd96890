// Package search queries academic and web sources for material the
// specialist agents cite.
//
// Searches never return a Go error. A failed search yields a single result
// whose Error field is set; callers check it with Failed before using the
// results.
package search

import (
	"fmt"
	"strings"
)

// DefaultMaxResults is used when a search asks for zero or fewer results.
const DefaultMaxResults = 5

// Paper is one academic search hit.
type Paper struct {
	Title      string   `json:"title,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Published  string   `json:"published,omitempty"` // YYYY-MM-DD
	Abstract   string   `json:"abstract,omitempty"`
	URL        string   `json:"pdf_url,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Relevance  float64  `json:"relevance_score"`
	Error      string   `json:"error,omitempty"`
}

// WebResult is one web search hit.
type WebResult struct {
	Title     string  `json:"title,omitempty"`
	URL       string  `json:"url,omitempty"`
	Snippet   string  `json:"snippet,omitempty"`
	Relevance float64 `json:"relevance_score"`
	Error     string  `json:"error,omitempty"`
}

// Err returns the failure message, or "".
func (p Paper) Err() string { return p.Error }

// Err returns the failure message, or "".
func (r WebResult) Err() string { return r.Error }

// Failer is implemented by search results that can carry a failure.
type Failer interface {
	Err() string
}

// Failed reports whether results is the failure sentinel and returns its
// message.
func Failed[T Failer](results []T) (string, bool) {
	for _, r := range results {
		if msg := r.Err(); msg != "" {
			return msg, true
		}
	}
	return "", false
}

func failedPapers(err error) []Paper {
	return []Paper{{Error: failureMessage(err)}}
}

func failedWeb(err error) []WebResult {
	return []WebResult{{Error: failureMessage(err)}}
}

func failureMessage(err error) string {
	return fmt.Sprintf("search failed: %v", err)
}

// DigestPapers renders papers as a compact markdown list for prompts.
func DigestPapers(papers []Paper) string {
	var b strings.Builder
	for _, p := range papers {
		if p.Error != "" {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s", p.Title, p.Published)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "; %s", strings.Join(p.Authors, ", "))
		}
		fmt.Fprintf(&b, ") %s\n", p.URL)
		if p.Abstract != "" {
			fmt.Fprintf(&b, "  %s\n", collapseSpace(p.Abstract))
		}
	}
	return b.String()
}

// DigestWeb renders web results as a compact markdown list for prompts.
func DigestWeb(results []WebResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		fmt.Fprintf(&b, "- %s %s\n", r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "  %s\n", collapseSpace(r.Snippet))
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
