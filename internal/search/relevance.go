package search

import "strings"

// domainTerms earn a bonus in web results regardless of the query.
var domainTerms = []string{
	"co2", "carbon", "storage", "sequestration", "reservoir", "porosity",
	"permeability", "cap rock", "formation", "injection", "geological",
}

// PaperRelevance scores a paper by keyword overlap: each distinct query term
// found in the title adds 2, each found in the abstract adds 1. Matching is
// case-insensitive substring containment.
func PaperRelevance(query, title, abstract string) float64 {
	title = strings.ToLower(title)
	abstract = strings.ToLower(abstract)

	seen := make(map[string]bool)
	var score float64
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if seen[term] {
			continue
		}
		seen[term] = true
		if strings.Contains(title, term) {
			score += 2
		}
		if strings.Contains(abstract, term) {
			score++
		}
	}
	return score
}

// WebRelevance scores a web result: each query term adds 3 when in the title
// and 1 when in the snippet (repeated terms count again), and each domain term
// adds 2 in the title and 0.5 in the snippet.
func WebRelevance(query, title, snippet string) float64 {
	title = strings.ToLower(title)
	snippet = strings.ToLower(snippet)

	var score float64
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(title, term) {
			score += 3
		}
		if strings.Contains(snippet, term) {
			score++
		}
	}
	for _, term := range domainTerms {
		if strings.Contains(title, term) {
			score += 2
		}
		if strings.Contains(snippet, term) {
			score += 0.5
		}
	}
	return score
}
