// Package pipeline turns an assembled layout sequence into an HTML document
// ready for the PDF backend.
//
// This package handles:
//   - Page geometry and the title and two-column page templates
//   - The per-conversion style sheet and the CSS generated from it
//   - Rendering blocks to HTML sections bound to CSS named pages
//   - CSS and appendix injection
//   - Markdown to HTML conversion via Goldmark for previews and appendices
//   - Structural inspection of rendered documents
//
// PDF generation is handled separately by the root co2report package using
// headless Chrome (go-rod), which resolves the named pages, multi-column
// flow and forced breaks emitted here.
package pipeline
