package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrAppendixRender indicates the appendix template failed to execute.
var ErrAppendixRender = errors.New("appendix template rendering failed")

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// AppendixSection is one titled block of pre-rendered HTML.
type AppendixSection struct {
	Title string
	HTML  template.HTML
}

// appendixTemplate lays the appendix out on the two-column template, starting
// on a new page. Titles are escaped by html/template.
const appendixTemplate = `<section class="tpl-two_column appendix" data-template="two_column">
{{- range $i, $s := .}}
<div class="appendix-entry">
<h2 class="CustomSectionTitle">Appendix {{letter $i}}: {{$s.Title}}</h2>
{{$s.HTML}}
</div>
{{- end}}
</section>
`

// AppendixInjector defines the contract for appendix injection into HTML.
type AppendixInjector interface {
	InjectAppendix(ctx context.Context, htmlContent string, sections []AppendixSection) (string, error)
}

// AppendixInjection renders appendix sections and injects them before </body>.
type AppendixInjection struct {
	tmpl *template.Template
}

// NewAppendixInjection creates an AppendixInjection.
func NewAppendixInjection() *AppendixInjection {
	tmpl := template.Must(template.New("appendix").Funcs(template.FuncMap{
		"letter": appendixLetter,
	}).Parse(appendixTemplate))
	return &AppendixInjection{tmpl: tmpl}
}

// InjectAppendix renders sections and inserts them before </body>.
// If sections is empty, returns htmlContent unchanged.
func (a *AppendixInjection) InjectAppendix(ctx context.Context, htmlContent string, sections []AppendixSection) (string, error) {
	if len(sections) == 0 {
		return htmlContent, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, sections); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAppendixRender, err)
	}

	appendixHTML := buf.String()
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.LastIndex(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + appendixHTML + htmlContent[idx:], nil
	}

	return htmlContent + appendixHTML, nil
}

// appendixLetter returns A for 0, B for 1, and so on; past Z it falls back to
// the 1-based number.
func appendixLetter(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}
