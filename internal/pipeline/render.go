package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/layout"
	"github.com/alnah/go-co2report/internal/markup"
)

// Sentinel errors for block rendering.
var (
	ErrUnknownTemplate = errors.New("unknown page template")
	ErrUnknownBlock    = errors.New("unknown block type")
)

// defaultDocumentTitle is used when the sequence has no title heading.
const defaultDocumentTitle = "Report"

// BlockRenderer converts an assembled block sequence into a standalone HTML5
// document laid out with CSS paged media.
type BlockRenderer struct {
	log      zerolog.Logger
	injector CSSInjector
}

// NewBlockRenderer creates a BlockRenderer.
func NewBlockRenderer(log zerolog.Logger) *BlockRenderer {
	return &BlockRenderer{
		log:      log.With().Str("component", "pipeline.render").Logger(),
		injector: &CSSInjection{},
	}
}

// Render writes blocks as HTML sections, one per template switch, and injects
// the stylesheet built from styles and templates.
//
// Markers that would produce empty output are elided: trailing breaks and
// switches, and any column break that directly follows a page break, a
// template switch or the start of the document.
func (r *BlockRenderer) Render(ctx context.Context, blocks []layout.Block, styles StyleSheet, templates *PageTemplates) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	blocks = Prune(blocks)

	var body strings.Builder
	open := false
	for _, b := range blocks {
		switch v := b.(type) {
		case layout.TemplateSwitch:
			if _, ok := templates.Lookup(v.Name); !ok {
				return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, v.Name)
			}
			if open {
				body.WriteString("</section>\n")
			}
			fmt.Fprintf(&body, "<section class=\"%s\" data-template=\"%s\">\n", templateClass(v.Name), v.Name)
			open = true
		case layout.Break:
			fmt.Fprintf(&body, "<div class=\"break-%s\"></div>\n", v.Kind)
		case layout.Heading:
			tag := headingTag(v)
			fmt.Fprintf(&body, "<%s class=\"%s\">%s</%s>\n", tag, styles.Get(v.Style).Name, v.Text, tag)
		case layout.Paragraph:
			fmt.Fprintf(&body, "<p class=\"%s\">%s</p>\n", styles.Get(v.Style).Name, v.Text)
		case layout.Table:
			writeTable(&body, v)
		case layout.List:
			writeList(&body, v, styles)
		case layout.Spacer:
			fmt.Fprintf(&body, "<div class=\"spacer\" style=\"height:%spt\"></div>\n", pt(v.Height))
		default:
			return "", fmt.Errorf("%w: %T", ErrUnknownBlock, b)
		}
	}
	if open {
		body.WriteString("</section>\n")
	}

	doc := fmt.Sprintf(documentTemplate, html.EscapeString(documentTitle(blocks)), body.String())
	doc = r.injector.InjectCSS(ctx, doc, BuildCSS(styles, templates))

	r.log.Debug().Int("blocks", len(blocks)).Int("bytes", len(doc)).Msg("rendered document")
	return doc, nil
}

// documentTemplate wraps the rendered sections in an HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>`

// Prune returns blocks without the markers that would render nothing.
// The input is not modified.
func Prune(blocks []layout.Block) []layout.Block {
	out := make([]layout.Block, 0, len(blocks))
	for _, b := range blocks {
		if br, ok := b.(layout.Break); ok && br.Kind == layout.BreakColumn && afterMarker(out) {
			continue
		}
		out = append(out, b)
	}

	end := len(out)
	for end > 0 && isMarker(out[end-1]) {
		end--
	}
	return out[:end]
}

func afterMarker(out []layout.Block) bool {
	return len(out) == 0 || isMarker(out[len(out)-1])
}

func isMarker(b layout.Block) bool {
	switch b.(type) {
	case layout.Break, layout.TemplateSwitch:
		return true
	}
	return false
}

// headingTag maps heading styles to HTML heading elements. The title page
// heading is the only h1.
func headingTag(h layout.Heading) string {
	switch h.Style {
	case layout.StyleTitle:
		return "h1"
	case layout.StyleSubtitle:
		return "p"
	}
	level := h.Level + 1
	if level < 2 {
		level = 2
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("h%d", level)
}

// writeTable renders a table with the first row as header. Short rows are
// padded with empty cells.
func writeTable(buf *strings.Builder, t layout.Table) {
	width := t.ColumnWidth * float64(t.Columns)
	fmt.Fprintf(buf, "<table class=\"report-table\" style=\"width:%scm\">\n<colgroup>", cm(width))
	for i := 0; i < t.Columns; i++ {
		fmt.Fprintf(buf, "<col style=\"width:%scm\">", cm(t.ColumnWidth))
	}
	buf.WriteString("</colgroup>\n")

	for i, row := range t.Rows {
		cell := "td"
		if i == 0 {
			cell = "th"
			buf.WriteString("<thead>")
		} else if i == 1 {
			buf.WriteString("<tbody>")
		}
		buf.WriteString("<tr>")
		for j := 0; j < t.Columns; j++ {
			text := ""
			if j < len(row) {
				text = row[j]
			}
			fmt.Fprintf(buf, "<%s>%s</%s>", cell, text, cell)
		}
		buf.WriteString("</tr>")
		if i == 0 {
			buf.WriteString("</thead>\n")
		} else {
			buf.WriteString("\n")
		}
	}
	if len(t.Rows) > 1 {
		buf.WriteString("</tbody>")
	}
	buf.WriteString("</table>\n")
}

func writeList(buf *strings.Builder, l layout.List, styles StyleSheet) {
	tag := "ul"
	if l.Kind == layout.ListNumbered {
		tag = "ol"
	}
	class := styles.Get(layout.StyleBody).Name
	fmt.Fprintf(buf, "<%s class=\"report-list\">\n", tag)
	for _, item := range l.Items {
		fmt.Fprintf(buf, "<li class=\"%s\">%s</li>\n", class, item)
	}
	fmt.Fprintf(buf, "</%s>\n", tag)
}

// documentTitle returns the plain text of the first title heading.
func documentTitle(blocks []layout.Block) string {
	for _, b := range blocks {
		if h, ok := b.(layout.Heading); ok && h.Style == layout.StyleTitle {
			return markup.PlainText(h.Text)
		}
	}
	return defaultDocumentTitle
}
