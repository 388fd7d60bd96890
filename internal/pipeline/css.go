package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-co2report/internal/layout"
)

// defaultFontFamily is the font stack for all report text.
const defaultFontFamily = "Helvetica, Arial, sans-serif"

// Orphan/widow control for body text.
const (
	defaultOrphans = 2
	defaultWidows  = 2
)

// BuildCSS generates the report stylesheet: one named @page rule per
// template, the section rules binding sections to those pages, one class per
// paragraph style, and the table, list and break rules.
func BuildCSS(styles StyleSheet, templates *PageTemplates) string {
	var buf strings.Builder

	buf.WriteString(buildPagesCSS(templates))
	buf.WriteString(buildBaseCSS())
	buf.WriteString(buildStylesCSS(styles))
	buf.WriteString(buildBlocksCSS())

	return buf.String()
}

// buildPagesCSS emits the @page rules and the section rules. A section with a
// different named page always starts on a new page.
func buildPagesCSS(templates *PageTemplates) string {
	g := templates.Geometry()
	var buf strings.Builder

	fmt.Fprintf(&buf, `
/* Pages */
@page {
  size: %scm %scm;
  margin: %scm;
}
`, cm(g.Width), cm(g.Height), cm(g.Margin))

	for _, name := range templates.Names() {
		tpl, _ := templates.Lookup(name)
		top, right, bottom, left := templates.margins(tpl)

		fmt.Fprintf(&buf, `
@page %s {
  size: %scm %scm;
  margin: %scm %scm %scm %scm;
}
section.%s {
  page: %s;
`, name, cm(g.Width), cm(g.Height), cm(top), cm(right), cm(bottom), cm(left),
			templateClass(name), name)

		if n := len(tpl.Frames); n > 1 {
			fmt.Fprintf(&buf, `  column-count: %d;
  column-gap: %scm;
  column-fill: auto;
`, n, cm(gap(tpl)))
		}
		buf.WriteString("}\n")
	}

	return buf.String()
}

func buildBaseCSS() string {
	return fmt.Sprintf(`
/* Base */
html {
  font-family: %s;
  color: #000;
}
body {
  margin: 0;
}
sub {
  font-size: 70%%;
  vertical-align: sub;
  line-height: 0;
}
code {
  font-family: Courier, monospace;
}
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  break-inside: avoid;
  margin: 0;
}
p, li {
  orphans: %d;
  widows: %d;
}
`, defaultFontFamily, defaultOrphans, defaultWidows)
}

// buildStylesCSS emits one class per paragraph style, in name order so the
// output is stable.
func buildStylesCSS(styles StyleSheet) string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, string(name))
	}
	sort.Strings(names)

	var buf strings.Builder
	buf.WriteString("\n/* Paragraph styles */\n")
	for _, name := range names {
		st := styles[layout.Style(name)]
		weight := "normal"
		if st.Bold {
			weight = "bold"
		}
		fontStyle := "normal"
		if st.Italic {
			fontStyle = "italic"
		}
		fmt.Fprintf(&buf, `.%s {
  font-size: %spt;
  line-height: %spt;
  margin: %spt 0 %spt 0;
  text-align: %s;
  font-weight: %s;
  font-style: %s;
}
`, name, pt(st.FontSize), pt(st.Leading), pt(st.SpaceBefore), pt(st.SpaceAfter),
			st.Align, weight, fontStyle)
	}
	return buf.String()
}

func buildBlocksCSS() string {
	return `
/* Breaks */
.break-page {
  break-after: page;
}
.break-column {
  break-before: column;
}

/* Tables are never split across columns or pages */
table.report-table {
  border-collapse: collapse;
  table-layout: fixed;
  break-inside: avoid;
  margin: 0 0 7.2pt 0;
}
table.report-table th,
table.report-table td {
  border: 0.5pt solid grey;
  padding: 6pt;
  vertical-align: middle;
  text-align: left;
  font-size: 10pt;
  overflow-wrap: anywhere;
}
table.report-table th {
  background: lightgrey;
  font-weight: bold;
  padding-bottom: 12pt;
}
table.report-table td {
  background: white;
}

/* Lists */
ul.report-list,
ol.report-list {
  margin: 7.2pt 0 7.2pt 36pt;
  padding: 0;
}

/* Appendix */
section.appendix {
  break-before: page;
}
`
}

// cm formats a centimetre value without trailing zeros.
func cm(v float64) string { return trimFloat(v) }

// pt formats a point value without trailing zeros.
func pt(v float64) string { return trimFloat(v) }

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// templateClass returns the section class bound to a template.
func templateClass(name string) string {
	return "tpl-" + name
}
