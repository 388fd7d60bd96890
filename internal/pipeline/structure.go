package pipeline

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedDocument indicates a rendered document without a body.
var ErrMalformedDocument = errors.New("malformed HTML document")

// SectionOutline describes one template-bound section of a rendered document.
type SectionOutline struct {
	Template     string
	Headings     []string
	Tables       int
	Lists        int
	ColumnBreaks int
}

// Outline summarizes the structure of a rendered report document.
type Outline struct {
	Sections   []SectionOutline
	PageBreaks int
	Appendix   int // appendix entries
}

// Headings returns every section heading in document order.
func (o *Outline) Headings() []string {
	var out []string
	for _, s := range o.Sections {
		out = append(out, s.Headings...)
	}
	return out
}

// Inspect parses a rendered document and returns its outline. It is used to
// log what was rendered and to check documents in tests.
func Inspect(htmlContent string) (*Outline, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, ErrMalformedDocument
	}

	o := &Outline{}
	var current *SectionOutline
	walk(body, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Section:
			o.Sections = append(o.Sections, SectionOutline{Template: attr(n, "data-template")})
			current = &o.Sections[len(o.Sections)-1]
		case atom.Div:
			switch {
			case hasClass(n, "break-page"):
				o.PageBreaks++
			case hasClass(n, "break-column") && current != nil:
				current.ColumnBreaks++
			case hasClass(n, "appendix-entry"):
				o.Appendix++
			}
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			if current != nil {
				current.Headings = append(current.Headings, strings.TrimSpace(textContent(n)))
			}
		case atom.Table:
			if current != nil {
				current.Tables++
			}
		case atom.Ul, atom.Ol:
			if current != nil {
				current.Lists++
			}
		}
	})
	return o, nil
}

// walk visits n and its descendants in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return buf.String()
}
