package layout

import (
	"strings"
	"time"

	"github.com/alnah/go-co2report/internal/markup"
)

// BoundaryMarker is the heading text that starts the two-column body.
const BoundaryMarker = "Introduction"

// DefaultBoundary is the title/body boundary used when no heading contains
// BoundaryMarker.
const DefaultBoundary = 10

// GeneratedLayout is the timestamp layout of the title subheading.
const GeneratedLayout = "2006-01-02 15:04:05"

// TitleBlocks returns the title page head: the report title, the generation
// timestamp and a spacer. title is plain text and is escaped and normalized.
func TitleBlocks(title string, generated time.Time) []Block {
	return TitleBlocksLayout(title, generated, GeneratedLayout)
}

// TitleBlocksLayout is TitleBlocks with the timestamp in timeLayout.
func TitleBlocksLayout(title string, generated time.Time, timeLayout string) []Block {
	return []Block{
		Heading{Level: 0, Style: StyleTitle, Text: markup.Normalize(markup.Escape(title))},
		Heading{Level: 0, Style: StyleSubtitle, Text: "Generated on: " + markup.Escape(generated.Format(timeLayout))},
		Spacer{Height: TitleSpacerHeight},
	}
}

// FindBoundary returns the index of the first heading whose text contains
// BoundaryMarker, or min(DefaultBoundary, len(blocks)) if there is none.
func FindBoundary(blocks []Block) int {
	for i, b := range blocks {
		if h, ok := b.(Heading); ok && strings.Contains(markup.PlainText(h.Text), BoundaryMarker) {
			return i
		}
	}
	return min(DefaultBoundary, len(blocks))
}

// Assemble lays out the title and body blocks across the two page templates.
//
// The sequence starts with a switch to the title template. At the boundary
// (see FindBoundary) a page break and a switch to the two-column template are
// inserted, and every section heading after that point is preceded by a
// column break. The input slices are not modified and the relative order of
// their blocks is preserved.
func Assemble(title, body []Block) []Block {
	seq := make([]Block, 0, 1+len(title)+len(body))
	seq = append(seq, TemplateSwitch{Name: TemplateTitle})
	seq = append(seq, title...)
	seq = append(seq, body...)

	boundary := FindBoundary(seq)

	out := make([]Block, 0, len(seq)+2+countSections(seq[boundary:]))
	out = append(out, seq[:boundary]...)
	out = append(out, Break{Kind: BreakPage}, TemplateSwitch{Name: TemplateTwoColumn})
	for _, b := range seq[boundary:] {
		if isSection(b) {
			out = append(out, Break{Kind: BreakColumn})
		}
		out = append(out, b)
	}
	return out
}

func isSection(b Block) bool {
	h, ok := b.(Heading)
	return ok && h.Style == StyleSection
}

func countSections(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if isSection(b) {
			n++
		}
	}
	return n
}
