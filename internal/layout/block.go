package layout

// Style names a paragraph style in the per-conversion style sheet.
type Style string

// Paragraph styles referenced by blocks.
const (
	StyleTitle      Style = "CustomReportTitle"
	StyleSubtitle   Style = "CustomReportSubtitle"
	StyleSection    Style = "CustomSectionTitle"
	StyleSubsection Style = "CustomSubsectionTitle"
	StyleHeading3   Style = "Heading3"
	StyleHeading4   Style = "Heading4"
	StyleBody       Style = "CustomBodyText"
)

// Page template names.
const (
	TemplateTitle     = "title"
	TemplateTwoColumn = "two_column"
)

// ListKind distinguishes bullet lists from numbered lists.
type ListKind int

const (
	ListNone ListKind = iota
	ListBullet
	ListNumbered
)

// String returns the list kind name.
func (k ListKind) String() string {
	switch k {
	case ListBullet:
		return "bullet"
	case ListNumbered:
		return "numbered"
	default:
		return "none"
	}
}

// BreakKind selects what a Break block forces.
type BreakKind int

const (
	BreakPage BreakKind = iota
	BreakColumn
)

// String returns the break kind name.
func (k BreakKind) String() string {
	if k == BreakColumn {
		return "column"
	}
	return "page"
}

// Block is one committed unit of layout output. The set of implementations is
// closed: Heading, Paragraph, Table, List, Spacer, Break and TemplateSwitch.
type Block interface {
	block()
}

// Heading is a section heading. Text holds inline HTML.
type Heading struct {
	Level int
	Style Style
	Text  string
}

// Paragraph is one line of body text. Text holds inline HTML.
type Paragraph struct {
	Style Style
	Text  string
}

// Table is an atomic grid: the renderer never splits it across a column or
// page boundary. Rows[0] is the header row. Cells hold inline HTML; rows may
// be shorter than Columns.
type Table struct {
	Rows        [][]string
	Columns     int
	ColumnWidth float64 // centimetres
}

// List is a bullet or numbered list. Items hold inline HTML.
type List struct {
	Items []string
	Kind  ListKind
}

// Spacer is vertical whitespace.
type Spacer struct {
	Height float64 // points
}

// Break forces a page or column transition.
type Break struct {
	Kind BreakKind
}

// TemplateSwitch selects the page template for the content that follows.
type TemplateSwitch struct {
	Name string
}

func (Heading) block()        {}
func (Paragraph) block()      {}
func (Table) block()          {}
func (List) block()           {}
func (Spacer) block()         {}
func (Break) block()          {}
func (TemplateSwitch) block() {}

// headingStyle maps a heading level (1-4) to its style.
func headingStyle(level int) Style {
	switch level {
	case 1:
		return StyleSection
	case 2:
		return StyleSubsection
	case 3:
		return StyleHeading3
	default:
		return StyleHeading4
	}
}
