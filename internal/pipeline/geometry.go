package pipeline

import (
	"errors"
	"fmt"

	"github.com/alnah/go-co2report/internal/layout"
)

// ErrInvalidGeometry indicates page dimensions that leave no room for content.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// PageGeometry holds page dimensions in centimetres.
type PageGeometry struct {
	Width  float64
	Height float64
	Margin float64 // applied on all four sides
	Gutter float64 // space between the two body columns
}

// LandscapeA4 returns the report page: A4 rotated, 2 cm margins, 1 cm gutter.
func LandscapeA4() PageGeometry {
	return PageGeometry{Width: 29.7, Height: 21.0, Margin: 2.0, Gutter: 1.0}
}

// Validate checks that the geometry leaves positive room for two columns.
func (g PageGeometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: page size %.2fx%.2f cm", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Margin < 0 || g.Gutter < 0 {
		return fmt.Errorf("%w: negative margin or gutter", ErrInvalidGeometry)
	}
	if g.Width-2*g.Margin-g.Gutter <= 0 || g.Height-2*g.Margin <= 0 {
		return fmt.Errorf("%w: margins %.2f cm and gutter %.2f cm exceed page %.2fx%.2f cm",
			ErrInvalidGeometry, g.Margin, g.Gutter, g.Width, g.Height)
	}
	return nil
}

// ColumnWidth returns the width of one body column.
func (g PageGeometry) ColumnWidth() float64 {
	return (g.Width - 2*g.Margin - g.Gutter) / 2
}

// ColumnFrame is a rectangular region content flows into. X and Y locate the
// bottom-left corner, measured from the bottom-left of the page.
type ColumnFrame struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// PageTemplate is a named arrangement of frames. Content fills the frames in
// order and continues on a new page of the same template.
type PageTemplate struct {
	Name   string
	Frames []ColumnFrame
}

// PageTemplates is the immutable set of templates for one page geometry.
type PageTemplates struct {
	geometry PageGeometry
	byName   map[string]PageTemplate
	order    []string
}

// NewPageTemplates builds the title template (one frame inside the margins)
// and the two-column template (two frames separated by the gutter).
func NewPageTemplates(g PageGeometry) (*PageTemplates, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	contentHeight := g.Height - 2*g.Margin
	colWidth := g.ColumnWidth()

	title := PageTemplate{
		Name: layout.TemplateTitle,
		Frames: []ColumnFrame{
			{ID: "title", X: g.Margin, Y: g.Margin, Width: g.Width - 2*g.Margin, Height: contentHeight},
		},
	}
	twoColumn := PageTemplate{
		Name: layout.TemplateTwoColumn,
		Frames: []ColumnFrame{
			{ID: "col1", X: g.Margin, Y: g.Margin, Width: colWidth, Height: contentHeight},
			{ID: "col2", X: g.Margin + colWidth + g.Gutter, Y: g.Margin, Width: colWidth, Height: contentHeight},
		},
	}

	return &PageTemplates{
		geometry: g,
		byName: map[string]PageTemplate{
			title.Name:     title,
			twoColumn.Name: twoColumn,
		},
		order: []string{title.Name, twoColumn.Name},
	}, nil
}

// Geometry returns the page geometry the templates were built from.
func (t *PageTemplates) Geometry() PageGeometry { return t.geometry }

// Lookup returns the template registered under name.
// The returned frames are a copy.
func (t *PageTemplates) Lookup(name string) (PageTemplate, bool) {
	tpl, ok := t.byName[name]
	if !ok {
		return PageTemplate{}, false
	}
	frames := make([]ColumnFrame, len(tpl.Frames))
	copy(frames, tpl.Frames)
	return PageTemplate{Name: tpl.Name, Frames: frames}, true
}

// Names returns the template names in registration order.
func (t *PageTemplates) Names() []string {
	return append([]string(nil), t.order...)
}

// margins returns the page margins implied by a template's frames, in
// top, right, bottom, left order.
func (t *PageTemplates) margins(tpl PageTemplate) (top, right, bottom, left float64) {
	if len(tpl.Frames) == 0 {
		m := t.geometry.Margin
		return m, m, m, m
	}
	first, last := tpl.Frames[0], tpl.Frames[len(tpl.Frames)-1]
	left = first.X
	bottom = first.Y
	right = t.geometry.Width - (last.X + last.Width)
	top = t.geometry.Height - (first.Y + first.Height)
	return top, right, bottom, left
}

// gap returns the horizontal space between the first two frames, or 0.
func gap(tpl PageTemplate) float64 {
	if len(tpl.Frames) < 2 {
		return 0
	}
	a, b := tpl.Frames[0], tpl.Frames[1]
	return b.X - (a.X + a.Width)
}
