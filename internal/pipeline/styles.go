package pipeline

import "github.com/alnah/go-co2report/internal/layout"

// Alignment is horizontal text alignment.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// ParagraphStyle describes how one style renders. Sizes are in points.
type ParagraphStyle struct {
	Name        layout.Style
	FontSize    float64
	Leading     float64
	SpaceBefore float64
	SpaceAfter  float64
	Align       Alignment
	Bold        bool
	Italic      bool
}

// StyleSheet maps style names to their rendering.
type StyleSheet map[layout.Style]ParagraphStyle

// NewStyleSheet returns a new style sheet with the report styles.
// Each call builds a fresh map, so conversions never share styles.
func NewStyleSheet() StyleSheet {
	styles := []ParagraphStyle{
		{Name: layout.StyleTitle, FontSize: 20, Leading: 21.6, SpaceAfter: 21.6, Align: AlignCenter, Bold: true},
		{Name: layout.StyleSubtitle, FontSize: 14, Leading: 16.8, SpaceBefore: 12, SpaceAfter: 14.4, Align: AlignCenter, Bold: true},
		{Name: layout.StyleSection, FontSize: 14, Leading: 16.8, SpaceBefore: 14.4, SpaceAfter: 7.2, Align: AlignLeft, Bold: true},
		{Name: layout.StyleSubsection, FontSize: 12, Leading: 14.4, SpaceBefore: 10.8, SpaceAfter: 7.2, Align: AlignLeft, Bold: true, Italic: true},
		{Name: layout.StyleHeading3, FontSize: 12, Leading: 14.4, SpaceBefore: 12, SpaceAfter: 6, Align: AlignLeft, Bold: true, Italic: true},
		{Name: layout.StyleHeading4, FontSize: 10, Leading: 12, SpaceBefore: 10, SpaceAfter: 4, Align: AlignLeft, Bold: true, Italic: true},
		{Name: layout.StyleBody, FontSize: 10, Leading: 14, SpaceAfter: 7.2, Align: AlignLeft},
	}

	sheet := make(StyleSheet, len(styles))
	for _, s := range styles {
		sheet[s.Name] = s
	}
	return sheet
}

// Get returns the named style, falling back to the body style.
func (s StyleSheet) Get(name layout.Style) ParagraphStyle {
	if st, ok := s[name]; ok {
		return st
	}
	if st, ok := s[layout.StyleBody]; ok {
		st.Name = name
		return st
	}
	return ParagraphStyle{Name: name, FontSize: 10, Leading: 14, Align: AlignLeft}
}
