package layout

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/markup"
)

// Line classifiers, tried in this order: heading, list item, table row,
// paragraph.
var (
	headingPattern = regexp.MustCompile(`^(#{1,4})\s+(.+)$`)
	listPattern    = regexp.MustCompile(`^([-*]|\d+\.)\s+(.+)$`)
)

// separatorChars are the only characters allowed in a decorative table row.
const separatorChars = "|-: \t"

type parseMode int

const (
	modeIdle parseMode = iota
	modeTable
	modeList
)

// ParseState is the accumulator threaded through a single parsing pass.
// It is a value: Step and Finish return the next state instead of mutating
// the receiver. A state that has been stepped must not be stepped again.
//
// At most one of table and list accumulation is open at any time.
type ParseState struct {
	mode     parseMode
	rows     [][]string
	items    []string
	listKind ListKind
}

// InTable reports whether table rows are being accumulated.
func (s ParseState) InTable() bool { return s.mode == modeTable }

// InList reports whether list items are being accumulated.
func (s ParseState) InList() bool { return s.mode == modeList }

// ListKind returns the kind of the open list, or ListNone.
func (s ParseState) ListKind() ListKind {
	if s.mode != modeList {
		return ListNone
	}
	return s.listKind
}

// Step classifies one raw line and returns the next state together with the
// blocks committed by this line, in output order.
func (s ParseState) Step(raw string) (ParseState, []Block) {
	line := strings.TrimSpace(raw)

	// A blank line closes a list but not a table.
	if line == "" {
		if s.mode == modeList {
			return s.flush(false)
		}
		return s, nil
	}

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		next, out := s.flush(false)
		level := len(m[1])
		if level == 1 {
			out = append(out, Spacer{Height: SectionSpacerHeight})
		}
		out = append(out, Heading{Level: level, Style: headingStyle(level), Text: markup.Format(m[2])})
		return next, out
	}

	if m := listPattern.FindStringSubmatch(line); m != nil {
		kind := ListNumbered
		if m[1] == "-" || m[1] == "*" {
			kind = ListBullet
		}
		next, out := s, []Block(nil)
		if s.mode != modeList || s.listKind != kind {
			next, out = s.flush(false)
			next.mode = modeList
			next.listKind = kind
		}
		next.items = append(next.items, markup.Format(m[2]))
		return next, out
	}

	if strings.Contains(line, "|") {
		if isSeparatorRow(line) {
			return s, nil
		}
		next, out := s, []Block(nil)
		if s.mode != modeTable {
			next, out = s.flush(false)
			next.mode = modeTable
		}
		next.rows = append(next.rows, splitRow(line))
		return next, out
	}

	next, out := s.flush(true)
	out = append(out, Paragraph{Style: StyleBody, Text: markup.Format(line)})
	return next, out
}

// Finish flushes whatever is still being accumulated at end of input.
func (s ParseState) Finish() []Block {
	_, out := s.flush(false)
	return out
}

// flush commits the open accumulation, if any, and returns an idle state.
// spacerAfterTable adds a spacer after a committed table.
func (s ParseState) flush(spacerAfterTable bool) (ParseState, []Block) {
	var out []Block
	switch s.mode {
	case modeTable:
		if t, ok := BuildTable(s.rows); ok {
			out = append(out, t)
			if spacerAfterTable {
				out = append(out, Spacer{Height: SectionSpacerHeight})
			}
		}
	case modeList:
		if l, ok := BuildList(s.items, s.listKind); ok {
			out = append(out, l)
		}
	}
	return ParseState{}, out
}

// isSeparatorRow reports whether line is a decorative divider such as
// "| --- | :---: |". A divider has at least one dash; "| |" is an empty row.
func isSeparatorRow(line string) bool {
	return strings.Contains(line, "-") && strings.Trim(line, separatorChars) == ""
}

// splitRow returns the trimmed cells of a table row. Empty segments produced
// by bounding separators are dropped.
func splitRow(line string) []string {
	segments := strings.Split(line, "|")
	if strings.HasPrefix(line, "|") {
		segments = segments[1:]
	}
	if strings.HasSuffix(line, "|") && len(segments) > 0 {
		segments = segments[:len(segments)-1]
	}
	cells := make([]string, len(segments))
	for i, seg := range segments {
		cells[i] = strings.TrimSpace(seg)
	}
	return cells
}

// Parser converts report markdown into layout blocks.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a Parser that logs flush events at debug level.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log.With().Str("component", "layout.parser").Logger()}
}

// Parse runs one pass over text and returns the committed blocks in order.
// Each call uses its own ParseState.
func (p *Parser) Parse(text string) []Block {
	var (
		state  ParseState
		blocks []Block
		out    []Block
	)
	for i, line := range strings.Split(text, "\n") {
		state, out = state.Step(line)
		if len(out) > 0 {
			p.log.Debug().Int("line", i+1).Strs("blocks", kinds(out)).Msg("committed")
		}
		blocks = append(blocks, out...)
	}
	out = state.Finish()
	if len(out) > 0 {
		p.log.Debug().Strs("blocks", kinds(out)).Msg("committed at end of input")
	}
	blocks = append(blocks, out...)

	p.log.Debug().Int("count", len(blocks)).Msg("parsed report")
	return blocks
}

// Parse converts text with a parser that does not log.
func Parse(text string) []Block {
	return NewParser(zerolog.Nop()).Parse(text)
}

// KindOf returns a short name for the block's concrete type.
func KindOf(b Block) string {
	switch b.(type) {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case Table:
		return "table"
	case List:
		return "list"
	case Spacer:
		return "spacer"
	case Break:
		return "break"
	case TemplateSwitch:
		return "template"
	default:
		return "unknown"
	}
}

func kinds(blocks []Block) []string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = KindOf(b)
	}
	return names
}
