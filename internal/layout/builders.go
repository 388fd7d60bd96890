package layout

import "github.com/alnah/go-co2report/internal/markup"

// TableWidth is the fixed total table width in centimetres. It fits inside
// one body column.
const TableWidth = 12.0

// Spacer heights in points.
const (
	SectionSpacerHeight = 14.4 // 0.2in, before level-1 headings and after tables
	TitleSpacerHeight   = 21.6 // 0.3in, after the title block
)

// BuildTable formats every cell and sizes the columns uniformly from the
// widest row. Ragged rows are kept as they are; missing trailing cells render
// blank. Returns false if rows is empty.
func BuildTable(rows [][]string) (Table, bool) {
	if len(rows) == 0 {
		return Table{}, false
	}

	columns := 0
	formatted := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = markup.Format(cell)
		}
		formatted[i] = cells
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return Table{}, false
	}

	return Table{
		Rows:        formatted,
		Columns:     columns,
		ColumnWidth: TableWidth / float64(columns),
	}, true
}

// BuildList wraps already-formatted items into a list block.
// Returns false if there are no items.
func BuildList(items []string, kind ListKind) (List, bool) {
	if len(items) == 0 {
		return List{}, false
	}
	if kind == ListNone {
		kind = ListBullet
	}
	out := make([]string, len(items))
	copy(out, items)
	return List{Items: out, Kind: kind}, true
}
