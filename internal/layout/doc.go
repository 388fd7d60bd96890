// Package layout compiles report markdown into a flat sequence of layout
// blocks and places that sequence across the title and two-column page
// templates.
//
// Parsing is a single pass over input lines driven by ParseState, an explicit
// state value that accumulates multi-line tables and lists and commits them
// as blocks when they close. Placement (Assemble) is a second pass that
// builds a new sequence with page, column and template markers inserted; it
// never reorders the parsed blocks.
package layout
