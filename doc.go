// Package co2report renders CO₂ storage assessment reports, written in a
// small markdown dialect, as paginated landscape PDF documents.
//
// # Quick Start
//
// Create a converter, generate a report, and close when done:
//
//	conv, err := co2report.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Generate(ctx, co2report.Input{
//	    ReportContent: "# Executive Summary\n...\n# Introduction\n...",
//	    SubjectName:   "15/9-F-11",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path) // co2_assessment_reports/CO2_Storage_Assessment_15_9_F_11_20240305_140709.pdf
//
// The result contains the written path, the PDF bytes, the intermediate HTML
// and the assembled block sequence. Use Input.HTMLOnly to skip PDF
// generation and the artifact write.
//
// # Conversion Pipeline
//
//  1. Preprocessing (line endings, outer code fence, blank line runs)
//  2. Chemical notation (CO2 becomes CO<sub>2</sub>)
//  3. Line-by-line parsing into headings, paragraphs, tables and lists
//  4. Assembly: title page, then a two-column body starting at the
//     "Introduction" heading, with each top-level section opening a column
//  5. HTML rendering with CSS named pages and multi-column flow
//  6. PDF rendering via headless Chrome (go-rod)
//  7. Atomic artifact write
//
// # Markdown Dialect
//
// One block per line: "#" to "####" headings, "-", "*" or "1." list items,
// pipe-separated table rows and plain paragraphs. Inline **bold**, *italic*
// and `code` are supported. Tables are never split across columns or pages.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := co2report.NewConverter(
//	    co2report.WithTimeout(2 * time.Minute),
//	    co2report.WithOutputDir("out"),
//	    co2report.WithLogger(logger),
//	)
//
// # Concurrency
//
// Every conversion builds its own style sheet, parse state and block
// sequence. For parallel PDF rendering, use ConverterPool so each worker has
// its own browser.
package co2report
