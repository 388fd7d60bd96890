package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// outputFlags holds artifact destination flags.
type outputFlags struct {
	dir      string
	timeout  string
	css      string
	htmlOnly bool
}

// assessFlags holds all flags for the assess command.
type assessFlags struct {
	common     commonFlags
	output     outputFlags
	knowledge  []string
	roster     string
	model      string
	maxResults int
	noSearch   bool
	appendix   bool
	markdown   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  outputFlags
	subject string
	workers int
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	common commonFlags
	output string
	title  string
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
}

// addOutputFlags adds artifact destination flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "report directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF rendering timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.css, "css", "", "extra stylesheet applied after the layout styles")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write the HTML layout only, skip PDF")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs and tags parse failures as usage errors.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// parseAssessFlags parses assess command flags and returns positional args.
func parseAssessFlags(args []string, stderr io.Writer) (*assessFlags, []string, error) {
	f := &assessFlags{}
	fs := newFlagSet("assess", stderr, printAssessUsage)

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	fs.StringSliceVarP(&f.knowledge, "knowledge", "k", nil, "well document (repeatable; replaces config list)")
	fs.StringVar(&f.roster, "roster", "", "agent roster YAML (default: built-in)")
	fs.StringVar(&f.model, "model", "", "completion model")
	fs.IntVar(&f.maxResults, "max-results", 0, "results per search query (1-50)")
	fs.BoolVar(&f.noSearch, "no-search", false, "skip academic and web search")
	fs.BoolVar(&f.appendix, "appendix", false, "append specialist analyses after the report")
	fs.BoolVar(&f.markdown, "markdown", false, "also save the report markdown")

	pos, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	fs.StringVarP(&f.subject, "subject", "s", "", "well or site name (default: file name)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	pos, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", stderr, printPreviewUsage)

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "HTML file (default: stdout)")
	fs.StringVar(&f.title, "title", "", "document title (default: first heading)")

	pos, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, pos, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", stderr, printDoctorUsage)

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "machine-readable output")

	if _, err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
