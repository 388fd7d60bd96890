package co2report

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/layout"
	"github.com/alnah/go-co2report/internal/pipeline"
)

// Artifact naming defaults.
const (
	DefaultOutputDir      = "co2_assessment_reports"
	DefaultArtifactPrefix = "CO2_Storage_Assessment"
	DefaultTitlePrefix    = "CO₂ Storage Assessment Report"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 60 * time.Second

// Section is a titled piece of markdown, such as one specialist analysis.
type Section struct {
	Title   string
	Content string
}

// Input contains the data for one report conversion.
type Input struct {
	ReportContent string    // report markdown (required)
	SubjectName   string    // well or site the report is about (required)
	Appendix      []Section // rendered after the report body, one lettered entry each
	HTMLOnly      bool      // skip PDF generation and artifact write
}

// Result contains the output of a report conversion.
type Result struct {
	Path   string         // written artifact, empty in HTMLOnly mode
	HTML   []byte         // document handed to the PDF backend
	PDF    []byte         // nil in HTMLOnly mode
	Blocks []layout.Block // assembled block sequence
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	outputDir      string
	artifactPrefix string
	titlePrefix    string
	geometry       pipeline.PageGeometry
	dateFormat     string
	stylesheet     string
}

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("co2report: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger used by the converter and its components.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) {
		c.log = log
	}
}

// WithOutputDir sets the directory report artifacts are written to.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.outputDir = dir
	}
}

// WithArtifactPrefix sets the file name prefix of report artifacts.
func WithArtifactPrefix(prefix string) Option {
	return func(c *Converter) {
		c.cfg.artifactPrefix = prefix
	}
}

// WithTitlePrefix sets the report title shown before the subject name.
func WithTitlePrefix(prefix string) Option {
	return func(c *Converter) {
		c.cfg.titlePrefix = prefix
	}
}

// WithPageGeometry overrides the landscape A4 page.
func WithPageGeometry(g pipeline.PageGeometry) Option {
	return func(c *Converter) {
		c.cfg.geometry = g
	}
}

// WithDateFormat sets the title timestamp format: a preset (iso, date,
// european, us, long) or tokens such as "DD MMM YYYY HH:mm". An invalid
// format makes NewConverter fail with ErrInvalidOption.
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithStylesheet appends css after the built-in layout styles.
func WithStylesheet(css string) Option {
	return func(c *Converter) {
		c.cfg.stylesheet = css
	}
}

// WithClock sets the time source for the title timestamp and artifact name.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}
