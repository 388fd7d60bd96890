package co2report

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/dateutil"
	"github.com/alnah/go-co2report/internal/layout"
	"github.com/alnah/go-co2report/internal/markup"
	"github.com/alnah/go-co2report/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.ReportPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.AppendixInjector     = (*pipeline.AppendixInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter turns report markdown into a paginated landscape PDF.
// Create with NewConverter(), use Generate() for conversion, and Close() when done.
//
// A Converter may be used from several goroutines: every call builds its own
// style sheet, parse state and block sequence. PDF rendering shares one
// browser; use a ConverterPool for parallel rendering.
type Converter struct {
	cfg              converterConfig
	log              zerolog.Logger
	now              func() time.Time
	templates        *pipeline.PageTemplates
	timeLayout       string
	preprocessor     pipeline.MarkdownPreprocessor
	htmlConverter    pipeline.HTMLConverter
	renderer         *pipeline.BlockRenderer
	cssInjector      pipeline.CSSInjector
	appendixInjector pipeline.AppendixInjector
	pdfConverter     pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithOutputDir, WithLogger).
// Returns error if an option value is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:        defaultTimeout,
			outputDir:      DefaultOutputDir,
			artifactPrefix: DefaultArtifactPrefix,
			titlePrefix:    DefaultTitlePrefix,
			geometry:       pipeline.LandscapeA4(),
		},
		log:              zerolog.Nop(),
		now:              time.Now,
		preprocessor:     &pipeline.ReportPreprocessor{},
		htmlConverter:    pipeline.NewGoldmarkConverter(),
		cssInjector:      &pipeline.CSSInjection{},
		appendixInjector: pipeline.NewAppendixInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if strings.TrimSpace(c.cfg.artifactPrefix) == "" {
		return nil, fmt.Errorf("%w: artifact prefix cannot be empty", ErrInvalidOption)
	}
	if c.cfg.outputDir == "" {
		return nil, fmt.Errorf("%w: output directory cannot be empty", ErrInvalidOption)
	}

	templates, err := pipeline.NewPageTemplates(c.cfg.geometry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	c.templates = templates

	timeLayout, err := dateutil.Layout(c.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	c.timeLayout = timeLayout

	c.log = c.log.With().Str("component", "converter").Logger()
	c.renderer = pipeline.NewBlockRenderer(c.log)

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Generate compiles input.ReportContent into the report layout, renders it
// to PDF and writes the artifact under the output directory.
// If input.HTMLOnly is true, PDF generation and the artifact write are skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Generate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	log := c.log.With().Str("subject", input.SubjectName).Logger()
	generated := c.now()

	content := c.preprocessor.PreprocessMarkdown(ctx, input.ReportContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	content = markup.Normalize(content)

	body := layout.NewParser(log).Parse(content)
	title := layout.TitleBlocksLayout(c.reportTitle(input.SubjectName), generated, c.timeLayout)
	blocks := layout.Assemble(title, body)
	log.Debug().Int("body_blocks", len(body)).Int("blocks", len(blocks)).Msg("assembled layout")

	htmlContent, err := c.renderer.Render(ctx, blocks, pipeline.NewStyleSheet(), c.templates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.cfg.stylesheet)

	htmlContent, err = c.injectAppendix(ctx, htmlContent, input.Appendix)
	if err != nil {
		return nil, err
	}

	if outline, err := pipeline.Inspect(htmlContent); err == nil {
		log.Debug().
			Int("sections", len(outline.Sections)).
			Int("page_breaks", outline.PageBreaks).
			Int("appendix", outline.Appendix).
			Strs("headings", outline.Headings()).
			Msg("rendered document")
	}

	res := &Result{
		HTML:   []byte(htmlContent),
		Blocks: blocks,
	}

	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{Geometry: c.templates.Geometry()})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes

	path := ArtifactPath(c.cfg.outputDir, c.cfg.artifactPrefix, input.SubjectName, "pdf", generated)
	if err := writeArtifact(path, pdfBytes); err != nil {
		return nil, err
	}
	res.Path = path

	log.Info().Str("path", path).Int("bytes", len(pdfBytes)).Msg("report saved")
	return res, nil
}

// injectAppendix renders each appendix section through goldmark and appends
// the results after the report body.
func (c *Converter) injectAppendix(ctx context.Context, htmlContent string, sections []Section) (string, error) {
	if len(sections) == 0 {
		return htmlContent, nil
	}

	rendered := make([]pipeline.AppendixSection, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		fragment, err := c.htmlConverter.ToFragment(ctx, s.Content)
		if err != nil {
			return "", fmt.Errorf("converting appendix %q: %w", s.Title, err)
		}
		// Goldmark drops raw HTML, so notation is applied to its output.
		fragment = markup.Normalize(fragment)
		rendered = append(rendered, pipeline.AppendixSection{
			Title: s.Title,
			HTML:  template.HTML(fragment), // #nosec G203 -- goldmark output without WithUnsafe
		})
	}

	htmlContent, err := c.appendixInjector.InjectAppendix(ctx, htmlContent, rendered)
	if err != nil {
		return "", fmt.Errorf("injecting appendix: %w", err)
	}
	return htmlContent, nil
}

// reportTitle returns the title page heading for subject.
func (c *Converter) reportTitle(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return c.cfg.titlePrefix
	}
	return c.cfg.titlePrefix + ": " + subject
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present. An empty subject is
// accepted; its artifact is named with a placeholder (see SanitizeSubject).
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
func validateInput(input Input) error {
	if strings.TrimSpace(input.ReportContent) == "" {
		return ErrEmptyReport
	}
	return nil
}
