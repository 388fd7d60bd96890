package co2report

// Notes:
// - Tests Converter.Generate with a mocked PDF backend so no browser is needed
// - Internal test options (withPDFConverter, etc.) enable dependency injection
// - A fixed clock makes title timestamps and artifact names deterministic
// - Output directories are always t.TempDir()

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-co2report/internal/layout"
	"github.com/alnah/go-co2report/internal/markup"
	"github.com/alnah/go-co2report/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

type mockHTMLConverter struct {
	err error
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, title, content string) (string, error) {
	return "<html>" + content + "</html>", m.err
}

func (m *mockHTMLConverter) ToFragment(ctx context.Context, content string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "<p>" + content + "</p>", nil
}

type panicPreprocessor struct{}

func (p *panicPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	panic("boom")
}

// ---------------------------------------------------------------------------
// Test Options
// ---------------------------------------------------------------------------

func withPDFConverter(c pdfConverter) Option {
	return func(conv *Converter) {
		conv.pdfConverter = c
	}
}

func withHTMLConverter(c pipeline.HTMLConverter) Option {
	return func(conv *Converter) {
		conv.htmlConverter = c
	}
}

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(conv *Converter) {
		conv.preprocessor = p
	}
}

var testNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func fixedClock() time.Time { return testNow }

const testReport = `# Executive Summary
The CO2 storage potential is high.

# Introduction
Well 15/9-14 penetrates the Utsira formation.

## Petrophysics
| Property | Value |
|---|---|
| Porosity | 0.32 |

- Thick sand
- Good seal

# Conclusions
Proceed with **injection** testing.`

func newTestConverter(t *testing.T, pdf *mockPDFConverter, opts ...Option) *Converter {
	t.Helper()
	opts = append([]Option{
		withPDFConverter(pdf),
		WithClock(fixedClock),
		WithOutputDir(t.TempDir()),
	}, opts...)
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestValidateInput
// ---------------------------------------------------------------------------

func TestValidateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "valid", input: Input{ReportContent: "# A", SubjectName: "W1"}},
		{name: "empty subject accepted", input: Input{ReportContent: "# A"}},
		{name: "empty report", input: Input{SubjectName: "W1"}, wantErr: ErrEmptyReport},
		{name: "whitespace report", input: Input{ReportContent: " \n\t"}, wantErr: ErrEmptyReport},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateInput(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateInput() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerate
// ---------------------------------------------------------------------------

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{output: []byte("%PDF-1.4 report")}
	conv := newTestConverter(t, pdf)

	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "15/9-14"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantName := "CO2_Storage_Assessment_15_9_14_20240305_140709.pdf"
	if filepath.Base(res.Path) != wantName {
		t.Errorf("Path = %q, want base %q", res.Path, wantName)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != "%PDF-1.4 report" {
		t.Errorf("artifact = %q", data)
	}
	if string(res.PDF) != "%PDF-1.4 report" {
		t.Errorf("PDF = %q", res.PDF)
	}

	if !pdf.called {
		t.Fatal("PDF converter not called")
	}
	if pdf.inputHTML != string(res.HTML) {
		t.Error("PDF converter did not receive the rendered HTML")
	}
	if pdf.inputOpts == nil || pdf.inputOpts.Geometry != pipeline.LandscapeA4() {
		t.Errorf("PDF options = %+v, want landscape A4", pdf.inputOpts)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"CO<sub>2</sub> Storage Assessment Report: 15/9-14",
		"Generated on: 2024-03-05 14:07:09",
		"CO<sub>2</sub> storage potential",
		`<strong>injection</strong>`,
		`class="tpl-two_column"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerate_DateFormat(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{}, WithDateFormat("DD MMM YYYY [at] HH:mm"))
	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "Generated on: 05 Mar 2024 at 14:07") {
		t.Error("title timestamp should use the configured format")
	}
}

func TestGenerate_Stylesheet(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{}, WithStylesheet(".tpl-title h1 { color: #004b87; }"))
	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	html := string(res.HTML)
	user := strings.Index(html, "#004b87")
	builtin := strings.Index(html, "@page")
	if user == -1 {
		t.Fatal("user stylesheet not injected")
	}
	if builtin == -1 || builtin > user {
		t.Error("user stylesheet should follow the built-in styles")
	}
}

func TestGenerate_BlockSequence(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{})
	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// template, title, subtitle, spacer, section spacer, summary heading,
	// summary paragraph, section spacer, then the page break before Introduction.
	if len(res.Blocks) < 10 {
		t.Fatalf("got %d blocks", len(res.Blocks))
	}
	if sw, ok := res.Blocks[0].(layout.TemplateSwitch); !ok || sw.Name != layout.TemplateTitle {
		t.Errorf("Blocks[0] = %#v, want title template switch", res.Blocks[0])
	}
	if br, ok := res.Blocks[8].(layout.Break); !ok || br.Kind != layout.BreakPage {
		t.Errorf("Blocks[8] = %#v, want page break", res.Blocks[8])
	}
	if sw, ok := res.Blocks[9].(layout.TemplateSwitch); !ok || sw.Name != layout.TemplateTwoColumn {
		t.Errorf("Blocks[9] = %#v, want two_column switch", res.Blocks[9])
	}

	var tables int
	for _, b := range res.Blocks {
		if _, ok := b.(layout.Table); ok {
			tables++
		}
	}
	if tables != 1 {
		t.Errorf("tables = %d, want 1", tables)
	}
}

func TestGenerate_HTMLOnly(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	dir := t.TempDir()
	conv := newTestConverter(t, pdf, WithOutputDir(dir))

	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if pdf.called {
		t.Error("PDF converter called in HTMLOnly mode")
	}
	if res.Path != "" || res.PDF != nil {
		t.Errorf("HTMLOnly result has Path=%q PDF=%d bytes", res.Path, len(res.PDF))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
}

func TestGenerate_EmptySubject(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{})
	res, err := conv.Generate(context.Background(), Input{ReportContent: testReport})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if filepath.Base(res.Path) != "CO2_Storage_Assessment_unnamed_20240305_140709.pdf" {
		t.Errorf("Path = %q", res.Path)
	}
	title := res.Blocks[1].(layout.Heading)
	if title.Text != markup.Normalize(DefaultTitlePrefix) {
		t.Errorf("title = %q, want %q", title.Text, markup.Normalize(DefaultTitlePrefix))
	}
	if got := markup.PlainText(title.Text); got != "CO2 Storage Assessment Report" {
		t.Errorf("plain title = %q", got)
	}
}

func TestGenerate_EmptyReport(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv := newTestConverter(t, pdf)
	_, err := conv.Generate(context.Background(), Input{ReportContent: "  ", SubjectName: "W"})
	if !errors.Is(err, ErrEmptyReport) {
		t.Errorf("error = %v, want ErrEmptyReport", err)
	}
	if pdf.called {
		t.Error("PDF converter called for empty report")
	}
}

func TestGenerate_PDFError(t *testing.T) {
	t.Parallel()

	pdfErr := errors.New("chrome gone")
	dir := t.TempDir()
	conv := newTestConverter(t, &mockPDFConverter{err: pdfErr}, WithOutputDir(dir))

	_, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W"})
	if !errors.Is(err, pdfErr) {
		t.Errorf("error = %v, want wrapped %v", err, pdfErr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries after failure", len(entries))
	}
}

func TestGenerate_WriteError(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	conv := newTestConverter(t, &mockPDFConverter{}, WithOutputDir(filepath.Join(blocker, "out")))

	_, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W"})
	if !errors.Is(err, ErrWriteArtifact) {
		t.Errorf("error = %v, want ErrWriteArtifact", err)
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pdf := &mockPDFConverter{}
	conv := newTestConverter(t, pdf)
	_, err := conv.Generate(ctx, Input{ReportContent: testReport, SubjectName: "W"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if pdf.called {
		t.Error("PDF converter called after cancellation")
	}
}

func TestGenerate_Appendix(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{})
	res, err := conv.Generate(context.Background(), Input{
		ReportContent: testReport,
		SubjectName:   "W",
		HTMLOnly:      true,
		Appendix: []Section{
			{Title: "Petrophysical Analysis", Content: "Porosity of the CO2 reservoir is **high**."},
			{Title: "Skipped", Content: "   "},
			{Title: "Core Analysis", Content: "- plug 1\n- plug 2"},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"Appendix A: Petrophysical Analysis",
		"Appendix B: Core Analysis",
		"CO<sub>2</sub> reservoir",
		"<strong>high</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(html, "Skipped") {
		t.Error("empty appendix section rendered")
	}
	if strings.Index(html, "Appendix A") < strings.Index(html, "Conclusions") {
		t.Error("appendix rendered before report body")
	}
}

func TestGenerate_AppendixError(t *testing.T) {
	t.Parallel()

	convErr := errors.New("goldmark failed")
	conv := newTestConverter(t, &mockPDFConverter{}, withHTMLConverter(&mockHTMLConverter{err: convErr}))
	_, err := conv.Generate(context.Background(), Input{
		ReportContent: testReport,
		HTMLOnly:      true,
		Appendix:      []Section{{Title: "A", Content: "x"}},
	})
	if !errors.Is(err, convErr) {
		t.Errorf("error = %v, want wrapped %v", err, convErr)
	}
}

func TestGenerate_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{}, withPreprocessor(&panicPreprocessor{}))
	_, err := conv.Generate(context.Background(), Input{ReportContent: testReport})
	if err == nil || !strings.Contains(err.Error(), "internal error: boom") {
		t.Errorf("error = %v, want recovered panic", err)
	}
}

func TestGenerate_IndependentConversions(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, &mockPDFConverter{})
	first, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	second, err := conv.Generate(context.Background(), Input{ReportContent: testReport, SubjectName: "W", HTMLOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(first.HTML) != string(second.HTML) {
		t.Error("repeated conversion of the same input differs")
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "empty artifact prefix", opts: []Option{WithArtifactPrefix(" ")}, wantErr: ErrInvalidOption},
		{name: "empty output dir", opts: []Option{WithOutputDir("")}, wantErr: ErrInvalidOption},
		{
			name:    "invalid geometry",
			opts:    []Option{WithPageGeometry(pipeline.PageGeometry{Width: 10, Height: 10, Margin: 6})},
			wantErr: ErrInvalidOption,
		},
		{name: "date preset", opts: []Option{WithDateFormat("long")}},
		{name: "invalid date format", opts: []Option{WithDateFormat("DD [MM")}, wantErr: ErrInvalidOption},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv, err := NewConverter(opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && conv.cfg.outputDir != DefaultOutputDir {
				t.Errorf("outputDir = %q", conv.cfg.outputDir)
			}
		})
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets timeout", func(t *testing.T) {
		t.Parallel()
		conv, err := NewConverter(WithTimeout(5*time.Second), withPDFConverter(&mockPDFConverter{}))
		if err != nil {
			t.Fatal(err)
		}
		if conv.cfg.timeout != 5*time.Second {
			t.Errorf("timeout = %v", conv.cfg.timeout)
		}
	})

	t.Run("panics on non-positive", func(t *testing.T) {
		t.Parallel()
		defer func() {
			if recover() == nil {
				t.Error("WithTimeout(0) did not panic")
			}
		}()
		WithTimeout(0)
	})
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv := newTestConverter(t, pdf)
	if err := conv.Close(); err != nil {
		t.Fatal(err)
	}
	if !pdf.closed {
		t.Error("Close() did not close the PDF converter")
	}
}
