//go:build integration

package co2report

// Notes:
// - Drives a real headless Chrome through go-rod; rod downloads Chromium on
//   first run if none is found
// - One shared ConverterPool for the whole package, closed in TestMain
// - Pool size is capped at 2 so CI runners are not exhausted

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-co2report/internal/pipeline"
)

const integrationTimeout = 60 * time.Second

var testPool *ConverterPool

func TestMain(m *testing.M) {
	testPool = NewConverterPool(min(ResolvePoolSize(0), 2))
	code := m.Run()
	_ = testPool.Close()
	os.Exit(code)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

const integrationReport = `# Executive Summary

The Utsira formation shows good CO2 storage potential.

# Introduction

Well 15/9-14 was drilled in 1982.

| Depth (m) | Porosity (%) | Permeability (mD) |
| --- | --- | --- |
| 800 | 34 | 2000 |
| 850 | 31 | 1500 |

## Cap rock

- Nordland shale
- Thickness **250 m**

# Conclusions

1. Storage is feasible.
2. Monitor the fault at 1200 m.
`

// ---------------------------------------------------------------------------
// TestRodConverter_ToPDF_Integration
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF_Integration(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><h1>CO<sub>2</sub> storage</h1><p>Landscape page.</p></body>
</html>`

	conv := newRodConverter(integrationTimeout)
	t.Cleanup(func() { _ = conv.Close() })

	data, err := conv.ToPDF(context.Background(), html, &pdfOptions{Geometry: pipeline.LandscapeA4()})
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	assertValidPDF(t, data)
}

// ---------------------------------------------------------------------------
// TestConverterPool_Generate_Integration
// ---------------------------------------------------------------------------

func TestConverterPool_Generate_Integration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject string
		input   Input
	}{
		{
			name:    "report without appendix",
			subject: "15/9-14",
			input:   Input{ReportContent: integrationReport},
		},
		{
			name:    "report with appendix",
			subject: "Sleipner",
			input: Input{
				ReportContent: integrationReport,
				Appendix: []Section{
					{Title: "Petrophysical Analysis", Content: "Porosity 30-35 %."},
				},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
			defer cancel()

			conv, err := testPool.Acquire(ctx)
			if err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
			t.Cleanup(func() { testPool.Release(conv) })

			dir := t.TempDir()
			conv.cfg.outputDir = dir

			input := tt.input
			input.SubjectName = tt.subject
			res, err := conv.Generate(ctx, input)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if filepath.Dir(res.Path) != dir {
				t.Errorf("artifact dir = %q, want %q", filepath.Dir(res.Path), dir)
			}
			if !strings.Contains(filepath.Base(res.Path), SanitizeSubject(tt.subject)) {
				t.Errorf("artifact %q does not contain sanitized subject", res.Path)
			}

			data, err := os.ReadFile(res.Path)
			if err != nil {
				t.Fatalf("failed to read artifact: %v", err)
			}
			assertValidPDF(t, data)
		})
	}
}
