package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/agents"
	"github.com/alnah/go-co2report/internal/fileutil"
)

// Compile-time interface implementation check.
var _ agents.Publisher = (*reportPublisher)(nil)

// reportGenerator is the part of co2report.Converter the CLI uses.
type reportGenerator interface {
	Generate(ctx context.Context, input co2report.Input) (*co2report.Result, error)
}

// publishSettings controls where and how a report is written.
type publishSettings struct {
	dir      string
	prefix   string
	htmlOnly bool
	markdown bool
	now      func() time.Time
}

// reportPublisher backs the save_report capability with the converter.
type reportPublisher struct {
	gen      reportGenerator
	settings publishSettings
	appendix bool
}

// Publish renders report for subject and returns the artifact path. With
// appendix enabled, the specialist analyses follow the report body.
func (p *reportPublisher) Publish(ctx context.Context, subject, report string, sections []agents.Section) (string, error) {
	var appendix []co2report.Section
	if p.appendix {
		appendix = appendixSections(sections)
	}
	return publish(ctx, p.gen, p.settings, co2report.Input{
		ReportContent: report,
		SubjectName:   subject,
		Appendix:      appendix,
	})
}

// publish generates one report. In HTML-only mode the layout is written
// where the PDF would go, with an .html extension.
func publish(ctx context.Context, gen reportGenerator, s publishSettings, input co2report.Input) (string, error) {
	input.HTMLOnly = s.htmlOnly

	res, err := gen.Generate(ctx, input)
	if err != nil {
		return "", err
	}

	path := res.Path
	if s.htmlOnly {
		path = co2report.ArtifactPath(s.dir, s.prefix, input.SubjectName, "html", s.now())
		if err := writeOutput(path, res.HTML); err != nil {
			return "", err
		}
	}

	if s.markdown {
		mdPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
		if err := writeOutput(mdPath, []byte(input.ReportContent)); err != nil {
			return "", err
		}
	}
	return path, nil
}

func writeOutput(path string, data []byte) error {
	if err := fileutil.WriteAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}
