package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-co2report/internal/markup"
	"github.com/alnah/go-co2report/internal/pipeline"
)

// firstHeadingPattern matches the first level-1 ATX heading.
var firstHeadingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// runPreview converts one markdown file to a plain HTML document.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: preview takes exactly one file", ErrUsage)
	}
	input := pos[0]
	if err := validateMarkdownExtension(input); err != nil {
		return err
	}

	s, err := newSession(&flags.common, env)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(input) // #nosec G304 -- user-supplied input path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadReport, err)
	}

	title := flags.title
	if title == "" {
		title = previewTitle(string(content), input)
	}

	doc, err := pipeline.NewGoldmarkConverter().ToHTML(ctx, title, string(content))
	if err != nil {
		return err
	}
	// Goldmark drops raw HTML, so notation is applied to its output.
	doc = markup.Normalize(doc)

	if flags.output == "" {
		_, err := fmt.Fprintln(env.Stdout, doc)
		return err
	}
	if err := writeOutput(flags.output, []byte(doc)); err != nil {
		return err
	}
	s.log.Debug().Str("path", flags.output).Int("bytes", len(doc)).Msg("preview written")
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// previewTitle returns the first level-1 heading, or the file name.
func previewTitle(markdown, path string) string {
	if m := firstHeadingPattern.FindStringSubmatch(markdown); m != nil {
		if t := strings.TrimSpace(markup.PlainText(markup.Format(m[1]))); t != "" {
			return t
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
