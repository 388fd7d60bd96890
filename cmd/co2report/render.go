package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	co2report "github.com/alnah/go-co2report"
)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (reportGenerator, error)
	Release(reportGenerator)
	Size() int
}

// poolAdapter exposes a co2report.ConverterPool as a Pool.
type poolAdapter struct {
	pool *co2report.ConverterPool
}

// Compile-time interface implementation check.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (reportGenerator, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics on a generator that did not come from the pool.
func (a *poolAdapter) Release(g reportGenerator) {
	conv, ok := g.(*co2report.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", g))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// renderJob is one markdown file to render.
type renderJob struct {
	InputPath string
	Subject   string
}

// renderResult holds the outcome of a single render.
type renderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runRender renders existing report markdown with the assessment layout.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		return ErrNoInput
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	s, err := newSession(&flags.common, env)
	if err != nil {
		return err
	}
	cfg := s.cfg
	if err := applyOutputFlags(&flags.output, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobs, err := discoverReports(pos, flags.subject)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no markdown files in %s", ErrNoInput, strings.Join(pos, ", "))
	}

	log := s.log.With().Str("command", "render").Logger()
	size := co2report.ResolvePoolSize(flags.workers)
	if size > len(jobs) {
		size = len(jobs)
	}
	log.Debug().Int("files", len(jobs)).Int("workers", size).Msg("rendering")

	convOpts, err := converterOptions(cfg, log, env)
	if err != nil {
		return err
	}
	pool := co2report.NewConverterPool(size, convOpts...)
	defer func() { _ = pool.Close() }()

	settings := publishSettingsFor(cfg, flags.output.htmlOnly, false, env)
	results := renderBatch(ctx, &poolAdapter{pool: pool}, jobs, settings)
	return reportResults(results, flags.common, env)
}

// renderBatch renders jobs concurrently, one pooled converter per worker.
// Results keep the order of jobs.
func renderBatch(ctx context.Context, pool Pool, jobs []renderJob, settings publishSettings) []renderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]renderResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gen, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range queue {
					results[idx] = renderResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(gen)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = renderResult{InputPath: jobs[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, gen, jobs[idx], settings)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderFile renders a single markdown file.
func renderFile(ctx context.Context, gen reportGenerator, job renderJob, settings publishSettings) renderResult {
	start := time.Now()
	result := renderResult{InputPath: job.InputPath}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadReport, err)
		result.Duration = time.Since(start)
		return result
	}

	result.OutputPath, result.Err = publish(ctx, gen, settings, co2report.Input{
		ReportContent: string(content),
		SubjectName:   job.Subject,
	})
	result.Duration = time.Since(start)
	return result
}

// reportResults prints per-file outcomes and returns the first failure.
func reportResults(results []renderResult, common commonFlags, env *Environment) error {
	var failed int
	var first error

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			failed++
			if first == nil {
				first = r.Err
			}
			continue
		}
		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	if first != nil {
		return fmt.Errorf("%d of %d reports failed: %w", failed, len(results), first)
	}
	return nil
}

// discoverReports expands files and directories into render jobs. An empty
// subject names each report after its file.
func discoverReports(inputs []string, subject string) ([]renderJob, error) {
	var jobs []renderJob
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadReport, err)
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
			jobs = append(jobs, renderJob{InputPath: input, Subject: subjectFor(input, subject)})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !looksLikeMarkdown(path) {
				return nil
			}
			jobs = append(jobs, renderJob{InputPath: path, Subject: subjectFor(path, subject)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if subject != "" && len(jobs) > 1 {
		return nil, fmt.Errorf("%w: --subject names a single report, got %d files", ErrUsage, len(jobs))
	}
	if err := uniqueSubjects(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// uniqueSubjects gives every job its own artifact name. Artifact names only
// carry the sanitized subject and a timestamp in seconds, so reports whose
// subjects sanitize alike are renamed after their parent directories, e.g.
// "well_a/report" and "well_b/report". Jobs that still collide are rejected.
func uniqueSubjects(jobs []renderJob) error {
	groups := make(map[string][]int)
	for i, j := range jobs {
		key := co2report.SanitizeSubject(j.Subject)
		groups[key] = append(groups[key], i)
	}

	for _, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		for depth := 2; ; depth++ {
			seen := make(map[string]bool, len(idx))
			grew := false
			for _, i := range idx {
				name, more := pathSuffix(jobs[i].InputPath, depth)
				grew = grew || more
				seen[co2report.SanitizeSubject(name)] = true
			}
			if len(seen) == len(idx) {
				for _, i := range idx {
					jobs[i].Subject, _ = pathSuffix(jobs[i].InputPath, depth)
				}
				break
			}
			if !grew {
				break
			}
		}
	}

	owner := make(map[string]string, len(jobs))
	for _, j := range jobs {
		key := co2report.SanitizeSubject(j.Subject)
		if prev, ok := owner[key]; ok {
			return fmt.Errorf("%w: %s and %s would write the same report %q", ErrUsage, prev, j.InputPath, key)
		}
		owner[key] = j.InputPath
	}
	return nil
}

// pathSuffix returns the last depth elements of path without the extension,
// joined with "/". more is false once the whole path is used.
func pathSuffix(path string, depth int) (name string, more bool) {
	clean := filepath.ToSlash(filepath.Clean(path))
	clean = strings.TrimSuffix(clean, filepath.Ext(clean))
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '/' })
	if depth >= len(parts) {
		return strings.Join(parts, "/"), false
	}
	return strings.Join(parts[len(parts)-depth:], "/"), true
}

// subjectFor returns subject, or the file name without extension.
func subjectFor(path, subject string) string {
	if subject = strings.TrimSpace(subject); subject != "" {
		return subject
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// looksLikeMarkdown reports whether path has a markdown extension.
func looksLikeMarkdown(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !looksLikeMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > co2report.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, co2report.MaxPoolSize)
	}
	return nil
}
