package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/agents"
	"github.com/alnah/go-co2report/internal/config"
	"github.com/alnah/go-co2report/internal/knowledge"
	"github.com/alnah/go-co2report/internal/llm"
	"github.com/alnah/go-co2report/internal/search"
)

// runAssess runs the agent pipeline for one subject and saves the report.
func runAssess(ctx context.Context, args []string, env *Environment) error {
	flags, pos, err := parseAssessFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(pos) != 1 || strings.TrimSpace(pos[0]) == "" {
		return fmt.Errorf("%w: assess takes exactly one subject", ErrUsage)
	}
	subject := strings.TrimSpace(pos[0])

	s, err := newSession(&flags.common, env)
	if err != nil {
		return err
	}
	cfg := s.cfg
	if err := mergeAssessFlags(flags, cfg); err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		return llm.ErrMissingAPIKey
	}

	log := s.log.With().Str("command", "assess").Logger()

	roster, err := loadRoster(cfg.Agents.Roster)
	if err != nil {
		return err
	}

	var knowledgeText string
	if len(cfg.Knowledge.Files) > 0 {
		text, docs, err := knowledge.NewLoader(log, cfg.Knowledge.MaxChars).Load(ctx, cfg.Knowledge.Files)
		if err != nil {
			return err
		}
		knowledgeText = text
		log.Info().Int("documents", len(docs)).Msg("loaded well documents")
	} else {
		log.Warn().Msg("no well documents configured, specialists rely on research only")
	}

	completer, err := env.NewCompleter(log, llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return err
	}

	convOpts, err := converterOptions(cfg, log, env)
	if err != nil {
		return err
	}
	conv, err := co2report.NewConverter(convOpts...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	opts := []agents.Option{
		agents.WithLogger(log),
		agents.WithKnowledge(knowledgeText),
		agents.WithMaxResults(cfg.Search.MaxResults),
		agents.WithPublisher(&reportPublisher{
			gen:      conv,
			settings: publishSettingsFor(cfg, flags.output.htmlOnly, flags.markdown, env),
			appendix: cfg.Report.Appendix,
		}),
	}
	if !flags.noSearch {
		opts = append(opts,
			agents.WithAcademicSearch(search.NewArxivClient(searchOptions(cfg, log, cfg.Search.ArxivURL)...)),
			agents.WithWebSearch(search.NewDuckDuckGoClient(searchOptions(cfg, log, cfg.Search.WebURL)...)),
		)
	}

	pipeline, err := agents.NewPipeline(roster, completer, opts...)
	if err != nil {
		return err
	}

	out, err := pipeline.Run(ctx, subject)
	if err != nil {
		return err
	}

	if out.Path == "" {
		log.Warn().Msg("last agent cannot save reports, nothing written")
		return nil
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", out.Path)
	}
	return nil
}

// mergeAssessFlags merges CLI flags into config (CLI wins) and validates.
func mergeAssessFlags(f *assessFlags, cfg *config.Config) error {
	if err := applyOutputFlags(&f.output, cfg); err != nil {
		return err
	}
	if len(f.knowledge) > 0 {
		cfg.Knowledge.Files = f.knowledge
	}
	if f.roster != "" {
		cfg.Agents.Roster = f.roster
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if f.maxResults != 0 {
		cfg.Search.MaxResults = f.maxResults
	}
	if f.appendix {
		cfg.Report.Appendix = true
	}
	return cfg.Validate()
}

// loadRoster returns the roster at path, or the built-in one.
func loadRoster(path string) (*agents.Roster, error) {
	if path == "" {
		return agents.DefaultRoster()
	}
	return agents.LoadRosterFile(path)
}

func searchOptions(cfg *config.Config, log zerolog.Logger, baseURL string) []search.Option {
	opts := []search.Option{
		search.WithLogger(log),
		search.WithTimeout(cfg.Search.Timeout),
		search.WithUserAgent(cfg.Search.UserAgent),
		search.WithCacheTTL(cfg.Search.CacheTTL),
	}
	if baseURL != "" {
		opts = append(opts, search.WithBaseURL(baseURL))
	}
	return opts
}

func publishSettingsFor(cfg *config.Config, htmlOnly, markdown bool, env *Environment) publishSettings {
	return publishSettings{
		dir:      cfg.Output.Dir,
		prefix:   cfg.Report.ArtifactPrefix,
		htmlOnly: htmlOnly,
		markdown: markdown,
		now:      env.Now,
	}
}
