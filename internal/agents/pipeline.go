package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-co2report/internal/llm"
	"github.com/alnah/go-co2report/internal/search"
)

var (
	ErrEmptyOutput = errors.New("task produced no output")
	ErrTaskFailed  = errors.New("task failed")
)

// AcademicSearcher finds papers. Failures come back as the search error
// sentinel, never as a Go error.
type AcademicSearcher interface {
	Search(ctx context.Context, query string, n int) []search.Paper
}

// WebSearcher finds web pages, with the same failure convention.
type WebSearcher interface {
	Search(ctx context.Context, query string, n int) []search.WebResult
}

// Publisher saves the final report. It backs the save_report capability.
type Publisher interface {
	Publish(ctx context.Context, subject, report string, sections []Section) (string, error)
}

// Section is the output of one task.
type Section struct {
	Task    string
	Title   string
	Agent   string
	Role    string
	Content string
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	Report   string    // output of the last task
	Sections []Section // every task output, in order
	Path     string    // set when the last agent saved the report
}

// Pipeline runs a roster's tasks in order.
type Pipeline struct {
	roster     *Roster
	completer  llm.Completer
	academic   AcademicSearcher
	web        WebSearcher
	publisher  Publisher
	knowledge  string
	maxResults int
	log        zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAcademicSearch enables the academic_search capability.
func WithAcademicSearch(s AcademicSearcher) Option {
	return func(p *Pipeline) { p.academic = s }
}

// WithWebSearch enables the web_search capability.
func WithWebSearch(s WebSearcher) Option {
	return func(p *Pipeline) { p.web = s }
}

// WithPublisher enables the save_report capability.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithKnowledge sets the well document text given to agents that read it.
func WithKnowledge(text string) Option {
	return func(p *Pipeline) { p.knowledge = text }
}

// WithMaxResults sets how many results each search asks for.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline creates a pipeline for roster using completer for every task.
func NewPipeline(roster *Roster, completer llm.Completer, opts ...Option) (*Pipeline, error) {
	if roster == nil {
		return nil, ErrEmptyRoster
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	if completer == nil {
		return nil, errors.New("completer is required")
	}

	p := &Pipeline{
		roster:     roster,
		completer:  completer,
		maxResults: search.DefaultMaxResults,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "agents").Logger()
	return p, nil
}

// Run executes every task for subject in roster order. Each task sees the
// outputs of all earlier tasks. The last task's output is the report.
func (p *Pipeline) Run(ctx context.Context, subject string) (*Outcome, error) {
	subject = strings.TrimSpace(subject)
	log := p.log.With().Str("subject", subject).Logger()
	log.Info().Int("tasks", len(p.roster.Tasks)).Msg("starting assessment")

	out := &Outcome{Sections: make([]Section, 0, len(p.roster.Tasks))}
	var last AgentSpec

	for i, task := range p.roster.Tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agent, _ := p.roster.Agent(task.Agent)
		tlog := log.With().Str("task", task.Name).Str("agent", agent.Name).Logger()
		tlog.Info().Int("step", i+1).Msg("running task")
		start := time.Now()

		content, err := p.runTask(ctx, tlog, subject, agent, task, out.Sections)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTaskFailed, task.Name, err)
		}

		out.Sections = append(out.Sections, Section{
			Task:    task.Name,
			Title:   taskTitle(task),
			Agent:   agent.Name,
			Role:    agent.Role,
			Content: content,
		})
		last = agent
		tlog.Info().Dur("elapsed", time.Since(start)).Int("chars", len(content)).Msg("task done")
	}

	out.Report = out.Sections[len(out.Sections)-1].Content

	if last.Can(CapSaveReport) && p.publisher != nil {
		path, err := p.publisher.Publish(ctx, subject, out.Report, out.Sections[:len(out.Sections)-1])
		if err != nil {
			return nil, fmt.Errorf("saving report: %w", err)
		}
		out.Path = path
		log.Info().Str("path", path).Msg("report saved")
	}

	return out, nil
}

func (p *Pipeline) runTask(ctx context.Context, log zerolog.Logger, subject string, agent AgentSpec, task TaskSpec, previous []Section) (string, error) {
	system, err := renderSystem(agent)
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}

	prompt := taskPrompt{
		Subject:  subject,
		Task:     task,
		Research: p.research(ctx, log, agent, task.Queries(subject)),
		Previous: previous,
	}
	if agent.Knowledge {
		prompt.Knowledge = p.knowledge
	}
	text, err := renderTask(prompt)
	if err != nil {
		return "", fmt.Errorf("rendering task prompt: %w", err)
	}

	content, err := p.completer.Complete(ctx, llm.Request{System: system, Prompt: text})
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyOutput
	}
	return content, nil
}

// research runs the agent's search capabilities for every query. Failed
// searches are logged and noted in the prompt, never fatal.
func (p *Pipeline) research(ctx context.Context, log zerolog.Logger, agent AgentSpec, queries []string) string {
	var b strings.Builder
	for _, q := range queries {
		if agent.Can(CapAcademicSearch) && p.academic != nil {
			papers := p.academic.Search(ctx, q, p.maxResults)
			if msg, failed := search.Failed(papers); failed {
				log.Warn().Str("query", q).Str("error", msg).Msg("academic search unavailable")
				fmt.Fprintf(&b, "Academic search for %q unavailable.\n\n", q)
			} else if digest := search.DigestPapers(papers); digest != "" {
				fmt.Fprintf(&b, "### Papers: %s\n%s\n", q, digest)
			}
		}
		if agent.Can(CapWebSearch) && p.web != nil {
			results := p.web.Search(ctx, q, p.maxResults)
			if msg, failed := search.Failed(results); failed {
				log.Warn().Str("query", q).Str("error", msg).Msg("web search unavailable")
				fmt.Fprintf(&b, "Web search for %q unavailable.\n\n", q)
			} else if digest := search.DigestWeb(results); digest != "" {
				fmt.Fprintf(&b, "### Web: %s\n%s\n", q, digest)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func taskTitle(t TaskSpec) string {
	if t.Title != "" {
		return t.Title
	}
	words := strings.Split(t.Name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
