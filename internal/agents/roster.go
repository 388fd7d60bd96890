// Package agents runs the fixed sequence of specialist tasks that turns a
// well's documents and external research into an assessment report.
//
// Agents and tasks are data: a Roster enumerates them, and the Pipeline
// executes its tasks strictly in order.
package agents

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-co2report/internal/yamlutil"
)

// Capability is a tool an agent may use.
type Capability string

// Known capabilities.
const (
	CapAcademicSearch Capability = "academic_search"
	CapWebSearch      Capability = "web_search"
	CapSaveReport     Capability = "save_report"
)

var knownCapabilities = map[Capability]bool{
	CapAcademicSearch: true,
	CapWebSearch:      true,
	CapSaveReport:     true,
}

// SubjectPlaceholder is replaced by the subject name in search queries.
const SubjectPlaceholder = "{subject}"

var (
	ErrEmptyRoster       = errors.New("roster has no tasks")
	ErrUnknownAgent      = errors.New("unknown agent")
	ErrUnknownCapability = errors.New("unknown capability")
	ErrInvalidRoster     = errors.New("invalid roster")
)

//go:embed roster.yaml
var defaultRosterYAML []byte

// AgentSpec configures one specialist.
type AgentSpec struct {
	Name         string       `yaml:"name"`
	Role         string       `yaml:"role"`
	Goal         string       `yaml:"goal"`
	Backstory    string       `yaml:"backstory"`
	Instructions string       `yaml:"instructions"`
	Tools        []Capability `yaml:"tools"`
	Knowledge    bool         `yaml:"knowledge"` // receives the well documents
}

// Can reports whether the agent has capability c.
func (a AgentSpec) Can(c Capability) bool {
	for _, t := range a.Tools {
		if t == c {
			return true
		}
	}
	return false
}

// TaskSpec is one step of the pipeline, bound to one agent.
type TaskSpec struct {
	Name           string   `yaml:"name"`
	Title          string   `yaml:"title"` // appendix heading
	Agent          string   `yaml:"agent"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expectedOutput"`
	SearchQueries  []string `yaml:"searchQueries"`
}

// Queries returns the task's search queries for subject.
func (t TaskSpec) Queries(subject string) []string {
	out := make([]string, 0, len(t.SearchQueries))
	for _, q := range t.SearchQueries {
		q = strings.TrimSpace(strings.ReplaceAll(q, SubjectPlaceholder, subject))
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

// Roster is the agent and task table.
type Roster struct {
	Agents []AgentSpec `yaml:"agents"`
	Tasks  []TaskSpec  `yaml:"tasks"`
}

// DefaultRoster returns the built-in roster: petrophysicist, core analyst,
// structural geologist and technical report writer.
func DefaultRoster() (*Roster, error) {
	return ParseRoster(defaultRosterYAML)
}

// ParseRoster decodes and validates a roster payload.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yamlutil.Decode(data, &r, yamlutil.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	r = r.Normalized()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRosterFile reads a roster from path.
func LoadRosterFile(path string) (*Roster, error) {
	var r Roster
	if err := yamlutil.DecodeFile(path, &r, yamlutil.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	r = r.Normalized()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &r, nil
}

// Normalized returns a trimmed copy of the roster.
func (r Roster) Normalized() Roster {
	out := Roster{
		Agents: make([]AgentSpec, len(r.Agents)),
		Tasks:  make([]TaskSpec, len(r.Tasks)),
	}
	for i, a := range r.Agents {
		tools := make([]Capability, 0, len(a.Tools))
		for _, c := range a.Tools {
			if c = Capability(strings.TrimSpace(string(c))); c != "" {
				tools = append(tools, c)
			}
		}
		out.Agents[i] = AgentSpec{
			Name:         strings.TrimSpace(a.Name),
			Role:         strings.TrimSpace(a.Role),
			Goal:         strings.TrimSpace(a.Goal),
			Backstory:    strings.TrimSpace(a.Backstory),
			Instructions: strings.TrimSpace(a.Instructions),
			Tools:        tools,
			Knowledge:    a.Knowledge,
		}
	}
	for i, t := range r.Tasks {
		out.Tasks[i] = TaskSpec{
			Name:           strings.TrimSpace(t.Name),
			Title:          strings.TrimSpace(t.Title),
			Agent:          strings.TrimSpace(t.Agent),
			Description:    strings.TrimSpace(t.Description),
			ExpectedOutput: strings.TrimSpace(t.ExpectedOutput),
			SearchQueries:  append([]string(nil), t.SearchQueries...),
		}
	}
	return out
}

// Validate checks that agent and task names are unique and present, every
// task references a known agent and every capability is known.
func (r Roster) Validate() error {
	if len(r.Tasks) == 0 {
		return ErrEmptyRoster
	}

	agents := make(map[string]bool, len(r.Agents))
	for i, a := range r.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agents[%d]: name is required", ErrInvalidRoster, i)
		}
		if a.Role == "" {
			return fmt.Errorf("%w: agent %s: role is required", ErrInvalidRoster, a.Name)
		}
		if agents[a.Name] {
			return fmt.Errorf("%w: agent %s: duplicate name", ErrInvalidRoster, a.Name)
		}
		agents[a.Name] = true
		for _, c := range a.Tools {
			if !knownCapabilities[c] {
				return fmt.Errorf("%w: agent %s: %q", ErrUnknownCapability, a.Name, c)
			}
		}
	}

	tasks := make(map[string]bool, len(r.Tasks))
	for i, t := range r.Tasks {
		if t.Name == "" {
			return fmt.Errorf("%w: tasks[%d]: name is required", ErrInvalidRoster, i)
		}
		if tasks[t.Name] {
			return fmt.Errorf("%w: task %s: duplicate name", ErrInvalidRoster, t.Name)
		}
		tasks[t.Name] = true
		if t.Description == "" {
			return fmt.Errorf("%w: task %s: description is required", ErrInvalidRoster, t.Name)
		}
		if !agents[t.Agent] {
			return fmt.Errorf("%w: task %s references %q", ErrUnknownAgent, t.Name, t.Agent)
		}
	}
	return nil
}

// Agent returns the agent named name.
func (r Roster) Agent(name string) (AgentSpec, bool) {
	for _, a := range r.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentSpec{}, false
}
