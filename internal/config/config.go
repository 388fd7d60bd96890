package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-co2report/internal/dateutil"
	"github.com/alnah/go-co2report/internal/fileutil"
	"github.com/alnah/go-co2report/internal/pipeline"
	"github.com/alnah/go-co2report/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPrefixLength = 100  // Title and artifact prefixes
	MaxPathLength   = 4096 // Directories and files
	MaxURLLength    = 2048 // Browser limit
	MaxModelLength  = 200  // Fine-tuned model ids are long
	MaxKnowledge    = 20   // Knowledge files per run
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "CO2REPORT_LLM_BASE_URL"
	EnvModel   = "CO2REPORT_LLM_MODEL"
)

// Config holds all configuration for an assessment run.
type Config struct {
	Report    ReportConfig    `yaml:"report"`
	Output    OutputConfig    `yaml:"output"`
	Page      PageConfig      `yaml:"page"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Agents    AgentsConfig    `yaml:"agents"`
	Log       LogConfig       `yaml:"log"`
}

// ReportConfig defines report naming and content options.
type ReportConfig struct {
	TitlePrefix    string `yaml:"titlePrefix"`
	ArtifactPrefix string `yaml:"artifactPrefix"`
	Appendix       bool   `yaml:"appendix"`   // append specialist analyses after the report body
	DateFormat     string `yaml:"dateFormat"` // title timestamp; preset or tokens, empty = iso
	Stylesheet     string `yaml:"stylesheet"` // extra CSS file applied after the layout styles
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// PageConfig defines the PDF page in centimetres.
type PageConfig struct {
	Width   float64       `yaml:"width"`
	Height  float64       `yaml:"height"`
	Margin  float64       `yaml:"margin"`
	Gutter  float64       `yaml:"gutter"`
	Timeout time.Duration `yaml:"timeout"` // PDF rendering timeout
}

// Geometry converts the page settings for the renderer.
func (p PageConfig) Geometry() pipeline.PageGeometry {
	return pipeline.PageGeometry{Width: p.Width, Height: p.Height, Margin: p.Margin, Gutter: p.Gutter}
}

// LLMConfig defines the OpenAI-compatible completion endpoint.
type LLMConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	APIKey      string        `yaml:"apiKey"` // prefer OPENAI_API_KEY
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SearchConfig defines academic and web search options.
type SearchConfig struct {
	MaxResults int           `yaml:"maxResults"`
	Timeout    time.Duration `yaml:"timeout"`
	CacheTTL   time.Duration `yaml:"cacheTTL"` // 0 disables caching
	ArxivURL   string        `yaml:"arxivURL"`
	WebURL     string        `yaml:"webURL"`
	UserAgent  string        `yaml:"userAgent"`
}

// KnowledgeConfig lists the well documents given to every specialist.
type KnowledgeConfig struct {
	Files    []string `yaml:"files"`
	MaxChars int      `yaml:"maxChars"`
}

// AgentsConfig points at a roster that replaces the built-in one.
type AgentsConfig struct {
	Roster string `yaml:"roster"` // empty = embedded roster
}

// LogConfig defines CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	g := pipeline.LandscapeA4()
	return &Config{
		Report: ReportConfig{
			TitlePrefix:    "CO₂ Storage Assessment Report",
			ArtifactPrefix: "CO2_Storage_Assessment",
		},
		Output: OutputConfig{Dir: "co2_assessment_reports"},
		Page: PageConfig{
			Width:   g.Width,
			Height:  g.Height,
			Margin:  g.Margin,
			Gutter:  g.Gutter,
			Timeout: 60 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			Timeout:     120 * time.Second,
		},
		Search: SearchConfig{
			MaxResults: 5,
			Timeout:    30 * time.Second,
			CacheTTL:   time.Hour,
			ArxivURL:   "https://export.arxiv.org/api/query",
			WebURL:     "https://html.duckduckgo.com/html/",
			UserAgent:  "co2report/1.0",
		},
		Knowledge: KnowledgeConfig{MaxChars: 60000},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

// ApplyEnv overrides secrets and endpoints from the environment.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.LLM.APIKey = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.LLM.BaseURL = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.LLM.Model = v
	}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("report.titlePrefix", c.Report.TitlePrefix, MaxPrefixLength); err != nil {
		return err
	}
	if err := validateFieldLength("report.artifactPrefix", c.Report.ArtifactPrefix, MaxPrefixLength); err != nil {
		return err
	}
	if strings.TrimSpace(c.Report.ArtifactPrefix) == "" {
		return fmt.Errorf("%w: report.artifactPrefix: required", ErrInvalidValue)
	}
	if _, err := dateutil.Layout(c.Report.DateFormat); err != nil {
		return fmt.Errorf("%w: report.dateFormat: %v", ErrInvalidValue, err)
	}
	if err := validateFieldLength("report.stylesheet", c.Report.Stylesheet, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("%w: output.dir: required", ErrInvalidValue)
	}

	// Page
	if err := c.Page.Geometry().Validate(); err != nil {
		return fmt.Errorf("%w: page: %v", ErrInvalidValue, err)
	}
	if c.Page.Timeout <= 0 {
		return fmt.Errorf("%w: page.timeout: must be positive, got %s", ErrInvalidValue, c.Page.Timeout)
	}

	// LLM
	if err := validateFieldLength("llm.baseURL", c.LLM.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("llm.model", c.LLM.Model, MaxModelLength); err != nil {
		return err
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature: must be between 0 and 2, got %.2f", ErrInvalidValue, c.LLM.Temperature)
	}

	// Search
	if c.Search.MaxResults < 1 || c.Search.MaxResults > 50 {
		return fmt.Errorf("%w: search.maxResults: must be between 1 and 50, got %d", ErrInvalidValue, c.Search.MaxResults)
	}
	if c.Search.CacheTTL < 0 {
		return fmt.Errorf("%w: search.cacheTTL: must not be negative", ErrInvalidValue)
	}
	if err := validateFieldLength("search.arxivURL", c.Search.ArxivURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("search.webURL", c.Search.WebURL, MaxURLLength); err != nil {
		return err
	}

	// Knowledge
	if len(c.Knowledge.Files) > MaxKnowledge {
		return fmt.Errorf("%w: knowledge.files: at most %d files, got %d", ErrInvalidValue, MaxKnowledge, len(c.Knowledge.Files))
	}
	for i, f := range c.Knowledge.Files {
		if err := validateFieldLength(fmt.Sprintf("knowledge.files[%d]", i), f, MaxPathLength); err != nil {
			return err
		}
	}
	if c.Knowledge.MaxChars < 0 {
		return fmt.Errorf("%w: knowledge.maxChars: must not be negative", ErrInvalidValue)
	}

	if err := validateFieldLength("agents.roster", c.Agents.Roster, MaxPathLength); err != nil {
		return err
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level: invalid value %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format: invalid value %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, layered
// over DefaultConfig.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	if !fileutil.FileExists(configPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg, yamlutil.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/co2report/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "co2report", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
