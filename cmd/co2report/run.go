package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	co2report "github.com/alnah/go-co2report"
	"github.com/alnah/go-co2report/internal/agents"
	"github.com/alnah/go-co2report/internal/assets"
	"github.com/alnah/go-co2report/internal/config"
	"github.com/alnah/go-co2report/internal/hints"
	"github.com/alnah/go-co2report/internal/knowledge"
	"github.com/alnah/go-co2report/internal/llm"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadReport         = errors.New("failed to read report file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// EnvConfig names the config used when --config is not given.
const EnvConfig = "CO2REPORT_CONFIG"

// File permission constants.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// runMain dispatches the command in args and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "co2report %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "assess":
		err = runAssess(ctx, rest, env)
	case "render":
		err = runRender(ctx, rest, env)
	case "preview":
		err = runPreview(ctx, rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor picks the actionable hint matching err, if any.
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, co2report.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, co2report.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		dir, _ := os.UserConfigDir()
		return hints.ForConfigNotFound(dir)
	case errors.Is(err, co2report.ErrWriteArtifact), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, llm.ErrMissingAPIKey):
		return hints.ForAPIKey()
	case errors.Is(err, llm.ErrUpstream):
		return hints.ForUpstream(env.getenv(config.EnvBaseURL))
	case errors.Is(err, knowledge.ErrUnsupportedFormat):
		return hints.ForKnowledgeFile()
	}
	return ""
}

// session is the per-command state: merged config and the run logger.
type session struct {
	cfg   *config.Config
	log   zerolog.Logger
	runID string
}

// newSession loads the config named by --config or CO2REPORT_CONFIG, applies
// environment overrides and builds the run logger.
func newSession(common *commonFlags, env *Environment) (*session, error) {
	cfg, err := loadConfig(common.config, env)
	if err != nil {
		return nil, err
	}
	if common.logFormat != "" {
		cfg.Log.Format = common.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := env.NewRunID()
	log := newLogger(env.Stderr, cfg.Log, common).With().Str("run_id", runID).Logger()
	return &session{cfg: cfg, log: log, runID: runID}, nil
}

func loadConfig(name string, env *Environment) (*config.Config, error) {
	if name == "" {
		name = env.getenv(EnvConfig)
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	cfg.ApplyEnv(env.LookupEnv)
	return cfg, nil
}

// newLogger builds the CLI logger. --quiet and --verbose win over the config
// level; console output is colored only on a terminal.
func newLogger(w io.Writer, lc config.LogConfig, common *commonFlags) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lc.Level == "" {
		level = zerolog.InfoLevel
	}
	switch {
	case common.quiet:
		level = zerolog.ErrorLevel
	case common.verbose:
		level = zerolog.DebugLevel
	}

	out := w
	if strings.ToLower(lc.Format) != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// resolveTimeout parses the --timeout flag, falling back to the config value.
func resolveTimeout(flagValue string, configValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return configValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// applyOutputFlags merges --output and --timeout into cfg (CLI wins).
func applyOutputFlags(f *outputFlags, cfg *config.Config) error {
	if f.dir != "" {
		cfg.Output.Dir = f.dir
	}
	if f.css != "" {
		cfg.Report.Stylesheet = f.css
	}
	timeout, err := resolveTimeout(f.timeout, cfg.Page.Timeout)
	if err != nil {
		return err
	}
	cfg.Page.Timeout = timeout
	return nil
}

// converterOptions maps the config onto library options and loads the
// user stylesheet, if any.
func converterOptions(cfg *config.Config, log zerolog.Logger, env *Environment) ([]co2report.Option, error) {
	opts := []co2report.Option{
		co2report.WithLogger(log),
		co2report.WithOutputDir(cfg.Output.Dir),
		co2report.WithArtifactPrefix(cfg.Report.ArtifactPrefix),
		co2report.WithTitlePrefix(cfg.Report.TitlePrefix),
		co2report.WithDateFormat(cfg.Report.DateFormat),
		co2report.WithPageGeometry(cfg.Page.Geometry()),
		co2report.WithClock(env.Now),
	}
	if cfg.Page.Timeout > 0 {
		opts = append(opts, co2report.WithTimeout(cfg.Page.Timeout))
	}
	if cfg.Report.Stylesheet != "" {
		css, err := assets.LoadStylesheet(cfg.Report.Stylesheet)
		if err != nil {
			return nil, fmt.Errorf("loading stylesheet: %w", err)
		}
		opts = append(opts, co2report.WithStylesheet(css))
		log.Debug().Str("path", cfg.Report.Stylesheet).Int("bytes", len(css)).Msg("loaded stylesheet")
	}
	return opts, nil
}

// appendixSections converts task outputs into report appendix entries.
func appendixSections(sections []agents.Section) []co2report.Section {
	out := make([]co2report.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, co2report.Section{Title: s.Title, Content: s.Content})
	}
	return out
}
