package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-co2report/internal/assets"
	"github.com/alnah/go-co2report/internal/config"
	"github.com/alnah/go-co2report/internal/fileutil"
	"github.com/alnah/go-co2report/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string     `json:"status"` // "ready", "warnings", "errors"
	Chrome    chromeInfo `json:"chrome"`
	Model     modelInfo  `json:"model"`
	Knowledge []fileInfo `json:"knowledge,omitempty"`
	Env       envInfo    `json:"environment"`
	System    systemInfo `json:"system"`
	Warnings  []string   `json:"warnings,omitempty"`
	Errors    []string   `json:"errors,omitempty"`

	lookup func(string) string
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// modelInfo describes the completion endpoint settings. The key is never shown.
type modelInfo struct {
	BaseURL   string `json:"base_url"`
	Model     string `json:"model"`
	APIKeySet bool   `json:"api_key_set"`
}

// fileInfo reports one configured knowledge file.
type fileInfo struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir"`
	OutputWritable bool   `json:"output_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags or config.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, env.getenv)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
		lookup: getenv,
	}

	checkChrome(result)
	checkModel(result, cfg)
	checkKnowledge(result, cfg)
	checkStylesheet(result, cfg.Report.Stylesheet)
	checkEnvironment(result)
	checkSystem(result, cfg.Output.Dir)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from launcher or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = !noSandboxValue(result.Env.NoSandbox)
}

// checkModel verifies the completion endpoint is configured. It does not
// call the endpoint.
func checkModel(result *doctorResult, cfg *config.Config) {
	result.Model = modelInfo{
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		APIKeySet: cfg.LLM.APIKey != "",
	}
	if !result.Model.APIKeySet {
		result.Errors = append(result.Errors,
			"No API key. Set "+config.EnvAPIKey+" or llm.apiKey in the config")
	}
}

// checkKnowledge verifies every configured well document exists.
func checkKnowledge(result *doctorResult, cfg *config.Config) {
	if len(cfg.Knowledge.Files) == 0 {
		result.Warnings = append(result.Warnings,
			"No well documents configured. Use --knowledge or knowledge.files")
		return
	}
	for _, path := range cfg.Knowledge.Files {
		info := fileInfo{Path: path, Exists: fileutil.FileExists(path)}
		result.Knowledge = append(result.Knowledge, info)
		if !info.Exists {
			result.Errors = append(result.Errors, fmt.Sprintf("Knowledge file not found: %s", path))
		}
	}
}

// checkStylesheet verifies the configured stylesheet loads.
func checkStylesheet(result *doctorResult, path string) {
	if path == "" {
		return
	}
	if _, err := assets.LoadStylesheet(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Stylesheet unusable: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(result.lookup, hints.IsInContainer)
	result.Env.CI = hints.InCI()

	if (result.Env.Container || result.Env.CI) && !noSandboxValue(result.Env.NoSandbox) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
// dockerenv reports whether /.dockerenv exists.
func isContainer(getenv func(string) string, dockerenv func() bool) (bool, string) {
	if getenv("CO2REPORT_CONTAINER") == "1" {
		return true, "CO2REPORT_CONTAINER=1"
	}
	if dockerenv() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and report directories are writable.
func checkSystem(result *doctorResult, outputDir string) {
	if probeWritable(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	result.System.OutputDir = outputDir
	if probeWritable(outputDir) {
		result.System.OutputWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Report directory not writable: %s", outputDir))
	}
}

// probeWritable creates and removes a temp file in dir. A missing dir is
// judged by its nearest existing parent, since the report writer creates it.
func probeWritable(dir string) bool {
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	f, err := os.CreateTemp(dir, ".co2report-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

func noSandboxValue(v string) bool {
	return v == "1" || v == "true"
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "co2report doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Model")
	fmt.Fprintf(w, "  [OK] Endpoint: %s\n", r.Model.BaseURL)
	fmt.Fprintf(w, "  [OK] Model: %s\n", r.Model.Model)
	if r.Model.APIKeySet {
		fmt.Fprintln(w, "  [OK] API key: set")
	} else {
		fmt.Fprintln(w, "  [ERROR] API key: missing")
	}
	fmt.Fprintln(w)

	if len(r.Knowledge) > 0 {
		fmt.Fprintln(w, "Knowledge")
		for _, k := range r.Knowledge {
			if k.Exists {
				fmt.Fprintf(w, "  [OK] %s\n", k.Path)
			} else {
				fmt.Fprintf(w, "  [ERROR] %s: not found\n", k.Path)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputWritable {
		fmt.Fprintf(w, "  [OK] Report directory: %s\n", r.System.OutputDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Report directory: %s not writable\n", r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to assess")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
