package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: co2report <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  assess     Run the specialist agents and render a CO₂ storage report")
	fmt.Fprintln(w, "  render     Render existing report markdown to PDF")
	fmt.Fprintln(w, "  preview    Convert markdown to a plain HTML preview")
	fmt.Fprintln(w, "  doctor     Check browser, model endpoint and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'co2report help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
}

// printOutputUsage prints the artifact destination flags.
func printOutputUsage(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Report directory (default: co2_assessment_reports)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF rendering timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet applied after the layout styles")
	fmt.Fprintln(w, "      --html-only           Write the HTML layout only, skip PDF")
}

// printAssessUsage prints usage for the assess command.
func printAssessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: co2report assess <subject> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the petrophysicist, core analyst, structural geologist and report")
	fmt.Fprintln(w, "writer in order, then save the report as a landscape PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  subject   Well or site name, e.g. \"15/9-14\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Agents:")
	fmt.Fprintln(w, "  -k, --knowledge <path>    Well document: PDF, DOCX, ODT, Markdown (repeatable)")
	fmt.Fprintln(w, "      --roster <path>       Agent roster YAML (default: built-in)")
	fmt.Fprintln(w, "      --model <s>           Completion model")
	fmt.Fprintln(w, "      --max-results <n>     Results per search query (1-50)")
	fmt.Fprintln(w, "      --no-search           Skip academic and web search")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "      --appendix            Append specialist analyses after the report")
	fmt.Fprintln(w, "      --markdown            Also save the report markdown")
	fmt.Fprintln(w)
	printOutputUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OPENAI_API_KEY            Completion API key (required)")
	fmt.Fprintln(w, "  CO2REPORT_LLM_BASE_URL    OpenAI-compatible endpoint")
	fmt.Fprintln(w, "  CO2REPORT_LLM_MODEL       Completion model")
	fmt.Fprintln(w, "  CO2REPORT_CONFIG          Config file when --config is not given")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: co2report render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render report markdown files to PDF with the assessment layout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "  -s, --subject <s>         Well or site name (default: file name)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printOutputUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: co2report preview <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown to a plain HTML document, without pagination.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "  -o, --output <path>       HTML file (default: stdout)")
	fmt.Fprintln(w, "      --title <s>           Document title (default: first heading)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: co2report doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the model endpoint settings, knowledge files and the")
	fmt.Fprintln(w, "report directory. Exits 1 when a check fails.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "assess":
		printAssessUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: co2report version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: co2report help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
