package main

import (
	"fmt"
	"io"
	"strings"

	md2thesis "github.com/alnah/go-md2thesis"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thesis <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert      Convert Markdown to a formatted .docx through pandoc")
	fmt.Fprintln(w, "  format       Apply formatting passes to an existing .docx")
	fmt.Fprintln(w, "  prepare-ref  Add marker styles to a pandoc reference document")
	fmt.Fprintln(w, "  doctor       Check pandoc, filters and configured files")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2thesis help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintf(w, "  -p, --profile <name>      Profile: %s\n", strings.Join(md2thesis.ProfileNames(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show pass details and timing")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thesis convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown files to Word with pandoc, then format the result.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (searched recursively)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .docx (single input) or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = front matter, then H1)")
	fmt.Fprintln(w, "      --keep-pandoc-output  Keep pandoc's unformatted .docx")
	fmt.Fprintln(w, "      --no-verify           Skip re-reading the output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pandoc:")
	fmt.Fprintln(w, "      --bibliography <path> Bibliography file (repeatable)")
	fmt.Fprintln(w, "      --csl <path>          Citation style file")
	fmt.Fprintln(w, "      --reference-doc <p>   Word reference document")
	fmt.Fprintln(w, "  -t, --timeout <d>         Pandoc timeout (e.g., 90s, 5m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printFormatUsage prints usage for the format command.
func printFormatUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thesis format <in.docx> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Apply the profile's formatting passes to a .docx pandoc produced earlier.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: <in>-formatted.docx)")
	fmt.Fprintln(w, "      --title <s>           Title used in headers")
	fmt.Fprintln(w, "      --no-verify           Skip re-reading the output")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPrepareRefUsage prints usage for the prepare-ref command.
func printPrepareRefUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thesis prepare-ref [reference.docx] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add the marker styles the profile relies on to a reference document.")
	fmt.Fprintln(w, "Without an argument, starts from pandoc's built-in reference.docx.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: rewrite input)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2thesis doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check pandoc, the configured filters and files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printEnvUsage lists the environment variables.
func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2THESIS_CONFIG          Config file name or path")
	fmt.Fprintln(w, "  MD2THESIS_PROFILE         Formatting profile")
	fmt.Fprintln(w, "  MD2THESIS_TIMEOUT         Pandoc timeout")
	fmt.Fprintln(w, "  MD2THESIS_PANDOC          Pandoc binary")
	fmt.Fprintln(w, "  MD2THESIS_WORKERS         Parallel workers")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		fmt.Fprintln(env.Stdout)
		printEnvUsage(env.Stdout)
		return ExitSuccess
	}

	if !isCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "format":
		printFormatUsage(env.Stdout)
	case "prepare-ref":
		printPrepareRefUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2thesis version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2thesis help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	}
	return ExitSuccess
}
