package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS for containers. Error ignored: maxprocs.Set only
	// fails if the GOMAXPROCS env is invalid, in which case Go runtime
	// defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(run(os.Args[1:]))
}

// run dispatches subcommands and returns the process exit code.
func run(args []string) int {
	cmd := "render"
	rest := args
	if len(args) > 0 {
		switch args[0] {
		case "render", "list", "info", "delete":
			cmd = args[0]
			rest = args[1:]
		case "version", "--version":
			fmt.Println("reportgen " + Version)
			return ExitSuccess
		case "help", "--help", "-h":
			printUsage(os.Stdout)
			return ExitSuccess
		}
	}

	var err error
	switch cmd {
	case "render":
		err = runRender(rest)
	case "list":
		err = runList(rest)
	case "info":
		err = runInfo(rest)
	case "delete":
		err = runDelete(rest)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "reportgen: "+err.Error())
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printUsage writes command help.
func printUsage(w *os.File) {
	fmt.Fprint(w, `reportgen renders research analysis reports into multiple formats.

Usage:
  reportgen [render] [flags] <report.md> [more.md ...]
  reportgen list [flags]
  reportgen info [flags] <filename>
  reportgen delete [flags] <filename>
  reportgen version

Render flags:
  -q, --query string      research query the report answers
  -p, --papers string     papers file (.json, .yaml)
  -m, --metadata string   metadata file (.json, .yaml)
  -f, --format strings    output formats: markdown, pdf, latex, json, txt, all
  -o, --output string     output directory (default outputs/reports)
  -w, --workers int       parallel workers for batch mode (0 = auto)
  -t, --timeout string    PDF generation timeout (e.g., 30s, 2m)
      --env string        .env file to load
      --no-catalog        skip recording artifacts in the catalog
  -c, --config string     config file name or path
  -v, --verbose           show detailed progress
      --quiet             only show errors

Use "-" as the input file to read markdown from stdin.
`)
}
