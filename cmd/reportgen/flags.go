package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	query     string
	papers    string
	metadata  string
	formats   []string
	output    string
	workers   int
	timeout   string
	envFile   string
	noCatalog bool
	version   bool
}

// catalogFlags holds all flags for the list/info/delete commands.
type catalogFlags struct {
	common commonFlags
	output string
	limit  int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.quiet, "quiet", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// parseRenderFlags parses render command flags and returns positional args
// (input markdown files).
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.query, "query", "q", "", "research query the report answers")
	fs.StringVarP(&f.papers, "papers", "p", "", "papers file (.json, .yaml)")
	fs.StringVarP(&f.metadata, "metadata", "m", "", "metadata file (.json, .yaml)")
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "output formats: markdown, pdf, latex, json, txt, all")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch mode (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.envFile, "env", "", ".env file to load")
	fs.BoolVar(&f.noCatalog, "no-catalog", false, "skip recording artifacts in the catalog")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseCatalogFlags parses flags for the catalog subcommands.
func parseCatalogFlags(name string, args []string) (*catalogFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &catalogFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory holding the catalog")
	fs.IntVarP(&f.limit, "limit", "n", 20, "max entries to list")

	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
