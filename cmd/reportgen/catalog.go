package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/arxival/reportgen/internal/catalog"
	"github.com/arxival/reportgen/internal/dateutil"
)

// runList prints recent catalog entries, newest first.
func runList(args []string) error {
	flags, _, err := parseCatalogFlags("list", args)
	if err != nil {
		return err
	}

	cat, err := openCatalogFor(flags)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(flags.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no reports recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tFORMAT\tSIZE\tFILENAME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", dateutil.Display(e.CreatedAt), e.Format, e.SizeBytes, e.Filename)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	info, err := cat.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d reports, %d bytes total\n", info.TotalReports, info.TotalBytes)
	return nil
}

// runInfo prints details for one cataloged artifact.
func runInfo(args []string) error {
	flags, rest, err := parseCatalogFlags("info", args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return ErrMissingFilename
	}

	cat, err := openCatalogFor(flags)
	if err != nil {
		return err
	}
	defer cat.Close()

	entry, err := cat.Get(rest[0])
	if err != nil {
		return err
	}

	fmt.Printf("Filename:  %s\n", entry.Filename)
	fmt.Printf("Path:      %s\n", entry.Filepath)
	fmt.Printf("Format:    %s\n", entry.Format)
	fmt.Printf("Query:     %s\n", entry.Query)
	fmt.Printf("Size:      %d bytes\n", entry.SizeBytes)
	fmt.Printf("Created:   %s\n", dateutil.Display(entry.CreatedAt))
	return nil
}

// runDelete removes a cataloged artifact and its file.
func runDelete(args []string) error {
	flags, rest, err := parseCatalogFlags("delete", args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return ErrMissingFilename
	}

	cat, err := openCatalogFor(flags)
	if err != nil {
		return err
	}
	defer cat.Close()

	for _, name := range rest {
		if err := cat.Delete(name); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Printf("deleted %s\n", name)
		}
	}
	return nil
}

// openCatalogFor resolves the catalog path for a catalog subcommand.
func openCatalogFor(flags *catalogFlags) (*catalog.Catalog, error) {
	cfg, err := loadConfigOrDefault(flags.common.config)
	if err != nil {
		return nil, err
	}
	outputDir := resolveOutputDir(flags.output, cfg)
	return openCatalog(cfg, outputDir)
}
