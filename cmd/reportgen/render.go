package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	reportgen "github.com/arxival/reportgen"
	"github.com/arxival/reportgen/internal/catalog"
	"github.com/arxival/reportgen/internal/config"
	"github.com/arxival/reportgen/internal/yamlutil"
)

// reportJob is one input file queued for rendering.
type reportJob struct {
	path  string
	query string
}

// runRender renders one or more report files.
func runRender(args []string) error {
	flags, inputs, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	if flags.version {
		fmt.Println("reportgen " + Version)
		return nil
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	loadEnvFile(flags.envFile)

	cfg, err := loadConfigOrDefault(flags.common.config)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	formats, err := resolveFormats(flags.formats, cfg)
	if err != nil {
		return err
	}

	papers, err := loadPapers(flags.papers)
	if err != nil {
		return err
	}
	meta, err := loadMetadata(flags.metadata)
	if err != nil {
		return err
	}

	opts := []reportgen.Option{reportgen.WithOutputDir(outputDir)}
	if timeout, err := resolveTimeout(flags.timeout, cfg); err != nil {
		return err
	} else if timeout > 0 {
		opts = append(opts, reportgen.WithTimeout(timeout))
	}

	if !flags.noCatalog && cfg.Catalog.Enabled {
		cat, err := openCatalog(cfg, outputDir)
		if err != nil {
			return err
		}
		defer cat.Close()
		opts = append(opts, reportgen.WithCatalog(cat))
	}

	jobs, err := buildJobs(inputs, flags.query)
	if err != nil {
		return err
	}

	if len(jobs) == 1 {
		return renderSingle(jobs[0], papers, meta, formats, flags, opts)
	}
	return renderBatch(jobs, papers, meta, formats, resolveWorkers(flags.workers, cfg), flags, opts)
}

// renderSingle renders one report with a single renderer.
func renderSingle(job reportJob, papers []reportgen.Paper, meta reportgen.Metadata, formats []reportgen.Format, flags *renderFlags, opts []reportgen.Option) error {
	content, err := readInput(job.path)
	if err != nil {
		return err
	}

	r := reportgen.NewRenderer(opts...)
	defer r.Close()

	results, err := r.Render(context.Background(), reportgen.RenderRequest{
		Content:  content,
		Query:    job.query,
		Papers:   papers,
		Metadata: meta,
		Formats:  formats,
	})
	if err != nil {
		return err
	}

	return reportResults(job.path, results, flags)
}

// renderBatch renders multiple reports in parallel using a renderer pool.
func renderBatch(jobs []reportJob, papers []reportgen.Paper, meta reportgen.Metadata, formats []reportgen.Format, workers int, flags *renderFlags, opts []reportgen.Option) error {
	poolSize := reportgen.ResolvePoolSize(workers)
	if poolSize > len(jobs) {
		poolSize = len(jobs)
	}
	if flags.common.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := reportgen.NewRendererPool(poolSize, opts...)
	defer pool.Close()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, job := range jobs {
		wg.Add(1)
		go func(job reportJob) {
			defer wg.Done()

			content, err := readInput(job.path)
			if err == nil {
				r := pool.Acquire()
				var results []reportgen.RenderResult
				results, err = r.Render(context.Background(), reportgen.RenderRequest{
					Content:  content,
					Query:    job.query,
					Papers:   papers,
					Metadata: meta,
					Formats:  formats,
				})
				pool.Release(r)
				if err == nil {
					err = reportResults(job.path, results, flags)
				}
			}

			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", job.path, err))
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == len(jobs) {
		return errs[0]
	}
	return fmt.Errorf("%w: %d of %d reports", ErrPartialFailure, len(errs), len(jobs))
}

// reportResults prints per-format outcomes and aggregates failures.
func reportResults(input string, results []reportgen.RenderResult, flags *renderFlags) error {
	failed := 0
	for _, res := range results {
		switch res.Status {
		case reportgen.StatusSuccess:
			if !flags.common.quiet {
				fmt.Printf("%s: wrote %s (%d bytes)\n", res.Format, res.Filepath, res.SizeBytes)
				if res.BibFilepath != "" {
					fmt.Printf("%s: wrote %s\n", res.Format, res.BibFilepath)
				}
				if flags.common.verbose && res.Message != "" {
					fmt.Fprintln(os.Stderr, res.Message)
				}
			}
		case reportgen.StatusSubstituted:
			if !flags.common.quiet {
				fmt.Printf("%s: wrote %s (%s)\n", res.Format, res.Filepath, res.Message)
			}
		case reportgen.StatusError:
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", input, res.Format, res.Message)
		}
	}

	if failed == 0 {
		return nil
	}
	if failed == len(results) {
		return fmt.Errorf("all %d formats failed", failed)
	}
	return fmt.Errorf("%w: %d of %d formats", ErrPartialFailure, failed, len(results))
}

// buildJobs pairs each input path with its query. An explicit query applies
// to every input; otherwise the filename stem is used.
func buildJobs(inputs []string, query string) ([]reportJob, error) {
	jobs := make([]reportJob, 0, len(inputs))
	for _, path := range inputs {
		q := query
		if q == "" {
			if path == "-" {
				return nil, fmt.Errorf("%w: --query is required when reading from stdin", reportgen.ErrEmptyQuery)
			}
			base := filepath.Base(path)
			q = strings.TrimSuffix(base, filepath.Ext(base))
		}
		jobs = append(jobs, reportJob{path: path, query: q})
	}
	return jobs, nil
}

// readInput reads a report file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}

// loadEnvFile loads environment variables from a .env file. A missing
// default .env is not an error.
func loadEnvFile(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "reportgen: %v\n", err)
		}
		return
	}
	_ = godotenv.Load()
}

// loadConfigOrDefault loads the named config, or defaults when none given.
func loadConfigOrDefault(nameOrPath string) (*config.Config, error) {
	if nameOrPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(nameOrPath)
}

// resolveOutputDir applies precedence: flag > OUTPUT_DIR env > config.
func resolveOutputDir(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		return dir
	}
	return cfg.Output.Dir
}

// resolveFormats applies precedence: flags > config > all.
func resolveFormats(flagValues []string, cfg *config.Config) ([]reportgen.Format, error) {
	names := flagValues
	if len(names) == 0 {
		names = cfg.Render.Formats
	}
	if len(names) == 0 {
		return []reportgen.Format{reportgen.FormatAll}, nil
	}

	formats := make([]reportgen.Format, 0, len(names))
	for _, name := range names {
		f, err := reportgen.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// resolveWorkers applies precedence: flag > config. Zero means auto-sizing
// by ResolvePoolSize.
func resolveWorkers(flagValue int, cfg *config.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfg.Render.Workers
}

// resolveTimeout applies precedence: flag > config. Zero means library default.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout: %v", err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("invalid timeout: must be positive, got %s", flagValue)
		}
		return d, nil
	}
	return cfg.Timeout(), nil
}

// openCatalog opens the artifact catalog next to the output directory.
func openCatalog(cfg *config.Config, outputDir string) (*catalog.Catalog, error) {
	path := cfg.Catalog.Path
	if path == "" {
		dir := outputDir
		if dir == "" {
			dir = "outputs/reports"
		}
		path = catalog.DefaultPath(dir)
	}
	return catalog.Open(path)
}

// loadPapers reads cited-source records from a JSON or YAML file.
func loadPapers(path string) ([]reportgen.Paper, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- papers path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPapers, err)
	}

	var papers []reportgen.Paper
	if err := decodeByExtension(path, data, &papers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPapers, err)
	}
	return papers, nil
}

// loadMetadata reads report metadata from a JSON or YAML file.
func loadMetadata(path string) (reportgen.Metadata, error) {
	var meta reportgen.Metadata
	if path == "" {
		return meta, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- metadata path is user-provided
	if err != nil {
		return meta, fmt.Errorf("%w: %v", ErrReadMetadata, err)
	}
	if err := decodeByExtension(path, data, &meta); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrReadMetadata, err)
	}
	return meta, nil
}

// decodeByExtension decodes JSON or YAML based on the file extension.
func decodeByExtension(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yamlutil.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported file extension %q (want .json, .yaml, .yml)", filepath.Ext(path))
}
