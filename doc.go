// Package reportgen renders research analysis reports into multiple
// publication formats: styled PDF, markdown, LaTeX with BibTeX, JSON, and
// plain text.
//
// # Quick Start
//
// Create a renderer, render a report, and close when done:
//
//	r := reportgen.NewRenderer(reportgen.WithOutputDir("out"))
//	defer r.Close()
//
//	results, err := r.Render(ctx, reportgen.RenderRequest{
//	    Content: "# Executive Summary\n\nFindings [Paper 1].",
//	    Query:   "transformer attention mechanisms",
//	    Papers:  papers,
//	    Formats: []reportgen.Format{reportgen.FormatAll},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Each requested format produces one RenderResult. Formats fail
// independently: a broken format reports StatusError in its result while
// the others still render.
//
// # Rendering Pipeline
//
// Every render follows the same stages:
//
//  1. Request validation and paper tracking (session-wide, deduplicated)
//  2. Markdown parsing into a block/span representation
//  3. Citation resolution ([Paper N] markers against tracked papers)
//  4. Per-format emission and collision-safe file writes
//
// Citation numbering is assigned by first appearance in the report, so the
// same marker maps to the same bibliography entry in every format.
//
// # Formats
//
// FormatAll expands to markdown, pdf, and latex. The LaTeX format writes a
// .tex/.bib pair sharing one filename stem so \bibliography resolves as
// written. When no browser is available the pdf format degrades to a
// markdown artifact and reports StatusSubstituted.
//
// # Parallel Processing
//
// For batch rendering, use RendererPool to manage multiple browser
// instances:
//
//	pool := reportgen.NewRendererPool(4, reportgen.WithOutputDir("out"))
//	defer pool.Close()
//
//	r := pool.Acquire()
//	defer pool.Release(r)
//	results, err := r.Render(ctx, req)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary in containers.
package reportgen
