package reportgen_test

import (
	"context"
	"fmt"
	"os"

	reportgen "github.com/arxival/reportgen"
)

// Example demonstrates rendering a report to markdown. PDF output
// additionally requires Chrome; see the package documentation.
func Example() {
	dir, err := os.MkdirTemp("", "reportgen-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	r := reportgen.NewRenderer(reportgen.WithOutputDir(dir))
	defer r.Close()

	results, err := r.Render(context.Background(), reportgen.RenderRequest{
		Content: "# Executive Summary\n\nAttention mechanisms dominate [Paper 1].",
		Query:   "attention mechanisms",
		Papers: []reportgen.Paper{
			{ID: "1706.03762", Title: "Attention Is All You Need"},
		},
		Formats: []reportgen.Format{reportgen.FormatMarkdown},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, res := range results {
		fmt.Printf("%s: %s\n", res.Format, res.Status)
	}
	// Output: markdown: success
}

// Example_latex demonstrates the LaTeX format, which writes a .tex file and
// a companion .bib file under the same stem.
func Example_latex() {
	dir, err := os.MkdirTemp("", "reportgen-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	r := reportgen.NewRenderer(reportgen.WithOutputDir(dir))
	defer r.Close()

	results, err := r.Render(context.Background(), reportgen.RenderRequest{
		Content: "Results show 95% accuracy [Paper 1].",
		Query:   "model accuracy",
		Papers: []reportgen.Paper{
			{ID: "1810.04805", Title: "BERT", Authors: []string{"Devlin"}},
		},
		Formats: []reportgen.Format{reportgen.FormatLaTeX},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res := results[0]
	fmt.Println("status:", res.Status)
	fmt.Println("bibliography written:", res.BibFilepath != "")
	// Output:
	// status: success
	// bibliography written: true
}
