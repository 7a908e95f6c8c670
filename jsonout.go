package reportgen

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arxival/reportgen/internal/markdownir"
)

// reportJSON is the lossless structured echo of one render.
type reportJSON struct {
	Query     string   `json:"query"`
	Generated string   `json:"generated"`
	Content   string   `json:"report_content"`
	Papers    []Paper  `json:"referenced_papers"`
	Metadata  Metadata `json:"metadata"`
}

// renderJSON serializes the render request and resolved body to JSON. The
// content field carries the re-serialized body plus references so the JSON
// artifact is self-contained.
func renderJSON(req RenderRequest, doc *markdownir.Document, res *Resolution, now time.Time) ([]byte, error) {
	papers := res.Papers()
	if papers == nil {
		papers = []Paper{}
	}
	out := reportJSON{
		Query:     req.Query,
		Generated: now.Format(time.RFC3339),
		Content:   markdownBody(doc, res) + referencesMarkdown(papers),
		Papers:    papers,
		Metadata:  req.Metadata,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report JSON: %w", err)
	}
	return data, nil
}
