// Package report renders validated-link summaries as markdown and HTML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocausal/domain/causal"
	"gocausal/domain/core"
)

// Summary aggregates validated links for rendering. Links are ordered by
// confidence descending, ties broken by link key, so two summaries over the
// same registry render identically.
type Summary struct {
	Links             []causal.Verdict `json:"links"`
	LinkCount         int              `json:"link_count"`
	AverageConfidence float64          `json:"average_confidence"`
	StrongestLink     string           `json:"strongest_link,omitempty"`
	GeneratedAt       core.Timestamp   `json:"generated_at"`
}

// NewSummary builds a summary over a set of validated links.
func NewSummary(links []causal.Verdict) Summary {
	ordered := make([]causal.Verdict, len(links))
	copy(ordered, links)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].Key() < ordered[j].Key()
	})

	summary := Summary{
		Links:       ordered,
		LinkCount:   len(ordered),
		GeneratedAt: core.Now(),
	}
	if len(ordered) > 0 {
		total := 0.0
		for _, v := range ordered {
			total += v.Confidence
		}
		summary.AverageConfidence = total / float64(len(ordered))
		summary.StrongestLink = ordered[0].Key().String()
	}
	return summary
}

// Markdown renders the summary as a markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Causal Validation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.String())

	if s.LinkCount == 0 {
		b.WriteString("No validated causal links.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**%d validated links**, average confidence %.3f. Strongest: `%s`.\n\n",
		s.LinkCount, s.AverageConfidence, s.StrongestLink)

	b.WriteString("| Link | Confidence | Strength | Granger p | Lag | Stability | Mechanism |\n")
	b.WriteString("|------|-----------:|---------:|----------:|----:|----------:|-----------|\n")
	for _, v := range s.Links {
		fmt.Fprintf(&b, "| %s → %s | %.3f | %d | %.4f | %d | %.3f | %s |\n",
			v.Cause, v.Effect, v.Confidence, v.Strength, v.GrangerP,
			v.OptimalLag, v.OOSStability, v.Mechanism)
	}
	return b.String()
}

// HTML renders the markdown report through the gomarkdown pipeline.
func (s Summary) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(s.Markdown()))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
