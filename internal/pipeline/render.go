package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/CogNetSys/dndscore/internal/model"
)

// Renderer writes reports as JSON and Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Claim Decomposition: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source**: %s\n", report.Source)
	fmt.Fprintf(&b, "- **Analyzed**: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Sentences**: %d (%d skipped)\n", report.Stats.Sentences, report.Stats.SkippedSents)
	fmt.Fprintf(&b, "- **Raw facts**: %d\n", report.Stats.RawFacts)
	fmt.Fprintf(&b, "- **Atomic claims**: %d\n", report.Stats.AtomicClaims)
	fmt.Fprintf(&b, "- **Selected**: %d (retention %.2f, τ=%.2f)\n\n",
		report.Stats.SelectedN, report.Stats.Retention, report.Stats.Tau)

	b.WriteString("## Selected Core Set\n\n")
	if len(report.Selected) == 0 {
		b.WriteString("_No claims selected._\n\n")
	} else {
		b.WriteString("| # | Claim | Weight | Sentence |\n")
		b.WriteString("|---|-------|--------|----------|\n")
		for rank, idx := range report.Selected {
			c := report.Claims[idx]
			fmt.Fprintf(&b, "| %d | %s | %.3f | %d |\n", rank+1, c.Text, c.Weight, c.Sentence)
		}
		b.WriteString("\n")
	}

	b.WriteString("## All Atomic Claims\n\n")
	for i, c := range report.Claims {
		marker := " "
		if c.Selected {
			marker = "x"
		}
		fmt.Fprintf(&b, "- [%s] (%d, w=%.3f) %s\n", marker, i, c.Weight, c.Text)
	}
	b.WriteString("\n")

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("_Generated by dndscore. Selection reflects informativeness and redundancy only; it does not assert truth._\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("Subject:       %s\n", report.Subject)
	fmt.Printf("Sentences:     %d (%d skipped)\n", report.Stats.Sentences, report.Stats.SkippedSents)
	fmt.Printf("Atomic claims: %d\n", report.Stats.AtomicClaims)
	fmt.Printf("Selected:      %d (retention %.2f)\n", report.Stats.SelectedN, report.Stats.Retention)
	for rank, idx := range report.Selected {
		fmt.Printf("  %2d. [%.3f] %s\n", rank+1, report.Claims[idx].Weight, report.Claims[idx].Text)
	}
}

// RenderReport renders the report to the configured outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.RenderSummary(report)
	return nil
}

// RenderSummary prints the stdout summary for a report
func (p *Pipeline) RenderSummary(report *model.Report) {
	p.renderer.RenderSummary(report)
}
