package models

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vestigehq/vestige/internal/output"
)

// RenderText implements output.Renderable for text output.
func (g *GraphReport) RenderText(w io.Writer, colored bool) error {
	title := fmt.Sprintf("Dependency Graph (%d modules, %d edges)",
		g.Summary.TotalModules, g.Summary.InternalEdges)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "External references:   %d\n", g.Summary.ExternalRefs)
	fmt.Fprintf(w, "Unresolved references: %d\n", g.Summary.UnresolvedRefs)
	fmt.Fprintf(w, "Isolated modules:      %d\n", g.Summary.IsolatedModules)
	fmt.Fprintf(w, "Root modules:          %d\n", g.Summary.RootModules)
	if g.Summary.SkippedFiles > 0 {
		fmt.Fprintf(w, "Skipped files:         %d\n", g.Summary.SkippedFiles)
	}
	if g.Partial {
		fmt.Fprintln(w, "Analysis was cancelled before all files were processed; results are partial.")
	}
	fmt.Fprintln(w)

	if len(g.Cycles) > 0 {
		fmt.Fprintf(w, "Circular dependencies (%d):\n", len(g.Cycles))
		for _, c := range g.Cycles {
			fmt.Fprintf(w, "  %s\n", formatCycle(c.Paths))
		}
		fmt.Fprintln(w)
	}

	if g.Metrics != nil && len(g.Metrics.MostImported) > 0 {
		rows := make([][]string, 0, len(g.Metrics.MostImported))
		for _, mc := range g.Metrics.MostImported {
			rows = append(rows, []string{mc.Path, strconv.Itoa(mc.Count)})
		}
		table := output.NewTable("Most Imported", []string{"Module", "Importers"}, rows, nil, nil)
		if err := table.RenderText(w, colored); err != nil {
			return err
		}
		fmt.Fprintf(w, "Density: %.4f  Avg degree: %.2f  Components: %d  Largest SCC: %d\n",
			g.Metrics.Density, g.Metrics.AvgDegree, g.Metrics.Components, g.Metrics.LargestSCC)
		fmt.Fprintln(w)
	}

	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (g *GraphReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Dependency Graph (%d modules, %d edges)\n\n",
		g.Summary.TotalModules, g.Summary.InternalEdges)

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| External references | %d |\n", g.Summary.ExternalRefs)
	fmt.Fprintf(w, "| Unresolved references | %d |\n", g.Summary.UnresolvedRefs)
	fmt.Fprintf(w, "| Isolated modules | %d |\n", g.Summary.IsolatedModules)
	fmt.Fprintf(w, "| Root modules | %d |\n", g.Summary.RootModules)
	fmt.Fprintf(w, "| Cycles | %d |\n", len(g.Cycles))
	fmt.Fprintln(w)

	if len(g.Cycles) > 0 {
		fmt.Fprintln(w, "### Circular Dependencies")
		fmt.Fprintln(w)
		for _, c := range g.Cycles {
			fmt.Fprintf(w, "- `%s`\n", formatCycle(c.Paths))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "### Graph")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprint(w, g.ToMermaid())
	fmt.Fprintln(w, "```")
	fmt.Fprintln(w)
	return nil
}

// RenderData implements output.Renderable for serialization formats.
func (g *GraphReport) RenderData() any {
	return g
}

// RenderText implements output.Renderable for text output.
func (d *DeadCodeReport) RenderText(w io.Writer, colored bool) error {
	if len(d.Candidates) == 0 {
		fmt.Fprintln(w, "No dead code candidates found")
		return d.renderWarnings(w)
	}

	rows := make([][]string, 0, len(d.Candidates))
	for _, c := range d.Candidates {
		level := string(c.Confidence)
		if colored {
			level = output.ConfidenceColor(string(c.Confidence), level)
		}
		rows = append(rows, []string{
			c.Path,
			level,
			strconv.Itoa(c.Lines),
			formatBytes(c.Size),
			strings.Join(c.Reasons, "; "),
		})
	}
	footer := []string{
		fmt.Sprintf("%d candidates", len(d.Candidates)),
		"",
		strconv.Itoa(d.Summary.SavingsLines),
		formatBytes(d.Summary.SavingsBytes),
		"",
	}

	title := fmt.Sprintf("Dead Code Candidates (%d of %d modules)",
		len(d.Candidates), d.Summary.TotalModules)
	table := output.NewTable(title,
		[]string{"File", "Confidence", "Lines", "Size", "Reasons"},
		rows, footer, nil)
	if err := table.RenderText(w, colored); err != nil {
		return err
	}

	if d.Partial {
		fmt.Fprintln(w, "Analysis was cancelled before all files were processed; results are partial.")
		fmt.Fprintln(w)
	}
	return d.renderWarnings(w)
}

func (d *DeadCodeReport) renderWarnings(w io.Writer) error {
	if len(d.Warnings) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Warnings (%d):\n", len(d.Warnings))
	for _, warn := range d.Warnings {
		fmt.Fprintf(w, "  %s: %s\n", warn.Path, warn.Reason)
	}
	fmt.Fprintln(w)
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (d *DeadCodeReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Dead Code Candidates (%d of %d modules)\n\n",
		len(d.Candidates), d.Summary.TotalModules)

	if len(d.Candidates) == 0 {
		fmt.Fprintln(w, "No dead code candidates found")
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintln(w, "| File | Confidence | Lines | Size | Reasons |")
	fmt.Fprintln(w, "|------|------------|-------|------|---------|")
	for _, c := range d.Candidates {
		fmt.Fprintf(w, "| %s | %s | %d | %s | %s |\n",
			c.Path, c.Confidence, c.Lines, formatBytes(c.Size),
			strings.Join(c.Reasons, "; "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "**Potential savings:** %d lines, %s\n\n",
		d.Summary.SavingsLines, formatBytes(d.Summary.SavingsBytes))
	return nil
}

// RenderData implements output.Renderable for serialization formats.
func (d *DeadCodeReport) RenderData() any {
	return d
}

// RenderText implements output.Renderable for text output.
func (c *CycleReport) RenderText(w io.Writer, colored bool) error {
	if len(c.Cycles) == 0 {
		fmt.Fprintln(w, "No circular dependencies found")
		return nil
	}

	title := fmt.Sprintf("Circular Dependencies (%d)", len(c.Cycles))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	for i, cy := range c.Cycles {
		fmt.Fprintf(w, "%d. [%d modules] %s\n", i+1, cy.Len(), formatCycle(cy.Paths))
	}
	fmt.Fprintln(w)
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (c *CycleReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Circular Dependencies (%d)\n\n", len(c.Cycles))
	if len(c.Cycles) == 0 {
		fmt.Fprintln(w, "No circular dependencies found")
		fmt.Fprintln(w)
		return nil
	}
	for i, cy := range c.Cycles {
		fmt.Fprintf(w, "%d. `%s`\n", i+1, formatCycle(cy.Paths))
	}
	fmt.Fprintln(w)
	return nil
}

// RenderData implements output.Renderable for serialization formats.
func (c *CycleReport) RenderData() any {
	return c
}

// RenderText implements output.Renderable for text output.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	fmt.Fprintf(w, "vestige report %s (generated %s)\n\n",
		r.Version, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if err := r.Graph.RenderText(w, colored); err != nil {
		return err
	}
	return r.DeadCode.RenderText(w, colored)
}

// RenderMarkdown implements output.Renderable for markdown output.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Vestige Report\n\n")
	fmt.Fprintf(w, "Generated %s by vestige %s\n\n",
		r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), r.Version)
	if err := r.Graph.RenderMarkdown(w); err != nil {
		return err
	}
	return r.DeadCode.RenderMarkdown(w)
}

// RenderData implements output.Renderable for serialization formats.
func (r *Report) RenderData() any {
	return r
}

// formatCycle renders a cycle path, closing the loop back to its start.
func formatCycle(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return strings.Join(paths, " -> ") + " -> " + paths[0]
}
