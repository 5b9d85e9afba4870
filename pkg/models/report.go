// Package models defines the report types produced by vestige commands and
// their rendering in the supported output formats.
package models

import (
	"fmt"
	"time"

	"github.com/vestigehq/vestige/pkg/analyzer/deps"
)

// GraphReport is the dependency-graph view of an analysis run.
type GraphReport struct {
	Modules []deps.Module `json:"modules" toon:"modules"`
	Edges   []deps.Edge   `json:"edges" toon:"edges"`
	Cycles  []deps.Cycle  `json:"cycles" toon:"cycles"`
	Summary deps.Summary  `json:"summary" toon:"summary"`
	Metrics *deps.Metrics `json:"metrics,omitempty" toon:"metrics,omitempty"`
	Partial bool          `json:"partial,omitempty" toon:"partial,omitempty"`
}

// NewGraphReport builds a graph report from an analysis result.
func NewGraphReport(a *deps.Analysis) *GraphReport {
	return &GraphReport{
		Modules: a.Graph.Modules,
		Edges:   a.Graph.Edges,
		Cycles:  a.Cycles,
		Summary: a.Summary,
		Metrics: a.Metrics,
		Partial: a.Partial,
	}
}

// DeadCodeReport lists dead-code candidates at or above a confidence floor.
type DeadCodeReport struct {
	Candidates    []deps.Candidate `json:"candidates" toon:"candidates"`
	Warnings      []deps.Warning   `json:"warnings,omitempty" toon:"warnings,omitempty"`
	Summary       deps.Summary     `json:"summary" toon:"summary"`
	MinConfidence deps.Confidence  `json:"min_confidence" toon:"min_confidence"`
	Partial       bool             `json:"partial,omitempty" toon:"partial,omitempty"`
}

// NewDeadCodeReport builds a dead-code report, dropping candidates below the
// minimum confidence. Summary savings are recomputed over what remains.
func NewDeadCodeReport(a *deps.Analysis, min deps.Confidence) *DeadCodeReport {
	floor := confidenceRank(min)
	kept := make([]deps.Candidate, 0, len(a.Candidates))
	for _, c := range a.Candidates {
		if confidenceRank(c.Confidence) <= floor {
			kept = append(kept, c)
		}
	}

	summary := a.Summary
	summary.CandidateCount = len(kept)
	summary.SavingsLines = 0
	summary.SavingsBytes = 0
	for _, c := range kept {
		summary.SavingsLines += c.Lines
		summary.SavingsBytes += c.Size
	}

	return &DeadCodeReport{
		Candidates:    kept,
		Warnings:      a.Warnings,
		Summary:       summary,
		MinConfidence: min,
		Partial:       a.Partial,
	}
}

// CycleReport lists circular dependencies found in the graph.
type CycleReport struct {
	Cycles  []deps.Cycle `json:"cycles" toon:"cycles"`
	Summary deps.Summary `json:"summary" toon:"summary"`
	Partial bool         `json:"partial,omitempty" toon:"partial,omitempty"`
}

// NewCycleReport builds a cycle report from an analysis result.
func NewCycleReport(a *deps.Analysis) *CycleReport {
	return &CycleReport{
		Cycles:  a.Cycles,
		Summary: a.Summary,
		Partial: a.Partial,
	}
}

// Report is the combined output of the report command.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at" toon:"generated_at"`
	Version     string          `json:"version" toon:"version"`
	Graph       *GraphReport    `json:"graph" toon:"graph"`
	DeadCode    *DeadCodeReport `json:"dead_code" toon:"dead_code"`
}

// NewReport builds the combined report.
func NewReport(a *deps.Analysis, min deps.Confidence, version string) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		Graph:       NewGraphReport(a),
		DeadCode:    NewDeadCodeReport(a, min),
	}
}

// confidenceRank orders confidence levels, highest first. Unknown values
// sort last so an unset floor keeps everything.
func confidenceRank(c deps.Confidence) int {
	switch c {
	case deps.ConfidenceHigh:
		return 0
	case deps.ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
