package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/vestigehq/vestige/internal/service/analysis"
	scannerSvc "github.com/vestigehq/vestige/internal/service/scanner"
	"github.com/vestigehq/vestige/pkg/analyzer/deps"
	"github.com/vestigehq/vestige/pkg/models"
)

// AnalyzeInput is the base input for all analyze tools.
type AnalyzeInput struct {
	Path     string `json:"path,omitempty" jsonschema:"Directory to analyze. Defaults to current directory."`
	Revision string `json:"revision,omitempty" jsonschema:"Git revision to analyze instead of the working tree (branch, tag, or hash)."`
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// GraphInput adds graph-specific options.
type GraphInput struct {
	AnalyzeInput
	IncludeMetrics bool `json:"include_metrics,omitempty" jsonschema:"Include PageRank, density, and component metrics."`
}

// DeadcodeInput adds deadcode-specific options.
type DeadcodeInput struct {
	AnalyzeInput
	MinConfidence string `json:"min_confidence,omitempty" jsonschema:"Minimum confidence to report: low (default), medium, or high."`
}

// CyclesInput has no options beyond the base input.
type CyclesInput struct {
	AnalyzeInput
}

func formatOutput(data any, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format string) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// runAnalysis scans and analyzes per the shared input, on the working tree
// or at a git revision.
func runAnalysis(ctx context.Context, input AnalyzeInput, opts analysis.DepsOptions) (*deps.Analysis, error) {
	path := input.Path
	if path == "" {
		path = "."
	}

	svc := analysis.New()
	if input.Revision != "" {
		return svc.AnalyzeDepsAtRevision(ctx, path, input.Revision, opts)
	}

	scanner := scannerSvc.New()
	scanResult, err := scanner.ScanPath(path)
	if err != nil {
		return nil, err
	}
	return svc.AnalyzeDeps(ctx, scanResult.Root, scanResult.Files, opts)
}

// Tool handlers

func handleAnalyzeGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	result, err := runAnalysis(ctx, input.AnalyzeInput, analysis.DepsOptions{
		Metrics: input.IncludeMetrics,
	})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(models.NewGraphReport(result), input.Format)
}

func handleAnalyzeDeadcode(ctx context.Context, req *mcp.CallToolRequest, input DeadcodeInput) (*mcp.CallToolResult, any, error) {
	result, err := runAnalysis(ctx, input.AnalyzeInput, analysis.DepsOptions{})
	if err != nil {
		return toolError(err.Error())
	}

	min := deps.Confidence(input.MinConfidence)
	switch min {
	case deps.ConfidenceHigh, deps.ConfidenceMedium:
	default:
		min = deps.ConfidenceLow
	}
	return toolResult(models.NewDeadCodeReport(result, min), input.Format)
}

func handleAnalyzeCycles(ctx context.Context, req *mcp.CallToolRequest, input CyclesInput) (*mcp.CallToolResult, any, error) {
	result, err := runAnalysis(ctx, input.AnalyzeInput, analysis.DepsOptions{})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(models.NewCycleReport(result), input.Format)
}
