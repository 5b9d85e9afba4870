package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/vestigehq/vestige/internal/output"
	"github.com/vestigehq/vestige/internal/progress"
	analysisSvc "github.com/vestigehq/vestige/internal/service/analysis"
	scannerSvc "github.com/vestigehq/vestige/internal/service/scanner"
	"github.com/vestigehq/vestige/pkg/analyzer/deps"
	"github.com/vestigehq/vestige/pkg/config"
	"github.com/vestigehq/vestige/pkg/models"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPath returns the positional path argument, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "vestige",
		Usage:   "Dependency graph and dead code analysis CLI",
		Version: version,
		Description: `Vestige builds file-level dependency graphs from import statements,
detects circular dependencies, and finds modules unreachable from any
entry point.

Supports: Go, Rust, Python, TypeScript, JavaScript, Java, C, C++, Ruby, PHP`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VESTIGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon, yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of analysis workers (default: 2x CPU count)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Commands: []*cli.Command{
			graphCmd(),
			deadcodeCmd(),
			cyclesCmd(),
			reportCmd(),
			initCmd(),
			mcpCmd(),
		},
	}
}

// loadConfig loads the configured file or falls back to discovery.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// analyze scans and runs the dependency engine per the shared flags. A
// non-empty rev analyzes that git revision instead of the working tree.
func analyze(c *cli.Context, includeMetrics bool) (*deps.Analysis, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	opts := analysisSvc.DepsOptions{
		Workers: c.Int("jobs"),
		Metrics: includeMetrics,
	}

	ctx, stop := signalContext()
	defer stop()

	svc := analysisSvc.New(analysisSvc.WithConfig(cfg))

	if rev := c.String("rev"); rev != "" {
		spinner := progress.NewSpinner(fmt.Sprintf("Analyzing revision %s...", rev))
		result, err := svc.AnalyzeDepsAtRevision(ctx, getPath(c), rev, opts)
		if err != nil {
			spinner.FinishError(err)
			return nil, nil, err
		}
		spinner.FinishSuccess()
		return result, cfg, nil
	}

	scanner := scannerSvc.New(scannerSvc.WithConfig(cfg))
	scanResult, err := scanner.ScanPath(getPath(c))
	if err != nil {
		return nil, nil, err
	}
	if len(scanResult.Files) == 0 {
		return nil, nil, fmt.Errorf("no source files found in %s", getPath(c))
	}

	tracker := progress.NewTracker("Analyzing dependencies...", len(scanResult.Files))
	opts.OnProgress = tracker.Tick
	result, err := svc.AnalyzeDeps(ctx, scanResult.Root, scanResult.Files, opts)
	if err != nil {
		tracker.FinishError(err)
		return nil, nil, err
	}
	if result.Partial {
		tracker.FinishSkipped("cancelled")
	} else {
		tracker.FinishSuccess()
	}
	return result, cfg, nil
}

// newFormatter builds the output formatter from the global flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if !c.IsSet("format") && cfg.Output.Format != "" {
		format = cfg.Output.Format
	}
	colored := cfg.Output.Color && !c.Bool("no-color")
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"deps"},
		Usage:     "Build the dependency graph and detect cycles",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include PageRank, density, and component metrics",
			},
			&cli.BoolFlag{
				Name:  "mermaid",
				Usage: "Print the graph as a Mermaid diagram",
			},
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze a git revision instead of the working tree",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	result, cfg, err := analyze(c, c.Bool("metrics"))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := models.NewGraphReport(result)
	if c.Bool("mermaid") && formatter.Format() == output.FormatText {
		_, err := fmt.Fprint(formatter.Writer(), report.ToMermaid())
		return err
	}
	return formatter.Output(report)
}

func deadcodeCmd() *cli.Command {
	return &cli.Command{
		Name:      "deadcode",
		Aliases:   []string{"dc"},
		Usage:     "Find modules unreachable from any entry point",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "min-confidence",
				Usage: "Minimum confidence to report: low, medium, high",
			},
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze a git revision instead of the working tree",
			},
		},
		Action: runDeadcodeCmd,
	}
}

func runDeadcodeCmd(c *cli.Context) error {
	result, cfg, err := analyze(c, false)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := models.NewDeadCodeReport(result, minConfidence(c, cfg))
	return formatter.Output(report)
}

// minConfidence resolves the confidence floor from the flag, then config.
func minConfidence(c *cli.Context, cfg *config.Config) deps.Confidence {
	level := c.String("min-confidence")
	if level == "" {
		level = cfg.DeadCode.MinConfidence
	}
	switch deps.Confidence(level) {
	case deps.ConfidenceHigh:
		return deps.ConfidenceHigh
	case deps.ConfidenceMedium:
		return deps.ConfidenceMedium
	default:
		return deps.ConfidenceLow
	}
}

func cyclesCmd() *cli.Command {
	return &cli.Command{
		Name:      "cycles",
		Usage:     "List circular dependencies",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze a git revision instead of the working tree",
			},
		},
		Action: runCyclesCmd,
	}
}

func runCyclesCmd(c *cli.Context) error {
	result, cfg, err := analyze(c, false)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(models.NewCycleReport(result))
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Generate a combined graph and dead code report",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include PageRank, density, and component metrics",
			},
			&cli.StringFlag{
				Name:  "min-confidence",
				Usage: "Minimum confidence for dead code candidates",
			},
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze a git revision instead of the working tree",
			},
		},
		Action: runReportCmd,
	}
}

func runReportCmd(c *cli.Context) error {
	result, cfg, err := analyze(c, c.Bool("metrics"))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := models.NewReport(result, minConfidence(c, cfg), version)
	return formatter.Output(report)
}
