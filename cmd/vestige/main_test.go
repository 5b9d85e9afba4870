package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/vestigehq/vestige/pkg/config"
)

func TestGetPath(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: ".",
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: "/foo/bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					if got := getPath(c); got != tt.expected {
						t.Errorf("getPath() = %q, want %q", got, tt.expected)
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

func TestVersionVariable(t *testing.T) {
	if version == "" {
		t.Error("version should have a default value")
	}
}

func TestGenerateDefaultConfigRoundTrip(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig: %v", err)
	}
	if !strings.Contains(content, "[analysis]") {
		t.Errorf("missing analysis section:\n%s", content)
	}

	// The generated file must load back through the config loader.
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading generated config: %v", err)
	}

	want := config.DefaultConfig()
	if cfg.Analysis.MaxFileSize != want.Analysis.MaxFileSize {
		t.Errorf("max_file_size = %d, want %d", cfg.Analysis.MaxFileSize, want.Analysis.MaxFileSize)
	}
	if len(cfg.Exclude.Dirs) != len(want.Exclude.Dirs) {
		t.Errorf("exclude dirs = %v, want %v", cfg.Exclude.Dirs, want.Exclude.Dirs)
	}
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.py":   "import util\nutil.run()\n",
		"util.py":   "import helper\n\ndef run():\n    pass\n",
		"helper.py": "import util\n\ndef helper():\n    pass\n",
		"orphan.py": "def forgotten():\n    pass\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCommand(t *testing.T, args ...string) map[string]any {
	t.Helper()
	outPath := filepath.Join(t.TempDir(), "out.json")

	full := append([]string{"vestige", "-f", "json", "-o", outPath}, args...)
	if err := newApp().Run(full); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, raw)
	}
	return decoded
}

func TestGraphCommandE2E(t *testing.T) {
	dir := writeProject(t)
	decoded := runCommand(t, "graph", dir)

	summary, ok := decoded["summary"].(map[string]any)
	if !ok {
		t.Fatalf("missing summary in %v", decoded)
	}
	if got := summary["total_modules"].(float64); got != 4 {
		t.Errorf("total_modules = %v, want 4", got)
	}
	if got := summary["cycle_count"].(float64); got != 1 {
		t.Errorf("cycle_count = %v, want 1", got)
	}
}

func TestDeadcodeCommandE2E(t *testing.T) {
	dir := writeProject(t)
	decoded := runCommand(t, "deadcode", "--min-confidence", "high", dir)

	candidates, ok := decoded["candidates"].([]any)
	if !ok || len(candidates) != 1 {
		t.Fatalf("candidates = %v, want one", decoded["candidates"])
	}
	first := candidates[0].(map[string]any)
	if first["path"] != "orphan.py" {
		t.Errorf("candidate = %v, want orphan.py", first["path"])
	}
}

func TestCyclesCommandE2E(t *testing.T) {
	dir := writeProject(t)
	decoded := runCommand(t, "cycles", dir)

	cycles, ok := decoded["cycles"].([]any)
	if !ok || len(cycles) != 1 {
		t.Fatalf("cycles = %v, want one", decoded["cycles"])
	}
}

func TestReportCommandE2E(t *testing.T) {
	dir := writeProject(t)
	decoded := runCommand(t, "report", "--metrics", dir)

	if _, ok := decoded["graph"]; !ok {
		t.Error("report missing graph section")
	}
	if _, ok := decoded["dead_code"]; !ok {
		t.Error("report missing dead_code section")
	}
}

func TestNoFilesError(t *testing.T) {
	dir := t.TempDir()
	err := newApp().Run([]string{"vestige", "graph", dir})
	if err == nil || !strings.Contains(err.Error(), "no source files") {
		t.Errorf("err = %v, want no source files error", err)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vestige.toml")

	if err := newApp().Run([]string{"vestige", "init", "-o", path}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}

	// Second run without --force refuses to overwrite.
	if err := newApp().Run([]string{"vestige", "init", "-o", path}); err == nil {
		t.Error("expected error when config already exists")
	}
}
