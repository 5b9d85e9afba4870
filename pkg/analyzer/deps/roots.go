package deps

import (
	"path"
	"regexp"
	"strings"

	"github.com/vestigehq/vestige/pkg/lang"
)

// standaloneNames are files that are run or loaded by tooling rather than
// imported, and are roots by construction.
var standaloneNames = map[string]bool{
	"setup.py":    true,
	"conftest.py": true,
	"manage.py":   true,
	"wsgi.py":     true,
	"asgi.py":     true,
	"__main__.py": true,
}

// entryPatterns match CLI and main-entry naming conventions across the
// supported languages, matched against the lowercased basename.
var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^main\.[^.]+$`),
	regexp.MustCompile(`^cli\.[^.]+$`),
	regexp.MustCompile(`^app\.[^.]+$`),
	regexp.MustCompile(`^run\.[^.]+$`),
	regexp.MustCompile(`^server\.[^.]+$`),
	regexp.MustCompile(`.*_cli\.[^.]+$`),
	regexp.MustCompile(`.*_main\.[^.]+$`),
	regexp.MustCompile(`^launch.*`),
}

// aggregator thresholds: a re-export file has few statements, nearly all
// of them imports.
const (
	aggregatorMinStatements = 3
	aggregatorMinRatio      = 0.8
)

// rootClassifier marks modules that are reachable by construction: CLI
// entry scripts, tests, examples, and package re-export aggregators.
// The classification is advisory metadata seeding reachability, not a
// reported finding.
type rootClassifier struct {
	extra []*regexp.Regexp
}

// newRootClassifier compiles any user-provided entry patterns. Invalid
// patterns are skipped; the built-in conventions always apply.
func newRootClassifier(userPatterns []string) *rootClassifier {
	rc := &rootClassifier{}
	for _, p := range userPatterns {
		if re, err := regexp.Compile(p); err == nil {
			rc.extra = append(rc.extra, re)
		}
	}
	return rc
}

// classify fills the root flags on a module. The stats come from the
// lexical scan of the module's own content.
func (rc *rootClassifier) classify(m *Module, stats extraction) {
	base := strings.ToLower(path.Base(m.Path))

	switch {
	case standaloneNames[base]:
		m.IsEntry = true
		m.RootReason = "standalone tooling file"
	case matchesAny(base, entryPatterns):
		m.IsEntry = true
		m.RootReason = "entry-point naming convention"
	case rc.matchesExtra(m.Path, base):
		m.IsEntry = true
		m.RootReason = "configured entry pattern"
	}

	if lang.IsTestPath(m.Path) {
		m.IsTest = true
		if m.RootReason == "" {
			m.RootReason = "test file"
		}
	}
	if lang.IsExamplePath(m.Path) {
		m.IsExample = true
		if m.RootReason == "" {
			m.RootReason = "example file"
		}
	}

	if !m.IsEntry && isAggregator(m, stats) {
		m.IsEntry = true
		m.RootReason = "package re-export aggregator"
	}
}

// IsRoot reports whether a classified module seeds reachability.
func IsRoot(m *Module) bool {
	return m.IsEntry || m.IsTest || m.IsExample
}

// isAggregator detects package-surface files whose statements are almost
// entirely imports. Package entry files (__init__.py, index.ts) qualify
// with any import at all, since their whole purpose is re-export.
func isAggregator(m *Module, stats extraction) bool {
	base := path.Base(m.Path)
	for _, idx := range lang.IndexNames(lang.Language(m.Lang)) {
		if base == idx {
			return len(stats.Refs) > 0
		}
	}

	if stats.Statements < aggregatorMinStatements || len(stats.Refs) == 0 {
		return false
	}
	ratio := float64(len(stats.Refs)) / float64(stats.Statements)
	return ratio >= aggregatorMinRatio
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func (rc *rootClassifier) matchesExtra(full, base string) bool {
	for _, re := range rc.extra {
		if re.MatchString(base) || re.MatchString(full) {
			return true
		}
	}
	return false
}
