package deps

import (
	"fmt"
	"path"
	"strings"
)

// scorer assigns confidence levels to dead-code candidates using the
// secondary signals the graph alone cannot see.
type scorer struct {
	plugins     []string
	skippedDirs []string

	// quoted maps each module to the string literals found in its
	// content, for the best-effort catalog-wide literal scan.
	quoted map[string][]string

	// testStems indexes test files by the production stem they appear to
	// cover: test_util.py and util_test.go both index "util".
	testStems map[string]bool

	// mainBlock marks modules guarding code behind __name__ == "__main__";
	// they may be run directly rather than imported.
	mainBlock map[string]bool
}

func newScorer(plugins, skippedDirs []string, results []fileResult) *scorer {
	s := &scorer{
		plugins:     plugins,
		skippedDirs: skippedDirs,
		quoted:      make(map[string][]string, len(results)),
		testStems:   make(map[string]bool),
		mainBlock:   make(map[string]bool),
	}
	for _, r := range results {
		s.quoted[r.module.Path] = r.quoted
		if r.stats.MainBlock {
			s.mainBlock[r.module.Path] = true
		}
		if r.module.IsTest {
			stem := strings.ToLower(stemOf(r.module.Path))
			stem = strings.TrimPrefix(stem, "test_")
			stem = strings.TrimSuffix(stem, "_test")
			stem = strings.TrimSuffix(stem, ".test")
			stem = strings.TrimSuffix(stem, ".spec")
			s.testStems[stem] = true
		}
	}
	return s
}

// score computes the candidate for an unreached module. Confidence starts
// at high and downgrades one level per lowering signal, flooring at low;
// a string-literal reference elsewhere in the catalog forces low outright.
// Reasons keep every signal that fired, in evaluation order.
func (s *scorer) score(m *Module) Candidate {
	c := Candidate{
		Path:       m.Path,
		Confidence: ConfidenceHigh,
		Size:       m.Size,
		Lines:      m.Lines,
	}

	// Supporting signals: recorded for explanation, no level change.
	if m.ExternalRefs == 0 {
		c.Reasons = append(c.Reasons, "no external references")
	}
	if !m.HasDynamicRefs {
		c.Reasons = append(c.Reasons, "no dynamic reference patterns in content")
	}
	if !m.IsTest && !m.IsExample {
		c.Reasons = append(c.Reasons, "outside test and example directories")
	}
	if !s.hasMatchingTest(m.Path) {
		c.Reasons = append(c.Reasons, "no matching test file by naming convention")
	}

	// Lowering signals: one-level downgrade each.
	base := strings.ToLower(path.Base(m.Path))
	for _, p := range s.plugins {
		if strings.Contains(base, strings.ToLower(p)) {
			c.Confidence = c.Confidence.downgrade()
			c.Reasons = append(c.Reasons, fmt.Sprintf("matches plugin naming pattern %q", p))
			break
		}
	}
	if dir := s.skippedDir(m.Path); dir != "" {
		c.Confidence = c.Confidence.downgrade()
		c.Reasons = append(c.Reasons, fmt.Sprintf("in directory %q conventionally excluded from static reachability", dir))
	}
	if m.HasDynamicRefs {
		c.Confidence = c.Confidence.downgrade()
		c.Reasons = append(c.Reasons, "dynamic reference patterns in content")
	}
	if s.mainBlock[m.Path] {
		c.Confidence = c.Confidence.downgrade()
		c.Reasons = append(c.Reasons, "guards a __main__ block, may be run directly")
	}

	// Strong signal: forces the floor regardless of everything else.
	if by := s.literalReference(m); by != "" {
		c.Confidence = ConfidenceLow
		c.Reasons = append(c.Reasons, fmt.Sprintf("referenced by string literal in %s", by))
	}

	return c
}

// hasMatchingTest reports whether a test file appears to cover the module
// by naming convention.
func (s *scorer) hasMatchingTest(modulePath string) bool {
	return s.testStems[strings.ToLower(stemOf(modulePath))]
}

// skippedDir returns the first directory segment of the path that is
// conventionally excluded from static reachability, or empty.
func (s *scorer) skippedDir(modulePath string) string {
	dir := path.Dir(modulePath)
	if dir == "." {
		return ""
	}
	for _, seg := range strings.Split(dir, "/") {
		seg = strings.ToLower(seg)
		for _, skip := range s.skippedDirs {
			if seg == strings.ToLower(skip) {
				return skip
			}
		}
	}
	return ""
}

// literalReference scans the quoted strings of every other module for a
// mention of the candidate, by stem or by path suffix. Best-effort and
// purely textual.
func (s *scorer) literalReference(m *Module) string {
	stem := strings.ToLower(stemOf(m.Path))
	noExt := strings.ToLower(strings.TrimSuffix(m.Path, path.Ext(m.Path)))

	for other, tokens := range s.quoted {
		if other == m.Path {
			continue
		}
		for _, tok := range tokens {
			base := strings.ToLower(strings.ReplaceAll(tok, "\\", "/"))
			// A token may be a bare stem, a path with extension, or a
			// dotted module name; try each reading.
			variants := []string{
				base,
				strings.TrimSuffix(base, path.Ext(base)),
				strings.ReplaceAll(base, ".", "/"),
			}
			for _, lt := range variants {
				if lt == stem || strings.HasSuffix(lt, "/"+stem) || lt == noExt || strings.HasSuffix(noExt, "/"+lt) {
					return other
				}
			}
		}
	}
	return ""
}
