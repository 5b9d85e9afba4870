package deps

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/vestigehq/vestige/pkg/lang"
)

// rawRef is one import-like token found by the lexical scan, before
// resolution.
type rawRef struct {
	Token string
	Line  int
}

// extraction is the per-file output of the lexical scan. Quoted strings
// and statement counts feed the confidence scorer and the re-export
// aggregator heuristic downstream.
type extraction struct {
	Refs       []rawRef
	Quoted     []string
	Dynamic    bool
	MainBlock  bool
	Lines      int
	Statements int
}

// importRule matches one import-statement shape for a language. The first
// capture group is the reference token.
type importRule struct {
	re *regexp.Regexp
}

var importRules = map[lang.Language][]importRule{
	lang.LangPython: {
		{regexp.MustCompile(`^\s*import\s+([\w.]+)`)},
		{regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`)},
	},
	lang.LangJava: {
		{regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+)`)},
	},
	lang.LangRuby: {
		{regexp.MustCompile(`^\s*require_relative\s+['"]([^'"]+)['"]`)},
		{regexp.MustCompile(`^\s*require\s+['"]([^'"]+)['"]`)},
		{regexp.MustCompile(`^\s*load\s+['"]([^'"]+)['"]`)},
	},
	lang.LangC: {
		{regexp.MustCompile(`^\s*#\s*include\s*["<]([^">]+)[">]`)},
	},
	lang.LangCPP: {
		{regexp.MustCompile(`^\s*#\s*include\s*["<]([^">]+)[">]`)},
	},
	lang.LangRust: {
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?use\s+([\w:]+)`)},
		{regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?mod\s+(\w+)\s*;`)},
	},
	lang.LangPHP: {
		{regexp.MustCompile(`^\s*use\s+([\w\\]+)`)},
		{regexp.MustCompile(`^\s*(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)},
	},
}

// jsRules cover the ES module and CommonJS shapes shared by JS, TS and TSX.
var jsRules = []importRule{
	{regexp.MustCompile(`^\s*import\s+.*?\bfrom\s+['"]([^'"]+)['"]`)},
	{regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)},
	{regexp.MustCompile(`^\s*export\s+.*?\bfrom\s+['"]([^'"]+)['"]`)},
	{regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)},
}

func init() {
	for _, l := range []lang.Language{lang.LangJavaScript, lang.LangTypeScript, lang.LangTSX} {
		importRules[l] = jsRules
	}
}

// Go import statements need block state, handled separately in scanGo.
var (
	goImportSingle = regexp.MustCompile(`^\s*import\s+(?:\w+\s+|\.\s+|_\s+)?"([^"]+)"`)
	goImportOpen   = regexp.MustCompile(`^\s*import\s*\(\s*$`)
	goImportLine   = regexp.MustCompile(`^\s*(?:\w+\s+|\.\s+|_\s+)?"([^"]+)"`)
)

// dynamicPatterns flag reflective or computed imports the lexical scan
// cannot resolve. Presence is a confidence signal, never an edge.
var dynamicPatterns = map[lang.Language][]*regexp.Regexp{
	lang.LangPython: {
		regexp.MustCompile(`\b__import__\s*\(`),
		regexp.MustCompile(`\bimportlib\.`),
		regexp.MustCompile(`\bgetattr\s*\(\s*\w+\s*,`),
	},
	lang.LangJavaScript: {
		regexp.MustCompile(`\bimport\s*\(`),
		regexp.MustCompile(`\brequire\s*\(\s*[^'")]`),
	},
	lang.LangTypeScript: {
		regexp.MustCompile(`\bimport\s*\(`),
	},
	lang.LangRuby: {
		regexp.MustCompile(`\bconst_get\b`),
		regexp.MustCompile(`\bObject\.const_missing\b`),
		regexp.MustCompile(`\bsend\s*\(\s*:`),
	},
	lang.LangPHP: {
		regexp.MustCompile(`\bcall_user_func\b`),
		regexp.MustCompile(`\bclass_exists\s*\(`),
	},
}

// quotedToken pulls string literals that look like module or path
// references; the scorer uses them for the catalog-wide textual scan.
var quotedToken = regexp.MustCompile(`['"]([\w][\w./\\-]*)['"]`)

var commentPrefixes = []string{"//", "#", "*", "/*", "--"}

// isBinary reports content that cannot be lexically scanned. A NUL byte
// in the sniff window is the same test git uses.
func isBinary(content []byte) bool {
	window := content
	if len(window) > 8000 {
		window = window[:8000]
	}
	return bytes.IndexByte(window, 0) >= 0
}

// extract lexically scans content for import-like statements. Any line
// matching the language's import shape yields a token even inside a
// string or comment; downstream resolution and scoring dampen the
// false positives. Unmatched continuations are dropped silently.
func extract(l lang.Language, content []byte) extraction {
	var ex extraction

	if l == lang.LangGo {
		return scanGo(content)
	}

	rules := importRules[l]
	lines := strings.Split(string(content), "\n")
	ex.Lines = len(lines)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !isComment(trimmed) {
			ex.Statements++
		}

		matched := false
		for _, rule := range rules {
			if m := rule.re.FindStringSubmatch(line); m != nil {
				token := strings.TrimSpace(m[1])
				if token != "" {
					ex.Refs = append(ex.Refs, rawRef{Token: token, Line: i + 1})
				}
				matched = true
				break
			}
		}

		// Import lines already yield a reference; collecting their quoted
		// text as well would double-count them in the literal scan.
		if !matched {
			for _, m := range quotedToken.FindAllStringSubmatch(line, -1) {
				ex.Quoted = append(ex.Quoted, m[1])
			}
		}
	}

	for _, re := range dynamicPatterns[l] {
		if re.Match(content) {
			ex.Dynamic = true
			break
		}
	}

	if l == lang.LangPython {
		ex.MainBlock = bytes.Contains(content, []byte("__name__")) &&
			bytes.Contains(content, []byte("__main__"))
	}

	return ex
}

// scanGo handles Go's single and parenthesized import forms with a small
// block state machine.
func scanGo(content []byte) extraction {
	var ex extraction
	lines := strings.Split(string(content), "\n")
	ex.Lines = len(lines)

	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !isComment(trimmed) {
			ex.Statements++
		}

		if inBlock {
			if strings.HasPrefix(trimmed, ")") {
				inBlock = false
				continue
			}
			if m := goImportLine.FindStringSubmatch(line); m != nil {
				ex.Refs = append(ex.Refs, rawRef{Token: m[1], Line: i + 1})
			}
			continue
		}

		if goImportOpen.MatchString(line) {
			inBlock = true
			continue
		}
		if m := goImportSingle.FindStringSubmatch(line); m != nil {
			ex.Refs = append(ex.Refs, rawRef{Token: m[1], Line: i + 1})
			continue
		}

		for _, m := range quotedToken.FindAllStringSubmatch(line, -1) {
			ex.Quoted = append(ex.Quoted, m[1])
		}
	}

	return ex
}

func isComment(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
