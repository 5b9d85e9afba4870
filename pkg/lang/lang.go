// Package lang detects source languages and path conventions.
package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language identifies a supported source language.
type Language string

const (
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangUnknown    Language = "unknown"
)

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".go":
		return LangGo
	case ".rs":
		return LangRust
	case ".py", ".pyw", ".pyi":
		return LangPython
	case ".ts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript
	case ".java":
		return LangJava
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hxx":
		return LangCPP
	case ".rb":
		return LangRuby
	case ".php":
		return LangPHP
	default:
		return LangUnknown
	}
}

// Extensions returns the file extensions associated with a language, primary
// extension first. Used by the resolver to expand extensionless import tokens.
func Extensions(l Language) []string {
	switch l {
	case LangGo:
		return []string{".go"}
	case LangRust:
		return []string{".rs"}
	case LangPython:
		return []string{".py", ".pyi"}
	case LangTypeScript:
		return []string{".ts", ".tsx", ".js"}
	case LangTSX:
		return []string{".tsx", ".ts", ".js"}
	case LangJavaScript:
		return []string{".js", ".mjs", ".cjs", ".jsx", ".ts"}
	case LangJava:
		return []string{".java"}
	case LangC:
		return []string{".h", ".c"}
	case LangCPP:
		return []string{".hpp", ".h", ".cpp", ".cc"}
	case LangRuby:
		return []string{".rb"}
	case LangPHP:
		return []string{".php"}
	default:
		return nil
	}
}

// IndexNames returns the package entry file names for a language, used when an
// import token resolves to a directory ("pkg" -> "pkg/__init__.py").
func IndexNames(l Language) []string {
	switch l {
	case LangPython:
		return []string{"__init__.py"}
	case LangTypeScript, LangTSX:
		return []string{"index.ts", "index.tsx", "index.js"}
	case LangJavaScript:
		return []string{"index.js", "index.mjs", "index.ts"}
	default:
		return nil
	}
}

var testPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^test_.*`),
	regexp.MustCompile(`.*_test\.[^.]+$`),
	regexp.MustCompile(`.*\.test\.[^.]+$`),
	regexp.MustCompile(`.*\.spec\.[^.]+$`),
	regexp.MustCompile(`^tests?\.[^.]+$`),
}

var testDirs = []string{"test", "tests", "__tests__", "spec", "specs", "testdata"}

// IsTestPath reports whether a catalog path names a test file by convention,
// either by filename pattern or by residing under a test directory.
func IsTestPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, p := range testPatterns {
		if p.MatchString(base) {
			return true
		}
	}
	return underAnyDir(path, testDirs)
}

var examplePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^example.*`),
	regexp.MustCompile(`^demo.*`),
	regexp.MustCompile(`^sample.*`),
	regexp.MustCompile(`.*_example\.[^.]+$`),
	regexp.MustCompile(`.*_demo\.[^.]+$`),
}

var exampleDirs = []string{"example", "examples", "demo", "demos", "samples"}

// IsExamplePath reports whether a catalog path names an example or demo file.
func IsExamplePath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, p := range examplePatterns {
		if p.MatchString(base) {
			return true
		}
	}
	return underAnyDir(path, exampleDirs)
}

// underAnyDir reports whether any directory segment of path matches one of
// names (case-insensitive). The file's own name is not considered.
func underAnyDir(path string, names []string) bool {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		seg = strings.ToLower(seg)
		for _, n := range names {
			if seg == n {
				return true
			}
		}
	}
	return false
}
