package deps

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/vestigehq/vestige/pkg/lang"
)

// resolver maps raw reference tokens to catalog entries. It is built once
// from the catalog path set and read concurrently by extraction workers;
// all state is immutable before resolution begins.
type resolver struct {
	paths   map[string]bool
	lower   map[string]string   // lowercased path -> canonical path
	byStem  map[string][]string // basename without extension -> sorted paths
	byDir   map[string][]string // directory -> sorted files in it
	topDirs map[string]bool     // first path segments of catalog entries
	catalog []string

	// goModule is the module directive of a go.mod at the catalog root.
	// Go intra-repo imports carry it as a prefix; stripping it lets them
	// match the catalog instead of classifying as external.
	goModule string
}

func newResolver(catalog []string) *resolver {
	r := &resolver{
		paths:   make(map[string]bool, len(catalog)),
		lower:   make(map[string]string, len(catalog)),
		byStem:  make(map[string][]string),
		byDir:   make(map[string][]string),
		topDirs: make(map[string]bool),
		catalog: catalog,
	}
	for _, p := range catalog {
		r.paths[p] = true
		r.lower[strings.ToLower(p)] = p
		stem := stemOf(p)
		r.byStem[stem] = append(r.byStem[stem], p)
		if d := path.Dir(p); d != "." {
			r.byDir[d] = append(r.byDir[d], p)
		}
		if i := strings.Index(p, "/"); i > 0 {
			r.topDirs[p[:i]] = true
		}
	}
	for stem := range r.byStem {
		sort.Strings(r.byStem[stem])
	}
	for dir := range r.byDir {
		sort.Strings(r.byDir[dir])
	}
	return r
}

// stemOf returns the basename without its extension.
func stemOf(p string) string {
	base := path.Base(p)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// resolve classifies a token from source as internal, external, or
// unresolved. Resolution never fails hard; an unresolved token degrades
// to a statistic on the module.
func (r *resolver) resolve(source string, l lang.Language, token string) (ResolutionKind, string) {
	if token == "" {
		return KindUnresolved, ""
	}

	if isRelativeToken(token) {
		if target, ok := r.resolveRelative(source, l, token); ok {
			return KindInternal, target
		}
		// A path-shaped token that resolves nowhere is a dangling repo
		// reference, not an external package.
		return KindUnresolved, ""
	}

	if l == lang.LangGo && r.goModule != "" {
		if rest, ok := strings.CutPrefix(token, r.goModule+"/"); ok {
			if target, ok := r.resolvePackage(source, l, rest); ok {
				return KindInternal, target
			}
			if target, ok := r.resolveDir(rest); ok {
				return KindInternal, target
			}
			// Names this module but matches no catalog file.
			return KindUnresolved, ""
		}
	}

	if target, ok := r.resolvePackage(source, l, token); ok {
		return KindInternal, target
	}

	// A token whose first segment names a catalog directory is a dangling
	// internal reference, not an external package.
	if r.topDirs[firstSegment(l, token)] {
		return KindUnresolved, ""
	}

	if looksExternal(l, token) {
		return KindExternal, ""
	}
	return KindUnresolved, ""
}

// firstSegment returns the leading component of a dotted, slashed, or
// namespaced token.
func firstSegment(l lang.Language, token string) string {
	switch l {
	case lang.LangPython, lang.LangJava:
		return strings.SplitN(token, ".", 2)[0]
	case lang.LangRust:
		return strings.SplitN(token, "::", 2)[0]
	case lang.LangPHP:
		return strings.SplitN(token, "\\", 2)[0]
	default:
		return strings.SplitN(token, "/", 2)[0]
	}
}

func isRelativeToken(token string) bool {
	return strings.HasPrefix(token, "./") ||
		strings.HasPrefix(token, "../") ||
		strings.HasPrefix(token, "/") ||
		strings.HasPrefix(token, ".")
}

// resolveRelative joins the token to the source module's directory and
// matches the nearest eligible file: exact, file plus extension, or a
// directory entry file. Case-sensitive first, case-insensitive fallback.
func (r *resolver) resolveRelative(source string, l lang.Language, token string) (string, bool) {
	dir := path.Dir(source)
	if dir == "." {
		dir = ""
	}

	// Python relative imports use leading dots, not slashes.
	if l == lang.LangPython && strings.HasPrefix(token, ".") && !strings.HasPrefix(token, "./") && !strings.HasPrefix(token, "../") {
		token = pythonRelative(dir, token)
		if token == "" {
			return "", false
		}
		dir = ""
	}

	joined := path.Clean(path.Join(dir, strings.TrimPrefix(token, "/")))

	for _, cand := range r.expandCandidates(joined, l) {
		if r.paths[cand] {
			return cand, true
		}
	}
	for _, cand := range r.expandCandidates(joined, l) {
		if canonical, ok := r.lower[strings.ToLower(cand)]; ok {
			return canonical, true
		}
	}
	return "", false
}

// pythonRelative rewrites a dotted relative module ("..sub.mod") into a
// catalog-style path rooted at the source directory.
func pythonRelative(dir, token string) string {
	ups := 0
	for ups < len(token) && token[ups] == '.' {
		ups++
	}
	rest := strings.ReplaceAll(token[ups:], ".", "/")

	for i := 1; i < ups; i++ {
		if dir == "" || dir == "." {
			return ""
		}
		dir = path.Dir(dir)
		if dir == "." {
			dir = ""
		}
	}
	if rest == "" {
		return dir
	}
	return path.Join(dir, rest)
}

// expandCandidates lists the catalog paths a joined token could name:
// the exact path, the path with each language extension appended, and
// the token as a directory holding an entry file.
func (r *resolver) expandCandidates(joined string, l lang.Language) []string {
	cands := []string{joined}
	for _, ext := range lang.Extensions(l) {
		cands = append(cands, joined+ext)
	}
	for _, idx := range lang.IndexNames(l) {
		cands = append(cands, path.Join(joined, idx))
	}
	return cands
}

// resolvePackage walks the token as a dotted or slashed path against the
// catalog from the repository root, then falls back to suffix matching.
// Ties break by shortest directory distance from the source module, then
// lexicographic order, so results are deterministic across runs.
func (r *resolver) resolvePackage(source string, l lang.Language, token string) (string, bool) {
	slashed := token
	switch l {
	case lang.LangPython, lang.LangJava:
		slashed = strings.ReplaceAll(token, ".", "/")
	case lang.LangRust:
		slashed = strings.ReplaceAll(token, "::", "/")
		slashed = strings.TrimPrefix(slashed, "crate/")
	case lang.LangPHP:
		slashed = strings.ReplaceAll(token, "\\", "/")
	}

	// Progressively shorter prefixes: "a.b.c" may be a module a/b/c.py,
	// a package a/b with c a symbol, or a top-level module a.py.
	parts := strings.Split(slashed, "/")
	for n := len(parts); n >= 1; n-- {
		prefix := strings.Join(parts[:n], "/")
		for _, cand := range r.expandCandidates(prefix, l) {
			if r.paths[cand] {
				return cand, true
			}
		}
		// Root search also applies relative to the source directory,
		// mirroring how sibling imports resolve without a package prefix.
		if dir := path.Dir(source); dir != "." {
			for _, cand := range r.expandCandidates(path.Join(dir, prefix), l) {
				if r.paths[cand] {
					return cand, true
				}
			}
		}
	}

	// Suffix match on the final segment, e.g. "util" against both
	// pkg/util.py and pkg/sub/util.py.
	last := parts[len(parts)-1]
	matches := r.byStem[last]
	if len(matches) == 0 {
		if canonical, ok := r.lower[strings.ToLower(slashed)]; ok {
			return canonical, true
		}
		return "", false
	}

	// Keep only matches whose trailing directories agree with the token.
	var eligible []string
	want := strings.Join(parts, "/")
	for _, m := range matches {
		if m == source {
			continue
		}
		noExt := strings.TrimSuffix(m, path.Ext(m))
		if noExt == want || strings.HasSuffix(noExt, "/"+want) {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	if len(eligible) == 1 {
		return eligible[0], true
	}

	sort.Slice(eligible, func(i, j int) bool {
		di, dj := dirDistance(source, eligible[i]), dirDistance(source, eligible[j])
		if di != dj {
			return di < dj
		}
		return eligible[i] < eligible[j]
	})
	return eligible[0], true
}

// resolveDir maps a package directory to a representative file: the one
// named after the directory when present, else the first in sorted order.
func (r *resolver) resolveDir(dir string) (string, bool) {
	files := r.byDir[dir]
	if len(files) == 0 {
		return "", false
	}
	base := path.Base(dir)
	for _, f := range files {
		if stemOf(f) == base {
			return f, true
		}
	}
	return files[0], true
}

// dirDistance counts directory hops between two paths after stripping
// their common prefix.
func dirDistance(a, b string) int {
	da := strings.Split(path.Dir(a), "/")
	db := strings.Split(path.Dir(b), "/")
	if path.Dir(a) == "." {
		da = nil
	}
	if path.Dir(b) == "." {
		db = nil
	}

	common := 0
	for common < len(da) && common < len(db) && da[common] == db[common] {
		common++
	}
	return (len(da) - common) + (len(db) - common)
}

// pythonStdlib is the subset of standard modules that show up in real
// import statements often enough to matter for classification.
var pythonStdlib = map[string]bool{
	"abc": true, "argparse": true, "ast": true, "asyncio": true, "base64": true,
	"collections": true, "contextlib": true, "copy": true, "csv": true,
	"dataclasses": true, "datetime": true, "enum": true, "functools": true,
	"glob": true, "hashlib": true, "heapq": true, "io": true, "itertools": true,
	"json": true, "logging": true, "math": true, "os": true, "pathlib": true,
	"pickle": true, "random": true, "re": true, "shutil": true, "socket": true,
	"sqlite3": true, "string": true, "struct": true, "subprocess": true,
	"sys": true, "tempfile": true, "threading": true, "time": true,
	"typing": true, "unittest": true, "urllib": true, "uuid": true,
	"warnings": true, "xml": true, "zipfile": true,
}

var packageShape = regexp.MustCompile(`^[\w@][\w.\-]*(?:[/:\\][\w.\-]+)*$`)

// looksExternal reports whether an unmatched token names a standard
// library or third-party package rather than a dangling repo reference.
func looksExternal(l lang.Language, token string) bool {
	switch l {
	case lang.LangPython:
		base := strings.SplitN(token, ".", 2)[0]
		if pythonStdlib[base] {
			return true
		}
	case lang.LangGo:
		// Catalog misses are stdlib or module imports either way.
		return true
	case lang.LangC, lang.LangCPP:
		// Catalog misses on #include are system headers.
		return true
	}
	return packageShape.MatchString(token)
}
