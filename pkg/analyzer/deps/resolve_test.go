package deps

import (
	"testing"

	"github.com/vestigehq/vestige/pkg/lang"
)

func TestResolveRootModule(t *testing.T) {
	r := newResolver([]string{"main.py", "util.py", "pkg/__init__.py", "pkg/sub.py"})

	kind, target := r.resolve("main.py", lang.LangPython, "util")
	if kind != KindInternal || target != "util.py" {
		t.Errorf("resolve(util) = %s %s, want internal util.py", kind, target)
	}

	kind, target = r.resolve("main.py", lang.LangPython, "pkg")
	if kind != KindInternal || target != "pkg/__init__.py" {
		t.Errorf("resolve(pkg) = %s %s, want internal pkg/__init__.py", kind, target)
	}

	kind, target = r.resolve("main.py", lang.LangPython, "pkg.sub")
	if kind != KindInternal || target != "pkg/sub.py" {
		t.Errorf("resolve(pkg.sub) = %s %s, want internal pkg/sub.py", kind, target)
	}
}

func TestResolveDottedPrefix(t *testing.T) {
	// pkg.sub.SomeClass: the module is pkg/sub.py, the tail is a symbol.
	r := newResolver([]string{"pkg/sub.py", "main.py"})

	kind, target := r.resolve("main.py", lang.LangPython, "pkg.sub.SomeClass")
	if kind != KindInternal || target != "pkg/sub.py" {
		t.Errorf("got %s %s, want internal pkg/sub.py", kind, target)
	}
}

func TestResolveRelativeJS(t *testing.T) {
	r := newResolver([]string{"src/app.js", "src/util.js", "src/widgets/index.js", "shared/thing.js"})

	kind, target := r.resolve("src/app.js", lang.LangJavaScript, "./util")
	if kind != KindInternal || target != "src/util.js" {
		t.Errorf("got %s %s, want internal src/util.js", kind, target)
	}

	kind, target = r.resolve("src/app.js", lang.LangJavaScript, "./widgets")
	if kind != KindInternal || target != "src/widgets/index.js" {
		t.Errorf("got %s %s, want internal src/widgets/index.js", kind, target)
	}

	kind, target = r.resolve("src/app.js", lang.LangJavaScript, "../shared/thing")
	if kind != KindInternal || target != "shared/thing.js" {
		t.Errorf("got %s %s, want internal shared/thing.js", kind, target)
	}
}

func TestResolvePythonDottedRelative(t *testing.T) {
	r := newResolver([]string{"pkg/a.py", "pkg/b.py", "pkg/sub/c.py", "top.py"})

	kind, target := r.resolve("pkg/a.py", lang.LangPython, ".b")
	if kind != KindInternal || target != "pkg/b.py" {
		t.Errorf("got %s %s, want internal pkg/b.py", kind, target)
	}

	kind, target = r.resolve("pkg/sub/c.py", lang.LangPython, "..b")
	if kind != KindInternal || target != "pkg/b.py" {
		t.Errorf("got %s %s, want internal pkg/b.py", kind, target)
	}
}

func TestResolveCaseInsensitiveFallback(t *testing.T) {
	r := newResolver([]string{"src/Helper.js", "src/app.js"})

	kind, target := r.resolve("src/app.js", lang.LangJavaScript, "./helper")
	if kind != KindInternal || target != "src/Helper.js" {
		t.Errorf("got %s %s, want internal src/Helper.js", kind, target)
	}
}

func TestResolveSuffixTieBreak(t *testing.T) {
	// Both pkg/util.py and pkg/sub/util.py match by suffix; the winner is
	// the one fewer directory hops away, then lexicographic.
	catalog := []string{"pkg/util.py", "pkg/sub/util.py", "src/x.py"}

	for i := 0; i < 5; i++ {
		r := newResolver(catalog)
		kind, target := r.resolve("src/x.py", lang.LangPython, "util")
		if kind != KindInternal || target != "pkg/util.py" {
			t.Fatalf("run %d: got %s %s, want internal pkg/util.py", i, kind, target)
		}
	}
}

func TestResolveExternal(t *testing.T) {
	r := newResolver([]string{"main.py"})

	kind, _ := r.resolve("main.py", lang.LangPython, "os")
	if kind != KindExternal {
		t.Errorf("os should be external, got %s", kind)
	}

	kind, _ = r.resolve("main.py", lang.LangPython, "numpy")
	if kind != KindExternal {
		t.Errorf("numpy should be external, got %s", kind)
	}
}

func TestResolveDanglingInternal(t *testing.T) {
	r := newResolver([]string{"pkg/mod.py", "main.py"})

	kind, _ := r.resolve("main.py", lang.LangPython, "pkg.gone")
	if kind != KindUnresolved {
		t.Errorf("dangling catalog-directory ref should be unresolved, got %s", kind)
	}
}

func TestResolveRelativeMissIsUnresolved(t *testing.T) {
	r := newResolver([]string{"src/app.js"})

	kind, _ := r.resolve("src/app.js", lang.LangJavaScript, "./missing")
	if kind != KindUnresolved {
		t.Errorf("unmatched relative path should be unresolved, got %s", kind)
	}
}

func TestResolveGoAlwaysExternalOnMiss(t *testing.T) {
	r := newResolver([]string{"cmd/main.go"})

	kind, _ := r.resolve("cmd/main.go", lang.LangGo, "fmt")
	if kind != KindExternal {
		t.Errorf("fmt should be external, got %s", kind)
	}

	kind, _ = r.resolve("cmd/main.go", lang.LangGo, "github.com/fatih/color")
	if kind != KindExternal {
		t.Errorf("module import should be external, got %s", kind)
	}
}

func TestResolveGoModulePrefix(t *testing.T) {
	r := newResolver([]string{"cmd/main.go", "internal/store/store.go", "internal/store/index.go", "internal/web/handler.go"})
	r.goModule = "example.com/acme"

	kind, target := r.resolve("cmd/main.go", lang.LangGo, "example.com/acme/internal/store")
	if kind != KindInternal || target != "internal/store/store.go" {
		t.Errorf("got %s %q, want internal internal/store/store.go", kind, target)
	}

	// No file named after the directory: first in sorted order.
	kind, target = r.resolve("cmd/main.go", lang.LangGo, "example.com/acme/internal/web")
	if kind != KindInternal || target != "internal/web/handler.go" {
		t.Errorf("got %s %q, want internal internal/web/handler.go", kind, target)
	}

	// Carries the module prefix but names no catalog directory.
	kind, _ = r.resolve("cmd/main.go", lang.LangGo, "example.com/acme/internal/gone")
	if kind != KindUnresolved {
		t.Errorf("missing module-local package should be unresolved, got %s", kind)
	}

	// Other modules stay external.
	kind, _ = r.resolve("cmd/main.go", lang.LangGo, "example.com/other/pkg")
	if kind != KindExternal {
		t.Errorf("foreign module import should be external, got %s", kind)
	}
}

func TestDirDistance(t *testing.T) {
	if d := dirDistance("src/x.py", "pkg/util.py"); d != 2 {
		t.Errorf("dirDistance = %d, want 2", d)
	}
	if d := dirDistance("src/x.py", "pkg/sub/util.py"); d != 3 {
		t.Errorf("dirDistance = %d, want 3", d)
	}
	if d := dirDistance("pkg/a.py", "pkg/b.py"); d != 0 {
		t.Errorf("same dir distance = %d, want 0", d)
	}
}
