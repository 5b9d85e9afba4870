package deps

import (
	"testing"

	"github.com/vestigehq/vestige/pkg/lang"
)

func tokens(ex extraction) []string {
	out := make([]string, 0, len(ex.Refs))
	for _, r := range ex.Refs {
		out = append(out, r.Token)
	}
	return out
}

func TestExtractPython(t *testing.T) {
	content := []byte("import os\nfrom pkg.sub import thing\nx = 1\n# import commented\n")
	ex := extract(lang.LangPython, content)

	got := tokens(ex)
	if len(got) != 2 || got[0] != "os" || got[1] != "pkg.sub" {
		t.Errorf("tokens = %v, want [os pkg.sub]", got)
	}
	if ex.Refs[0].Line != 1 || ex.Refs[1].Line != 2 {
		t.Errorf("lines = %d,%d, want 1,2", ex.Refs[0].Line, ex.Refs[1].Line)
	}
}

func TestExtractGoBlock(t *testing.T) {
	content := []byte(`package main

import (
	"fmt"
	alias "example.com/pkg"
	_ "embed"
)

import "os"
`)
	ex := extract(lang.LangGo, content)

	got := tokens(ex)
	want := []string{"fmt", "example.com/pkg", "embed", "os"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractJavaScript(t *testing.T) {
	content := []byte(`import React from 'react';
import './styles.css';
const util = require("./util");
export { thing } from "../shared/thing";
`)
	ex := extract(lang.LangJavaScript, content)

	got := tokens(ex)
	want := []string{"react", "./styles.css", "./util", "../shared/thing"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractRuby(t *testing.T) {
	content := []byte("require 'json'\nrequire_relative 'lib/helper'\n")
	ex := extract(lang.LangRuby, content)

	got := tokens(ex)
	if len(got) != 2 || got[0] != "json" || got[1] != "lib/helper" {
		t.Errorf("tokens = %v, want [json lib/helper]", got)
	}
}

func TestExtractCInclude(t *testing.T) {
	content := []byte("#include <stdio.h>\n#include \"local.h\"\n")
	ex := extract(lang.LangC, content)

	got := tokens(ex)
	if len(got) != 2 || got[0] != "stdio.h" || got[1] != "local.h" {
		t.Errorf("tokens = %v, want [stdio.h local.h]", got)
	}
}

func TestExtractDynamicPatterns(t *testing.T) {
	ex := extract(lang.LangPython, []byte("import importlib\nmod = importlib.import_module(name)\n"))
	if !ex.Dynamic {
		t.Error("importlib usage should set the dynamic flag")
	}

	ex = extract(lang.LangPython, []byte("import os\n"))
	if ex.Dynamic {
		t.Error("plain import should not set the dynamic flag")
	}
}

func TestExtractMainBlock(t *testing.T) {
	ex := extract(lang.LangPython, []byte("if __name__ == '__main__':\n    run()\n"))
	if !ex.MainBlock {
		t.Error("expected main block detection")
	}
}

func TestExtractQuotedStrings(t *testing.T) {
	ex := extract(lang.LangPython, []byte("PLUGIN = \"handlers/webhook\"\n"))
	if len(ex.Quoted) != 1 || ex.Quoted[0] != "handlers/webhook" {
		t.Errorf("quoted = %v, want [handlers/webhook]", ex.Quoted)
	}
}

func TestExtractStatementCounts(t *testing.T) {
	content := []byte("import a\nimport b\n\n# comment only\nimport c\n")
	ex := extract(lang.LangPython, content)
	if ex.Statements != 3 {
		t.Errorf("statements = %d, want 3", ex.Statements)
	}
	if len(ex.Refs) != 3 {
		t.Errorf("refs = %d, want 3", len(ex.Refs))
	}
}

func TestIsBinary(t *testing.T) {
	if !isBinary([]byte{0x7f, 'E', 'L', 'F', 0x00}) {
		t.Error("NUL byte should flag binary")
	}
	if isBinary([]byte("plain text\n")) {
		t.Error("text should not flag binary")
	}
}
