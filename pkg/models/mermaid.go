package models

import (
	"strconv"
	"strings"
)

// ToMermaid generates Mermaid diagram syntax for the graph. Entry points are
// drawn as stadium nodes and edges carrying more than one reference are
// labeled with their count.
func (g *GraphReport) ToMermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, m := range g.Modules {
		id := sanitizeMermaidID(m.Path)
		label := escapeMermaidLabel(m.Path)
		if m.IsEntry {
			b.WriteString("    " + id + "([\"" + label + "\"])\n")
		} else {
			b.WriteString("    " + id + "[\"" + label + "\"]\n")
		}
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if e.Count > 1 {
			arrow = "-->|x" + strconv.Itoa(e.Count) + "|"
		}
		b.WriteString("    " + sanitizeMermaidID(e.From) + " " + arrow + " " + sanitizeMermaidID(e.To) + "\n")
	}

	return b.String()
}

// sanitizeMermaidID makes an ID safe for Mermaid node syntax.
func sanitizeMermaidID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, c := range id {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// escapeMermaidLabel makes a label safe inside a quoted Mermaid node.
func escapeMermaidLabel(label string) string {
	label = strings.ReplaceAll(label, "\"", "'")
	return strings.ReplaceAll(label, "\n", " ")
}
