package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to interpret results.

func describeGraph() string {
	return `Builds a file-level dependency graph by extracting import statements across the codebase.

USE WHEN:
- Understanding how modules in an unfamiliar codebase relate
- Measuring coupling before splitting a package or service
- Finding the most depended-upon files ahead of a risky change
- Exporting a graph for visualization (markdown output includes Mermaid)

INTERPRETING RESULTS:
- Edges point from importer to imported; count is the number of references
- external_refs are imports of third-party or standard-library packages
- unresolved_refs name internal-looking targets that do not exist in the scan
- isolated_modules have no internal edges in either direction
- With include_metrics: PageRank ranks structural importance, largest_scc > 1
  means circular dependencies exist

METRICS RETURNED:
- Modules: path, language, size, lines, entry/test/example classification
- Edges: from, to, reference count, earliest line
- Cycles: elementary circular dependency chains
- Summary: totals for modules, edges, external and unresolved references`
}

func describeDeadcode() string {
	return `Identifies source files unreachable from any entry point, test, or example.

USE WHEN:
- Cleaning up after a feature removal or large refactor
- Auditing a codebase for orphaned modules before a migration
- Estimating how many lines and bytes a cleanup would remove

INTERPRETING RESULTS:
- Confidence high: no importers and no lowering signals, strongest candidates
- Confidence medium: one lowering signal (plugin-style name, script directory,
  or dynamic import patterns in the file)
- Confidence low: multiple signals, or the file's name appears in a string
  literal elsewhere (likely loaded dynamically)
- Reasons list every signal that shaped the confidence, in evaluation order
- Warnings list files skipped during the scan so totals stay auditable

METRICS RETURNED:
- Candidates: path, confidence, reasons, lines, size
- Summary: candidate count and potential savings in lines and bytes

Note: Dynamic imports, reflection, and external consumers can cause false
positives. Treat candidates as review queue entries, not a deletion list.`
}

func describeCycles() string {
	return `Detects circular import chains between files.

USE WHEN:
- Diagnosing import errors or initialization-order bugs
- Untangling modules before extracting a package
- Enforcing layering rules in CI

INTERPRETING RESULTS:
- Each cycle is an elementary chain; the last module imports the first
- Cycles are sorted shortest first; short cycles are usually easiest to break
- The same pair of modules can appear in several longer cycles

METRICS RETURNED:
- Cycles: ordered module paths, starting at the lexicographically smallest
- Summary: cycle count alongside overall graph totals`
}
