package deps

// Module represents one analyzed source file, the graph's node type.
// Identity is the catalog path and is fixed for the lifetime of a run.
type Module struct {
	Path           string `json:"path" toon:"path"`
	Lang           string `json:"lang" toon:"lang"`
	Size           int64  `json:"size" toon:"size"`
	Lines          int    `json:"lines" toon:"lines"`
	ContentHash    string `json:"content_hash,omitempty" toon:"content_hash,omitempty"`
	IsEntry        bool   `json:"is_entry,omitempty" toon:"is_entry,omitempty"`
	IsTest         bool   `json:"is_test,omitempty" toon:"is_test,omitempty"`
	IsExample      bool   `json:"is_example,omitempty" toon:"is_example,omitempty"`
	HasDynamicRefs bool   `json:"has_dynamic_refs,omitempty" toon:"has_dynamic_refs,omitempty"`
	ExternalRefs   int    `json:"external_refs" toon:"external_refs"`
	UnresolvedRefs int    `json:"unresolved_refs" toon:"unresolved_refs"`
	RootReason     string `json:"root_reason,omitempty" toon:"root_reason,omitempty"`
}

// ResolutionKind classifies where a reference token points.
type ResolutionKind string

const (
	KindInternal   ResolutionKind = "internal"
	KindExternal   ResolutionKind = "external"
	KindUnresolved ResolutionKind = "unresolved"
)

// Reference is one raw mention of an import target inside a module.
type Reference struct {
	Source string         `json:"source" toon:"source"`
	Token  string         `json:"token" toon:"token"`
	Line   int            `json:"line" toon:"line"`
	Kind   ResolutionKind `json:"kind" toon:"kind"`
	Target string         `json:"target,omitempty" toon:"target,omitempty"`
}

// Edge is a directed dependency between two modules. Parallel references
// between the same ordered pair collapse into one edge; Count records how
// many references contributed and Line the earliest one.
type Edge struct {
	From  string `json:"from" toon:"from"`
	To    string `json:"to" toon:"to"`
	Count int    `json:"count" toon:"count"`
	Line  int    `json:"line" toon:"line"`
}

// Cycle is one elementary circular dependency, normalized to start at its
// lexicographically smallest module path.
type Cycle struct {
	Paths []string `json:"paths" toon:"paths"`
}

// Len returns the number of modules in the cycle.
func (c Cycle) Len() int { return len(c.Paths) }

// Confidence is the qualitative certainty that a candidate is unused.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns the confidence level as its underlying string.
func (c Confidence) String() string { return string(c) }

// downgrade lowers a confidence by one level, flooring at low.
func (c Confidence) downgrade() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// rank orders confidences for sorting, highest first.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// Candidate is a module unreachable from every root, with the signals
// that shaped its confidence in evaluation order.
type Candidate struct {
	Path       string     `json:"path" toon:"path"`
	Confidence Confidence `json:"confidence" toon:"confidence"`
	Reasons    []string   `json:"reasons" toon:"reasons"`
	Size       int64      `json:"size" toon:"size"`
	Lines      int        `json:"lines" toon:"lines"`
}

// Warning records a non-fatal skip or drop during the run. Every discarded
// reference or skipped file surfaces here so summary totals stay auditable.
type Warning struct {
	Path   string `json:"path" toon:"path"`
	Reason string `json:"reason" toon:"reason"`
}

// Summary aggregates counts for the whole run.
type Summary struct {
	TotalModules    int   `json:"total_modules" toon:"total_modules"`
	InternalEdges   int   `json:"internal_edges" toon:"internal_edges"`
	ExternalRefs    int   `json:"external_refs" toon:"external_refs"`
	UnresolvedRefs  int   `json:"unresolved_refs" toon:"unresolved_refs"`
	IsolatedModules int   `json:"isolated_modules" toon:"isolated_modules"`
	RootModules     int   `json:"root_modules" toon:"root_modules"`
	SkippedFiles    int   `json:"skipped_files" toon:"skipped_files"`
	DroppedRefs     int   `json:"dropped_refs" toon:"dropped_refs"`
	CycleCount      int   `json:"cycle_count" toon:"cycle_count"`
	CandidateCount  int   `json:"candidate_count" toon:"candidate_count"`
	SavingsLines    int   `json:"potential_savings_lines" toon:"potential_savings_lines"`
	SavingsBytes    int64 `json:"potential_savings_bytes" toon:"potential_savings_bytes"`
}

// Analysis is the full result of one engine run.
type Analysis struct {
	Graph      *Graph      `json:"graph" toon:"graph"`
	Cycles     []Cycle     `json:"cycles" toon:"cycles"`
	Candidates []Candidate `json:"candidates" toon:"candidates"`
	Summary    Summary     `json:"summary" toon:"summary"`
	Warnings   []Warning   `json:"warnings,omitempty" toon:"warnings,omitempty"`
	Metrics    *Metrics    `json:"metrics,omitempty" toon:"metrics,omitempty"`
	// Partial is set when cancellation stopped submission before every
	// catalog file was processed. Merged results remain consistent.
	Partial bool `json:"partial,omitempty" toon:"partial,omitempty"`
}
