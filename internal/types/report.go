package types

import "sort"

// NamespaceCheck is the cached reachability verdict for one namespace,
// together with the single URL that was probed.
type NamespaceCheck struct {
	URL       string `yaml:"url"`
	Reachable bool   `yaml:"reachable"`
}

// Diagnostics aggregates the soft conditions of one run. None of them stop
// the artifact from being written.
type Diagnostics struct {
	InvalidNamespaces []string                  `yaml:"invalid_namespaces,omitempty"`
	NamespaceChecks   map[string]NamespaceCheck `yaml:"namespace_checks,omitempty"`
	DanglingOverrides []string                  `yaml:"dangling_overrides,omitempty"`
	OrphanOverrides   []string                  `yaml:"orphan_overrides,omitempty"`
	FieldConflicts    []string                  `yaml:"field_conflicts,omitempty"`
	InvalidVersion    string                    `yaml:"invalid_version,omitempty"`
}

// FailedNamespaces returns the namespaces whose probe URL was unreachable.
func (d Diagnostics) FailedNamespaces() []string {
	var failed []string
	for namespace, check := range d.NamespaceChecks {
		if !check.Reachable {
			failed = append(failed, namespace)
		}
	}
	sort.Strings(failed)
	return failed
}

// Count is the number of individual soft conditions recorded.
func (d Diagnostics) Count() int {
	count := len(d.InvalidNamespaces) + len(d.FailedNamespaces()) + len(d.DanglingOverrides) +
		len(d.OrphanOverrides) + len(d.FieldConflicts)
	if d.InvalidVersion != "" {
		count++
	}
	return count
}

// RunSummary carries the counts printed at the end of a run.
type RunSummary struct {
	Classes          int     `yaml:"classes"`
	BaseFields       int     `yaml:"base_fields"`
	OverrideFields   int     `yaml:"override_fields"`
	Enums            int     `yaml:"enums"`
	TypesKept        int     `yaml:"types_kept"`
	TypesDropped     int     `yaml:"types_dropped"`
	InputBytes       int64   `yaml:"input_bytes"`
	OutputBytes      int64   `yaml:"output_bytes"`
	SizeReductionPct float64 `yaml:"size_reduction_pct"`
}

// RunReport is the end-of-run document written next to the artifact.
type RunReport struct {
	RunID       string      `yaml:"run_id"`
	Input       string      `yaml:"input"`
	Output      string      `yaml:"output"`
	StartedAt   string      `yaml:"started_at"`
	DurationMs  int64       `yaml:"duration_ms"`
	Summary     RunSummary  `yaml:"summary"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}
