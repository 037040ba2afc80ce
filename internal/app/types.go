package app

import "schema-flattener/internal/types"

type TransformRequest struct {
	InputPath       string
	OutputPath      string
	ValidateURLs    bool
	HTTPTimeoutSec  int
	ChecksPerSecond float64
	Encoding        string
	InlineClasses   []string
	PrefixOverlays  []string
	ReportPath      string
	MetricsPath     string
}

type TransformResult struct {
	RunID       string
	SchemaName  string
	OutputPath  string
	Summary     types.RunSummary
	Diagnostics types.Diagnostics
}

type ValidateRequest struct {
	InputPath      string
	PrefixOverlays []string
	Encoding       string
	InlineClasses  []string
}

type ValidateResult struct {
	SchemaName  string
	Summary     types.RunSummary
	Diagnostics types.Diagnostics
}

type InspectRequest struct {
	ArtifactPath string
}

// InspectOverrideSummary lists the classes that narrow one base field.
type InspectOverrideSummary struct {
	Field   string
	Classes []string
}

type InspectResult struct {
	SchemaName      string
	Version         string
	Prefixes        int
	Classes         int
	AbstractClasses int
	GlobalFields    int
	BaseFields      int
	OverrideFields  int
	Enums           int
	Types           int
	Overrides       []InspectOverrideSummary
}
