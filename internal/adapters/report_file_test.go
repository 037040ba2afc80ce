package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"schema-flattener/internal/types"
)

func sampleReport() types.RunReport {
	return types.RunReport{
		RunID:      "5f0c6f8e-2d7c-4d47-9a57-3b1f0c1d9e2a",
		Input:      "demo.expanded.json",
		Output:     "demo.processed.json",
		StartedAt:  "2025-06-15T10:30:00Z",
		DurationMs: 1500,
		Summary: types.RunSummary{
			Classes:          2,
			BaseFields:       2,
			OverrideFields:   1,
			Enums:            1,
			TypesKept:        1,
			TypesDropped:     1,
			InputBytes:       1000,
			OutputBytes:      400,
			SizeReductionPct: 60,
		},
		Diagnostics: types.Diagnostics{
			InvalidNamespaces: []string{"xsd"},
			NamespaceChecks: map[string]types.NamespaceCheck{
				"obo": {URL: "http://purl.obolibrary.org/obo/NCIT_C1", Reachable: false},
			},
			DanglingOverrides: []string{"Sample.missing"},
		},
	}
}

func TestReportFileAdapterWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, NewReportFileAdapter().WriteReport(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded types.RunReport
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Equal(t, sampleReport(), decoded)
	require.Contains(t, string(data), "invalid_namespaces:")
	require.NotContains(t, string(data), "orphan_overrides")
}

func TestMetricsFileAdapterWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "schema_flattener.prom")
	require.NoError(t, NewMetricsFileAdapter().WriteMetrics(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	for _, line := range []string{
		`schema_flattener_artifact_entries{kind="classes"} 2`,
		`schema_flattener_artifact_entries{kind="override_fields"} 1`,
		`schema_flattener_document_bytes{document="input"} 1000`,
		`schema_flattener_size_reduction_percent 60`,
		`schema_flattener_diagnostics{kind="failed_namespaces"} 1`,
		`schema_flattener_diagnostics{kind="invalid_version"} 0`,
		`schema_flattener_run_duration_seconds 1.5`,
		`schema_flattener_last_run_timestamp_seconds 1.7499834e+09`,
	} {
		require.True(t, strings.Contains(content, line), "missing %q in:\n%s", line, content)
	}
}
