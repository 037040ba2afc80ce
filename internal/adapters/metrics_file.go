package adapters

import (
	"bytes"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

const metricsNamespace = "schema_flattener"

// MetricsFileAdapter exports one run as a Prometheus text file, for
// pickup by a node exporter textfile collector.
type MetricsFileAdapter struct{}

func NewMetricsFileAdapter() MetricsFileAdapter {
	return MetricsFileAdapter{}
}

func (a MetricsFileAdapter) WriteMetrics(path string, report types.RunReport) error {
	registry := prometheus.NewRegistry()

	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "artifact_entries",
		Help:      "Entries in the processed artifact by kind.",
	}, []string{"kind"})
	sizes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "document_bytes",
		Help:      "Size of the input document and the written artifact.",
	}, []string{"document"})
	reduction := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "size_reduction_percent",
		Help:      "Artifact size reduction relative to the input document.",
	})
	diagnostics := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "diagnostics",
		Help:      "Soft conditions recorded during the run by kind.",
	}, []string{"kind"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the run.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the run started.",
	})
	registry.MustRegister(entries, sizes, reduction, diagnostics, duration, lastRun)

	summary := report.Summary
	entries.WithLabelValues("classes").Set(float64(summary.Classes))
	entries.WithLabelValues("base_fields").Set(float64(summary.BaseFields))
	entries.WithLabelValues("override_fields").Set(float64(summary.OverrideFields))
	entries.WithLabelValues("enums").Set(float64(summary.Enums))
	entries.WithLabelValues("types_kept").Set(float64(summary.TypesKept))
	entries.WithLabelValues("types_dropped").Set(float64(summary.TypesDropped))
	sizes.WithLabelValues("input").Set(float64(summary.InputBytes))
	sizes.WithLabelValues("output").Set(float64(summary.OutputBytes))
	reduction.Set(summary.SizeReductionPct)

	diag := report.Diagnostics
	diagnostics.WithLabelValues("invalid_namespaces").Set(float64(len(diag.InvalidNamespaces)))
	diagnostics.WithLabelValues("failed_namespaces").Set(float64(len(diag.FailedNamespaces())))
	diagnostics.WithLabelValues("dangling_overrides").Set(float64(len(diag.DanglingOverrides)))
	diagnostics.WithLabelValues("orphan_overrides").Set(float64(len(diag.OrphanOverrides)))
	diagnostics.WithLabelValues("field_conflicts").Set(float64(len(diag.FieldConflicts)))
	invalidVersion := 0.0
	if diag.InvalidVersion != "" {
		invalidVersion = 1
	}
	diagnostics.WithLabelValues("invalid_version").Set(invalidVersion)

	duration.Set(float64(report.DurationMs) / 1000)
	if started, err := time.Parse(time.RFC3339Nano, report.StartedAt); err == nil {
		lastRun.Set(float64(started.Unix()))
	}

	families, err := registry.Gather()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to gather run metrics").
			WithCause(err)
	}
	var buf bytes.Buffer
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, family); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode metrics file: " + path).
				WithCause(err)
		}
	}
	return writeFileAtomic(path, buf.Bytes())
}

var _ ports.MetricsWriterPort = MetricsFileAdapter{}
