package ports

import "schema-flattener/internal/types"

type ReportWriterPort interface {
	WriteReport(path string, report types.RunReport) error
}

type MetricsWriterPort interface {
	WriteMetrics(path string, report types.RunReport) error
}
