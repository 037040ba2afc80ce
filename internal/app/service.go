package app

import (
	"time"

	"github.com/google/uuid"

	"schema-flattener/internal/adapters"
	"schema-flattener/internal/ports"
)

type Service struct {
	SchemaLoader   ports.SchemaLoaderPort
	PrefixOverlay  ports.PrefixOverlayPort
	Reachability   func(checksPerSecond float64) ports.ReachabilityPort
	ArtifactWriter ports.ArtifactWriterPort
	ArtifactReader ports.ArtifactReaderPort
	ReportWriter   ports.ReportWriterPort
	MetricsWriter  ports.MetricsWriterPort
	Clock          func() time.Time
	NewRunID       func() string
}

func NewService() Service {
	return Service{
		SchemaLoader:   adapters.NewSchemaFileAdapter(adapters.NewSchemaShapeValidator()),
		PrefixOverlay:  adapters.NewPrefixOverlayAdapter(),
		Reachability:   newHTTPReachability,
		ArtifactWriter: adapters.NewArtifactFileAdapter(),
		ArtifactReader: adapters.NewArtifactReaderAdapter(),
		ReportWriter:   adapters.NewReportFileAdapter(),
		MetricsWriter:  adapters.NewMetricsFileAdapter(),
		Clock:          time.Now,
		NewRunID:       uuid.NewString,
	}
}

func newHTTPReachability(checksPerSecond float64) ports.ReachabilityPort {
	return adapters.NewHTTPReachabilityAdapter(checksPerSecond)
}
