package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"schema-flattener/internal/core"
	"schema-flattener/internal/policies"
	"schema-flattener/internal/types"
)

const (
	expandedSuffix  = ".expanded"
	processedSuffix = ".processed.json"
)

func (s Service) Transform(ctx context.Context, req TransformRequest) (TransformResult, error) {
	inputPath := strings.TrimSpace(req.InputPath)
	if inputPath == "" {
		return TransformResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("input schema path is required")
	}
	outputPath := strings.TrimSpace(req.OutputPath)
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}
	if samePath(inputPath, outputPath) {
		return TransformResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path must differ from input path: " + outputPath)
	}
	if req.HTTPTimeoutSec < 0 {
		return TransformResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("http timeout must not be negative")
	}
	emitHints(transformHints(req))

	started := s.Clock()
	runID := s.NewRunID()
	logger := log.Logger.With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	loaded, policy, err := s.prepare(ctx, inputPath, req.PrefixOverlays, req.Encoding, req.InlineClasses)
	if err != nil {
		return TransformResult{}, err
	}

	flattener := core.NewFlattener(nil, policy)
	if req.ValidateURLs {
		flattener.Reachability = s.Reachability(req.ChecksPerSecond)
		flattener.ValidateURLs = true
	}
	if req.HTTPTimeoutSec > 0 {
		flattener.CheckTimeout = time.Duration(req.HTTPTimeoutSec) * time.Second
	}
	result, err := flattener.Flatten(ctx, loaded.Schema)
	if err != nil {
		return TransformResult{}, err
	}

	staged, err := s.ArtifactWriter.StageArtifact(outputPath, result.Schema)
	if err != nil {
		return TransformResult{}, err
	}
	summary := core.WithSizes(result.Summary, loaded.SizeBytes, staged.Size())
	logDiagnostics(ctx, result.Diagnostics)

	report := types.RunReport{
		RunID:       runID,
		Input:       inputPath,
		Output:      outputPath,
		StartedAt:   started.UTC().Format(time.RFC3339),
		DurationMs:  s.Clock().Sub(started).Milliseconds(),
		Summary:     summary,
		Diagnostics: result.Diagnostics,
	}
	// The artifact only replaces outputPath once every side file is written,
	// so a failed run leaves no artifact behind.
	if err := s.writeRunFiles(req, report); err != nil {
		if discardErr := staged.Discard(); discardErr != nil {
			log.Ctx(ctx).Warn().Err(discardErr).Str("output", outputPath).Msg("failed to remove pending artifact")
		}
		return TransformResult{}, err
	}
	if err := staged.Commit(); err != nil {
		return TransformResult{}, err
	}

	log.Ctx(ctx).Info().
		Str("output", outputPath).
		Int("classes", summary.Classes).
		Int("base_fields", summary.BaseFields).
		Int("override_fields", summary.OverrideFields).
		Int("enums", summary.Enums).
		Int("types_kept", summary.TypesKept).
		Int("types_dropped", summary.TypesDropped).
		Int64("input_bytes", summary.InputBytes).
		Int64("output_bytes", summary.OutputBytes).
		Float64("size_reduction_pct", summary.SizeReductionPct).
		Int("diagnostics", result.Diagnostics.Count()).
		Msg("schema transformed")

	return TransformResult{
		RunID:       runID,
		SchemaName:  result.Schema.Name,
		OutputPath:  outputPath,
		Summary:     summary,
		Diagnostics: result.Diagnostics,
	}, nil
}

func (s Service) writeRunFiles(req TransformRequest, report types.RunReport) error {
	if path := strings.TrimSpace(req.ReportPath); path != "" {
		if err := s.ReportWriter.WriteReport(path, report); err != nil {
			return err
		}
	}
	if path := strings.TrimSpace(req.MetricsPath); path != "" {
		if err := s.MetricsWriter.WriteMetrics(path, report); err != nil {
			return err
		}
	}
	return nil
}

// prepare loads the input document, applies prefix overlays on top of its
// prefixes and compiles the encoding policy.
func (s Service) prepare(ctx context.Context, inputPath string, overlays []string, encoding string, inlineClasses []string) (types.LoadedSchema, policies.EncodingPolicy, error) {
	policy, err := policies.NewEncodingPolicy(encoding, inlineClasses)
	if err != nil {
		return types.LoadedSchema{}, policies.EncodingPolicy{}, err
	}
	loaded, err := s.SchemaLoader.LoadSchema(ctx, inputPath)
	if err != nil {
		return types.LoadedSchema{}, policies.EncodingPolicy{}, err
	}
	if len(overlays) > 0 {
		overlay, err := s.PrefixOverlay.LoadOverlays(overlays)
		if err != nil {
			return types.LoadedSchema{}, policies.EncodingPolicy{}, err
		}
		loaded.Schema.Prefixes = core.MergePrefixes(loaded.Schema.Prefixes, overlay)
		log.Ctx(ctx).Debug().Int("overlays", len(overlays)).Int("prefixes", loaded.Schema.Prefixes.Len()).Msg("prefix overlays applied")
	}
	return loaded, policy, nil
}

// DefaultOutputPath places the artifact next to the input, replacing an
// ".expanded" stem suffix with ".processed".
func DefaultOutputPath(inputPath string) string {
	dir, base := filepath.Split(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.TrimSuffix(stem, expandedSuffix)
	return filepath.Join(dir, stem+processedSuffix)
}

func samePath(a string, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// logDiagnostics emits one warning per kind of soft condition.
func logDiagnostics(ctx context.Context, diag types.Diagnostics) {
	logger := log.Ctx(ctx)
	warnList(logger, "namespaces", diag.InvalidNamespaces, "prefixes used but not declared")
	warnList(logger, "namespaces", diag.FailedNamespaces(), "namespace URLs not reachable")
	warnList(logger, "overrides", diag.DanglingOverrides, "slot_usage entries without attribute")
	warnList(logger, "overrides", diag.OrphanOverrides, "override fields without base field")
	warnList(logger, "fields", diag.FieldConflicts, "conflicting attribute definitions")
	if diag.InvalidVersion != "" {
		logger.Warn().Str("version", diag.InvalidVersion).Msg("schema version kept verbatim")
	}
}

func warnList(logger *zerolog.Logger, key string, values []string, msg string) {
	if len(values) == 0 {
		return
	}
	logger.Warn().Strs(key, values).Int("count", len(values)).Msg(msg)
}
