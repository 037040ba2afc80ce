package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"schema-flattener/internal/core"
)

// Validate runs every pass of a transform without probing namespaces and
// without writing an artifact.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	inputPath := strings.TrimSpace(req.InputPath)
	if inputPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("input schema path is required")
	}
	logger := log.Logger.With().Str("run_id", s.NewRunID()).Logger()
	ctx = logger.WithContext(ctx)

	loaded, policy, err := s.prepare(ctx, inputPath, req.PrefixOverlays, req.Encoding, req.InlineClasses)
	if err != nil {
		return ValidateResult{}, err
	}
	result, err := core.NewFlattener(nil, policy).Flatten(ctx, loaded.Schema)
	if err != nil {
		return ValidateResult{}, err
	}
	logDiagnostics(ctx, result.Diagnostics)
	return ValidateResult{
		SchemaName:  loaded.Schema.Name,
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
	}, nil
}
