package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

// Flattener turns an expanded schema into the processed artifact. It holds
// no run state; every call to Flatten builds its own prefix resolver and
// diagnostics.
type Flattener struct {
	Reachability ports.ReachabilityPort
	Encoding     ports.EncodingPolicyPort
	ValidateURLs bool
	CheckTimeout time.Duration
}

type FlattenResult struct {
	Schema      types.ProcessedSchema
	Diagnostics types.Diagnostics
	Summary     types.RunSummary
}

func NewFlattener(reachability ports.ReachabilityPort, encoding ports.EncodingPolicyPort) Flattener {
	return Flattener{
		Reachability: reachability,
		Encoding:     encoding,
		CheckTimeout: DefaultCheckTimeout,
	}
}

// Flatten runs hierarchy, override, class, enum and type passes in that
// order. Any error aborts the run and no partial result is returned.
func (f Flattener) Flatten(ctx context.Context, schema types.ExpandedSchema) (FlattenResult, error) {
	hierarchy := BuildHierarchy(schema.Classes)
	if err := ensureAcyclic(schema.Classes.Keys, hierarchy); err != nil {
		return FlattenResult{}, err
	}
	log.Ctx(ctx).Debug().Int("classes", len(hierarchy)).Msg("class hierarchy built")

	diag := types.Diagnostics{}
	resolver := NewPrefixResolver(schema.Prefixes, f.Reachability, f.CheckTimeout)
	expand := resolver.Expander(f.ValidateURLs)

	fields := GlobalFields(schema.Slots)
	if err := MaterializeOverrides(ctx, schema.Classes, hierarchy, &fields, &diag); err != nil {
		return FlattenResult{}, err
	}
	classes, err := TransformClasses(ctx, schema.Classes, schema.Slots, hierarchy, f.Encoding, expand, &fields, &diag)
	if err != nil {
		return FlattenResult{}, err
	}
	diag.OrphanOverrides = orphanOverrides(fields)

	enums := TransformEnums(ctx, schema.Enums, expand)
	processedTypes, dropped := TransformTypes(ctx, schema.Types, UsedTypes(schema), expand)

	version, ok := NormalizeVersion(schema.Version)
	if !ok {
		diag.InvalidVersion = schema.Version
		log.Ctx(ctx).Warn().Str("version", schema.Version).Msg("schema version is not PEP 440")
	}

	processed := types.ProcessedSchema{
		Name:      schema.Name,
		Version:   version,
		Prefixes:  prefixTable(schema.Prefixes),
		Classes:   classes,
		Fields:    fields,
		Enums:     enums,
		Types:     processedTypes,
		Variables: schema.Variables,
	}
	diag.InvalidNamespaces = resolver.InvalidNamespaces()
	diag.NamespaceChecks = resolver.NamespaceChecks()

	return FlattenResult{
		Schema:      processed,
		Diagnostics: diag,
		Summary:     Summarize(processed, dropped),
	}, nil
}

// prefixTable keeps namespaces that carry a base URL.
func prefixTable(prefixes types.PrefixMap) types.Ordered[string] {
	out := types.NewOrdered[string]()
	for _, namespace := range prefixes.Keys {
		reference := prefixes.Values[namespace].Reference
		if reference == "" {
			continue
		}
		out.Set(namespace, reference)
	}
	return out
}
