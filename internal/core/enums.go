package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"schema-flattener/internal/types"
)

// TransformEnums carries enumerations through and adds the expanded URL of
// every namespaced meaning, source node and relationship type that could be
// expanded.
func TransformEnums(ctx context.Context, enums types.Ordered[types.EnumDef], expand Expander) types.Ordered[types.ProcessedEnum] {
	out := types.NewOrdered[types.ProcessedEnum]()
	for _, name := range enums.Keys {
		def := enums.Values[name]
		processed := types.ProcessedEnum{
			ID:          name,
			Name:        name,
			Description: def.Description,
			IsA:         def.IsA,
			Inherits:    def.Inherits,
			Include:     def.Include,
		}
		if def.PermissibleValues.Len() > 0 {
			values := types.NewOrdered[types.ProcessedPermissibleValue]()
			for _, code := range def.PermissibleValues.Keys {
				value := def.PermissibleValues.Values[code]
				pv := types.ProcessedPermissibleValue{
					Text:        value.Text,
					Description: value.Description,
					Meaning:     value.Meaning,
				}
				if value.Meaning != "" {
					if url, ok := expand(ctx, value.Meaning); ok {
						pv.MeaningURL = url
					}
				}
				values.Set(code, pv)
			}
			processed.PermissibleValues = &values
		}
		if def.ReachableFrom != nil {
			processed.ReachableFrom = transformReachableFrom(ctx, *def.ReachableFrom, expand)
		}
		out.Set(name, processed)
	}
	log.Ctx(ctx).Debug().Int("enums", out.Len()).Msg("enums transformed")
	return out
}

func transformReachableFrom(ctx context.Context, def types.ReachableFrom, expand Expander) *types.ProcessedReachableFrom {
	return &types.ProcessedReachableFrom{
		SourceOntology:       def.SourceOntology,
		IncludeSelf:          def.IncludeSelf,
		IsDirect:             def.IsDirect,
		SourceNodes:          def.SourceNodes,
		SourceNodesURL:       expandAll(ctx, def.SourceNodes, expand),
		RelationshipTypes:    def.RelationshipTypes,
		RelationshipTypesURL: expandAll(ctx, def.RelationshipTypes, expand),
	}
}

// expandAll maps each identifier that expands to its URL. It returns nil
// when nothing expanded.
func expandAll(ctx context.Context, identifiers []string, expand Expander) map[string]string {
	var out map[string]string
	for _, identifier := range identifiers {
		url, ok := expand(ctx, identifier)
		if !ok {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[identifier] = url
	}
	return out
}
