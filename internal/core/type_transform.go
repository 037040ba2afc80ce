package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"schema-flattener/internal/types"
)

// UsedTypes collects every declared type named as the range of a class
// attribute or a global slot.
func UsedTypes(schema types.ExpandedSchema) map[string]struct{} {
	used := map[string]struct{}{}
	mark := func(rangeName string) {
		if rangeName == "" {
			return
		}
		if schema.Types.Has(rangeName) {
			used[rangeName] = struct{}{}
		}
	}
	for _, className := range schema.Classes.Keys {
		class := schema.Classes.Values[className]
		for _, attr := range class.Attributes.Keys {
			mark(class.Attributes.Values[attr].Range)
		}
	}
	for _, slotName := range schema.Slots.Keys {
		mark(schema.Slots.Values[slotName].Range)
	}
	return used
}

// TransformTypes emits the used types in declaration order and returns how
// many declared types were dropped.
func TransformTypes(ctx context.Context, declared types.Ordered[types.TypeDef], used map[string]struct{}, expand Expander) (types.Ordered[types.ProcessedType], int) {
	out := types.NewOrdered[types.ProcessedType]()
	dropped := 0
	for _, name := range declared.Keys {
		if _, ok := used[name]; !ok {
			dropped++
			log.Ctx(ctx).Debug().Str("type", name).Msg("unused type dropped")
			continue
		}
		def := declared.Values[name]
		processed := types.ProcessedType{
			ID:            name,
			Name:          name,
			Base:          def.Base,
			Description:   def.Description,
			URI:           def.URI,
			ExactMappings: def.ExactMappings,
		}
		if def.URI != "" {
			if url, ok := expand(ctx, def.URI); ok {
				processed.URIURL = url
			}
		}
		processed.ExactMappingsURL = expandAll(ctx, def.ExactMappings, expand)
		out.Set(name, processed)
	}
	log.Ctx(ctx).Debug().Int("kept", out.Len()).Int("dropped", dropped).Msg("types transformed")
	return out, dropped
}
