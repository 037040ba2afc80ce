package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"schema-flattener/internal/shared"
	"schema-flattener/internal/types"
)

// assertOptions configures the assert-lib handler used by this package.
var assertOptions []assert.Option

// OverrideID is the identity of the field record a class creates when it
// narrows attr.
func OverrideID(attr string, className string) string {
	return attr + types.OverrideDelimiter + className
}

// GlobalFields seeds the field table with every declared slot.
func GlobalFields(slots types.Ordered[types.SlotDef]) types.Ordered[types.ProcessedField] {
	fields := types.NewOrdered[types.ProcessedField]()
	for _, name := range slots.Keys {
		slot := slots.Values[name]
		fields.Set(name, types.ProcessedField{
			ID:          name,
			Name:        name,
			Range:       slot.Range,
			Description: slot.Description,
			Required:    slot.Required,
			Multivalued: slot.Multivalued,
			Global:      true,
		})
	}
	return fields
}

// MaterializeOverrides adds one record per slot_usage entry to fields and
// makes sure the overridden base field exists whenever some ancestor
// declares it without overriding it.
//
// Entries naming an attribute the class does not have are skipped and
// recorded as dangling. Overrides left without a base record are recorded
// as orphans.
func MaterializeOverrides(ctx context.Context, classes types.Ordered[types.ClassDef], hierarchy map[string]string, fields *types.Ordered[types.ProcessedField], diag *types.Diagnostics) error {
	assert.Assert(ctx, fields != nil, "field table must be allocated before overrides", assertOptions...)
	assert.Assert(ctx, diag != nil, "diagnostics must be allocated before overrides", assertOptions...)
	if fields == nil || diag == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("override materialization needs a field table and diagnostics")
	}
	for _, className := range classes.Keys {
		class := classes.Values[className]
		assert.NotEmpty(ctx, className, "class name must be set", assertOptions...)
		for _, attr := range class.Overrides.Keys {
			assert.NotEmpty(ctx, attr, "slot_usage attribute name must be set", assertOptions...)
			merged, ok := class.Attributes.Get(attr)
			if !ok {
				diag.DanglingOverrides = append(diag.DanglingOverrides, shared.QualifiedAttribute(className, attr))
				log.Ctx(ctx).Warn().
					Str("class", className).
					Str("attribute", attr).
					Msg("slot_usage entry not found in attributes")
				continue
			}
			id := OverrideID(attr, className)
			existing, taken := fields.Get(id)
			assert.Assert(ctx, !taken || !existing.Global, "override id collides with a declared slot: "+id, assertOptions...)
			record := fieldFromAttribute(id, attr, merged)
			record.Overrides = attr
			fields.Set(id, record)

			if fields.Has(attr) {
				continue
			}
			base, found, err := findBaseAttribute(className, attr, classes, hierarchy)
			if err != nil {
				return err
			}
			if found {
				fields.Set(attr, fieldFromAttribute(attr, attr, base))
				log.Ctx(ctx).Debug().
					Str("field", attr).
					Str("override", id).
					Msg("base field discovered from ancestor")
			}
		}
	}
	diag.OrphanOverrides = orphanOverrides(*fields)
	return nil
}

// findBaseAttribute climbs from the parent of className to the first
// ancestor that lists attr and does not override it. Ancestors that lack
// attr or override it are passed over.
func findBaseAttribute(className string, attr string, classes types.Ordered[types.ClassDef], hierarchy map[string]string) (types.AttributeDef, bool, error) {
	visited := map[string]struct{}{className: {}}
	path := []string{className}
	current := hierarchy[className]
	for current != "" {
		if _, seen := visited[current]; seen {
			return types.AttributeDef{}, false, CyclicHierarchyError(cyclePath(path, current))
		}
		visited[current] = struct{}{}
		path = append(path, current)

		ancestor, ok := classes.Get(current)
		if !ok {
			break
		}
		if def, has := ancestor.Attributes.Get(attr); has && !ancestor.Overrides.Has(attr) {
			return def, true, nil
		}
		current = hierarchy[current]
	}
	return types.AttributeDef{}, false, nil
}

// orphanOverrides lists override records whose base is not in fields.
func orphanOverrides(fields types.Ordered[types.ProcessedField]) []string {
	var orphans []string
	for _, id := range fields.Keys {
		field := fields.Values[id]
		if field.Overrides != "" && !fields.Has(field.Overrides) {
			orphans = append(orphans, id)
		}
	}
	return orphans
}

func fieldFromAttribute(id string, name string, attr types.AttributeDef) types.ProcessedField {
	return types.ProcessedField{
		ID:          id,
		Name:        name,
		Range:       attr.Range,
		Description: attr.Description,
		Required:    attr.Required,
		Multivalued: attr.Multivalued,
	}
}
