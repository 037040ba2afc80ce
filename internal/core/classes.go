package core

import (
	"context"
	"reflect"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/shared"
	"schema-flattener/internal/types"
)

// classTransform carries the per-run inputs shared by every class.
// synthesized holds the field ids created from class attributes; only those
// are compared for conflicts.
type classTransform struct {
	classes     types.Ordered[types.ClassDef]
	slots       types.Ordered[types.SlotDef]
	hierarchy   map[string]string
	encoding    ports.EncodingPolicyPort
	expand      Expander
	fields      *types.Ordered[types.ProcessedField]
	diag        *types.Diagnostics
	synthesized map[string]struct{}
}

// TransformClasses reshapes every class into its processed form in input
// order. Refs-encoded classes reference the field table; any attribute the
// table does not yet hold gets a record built from its defining class.
func TransformClasses(ctx context.Context, classes types.Ordered[types.ClassDef], slots types.Ordered[types.SlotDef], hierarchy map[string]string, encoding ports.EncodingPolicyPort, expand Expander, fields *types.Ordered[types.ProcessedField], diag *types.Diagnostics) (types.Ordered[types.ProcessedClass], error) {
	assert.Assert(ctx, fields != nil, "field table must be allocated before classes", assertOptions...)
	assert.Assert(ctx, diag != nil, "diagnostics must be allocated before classes", assertOptions...)
	if fields == nil || diag == nil {
		return types.Ordered[types.ProcessedClass]{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("class transform needs a field table and diagnostics")
	}
	t := classTransform{
		classes:     classes,
		slots:       slots,
		hierarchy:   hierarchy,
		encoding:    encoding,
		expand:      expand,
		fields:      fields,
		diag:        diag,
		synthesized: map[string]struct{}{},
	}
	out := types.NewOrdered[types.ProcessedClass]()
	for _, name := range classes.Keys {
		processed, err := t.transform(ctx, name, classes.Values[name])
		if err != nil {
			return types.Ordered[types.ProcessedClass]{}, err
		}
		out.Set(name, processed)
	}
	log.Ctx(ctx).Debug().Int("classes", out.Len()).Int("fields", fields.Len()).Msg("classes transformed")
	return out, nil
}

func (t *classTransform) transform(ctx context.Context, name string, class types.ClassDef) (types.ProcessedClass, error) {
	processed := types.ProcessedClass{
		ID:          name,
		Name:        name,
		Abstract:    class.Abstract,
		Description: class.Description,
	}
	if class.Parent != "" {
		parent := class.Parent
		processed.Parent = &parent
	}
	if class.ClassURI != "" && t.expand != nil {
		if url, ok := t.expand(ctx, class.ClassURI); ok {
			processed.ClassURL = url
		}
	}

	encoding := types.AttributeEncodingRefs
	if t.encoding != nil {
		encoding = t.encoding.ResolveEncoding(name)
	}
	var inline types.Ordered[types.InlineAttribute]
	if encoding == types.AttributeEncodingInline {
		inline = types.NewOrdered[types.InlineAttribute]()
	}

	for _, attr := range class.Attributes.Keys {
		def := class.Attributes.Values[attr]
		inheritedFrom, err := DefiningAncestor(name, attr, t.classes, t.hierarchy)
		if err != nil {
			return types.ProcessedClass{}, err
		}
		slotID := attr
		if class.Overrides.Has(attr) {
			slotID = OverrideID(attr, name)
		}

		if encoding == types.AttributeEncodingInline {
			inline.Set(attr, types.InlineAttribute{
				SlotID:        slotID,
				Range:         def.Range,
				Required:      def.Required,
				Multivalued:   def.Multivalued,
				InheritedFrom: inheritedFrom,
				Inline:        !t.slots.Has(attr),
			})
			continue
		}

		if !t.fields.Has(slotID) {
			t.synthesize(ctx, name, attr, def, inheritedFrom)
		} else if _, ok := t.synthesized[slotID]; ok {
			t.checkConflict(ctx, name, attr, def, inheritedFrom)
		}
		assert.Assert(ctx, t.fields.Has(slotID), "slot reference without field record (overrides not materialized?): "+slotID, assertOptions...)
		processed.Slots = append(processed.Slots, types.SlotRef{ID: slotID, InheritedFrom: inheritedFrom})
	}

	if encoding == types.AttributeEncodingInline {
		processed.Attributes = &inline
	}
	return processed, nil
}

// synthesize creates the field record for an attribute that is neither a
// declared slot nor a materialized override. Metadata comes from the
// defining ancestor when there is one.
func (t *classTransform) synthesize(ctx context.Context, className string, attr string, def types.AttributeDef, inheritedFrom string) {
	source := t.sourceAttribute(attr, def, inheritedFrom)
	t.fields.Set(attr, fieldFromAttribute(attr, attr, source))
	t.synthesized[attr] = struct{}{}
	log.Ctx(ctx).Debug().
		Str("field", attr).
		Str("class", className).
		Msg("field synthesized from class attribute")
}

// checkConflict records a synthesized field whose metadata differs from the
// one this class would have produced. The first definition stays.
func (t *classTransform) checkConflict(ctx context.Context, className string, attr string, def types.AttributeDef, inheritedFrom string) {
	existing := t.fields.Values[attr]
	candidate := fieldFromAttribute(attr, attr, t.sourceAttribute(attr, def, inheritedFrom))
	if reflect.DeepEqual(existing, candidate) {
		return
	}
	t.diag.FieldConflicts = append(t.diag.FieldConflicts, shared.QualifiedAttribute(className, attr))
	log.Ctx(ctx).Debug().
		Str("field", attr).
		Str("class", className).
		Msg("field definition differs from first synthesized definition")
}

func (t *classTransform) sourceAttribute(attr string, def types.AttributeDef, inheritedFrom string) types.AttributeDef {
	if inheritedFrom == "" {
		return def
	}
	if ancestor, ok := t.classes.Get(inheritedFrom); ok {
		if origin, has := ancestor.Attributes.Get(attr); has {
			return origin
		}
	}
	return def
}
