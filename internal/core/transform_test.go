package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"schema-flattener/internal/policies"
	"schema-flattener/internal/types"
)

func TestUsedTypesPrunesLegacyCode(t *testing.T) {
	schema := mustSchema(t, observationSchema)

	used := UsedTypes(schema)
	require.Contains(t, used, "string")
	require.NotContains(t, used, "LegacyCode")
	require.NotContains(t, used, "SdohCategoryEnum")

	out, dropped := TransformTypes(context.Background(), schema.Types, used, noExpand)
	if diff := cmp.Diff([]string{"string"}, out.Keys); diff != "" {
		t.Fatalf("unexpected types (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, dropped)
}

func TestUsedTypesCountsGlobalSlotRanges(t *testing.T) {
	schema := mustSchema(t, `
slots:
  created:
    range: datetime
types:
  datetime:
    uri: xsd:dateTime
  date:
    uri: xsd:date
`)
	used := UsedTypes(schema)
	if diff := cmp.Diff(map[string]struct{}{"datetime": {}}, used); diff != "" {
		t.Fatalf("unexpected used types (-want +got):\n%s", diff)
	}
}

func TestTransformTypesExpandsURIs(t *testing.T) {
	schema := mustSchema(t, `
prefixes:
  xsd: http://www.w3.org/2001/XMLSchema#
  schema: http://schema.org/
types:
  integer:
    base: int
    uri: xsd:integer
    exact_mappings:
      - schema:Integer
      - unknown:Int
`)
	resolver := NewPrefixResolver(schema.Prefixes, nil, 0)
	out, _ := TransformTypes(context.Background(), schema.Types, map[string]struct{}{"integer": {}}, resolver.Expander(false))

	want := types.ProcessedType{
		ID:               "integer",
		Name:             "integer",
		Base:             "int",
		URI:              "xsd:integer",
		URIURL:           "http://www.w3.org/2001/XMLSchema#integer",
		ExactMappings:    []string{"schema:Integer", "unknown:Int"},
		ExactMappingsURL: map[string]string{"schema:Integer": "http://schema.org/Integer"},
	}
	if diff := cmp.Diff(want, out.Values["integer"]); diff != "" {
		t.Fatalf("unexpected type (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"unknown"}, resolver.InvalidNamespaces())
}

func TestTransformEnumsExpandsMeaningsAndReachableFrom(t *testing.T) {
	schema := mustSchema(t, `
prefixes:
  obo: http://purl.obolibrary.org/obo/
enums:
  AnatomyEnum:
    description: Anatomical sites
    reachable_from:
      source_ontology: obo:uberon
      include_self: true
      source_nodes:
        - obo:UBERON_0001062
      relationship_types:
        - rdfs:subClassOf
  VitalStatusEnum:
    permissible_values:
      alive:
        meaning: obo:NCIT_C37987
      unknown:
        description: Not known
`)
	resolver := NewPrefixResolver(schema.Prefixes, nil, 0)
	out := TransformEnums(context.Background(), schema.Enums, resolver.Expander(false))

	require.Equal(t, []string{"AnatomyEnum", "VitalStatusEnum"}, out.Keys)
	anatomy := out.Values["AnatomyEnum"]
	require.Nil(t, anatomy.PermissibleValues)
	require.NotNil(t, anatomy.ReachableFrom)
	if diff := cmp.Diff(map[string]string{"obo:UBERON_0001062": "http://purl.obolibrary.org/obo/UBERON_0001062"}, anatomy.ReachableFrom.SourceNodesURL); diff != "" {
		t.Fatalf("unexpected source node urls (-want +got):\n%s", diff)
	}
	require.Nil(t, anatomy.ReachableFrom.RelationshipTypesURL)
	require.True(t, *anatomy.ReachableFrom.IncludeSelf)

	vital := out.Values["VitalStatusEnum"]
	require.NotNil(t, vital.PermissibleValues)
	require.Equal(t, []string{"alive", "unknown"}, vital.PermissibleValues.Keys)
	require.Equal(t, "http://purl.obolibrary.org/obo/NCIT_C37987", vital.PermissibleValues.Values["alive"].MeaningURL)
	require.Empty(t, vital.PermissibleValues.Values["unknown"].MeaningURL)
	require.Equal(t, []string{"rdfs"}, resolver.InvalidNamespaces())
}

func TestTransformClassesRefsEncoding(t *testing.T) {
	schema := mustSchema(t, chainSchema)
	hierarchy := BuildHierarchy(schema.Classes)
	fields := types.NewOrdered[types.ProcessedField]()
	diag := types.Diagnostics{}
	ctx := context.Background()
	require.NoError(t, MaterializeOverrides(ctx, schema.Classes, hierarchy, &fields, &diag))

	policy, err := policies.NewEncodingPolicy("refs", nil)
	require.NoError(t, err)
	classes, err := TransformClasses(ctx, schema.Classes, schema.Slots, hierarchy, policy, noExpand, &fields, &diag)
	require.NoError(t, err)

	aliquot := classes.Values["Aliquot"]
	require.NotNil(t, aliquot.Parent)
	require.Equal(t, "Specimen", *aliquot.Parent)
	require.Nil(t, aliquot.Attributes)
	wantSlots := []types.SlotRef{
		{ID: "identifier", InheritedFrom: "Entity"},
		{ID: "label-Aliquot", InheritedFrom: "Entity"},
		{ID: "volume", InheritedFrom: "Specimen"},
	}
	if diff := cmp.Diff(wantSlots, aliquot.Slots); diff != "" {
		t.Fatalf("unexpected slots (-want +got):\n%s", diff)
	}
	require.Nil(t, classes.Values["Entity"].Parent)

	// identifier and volume are synthesized from their defining classes.
	require.Equal(t, types.ProcessedField{ID: "identifier", Name: "identifier", Range: "string"}, fields.Values["identifier"])
	require.Equal(t, types.ProcessedField{ID: "volume", Name: "volume", Range: "float"}, fields.Values["volume"])
	for _, className := range classes.Keys {
		for _, ref := range classes.Values[className].Slots {
			require.True(t, fields.Has(ref.ID), "%s.%s does not resolve", className, ref.ID)
		}
	}
	require.Empty(t, diag.FieldConflicts)
}

func TestTransformClassesDescendantsReferenceBaseName(t *testing.T) {
	schema := mustSchema(t, `
slots:
  id:
    range: string
classes:
  Observation:
    attributes:
      id:
        range: string
      category:
        range: string
  SdohObservation:
    is_a: Observation
    attributes:
      id:
        range: string
      category:
        range: SdohCategoryEnum
    slot_usage:
      category:
        range: SdohCategoryEnum
  Screening:
    is_a: SdohObservation
    attributes:
      id:
        range: string
      category:
        range: SdohCategoryEnum
`)
	ctx := context.Background()
	hierarchy := BuildHierarchy(schema.Classes)
	fields := GlobalFields(schema.Slots)
	diag := types.Diagnostics{}
	require.NoError(t, MaterializeOverrides(ctx, schema.Classes, hierarchy, &fields, &diag))
	classes, err := TransformClasses(ctx, schema.Classes, schema.Slots, hierarchy, nil, noExpand, &fields, &diag)
	require.NoError(t, err)

	screening := classes.Values["Screening"]
	want := []types.SlotRef{
		{ID: "id", InheritedFrom: "Observation"},
		{ID: "category", InheritedFrom: "Observation"},
	}
	if diff := cmp.Diff(want, screening.Slots); diff != "" {
		t.Fatalf("unexpected slots (-want +got):\n%s", diff)
	}
}

func TestTransformClassesInlineEncoding(t *testing.T) {
	schema := mustSchema(t, observationSchema)
	ctx := context.Background()
	hierarchy := BuildHierarchy(schema.Classes)
	fields := GlobalFields(schema.Slots)
	diag := types.Diagnostics{}
	require.NoError(t, MaterializeOverrides(ctx, schema.Classes, hierarchy, &fields, &diag))

	policy, err := policies.NewEncodingPolicy("inline", nil)
	require.NoError(t, err)
	resolver := NewPrefixResolver(schema.Prefixes, nil, 0)
	classes, err := TransformClasses(ctx, schema.Classes, schema.Slots, hierarchy, policy, resolver.Expander(false), &fields, &diag)
	require.NoError(t, err)

	observation := classes.Values["Observation"]
	require.Equal(t, "http://x/Observation", observation.ClassURL)
	require.Nil(t, observation.Slots)
	require.NotNil(t, observation.Attributes)

	sdoh := classes.Values["SdohObservation"]
	require.NotNil(t, sdoh.Attributes)
	want := types.InlineAttribute{
		SlotID:        "category-SdohObservation",
		Range:         "SdohCategoryEnum",
		InheritedFrom: "Observation",
		Inline:        true,
	}
	if diff := cmp.Diff(want, sdoh.Attributes.Values["category"]); diff != "" {
		t.Fatalf("unexpected attribute (-want +got):\n%s", diff)
	}
	require.False(t, sdoh.Attributes.Values["id"].Inline)
	require.Equal(t, []string{"id", "category-SdohObservation", "category"}, fields.Keys)
}

func TestTransformClassesRecordsFieldConflicts(t *testing.T) {
	schema := mustSchema(t, `
classes:
  Device:
    attributes:
      serial:
        range: string
  Sensor:
    attributes:
      serial:
        range: integer
`)
	ctx := context.Background()
	fields := types.NewOrdered[types.ProcessedField]()
	diag := types.Diagnostics{}
	_, err := TransformClasses(ctx, schema.Classes, schema.Slots, BuildHierarchy(schema.Classes), nil, noExpand, &fields, &diag)
	require.NoError(t, err)

	require.Equal(t, "string", fields.Values["serial"].Range)
	if diff := cmp.Diff([]string{"Sensor.serial"}, diag.FieldConflicts); diff != "" {
		t.Fatalf("unexpected conflicts (-want +got):\n%s", diff)
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "", want: "", ok: true},
		{raw: "1.0", want: "1.0", ok: true},
		{raw: "v2.1.0", want: "2.1.0", ok: true},
		{raw: "2024-draft", want: "2024-draft", ok: false},
	}
	for _, tt := range tests {
		got, ok := NormalizeVersion(tt.raw)
		require.Equal(t, tt.ok, ok, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestWithSizes(t *testing.T) {
	summary := WithSizes(types.RunSummary{Classes: 2}, 1000, 333)
	require.Equal(t, 66.7, summary.SizeReductionPct)
	require.Equal(t, 2, summary.Classes)

	require.Zero(t, WithSizes(types.RunSummary{}, 0, 10).SizeReductionPct)
}
