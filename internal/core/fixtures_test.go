package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"schema-flattener/internal/types"
)

type testReachability struct {
	reachable map[string]bool
	calls     []string
}

func (t *testReachability) Check(_ context.Context, url string, _ time.Duration) bool {
	t.calls = append(t.calls, url)
	return t.reachable[url]
}

func mustSchema(t *testing.T, document string) types.ExpandedSchema {
	t.Helper()
	var schema types.ExpandedSchema
	require.NoError(t, yaml.Unmarshal([]byte(document), &schema))
	return schema
}

func noExpand(context.Context, string) (string, bool) {
	return "", false
}

const observationSchema = `
name: demo
version: "1.0"
prefixes:
  ex:
    prefix_prefix: ex
    prefix_reference: http://x/
  obo: http://purl.obolibrary.org/obo/
classes:
  Observation:
    name: Observation
    class_uri: ex:Observation
    attributes:
      id:
        range: string
        required: true
      category:
        range: string
  SdohObservation:
    name: SdohObservation
    is_a: Observation
    attributes:
      id:
        range: string
        required: true
      category:
        range: SdohCategoryEnum
    slot_usage:
      category:
        range: SdohCategoryEnum
slots:
  id:
    name: id
    range: string
    required: true
enums:
  SdohCategoryEnum:
    permissible_values:
      housing:
        description: Housing instability
        meaning: obo:NCIT_C1
types:
  string:
    base: str
    uri: xsd:string
  LegacyCode:
    base: str
variables:
  - name: bmi
    unit: kg/m2
`

// chainSchema is a three level chain, declared leaf first, where the middle
// class narrows an attribute introduced by the root.
const chainSchema = `
classes:
  Aliquot:
    is_a: Specimen
    attributes:
      identifier:
        range: string
      label:
        range: AliquotLabel
        required: true
      volume:
        range: float
    slot_usage:
      label:
        range: AliquotLabel
  Specimen:
    is_a: Entity
    attributes:
      identifier:
        range: string
      label:
        range: SpecimenLabel
        required: true
      volume:
        range: float
    slot_usage:
      label:
        range: SpecimenLabel
        required: true
  Entity:
    attributes:
      identifier:
        range: string
      label:
        range: string
`
