package types

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ExpandedSchema is the inheritance-merged schema document produced by the
// upstream expansion step. Every class already lists all of its visible
// attributes, inherited or local.
type ExpandedSchema struct {
	ID        string            `yaml:"id" json:"id"`
	Name      string            `yaml:"name" json:"name"`
	Version   string            `yaml:"version" json:"version"`
	Classes   Ordered[ClassDef] `yaml:"classes" json:"classes"`
	Slots     Ordered[SlotDef]  `yaml:"slots" json:"slots"`
	Enums     Ordered[EnumDef]  `yaml:"enums" json:"enums"`
	Types     Ordered[TypeDef]  `yaml:"types" json:"types"`
	Prefixes  PrefixMap         `yaml:"prefixes" json:"prefixes"`
	Variables any               `yaml:"variables" json:"-"`
}

// UnmarshalJSON keeps the variables block as raw JSON so it is written back
// byte for byte, with its key order and number literals intact. A numeric
// version keeps its literal text, as it does when read from YAML.
func (s *ExpandedSchema) UnmarshalJSON(data []byte) error {
	if jsonKind(data) == "null" {
		return nil
	}
	type plain ExpandedSchema
	var decoded struct {
		plain
		RawVersion   json.RawMessage `json:"version"`
		RawVariables json.RawMessage `json:"variables"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = ExpandedSchema(decoded.plain)
	switch jsonKind(decoded.RawVersion) {
	case "string":
		if err := json.Unmarshal(decoded.RawVersion, &s.Version); err != nil {
			return prefixShapeError("version", err)
		}
	case "scalar":
		s.Version = string(bytes.TrimSpace(decoded.RawVersion))
	case "mapping", "sequence":
		return &ShapeError{Path: []string{"version"}, Want: "string", Got: jsonKind(decoded.RawVersion)}
	}
	if kind := jsonKind(decoded.RawVariables); kind != "null" && kind != "empty" {
		s.Variables = json.RawMessage(bytes.TrimSpace(decoded.RawVariables))
	}
	return nil
}

type ClassDef struct {
	Name        string                `yaml:"name" json:"name"`
	Parent      string                `yaml:"is_a" json:"is_a"`
	Abstract    bool                  `yaml:"abstract" json:"abstract"`
	Description string                `yaml:"description" json:"description"`
	ClassURI    string                `yaml:"class_uri" json:"class_uri"`
	Attributes  Ordered[AttributeDef] `yaml:"attributes" json:"attributes"`
	Overrides   Ordered[OverrideSpec] `yaml:"slot_usage" json:"slot_usage"`
}

// classMappingFields must be mappings; a list here means the document was
// produced by a tool that does not emit the expanded form.
var classMappingFields = []string{"attributes", "slot_usage"}

func (c *ClassDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			value := node.Content[i+1]
			for _, field := range classMappingFields {
				if key == field && value.Kind != yaml.MappingNode && !isNullNode(value) {
					return &ShapeError{
						Path: []string{field},
						Want: "mapping",
						Got:  nodeKindName(value.Kind),
						Line: value.Line,
					}
				}
			}
		}
	}
	type plain ClassDef
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*c = ClassDef(decoded)
	return nil
}

func (c *ClassDef) UnmarshalJSON(data []byte) error {
	kind := jsonKind(data)
	if kind == "null" {
		return nil
	}
	if kind != "mapping" {
		return &ShapeError{Want: "mapping", Got: kind}
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for _, field := range classMappingFields {
		raw, ok := members[field]
		if !ok {
			continue
		}
		if got := jsonKind(raw); got != "mapping" && got != "null" {
			return &ShapeError{Path: []string{field}, Want: "mapping", Got: got}
		}
	}
	type plain ClassDef
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = ClassDef(decoded)
	return nil
}

// AttributeDef is the merged metadata of one attribute on one class.
type AttributeDef struct {
	Range       string `yaml:"range" json:"range"`
	Required    *bool  `yaml:"required" json:"required"`
	Multivalued *bool  `yaml:"multivalued" json:"multivalued"`
	Description string `yaml:"description" json:"description"`
}

// OverrideSpec holds only the fields a class narrows for one attribute.
type OverrideSpec struct {
	Range       string `yaml:"range" json:"range"`
	Required    *bool  `yaml:"required" json:"required"`
	Multivalued *bool  `yaml:"multivalued" json:"multivalued"`
	Description string `yaml:"description" json:"description"`
}

// SlotDef is a reusable, globally declared field definition.
type SlotDef struct {
	Name        string `yaml:"name" json:"name"`
	Range       string `yaml:"range" json:"range"`
	Required    *bool  `yaml:"required" json:"required"`
	Multivalued *bool  `yaml:"multivalued" json:"multivalued"`
	Description string `yaml:"description" json:"description"`
}

type EnumDef struct {
	Name              string                    `yaml:"name" json:"name"`
	Description       string                    `yaml:"description" json:"description"`
	IsA               string                    `yaml:"is_a" json:"is_a"`
	Inherits          []string                  `yaml:"inherits" json:"inherits"`
	Include           []any                     `yaml:"include" json:"include"`
	PermissibleValues Ordered[PermissibleValue] `yaml:"permissible_values" json:"permissible_values"`
	ReachableFrom     *ReachableFrom            `yaml:"reachable_from" json:"reachable_from"`
}

type PermissibleValue struct {
	Text        string `yaml:"text" json:"text"`
	Description string `yaml:"description" json:"description"`
	Meaning     string `yaml:"meaning" json:"meaning"`
}

// ReachableFrom describes a dynamic enum whose members are computed from an
// ontology traversal.
type ReachableFrom struct {
	SourceOntology    string   `yaml:"source_ontology" json:"source_ontology"`
	IncludeSelf       *bool    `yaml:"include_self" json:"include_self"`
	IsDirect          *bool    `yaml:"is_direct" json:"is_direct"`
	SourceNodes       []string `yaml:"source_nodes" json:"source_nodes"`
	RelationshipTypes []string `yaml:"relationship_types" json:"relationship_types"`
}

type TypeDef struct {
	Name          string   `yaml:"name" json:"name"`
	Base          string   `yaml:"base" json:"base"`
	URI           string   `yaml:"uri" json:"uri"`
	Description   string   `yaml:"description" json:"description"`
	ExactMappings []string `yaml:"exact_mappings" json:"exact_mappings"`
}

// PrefixMap maps a namespace to its base URL definition.
type PrefixMap = Ordered[PrefixDef]

// PrefixDef accepts the three spellings found in schema documents: a bare
// base URL string, a LinkML prefix object with prefix_reference, or an
// object with base.
type PrefixDef struct {
	Prefix    string
	Reference string
}

type prefixObject struct {
	Prefix    string `yaml:"prefix_prefix" json:"prefix_prefix"`
	Reference string `yaml:"prefix_reference" json:"prefix_reference"`
	Base      string `yaml:"base" json:"base"`
}

func (o prefixObject) definition() PrefixDef {
	reference := o.Reference
	if reference == "" {
		reference = o.Base
	}
	return PrefixDef{Prefix: o.Prefix, Reference: reference}
}

func (p *PrefixDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch {
	case isNullNode(node):
		*p = PrefixDef{}
		return nil
	case node.Kind == yaml.ScalarNode:
		*p = PrefixDef{Reference: node.Value}
		return nil
	case node.Kind == yaml.MappingNode:
		var raw prefixObject
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*p = raw.definition()
		return nil
	default:
		return &ShapeError{Want: "string or mapping", Got: nodeKindName(node.Kind), Line: node.Line}
	}
}

func (p *PrefixDef) UnmarshalJSON(data []byte) error {
	switch kind := jsonKind(data); kind {
	case "null":
		*p = PrefixDef{}
		return nil
	case "string":
		var reference string
		if err := json.Unmarshal(data, &reference); err != nil {
			return err
		}
		*p = PrefixDef{Reference: reference}
		return nil
	case "mapping":
		var raw prefixObject
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*p = raw.definition()
		return nil
	default:
		return &ShapeError{Want: "string or mapping", Got: kind}
	}
}

// LoadedSchema is a decoded schema document together with where it came
// from.
type LoadedSchema struct {
	Path      string
	SizeBytes int64
	Schema    ExpandedSchema
}
