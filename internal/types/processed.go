package types

// OverrideDelimiter joins a field name and the overriding class name into
// the identity of an override field record.
const OverrideDelimiter = "-"

// AttributeEncoding selects how a processed class lists its attributes.
type AttributeEncoding string

const (
	// AttributeEncodingRefs lists {id, inherited_from} references into the
	// central field table.
	AttributeEncodingRefs AttributeEncoding = "refs"
	// AttributeEncodingInline keeps merged metadata on every class.
	AttributeEncodingInline AttributeEncoding = "inline"
)

// ProcessedSchema is the flattened artifact.
type ProcessedSchema struct {
	Name      string                  `json:"name,omitempty"`
	Version   string                  `json:"version,omitempty"`
	Prefixes  Ordered[string]         `json:"prefixes"`
	Classes   Ordered[ProcessedClass] `json:"classes"`
	Fields    Ordered[ProcessedField] `json:"fields"`
	Enums     Ordered[ProcessedEnum]  `json:"enums"`
	Types     Ordered[ProcessedType]  `json:"types"`
	Variables any                     `json:"variables,omitempty"`
}

type ProcessedClass struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Parent      *string                   `json:"parent"`
	Abstract    bool                      `json:"abstract"`
	Description string                    `json:"description,omitempty"`
	ClassURL    string                    `json:"class_url,omitempty"`
	Slots       []SlotRef                 `json:"slots,omitempty"`
	Attributes  *Ordered[InlineAttribute] `json:"attributes,omitempty"`
}

// SlotRef points a class attribute at its record in the field table.
type SlotRef struct {
	ID            string `json:"id"`
	InheritedFrom string `json:"inherited_from,omitempty"`
}

// InlineAttribute is the alternative class encoding that co-locates field
// metadata with the class.
type InlineAttribute struct {
	SlotID        string `json:"slotId"`
	Range         string `json:"range,omitempty"`
	Required      *bool  `json:"required,omitempty"`
	Multivalued   *bool  `json:"multivalued,omitempty"`
	InheritedFrom string `json:"inherited_from,omitempty"`
	Inline        bool   `json:"inline,omitempty"`
}

// ProcessedField is one record of the field table: a declared slot, a base
// record discovered for an override, a synthesized inline attribute, or an
// override record.
type ProcessedField struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Range       string `json:"range,omitempty"`
	Description string `json:"description,omitempty"`
	Required    *bool  `json:"required,omitempty"`
	Multivalued *bool  `json:"multivalued,omitempty"`
	Global      bool   `json:"global,omitempty"`
	Overrides   string `json:"overrides,omitempty"`
}

type ProcessedEnum struct {
	ID                string                             `json:"id"`
	Name              string                             `json:"name"`
	Description       string                             `json:"description,omitempty"`
	IsA               string                             `json:"is_a,omitempty"`
	Inherits          []string                           `json:"inherits,omitempty"`
	Include           []any                              `json:"include,omitempty"`
	PermissibleValues *Ordered[ProcessedPermissibleValue] `json:"permissible_values,omitempty"`
	ReachableFrom     *ProcessedReachableFrom            `json:"reachable_from,omitempty"`
}

type ProcessedPermissibleValue struct {
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
	Meaning     string `json:"meaning,omitempty"`
	MeaningURL  string `json:"meaning_url,omitempty"`
}

type ProcessedReachableFrom struct {
	SourceOntology       string            `json:"source_ontology,omitempty"`
	IncludeSelf          *bool             `json:"include_self,omitempty"`
	IsDirect             *bool             `json:"is_direct,omitempty"`
	SourceNodes          []string          `json:"source_nodes,omitempty"`
	SourceNodesURL       map[string]string `json:"source_nodes_url,omitempty"`
	RelationshipTypes    []string          `json:"relationship_types,omitempty"`
	RelationshipTypesURL map[string]string `json:"relationship_types_url,omitempty"`
}

type ProcessedType struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Base             string            `json:"base,omitempty"`
	Description      string            `json:"description,omitempty"`
	URI              string            `json:"uri,omitempty"`
	URIURL           string            `json:"uri_url,omitempty"`
	ExactMappings    []string          `json:"exact_mappings,omitempty"`
	ExactMappingsURL map[string]string `json:"exact_mappings_url,omitempty"`
}
