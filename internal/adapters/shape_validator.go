package adapters

import (
	_ "embed"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/xeipuuv/gojsonschema"

	"schema-flattener/internal/ports"
)

//go:embed schemas/expanded_schema.json
var expandedSchemaDocument []byte

// SchemaShapeValidator checks a decoded document against the embedded JSON
// Schema of the expanded form.
type SchemaShapeValidator struct {
	schema gojsonschema.JSONLoader
}

func NewSchemaShapeValidator() SchemaShapeValidator {
	return SchemaShapeValidator{schema: gojsonschema.NewBytesLoader(expandedSchemaDocument)}
}

func (v SchemaShapeValidator) ValidateShape(document any) ([]string, error) {
	result, err := gojsonschema.Validate(v.schema, gojsonschema.NewGoLoader(normalizeDocument(document)))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("shape validation failed to run").
			WithCause(err)
	}
	if result.Valid() {
		return nil, nil
	}
	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return violations, nil
}

// normalizeDocument rewrites maps with non-string keys, which YAML allows
// and JSON does not, so the document can be handed to JSON tooling.
func normalizeDocument(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeDocument(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeDocument(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeDocument(item)
		}
		return out
	default:
		return value
	}
}

var _ ports.ShapeValidatorPort = SchemaShapeValidator{}
