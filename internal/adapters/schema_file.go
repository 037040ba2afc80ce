package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"schema-flattener/internal/core"
	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SchemaFileAdapter loads an expanded schema from a JSON or YAML file.
// JSON documents are decoded with encoding/json, which accepts every
// escape a JSON writer may emit; anything else goes through yaml.v3. Both
// paths keep mapping order.
type SchemaFileAdapter struct {
	Shape ports.ShapeValidatorPort
}

func NewSchemaFileAdapter(shape ports.ShapeValidatorPort) SchemaFileAdapter {
	return SchemaFileAdapter{Shape: shape}
}

func (a SchemaFileAdapter) LoadSchema(ctx context.Context, path string) (types.LoadedSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.LoadedSchema{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read schema file: " + path).
			WithCause(err)
	}
	data := bytes.TrimPrefix(raw, utf8BOM)
	format := documentFormat(data)

	var document any
	if format == "json" {
		err = json.Unmarshal(data, &document)
	} else {
		err = yaml.Unmarshal(data, &document)
	}
	if err != nil {
		return types.LoadedSchema{}, core.MalformedInputError(path, "failed to parse "+format+": "+err.Error(), err)
	}
	if document == nil {
		return types.LoadedSchema{}, core.MalformedInputError(path, "schema file is empty", nil)
	}
	if a.Shape != nil {
		violations, err := a.Shape.ValidateShape(document)
		if err != nil {
			return types.LoadedSchema{}, err
		}
		if len(violations) > 0 {
			return types.LoadedSchema{}, core.MalformedInputError(path, strings.Join(violations, "; "), nil)
		}
	}

	var schema types.ExpandedSchema
	if format == "json" {
		err = json.Unmarshal(data, &schema)
	} else {
		err = yaml.Unmarshal(data, &schema)
		schema.Variables = normalizeDocument(schema.Variables)
	}
	if err != nil {
		return types.LoadedSchema{}, core.MalformedInputError(path, err.Error(), err)
	}

	log.Ctx(ctx).Debug().
		Str("path", path).
		Str("format", format).
		Int("bytes", len(raw)).
		Int("classes", schema.Classes.Len()).
		Int("slots", schema.Slots.Len()).
		Int("enums", schema.Enums.Len()).
		Int("types", schema.Types.Len()).
		Msg("schema loaded")

	return types.LoadedSchema{
		Path:      path,
		SizeBytes: int64(len(raw)),
		Schema:    schema,
	}, nil
}

// documentFormat treats a document as JSON when it is a valid JSON object.
// YAML flow mappings that are not strict JSON fall through to yaml.v3.
func documentFormat(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed) {
		return "json"
	}
	return "yaml"
}

var _ ports.SchemaLoaderPort = SchemaFileAdapter{}
