package ports

import (
	"context"

	"schema-flattener/internal/types"
)

// SchemaLoaderPort reads an expanded, inheritance-merged schema document.
// Implementations reject documents whose shape does not match the model
// before any transformation runs.
type SchemaLoaderPort interface {
	LoadSchema(ctx context.Context, path string) (types.LoadedSchema, error)
}

// ShapeValidatorPort checks a decoded document against the expected
// top-level structure. It returns one message per violation.
type ShapeValidatorPort interface {
	ValidateShape(document any) ([]string, error)
}
