package types

import (
	"errors"
	"fmt"
	"strings"
)

// ShapeError reports a document node whose kind does not match the model,
// e.g. a class attributes block written as a list instead of a mapping.
type ShapeError struct {
	Path []string
	Want string
	Got  string
	Line int
}

func (e *ShapeError) Error() string {
	location := strings.Join(e.Path, ".")
	if location == "" {
		location = "document"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): expected %s, got %s", location, e.Line, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: expected %s, got %s", location, e.Want, e.Got)
}

// prefixShapeError adds a path segment to a nested ShapeError, or wraps any
// other decode error with the key that produced it.
func prefixShapeError(segment string, err error) error {
	var shape *ShapeError
	if errors.As(err, &shape) {
		shape.Path = append([]string{segment}, shape.Path...)
		return shape
	}
	return fmt.Errorf("%s: %w", segment, err)
}
