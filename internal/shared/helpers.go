// Package shared provides common utility functions used across multiple
// packages in the schema-flattener codebase.
package shared

import (
	"fmt"
)

// QualifiedAttribute names one attribute of one class the way diagnostics
// report it: Class.attr.
func QualifiedAttribute(className string, attr string) string {
	return className + "." + attr
}

// HTTPStatusError creates a formatted error for a response status that does
// not count as reachable.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
