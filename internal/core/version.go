package core

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// NormalizeVersion returns the canonical PEP 440 form of a schema version.
// A version that does not parse is returned unchanged with ok false; an
// empty version is valid.
func NormalizeVersion(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", true
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return raw, false
	}
	return parsed.String(), true
}
