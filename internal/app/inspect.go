package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"schema-flattener/internal/types"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	artifactPath := strings.TrimSpace(req.ArtifactPath)
	if artifactPath == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact path is required")
	}
	artifact, err := s.ArtifactReader.ReadArtifact(artifactPath)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		SchemaName: artifact.Name,
		Version:    artifact.Version,
		Prefixes:   artifact.Prefixes.Len(),
		Classes:    artifact.Classes.Len(),
		Enums:      artifact.Enums.Len(),
		Types:      artifact.Types.Len(),
	}
	for _, id := range artifact.Classes.Keys {
		if artifact.Classes.Values[id].Abstract {
			result.AbstractClasses++
		}
	}
	for _, id := range artifact.Fields.Keys {
		field := artifact.Fields.Values[id]
		switch {
		case field.Overrides != "":
			result.OverrideFields++
		case field.Global:
			result.GlobalFields++
			result.BaseFields++
		default:
			result.BaseFields++
		}
	}

	overrides := summarizeOverrides(artifact.Fields)
	for _, field := range sortedKeys(overrides) {
		classes := overrides[field]
		sort.Strings(classes)
		result.Overrides = append(result.Overrides, InspectOverrideSummary{
			Field:   field,
			Classes: classes,
		})
	}
	return result, nil
}

// summarizeOverrides groups override records by the field they narrow. The
// class name is the part of the id after the field name and delimiter.
func summarizeOverrides(fields types.Ordered[types.ProcessedField]) map[string][]string {
	overrides := map[string][]string{}
	for _, id := range fields.Keys {
		field := fields.Values[id]
		if field.Overrides == "" {
			continue
		}
		className := strings.TrimPrefix(id, field.Overrides+types.OverrideDelimiter)
		overrides[field.Overrides] = append(overrides[field.Overrides], className)
	}
	return overrides
}

func sortedKeys[K comparable, V any](input map[K]V) []K {
	keys := make([]K, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
