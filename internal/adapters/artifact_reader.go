package adapters

import (
	"encoding/json"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

type ArtifactReaderAdapter struct{}

func NewArtifactReaderAdapter() ArtifactReaderAdapter {
	return ArtifactReaderAdapter{}
}

func (a ArtifactReaderAdapter) ReadArtifact(path string) (types.ProcessedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProcessedSchema{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read artifact: " + path).
			WithCause(err)
	}
	var artifact types.ProcessedSchema
	if err := json.Unmarshal(data, &artifact); err != nil {
		return types.ProcessedSchema{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse artifact: " + path).
			WithCause(err)
	}
	return artifact, nil
}

var _ ports.ArtifactReaderPort = ArtifactReaderAdapter{}
