package ports

import "schema-flattener/internal/types"

// StagedArtifact is a fully written artifact that has not yet replaced the
// file at its destination.
type StagedArtifact interface {
	Size() int64
	Commit() error
	Discard() error
}

type ArtifactWriterPort interface {
	// StageArtifact serializes the artifact next to path without touching
	// path itself. Nothing appears at path until Commit.
	StageArtifact(path string, artifact types.ProcessedSchema) (StagedArtifact, error)
	// WriteArtifact stages and commits in one step and returns the number
	// of bytes written. A failed write leaves no file at path.
	WriteArtifact(path string, artifact types.ProcessedSchema) (int64, error)
}

type ArtifactReaderPort interface {
	ReadArtifact(path string) (types.ProcessedSchema, error)
}
