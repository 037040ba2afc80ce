package adapters

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

const outputFileMode os.FileMode = 0644

// ArtifactFileAdapter writes the processed schema as indented JSON. The
// bytes go to a pending file beside the destination, which is renamed into
// place on commit, so a failed run never leaves a partial artifact behind.
type ArtifactFileAdapter struct{}

func NewArtifactFileAdapter() ArtifactFileAdapter {
	return ArtifactFileAdapter{}
}

func (a ArtifactFileAdapter) StageArtifact(path string, artifact types.ProcessedSchema) (ports.StagedArtifact, error) {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return nil, err
	}
	dir, err := ensureParentDir(path)
	if err != nil {
		return nil, err
	}
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithPermissions(outputFileMode))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create pending artifact in " + dir).
			WithCause(err)
	}
	if _, err := pending.Write(data); err != nil {
		_ = pending.Cleanup()
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("artifact staged")
	return &stagedFile{pending: pending, path: path, size: int64(len(data))}, nil
}

func (a ArtifactFileAdapter) WriteArtifact(path string, artifact types.ProcessedSchema) (int64, error) {
	staged, err := a.StageArtifact(path, artifact)
	if err != nil {
		return 0, err
	}
	if err := staged.Commit(); err != nil {
		return 0, err
	}
	return staged.Size(), nil
}

func encodeArtifact(artifact types.ProcessedSchema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode artifact").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

type stagedFile struct {
	pending *renameio.PendingFile
	path    string
	size    int64
}

func (s *stagedFile) Size() int64 {
	return s.size
}

func (s *stagedFile) Commit() error {
	if err := s.pending.CloseAtomicallyReplace(); err != nil {
		_ = s.pending.Cleanup()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to move artifact into place: " + s.path).
			WithCause(err)
	}
	log.Debug().Str("path", s.path).Int64("bytes", s.size).Msg("artifact written")
	return nil
}

// Discard removes the pending file. It is a no-op after a successful Commit.
func (s *stagedFile) Discard() error {
	return s.pending.Cleanup()
}

func ensureParentDir(path string) (string, error) {
	if path == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory: " + dir).
			WithCause(err)
	}
	return dir, nil
}

// writeFileAtomic replaces path with data in one rename.
func writeFileAtomic(path string, data []byte) error {
	dir, err := ensureParentDir(path)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, outputFileMode, renameio.WithTempDir(dir)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}

var _ ports.ArtifactWriterPort = ArtifactFileAdapter{}
