package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"schema-flattener/tests/testutil"
)

func TestTransformCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()
	output := filepath.Join(outDir, "sample.processed.json")
	report := filepath.Join(outDir, "report.yaml")

	cmd := exec.Command("go", "run", "./cmd/schema-flattener", "transform",
		"--input", "fixtures/sample.expanded.json",
		"--output", output,
		"--prefix-overlay", "fixtures/prefix-overlay.yaml",
		"--report", report,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, output)
	require.FileExists(t, report)
	require.True(t, strings.Contains(string(out), "classes: 5"), string(out))
}

func TestValidateCommandE2EExitCode(t *testing.T) {
	root := testutil.RepoRoot(t)
	input := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"classes": {"A": {"attributes": ["id"]}}}`), 0644))

	cmd := exec.Command("go", "run", "./cmd/schema-flattener", "validate", "--input", input)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	// go run reports the program's non-zero status as its own exit code 1.
	require.NotZero(t, exitErr.ExitCode())
	require.Contains(t, string(out), "malformed input")
}
