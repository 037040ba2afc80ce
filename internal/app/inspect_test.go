package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestInspectApp(t *testing.T) {
	output := filepath.Join(t.TempDir(), "clinical.processed.json")
	service := testService(&stubReachability{})
	_, err := service.Transform(t.Context(), TransformRequest{
		InputPath:  fixturePath(t, "sample.expanded.json"),
		OutputPath: output,
	})
	require.NoError(t, err)

	result, err := service.Inspect(InspectRequest{ArtifactPath: output})
	require.NoError(t, err)
	want := InspectResult{
		SchemaName:      "clinical",
		Version:         "1.2.0",
		Prefixes:        4,
		Classes:         5,
		AbstractClasses: 1,
		GlobalFields:    1,
		BaseFields:      4,
		OverrideFields:  2,
		Enums:           2,
		Types:           2,
		Overrides: []InspectOverrideSummary{
			{Field: "category", Classes: []string{"SdohObservation"}},
			{Field: "value", Classes: []string{"MeasurementObservation"}},
		},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("unexpected inspect result (-want +got):\n%s", diff)
	}
}

func TestInspectAppErrors(t *testing.T) {
	service := NewService()

	_, err := service.Inspect(InspectRequest{})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.Inspect(InspectRequest{ArtifactPath: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	_, err = service.Inspect(InspectRequest{ArtifactPath: broken})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
