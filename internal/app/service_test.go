package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"schema-flattener/internal/ports"
)

type stubReachability struct {
	reachable bool
	calls     []string
}

func (s *stubReachability) Check(_ context.Context, url string, _ time.Duration) bool {
	s.calls = append(s.calls, url)
	return s.reachable
}

func fixturePath(t *testing.T, name string) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	return filepath.Join(root, "fixtures", name)
}

// testService is the production service with a fixed clock, a fixed run id
// and a network-free reachability checker.
func testService(checker *stubReachability) Service {
	service := NewService()
	start := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	service.Clock = func() time.Time { return start }
	service.NewRunID = func() string { return "run-0001" }
	service.Reachability = func(float64) ports.ReachabilityPort { return checker }
	return service
}
