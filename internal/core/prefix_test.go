package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"schema-flattener/internal/types"
)

func testPrefixes() types.PrefixMap {
	prefixes := types.NewOrdered[types.PrefixDef]()
	prefixes.Set("ex", types.PrefixDef{Prefix: "ex", Reference: "http://x/"})
	prefixes.Set("obo", types.PrefixDef{Reference: "http://purl.obolibrary.org/obo/"})
	prefixes.Set("empty", types.PrefixDef{Prefix: "empty"})
	return prefixes
}

func TestPrefixResolverExpands(t *testing.T) {
	resolver := NewPrefixResolver(testPrefixes(), nil, 0)

	url, ok := resolver.Expand(context.Background(), "ex:123", false)
	require.True(t, ok)
	if diff := cmp.Diff("http://x/123", url); diff != "" {
		t.Fatalf("unexpected url (-want +got):\n%s", diff)
	}
	require.Empty(t, resolver.InvalidNamespaces())
}

func TestPrefixResolverRecordsInvalidNamespaces(t *testing.T) {
	resolver := NewPrefixResolver(types.NewOrdered[types.PrefixDef](), nil, 0)

	_, ok := resolver.Expand(context.Background(), "zz:1", false)
	require.False(t, ok)
	if diff := cmp.Diff([]string{"zz"}, resolver.InvalidNamespaces()); diff != "" {
		t.Fatalf("unexpected invalid namespaces (-want +got):\n%s", diff)
	}
}

func TestPrefixResolverRejectsMalformedIdentifiers(t *testing.T) {
	resolver := NewPrefixResolver(testPrefixes(), nil, 0)
	ctx := context.Background()

	tests := []struct {
		identifier string
	}{
		{identifier: "nocolon"},
		{identifier: "ex:a:b"},
		{identifier: "empty:1"},
	}
	for _, tt := range tests {
		_, ok := resolver.Expand(ctx, tt.identifier, false)
		require.False(t, ok, tt.identifier)
	}
	if diff := cmp.Diff([]string{"empty", "ex", "nocolon"}, resolver.InvalidNamespaces()); diff != "" {
		t.Fatalf("unexpected invalid namespaces (-want +got):\n%s", diff)
	}
}

func TestPrefixResolverValidatesOncePerNamespace(t *testing.T) {
	checker := &testReachability{reachable: map[string]bool{"http://x/1": true}}
	resolver := NewPrefixResolver(testPrefixes(), checker, 0)
	ctx := context.Background()

	for _, id := range []string{"ex:1", "ex:2", "ex:does-not-exist", "obo:GO_1", "obo:GO_2"} {
		_, ok := resolver.Expand(ctx, id, true)
		require.True(t, ok, id)
	}

	if diff := cmp.Diff([]string{"http://x/1", "http://purl.obolibrary.org/obo/GO_1"}, checker.calls); diff != "" {
		t.Fatalf("unexpected checks (-want +got):\n%s", diff)
	}
	want := map[string]types.NamespaceCheck{
		"ex":  {URL: "http://x/1", Reachable: true},
		"obo": {URL: "http://purl.obolibrary.org/obo/GO_1", Reachable: false},
	}
	if diff := cmp.Diff(want, resolver.NamespaceChecks()); diff != "" {
		t.Fatalf("unexpected verdicts (-want +got):\n%s", diff)
	}
}

func TestPrefixResolverSkipsChecksWithoutValidate(t *testing.T) {
	checker := &testReachability{}
	resolver := NewPrefixResolver(testPrefixes(), checker, 0)

	_, ok := resolver.Expand(context.Background(), "ex:1", false)
	require.True(t, ok)
	require.Empty(t, checker.calls)
	require.Nil(t, resolver.NamespaceChecks())
}

func TestPrefixResolverStateIsPerInstance(t *testing.T) {
	first := NewPrefixResolver(types.NewOrdered[types.PrefixDef](), nil, 0)
	_, _ = first.Expand(context.Background(), "zz:1", false)

	second := NewPrefixResolver(types.NewOrdered[types.PrefixDef](), nil, 0)
	require.Empty(t, second.InvalidNamespaces())
}

func TestMergePrefixesOverlayWins(t *testing.T) {
	overlay := types.NewOrdered[types.PrefixDef]()
	overlay.Set("obo", types.PrefixDef{Reference: "https://mirror.example/obo/"})
	overlay.Set("xsd", types.PrefixDef{Reference: "http://www.w3.org/2001/XMLSchema#"})

	merged := MergePrefixes(testPrefixes(), overlay)

	require.Equal(t, []string{"ex", "obo", "empty", "xsd"}, merged.Keys)
	require.Equal(t, "https://mirror.example/obo/", merged.Values["obo"].Reference)
	require.Equal(t, "http://x/", merged.Values["ex"].Reference)
}
