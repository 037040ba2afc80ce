package ports

import "schema-flattener/internal/types"

// PrefixOverlayPort loads namespace tables that supplement or replace the
// prefixes declared by the schema itself.
//
// Layers are applied in order: when several files define the same
// namespace, the last one wins.
type PrefixOverlayPort interface {
	LoadOverlays(paths []string) (types.PrefixMap, error)
}
