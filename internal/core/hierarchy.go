package core

import (
	"schema-flattener/internal/types"
)

// BuildHierarchy maps every class to its parent. Roots map to "". A parent
// that names no declared class is kept as is; walkers treat it as the end
// of the chain.
func BuildHierarchy(classes types.Ordered[types.ClassDef]) map[string]string {
	hierarchy := make(map[string]string, classes.Len())
	for _, name := range classes.Keys {
		hierarchy[name] = classes.Values[name].Parent
	}
	return hierarchy
}

// ensureAcyclic walks every parent chain once and fails on the first class
// reached twice along the same chain.
func ensureAcyclic(order []string, hierarchy map[string]string) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(hierarchy))
	for _, start := range order {
		if state[start] == done {
			continue
		}
		var path []string
		current := start
		for current != "" && state[current] != done {
			if state[current] == inProgress {
				return CyclicHierarchyError(cyclePath(path, current))
			}
			state[current] = inProgress
			path = append(path, current)
			parent, declared := hierarchy[current]
			if !declared {
				break
			}
			current = parent
		}
		for _, name := range path {
			state[name] = done
		}
	}
	return nil
}

// cyclePath trims the walk down to the loop itself and closes it.
func cyclePath(path []string, repeated string) []string {
	for i, name := range path {
		if name == repeated {
			loop := append([]string(nil), path[i:]...)
			return append(loop, repeated)
		}
	}
	return append(append([]string(nil), path...), repeated)
}
