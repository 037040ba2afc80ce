package core

import (
	"schema-flattener/internal/types"
)

// DefiningAncestor returns the topmost ancestor of className that
// introduced attr, or "" when the class defines it locally.
//
// Attribute sets are already merged with everything inherited, so the walk
// climbs while the parent still lists attr and stops at the first parent
// that does not. The last class that listed it is the origin.
func DefiningAncestor(className string, attr string, classes types.Ordered[types.ClassDef], hierarchy map[string]string) (string, error) {
	visited := map[string]struct{}{className: {}}
	path := []string{className}
	defining := ""
	current := className
	for {
		parent := hierarchy[current]
		if parent == "" {
			break
		}
		if _, seen := visited[parent]; seen {
			return "", CyclicHierarchyError(cyclePath(path, parent))
		}
		visited[parent] = struct{}{}
		path = append(path, parent)

		parentDef, ok := classes.Get(parent)
		if !ok || !parentDef.Attributes.Has(attr) {
			break
		}
		defining = parent
		current = parent
	}
	return defining, nil
}
