package infer

import (
	"strings"

	"github.com/syssam/prismatic/compiler/load"
)

// sideField picks, from a junction table's scalar fields, the one
// "belonging" to the given related entity: the first scalar whose name
// contains the entity name as a case-insensitive substring (the
// foreign-key-like column, e.g. "employeeId" for Employee).
//
// When no name matches, it falls back to positional indexing in
// declaration order: index 0 for side A, index 1 for side B. The
// fallback is fuzzy by nature and kept as documented behavior; callers
// must guard len(scalars) > fallback before calling.
func sideField(scalars []*load.Field, entity string, fallback int) string {
	needle := strings.ToLower(entity)
	for _, f := range scalars {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			return f.Name
		}
	}
	return scalars[fallback].Name
}
