package infer

import "github.com/syssam/prismatic/compiler/load"

// junction is a resolved junction-table candidate: the junction entity,
// its two object fields, and the two related entities, each of which
// exposes a reciprocal list field typed back to the junction.
type junction struct {
	entity         *load.Entity
	a, b           *load.Entity
	fieldA, fieldB *load.Field
}

// junctionSet is the read-only result of junction detection, in graph
// declaration order.
type junctionSet struct {
	tables []junction
	names  map[string]struct{}
}

func (js *junctionSet) contains(entity string) bool {
	_, ok := js.names[entity]
	return ok
}

func (js *junctionSet) nameSet() map[string]struct{} { return js.names }

// detectJunctions scans the graph for entities shaped like pure join
// tables: exactly two object fields, each referencing a distinct other
// entity, each of those entities holding a reciprocal list field typed
// back to the candidate. Entities failing either check are simply not
// junction tables; that is not an error, since two-object-field
// entities legitimately occur outside join-table shapes.
func detectJunctions(s *load.Schema) *junctionSet {
	js := &junctionSet{names: make(map[string]struct{})}
	for _, e := range s.Entities {
		objects := e.ObjectFields()
		if len(objects) != 2 {
			continue
		}
		fieldA, fieldB := objects[0], objects[1]
		a, okA := s.Entity(fieldA.Type)
		b, okB := s.Entity(fieldB.Type)
		if !okA || !okB {
			continue
		}
		if a.Name == b.Name || a.Name == e.Name || b.Name == e.Name {
			continue
		}
		if a.ListFieldOfType(e.Name) == nil || b.ListFieldOfType(e.Name) == nil {
			continue
		}
		js.tables = append(js.tables, junction{entity: e, a: a, b: b, fieldA: fieldA, fieldB: fieldB})
		js.names[e.Name] = struct{}{}
	}
	return js
}
