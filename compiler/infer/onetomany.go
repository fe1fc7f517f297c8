package infer

import (
	"go.uber.org/zap"

	"github.com/syssam/prismatic/compiler/load"
)

// OneToMany pairs the "one" side (the entity holding the list field)
// with the "many" side (the entity holding the singular back-reference
// that carries the foreign key).
type OneToMany struct {
	One  EntityField
	Many EntityField
}

// classifyOneToMany scans every list-typed object field and pairs it
// with its reciprocal singular field on the related entity. Junction
// participants are excluded; they belong to the many-to-many stage.
// Traversal from the list side discovers each pair once, but dedup by
// the full 4-tuple is a hard contract rather than a traversal accident.
func classifyOneToMany(s *load.Schema, js *junctionSet, log *zap.Logger) []OneToMany {
	var (
		records []OneToMany
		seen    = make(map[[4]string]struct{})
	)
	for _, e := range s.Entities {
		for _, f := range e.Fields {
			if !f.IsObject() || !f.IsList {
				continue
			}
			related, ok := s.Entity(f.Type)
			if !ok {
				// Scalar-looking types may coincidentally resemble
				// entity names; dropping quietly keeps the run clean.
				log.Debug("dropping unresolvable reference",
					zap.String("entity", e.Name),
					zap.String("field", f.Name),
					zap.String("type", f.Type))
				continue
			}
			if js.contains(e.Name) || js.contains(related.Name) {
				continue
			}
			reciprocal := reciprocalOf(related, e.Name, f.RelationName, false)
			if reciprocal == nil {
				log.Debug("dropping list field without reciprocal",
					zap.String("entity", e.Name),
					zap.String("field", f.Name))
				continue
			}
			key := [4]string{e.Name, f.Name, related.Name, reciprocal.Name}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, OneToMany{
				One:  EntityField{Name: e.Name, Field: f.Name},
				Many: EntityField{Name: related.Name, Field: reciprocal.Name},
			})
		}
	}
	return records
}

// reciprocalOf finds on the related entity a singular object field
// pointing back at origin, honoring the relation correlation name when
// the origin field declares one.
func reciprocalOf(related *load.Entity, origin, relationName string, list bool) *load.Field {
	for _, f := range related.Fields {
		if !f.IsObject() || f.IsList != list || f.Type != origin {
			continue
		}
		if relationName != "" && f.RelationName != relationName {
			continue
		}
		return f
	}
	return nil
}
