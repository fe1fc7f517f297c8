package infer

import (
	"go.uber.org/zap"

	"github.com/syssam/prismatic/compiler/load"
)

// OneToOne is an unordered one-to-one pair. TableOne is the side the
// traversal discovered first.
type OneToOne struct {
	TableOne EntityField
	TableTwo EntityField
}

// classifyOneToOne pairs singular object fields with their singular
// reciprocals. The traversal visits both sides of the same relation
// independently, so dedup uses an order-independent key:
// (e1,f1,e2,f2) and (e2,f2,e1,f1) collapse to one record.
func classifyOneToOne(s *load.Schema, js *junctionSet, log *zap.Logger) []OneToOne {
	var (
		records []OneToOne
		seen    = make(map[[4]string]struct{})
	)
	for _, e := range s.Entities {
		for _, f := range e.Fields {
			if !f.IsObject() || f.IsList {
				continue
			}
			related, ok := s.Entity(f.Type)
			if !ok {
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
				continue
			}
			key := pairKey(e.Name, f.Name, related.Name, reciprocal.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, OneToOne{
				TableOne: EntityField{Name: e.Name, Field: f.Name},
				TableTwo: EntityField{Name: related.Name, Field: reciprocal.Name},
			})
		}
	}
	return records
}

// pairKey canonicalizes an unordered (entity, field) pair so both
// traversal directions produce the same key.
func pairKey(e1, f1, e2, f2 string) [4]string {
	if e2 < e1 || (e2 == e1 && f2 < f1) {
		e1, f1, e2, f2 = e2, f2, e1, f1
	}
	return [4]string{e1, f1, e2, f2}
}
