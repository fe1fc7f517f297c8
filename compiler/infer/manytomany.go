package infer

import "go.uber.org/zap"

// ManyToMany is a directional many-to-many record. Every junction
// produces exactly two: (A,B) and its mirror (B,A), both carrying the
// same junction table.
type ManyToMany struct {
	A        EntityField
	B        EntityField
	Junction JunctionTable
}

// JunctionTable is the per-pair junction metadata: the junction entity
// name and the scalar field on it belonging to each side.
type JunctionTable struct {
	Name    string
	EntityA string
	EntityB string
	FieldA  string
	FieldB  string
}

// classifyManyToMany emits the mirrored many-to-many pairs for the
// detected junction set, plus the junction-table registry. A junction
// with fewer than two scalar fields cannot be side-matched positionally
// and is skipped rather than failing the run.
func classifyManyToMany(js *junctionSet, log *zap.Logger) ([]ManyToMany, []JunctionTable) {
	var (
		records []ManyToMany
		tables  []JunctionTable
		seen    = make(map[[3]string]struct{})
	)
	for _, j := range js.tables {
		scalars := j.entity.ScalarFields()
		if len(scalars) < 2 {
			log.Debug("skipping junction with ambiguous scalar fields",
				zap.String("junction", j.entity.Name),
				zap.Int("scalars", len(scalars)))
			continue
		}
		key := [3]string{j.a.Name, j.b.Name, j.entity.Name}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		seen[[3]string{j.b.Name, j.a.Name, j.entity.Name}] = struct{}{}

		table := JunctionTable{
			Name:    j.entity.Name,
			EntityA: j.a.Name,
			EntityB: j.b.Name,
			FieldA:  sideField(scalars, j.a.Name, 0),
			FieldB:  sideField(scalars, j.b.Name, 1),
		}
		sideA := EntityField{Name: j.a.Name, Field: table.FieldA}
		sideB := EntityField{Name: j.b.Name, Field: table.FieldB}
		records = append(records,
			ManyToMany{A: sideA, B: sideB, Junction: table},
			ManyToMany{A: sideB, B: sideA, Junction: table},
		)
		tables = append(tables, table)
	}
	return records, tables
}
