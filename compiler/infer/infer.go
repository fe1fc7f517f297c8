// Package infer implements the relationship inference engine. It
// consumes a normalized schema graph (compiler/load) and produces three
// disjoint relationship classifications plus a junction-table registry:
//
//	Junction detection → Many-to-Many → One-to-Many → One-to-One → Assembly
//
// Each stage is a pure single pass over the immutable graph. Later
// stages depend only on the read-only junction set computed first.
// Given the same graph in the same order, the output is identical
// across runs: iteration follows slice declaration order everywhere,
// never map order.
package infer

import (
	"go.uber.org/zap"

	"github.com/syssam/prismatic/compiler/load"
)

// Rel is a relation type of a classified relationship.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one.
	O2M            // One to many.
	M2O            // Many to one (inverse perspective for O2M).
	M2M            // Many to many, through a junction table.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// EntityField is one side of a relationship: an entity and the field on
// it that realizes the relation.
type EntityField struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

// Descriptor is one outgoing relationship of a subject entity, as
// stored in the assembled registry.
type Descriptor struct {
	Rel     Rel
	Subject EntityField
	Object  EntityField
	// Junction is the junction entity name. Set for M2M only.
	Junction string
}

// Registry is the assembled output of the engine: the three
// classification lists, the junction-table registry, and a per-subject
// view of outgoing relationships in insertion order. Presentation
// sorting is the renderer's concern, not the engine's.
type Registry struct {
	ManyToMany []ManyToMany
	OneToMany  []OneToMany
	OneToOne   []OneToOne
	Junctions  []JunctionTable

	subjects []string
	outgoing map[string][]*Descriptor
	junction map[string]struct{}
}

// Subjects returns the subject entity names in insertion order.
func (r *Registry) Subjects() []string { return r.subjects }

// Outgoing returns the outgoing relationship descriptors of the given
// entity in insertion order.
func (r *Registry) Outgoing(entity string) []*Descriptor { return r.outgoing[entity] }

// IsJunction reports if the given entity was classified as a junction
// table. Junction entities never appear as subjects.
func (r *Registry) IsJunction(entity string) bool {
	_, ok := r.junction[entity]
	return ok
}

func (r *Registry) insert(d *Descriptor) {
	if _, ok := r.outgoing[d.Subject.Name]; !ok {
		r.subjects = append(r.subjects, d.Subject.Name)
	}
	r.outgoing[d.Subject.Name] = append(r.outgoing[d.Subject.Name], d)
}

type config struct {
	log *zap.Logger
}

// Option configures an inference run.
type Option func(*config)

// WithLogger sets the logger used for debug-level observations
// (dropped candidates, skipped junctions). Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// Infer runs the full inference pipeline over the given graph.
// Per-relationship ambiguities are resolved locally by dropping the one
// candidate; only a missing graph is fatal.
func Infer(s *load.Schema, opts ...Option) (*Registry, error) {
	if s == nil {
		return nil, ErrNoSchema
	}
	cfg := &config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	junctions := detectJunctions(s)
	r := &Registry{
		outgoing: make(map[string][]*Descriptor),
		junction: junctions.nameSet(),
	}
	r.ManyToMany, r.Junctions = classifyManyToMany(junctions, cfg.log)
	r.OneToMany = classifyOneToMany(s, junctions, cfg.log)
	r.OneToOne = classifyOneToOne(s, junctions, cfg.log)
	assemble(r)
	return r, nil
}

// assemble merges the classifier outputs into the per-subject view.
// M2M records are already mirrored, so each one contributes a single
// descriptor; O2M and O2O records contribute one per side.
func assemble(r *Registry) {
	for i := range r.ManyToMany {
		m := &r.ManyToMany[i]
		r.insert(&Descriptor{
			Rel:      M2M,
			Subject:  m.A,
			Object:   m.B,
			Junction: m.Junction.Name,
		})
	}
	for i := range r.OneToMany {
		rel := &r.OneToMany[i]
		r.insert(&Descriptor{Rel: O2M, Subject: rel.One, Object: rel.Many})
		r.insert(&Descriptor{Rel: M2O, Subject: rel.Many, Object: rel.One})
	}
	for i := range r.OneToOne {
		rel := &r.OneToOne[i]
		r.insert(&Descriptor{Rel: O2O, Subject: rel.TableOne, Object: rel.TableTwo})
		r.insert(&Descriptor{Rel: O2O, Subject: rel.TableTwo, Object: rel.TableOne})
	}
}
