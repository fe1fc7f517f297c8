// Package load defines the normalized schema graph consumed by the
// inference engine: entities, fields and relation metadata, addressable
// by name. The graph is produced by the parser (or any other
// introspection front-end) and is immutable for the duration of a run.
package load

import (
	"errors"
	"fmt"
)

// Kind is the shape of a field: a primitive value or a reference to
// another entity.
type Kind string

// Field kinds.
const (
	Scalar Kind = "scalar"
	Object Kind = "object"
)

// DefaultKind discriminates the closed set of default-value shapes a
// field can carry.
type DefaultKind int

// Default-value kinds.
const (
	// NoDefault indicates the field declares no default value.
	NoDefault DefaultKind = iota
	// Literal is a plain literal default, e.g. @default(0) or @default("x").
	Literal
	// NowFunction is the auto-created timestamp default, @default(now()).
	NowFunction
	// AutoincrementFunction is the auto-assigned identifier default,
	// @default(autoincrement()).
	AutoincrementFunction
)

// String returns the default kind name.
func (k DefaultKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case NowFunction:
		return "now()"
	case AutoincrementFunction:
		return "autoincrement()"
	default:
		return "none"
	}
}

// DefaultValue is the tagged representation of a field default.
// Value is set only for Literal defaults and holds the raw source text.
type DefaultValue struct {
	Kind  DefaultKind `json:"kind"`
	Value string      `json:"value,omitempty"`
}

// Field is a single attribute of an Entity. A field of kind Object
// refers to another entity by Type.
type Field struct {
	Name         string       `json:"name"`
	Kind         Kind         `json:"kind"`
	Type         string       `json:"type"`
	DBName       string       `json:"dbName,omitempty"`
	IsList       bool         `json:"isList,omitempty"`
	IsRequired   bool         `json:"isRequired,omitempty"`
	IsID         bool         `json:"isId,omitempty"`
	IsUnique     bool         `json:"isUnique,omitempty"`
	IsUpdatedAt  bool         `json:"isUpdatedAt,omitempty"`
	RelationName string       `json:"relationName,omitempty"`
	References   []string     `json:"references,omitempty"`
	RelationFKs  []string     `json:"relationFromFields,omitempty"`
	Default      DefaultValue `json:"default"`
}

// HasDefault reports if the field declares any default value.
func (f *Field) HasDefault() bool { return f.Default.Kind != NoDefault }

// IsObject reports if the field references another entity.
func (f *Field) IsObject() bool { return f.Kind == Object }

// IsScalar reports if the field holds a primitive value.
func (f *Field) IsScalar() bool { return f.Kind == Scalar }

// Entity is a modeled table/collection with an ordered field list.
// The field order is the declaration order of the source schema and is
// the iteration order everywhere downstream.
type Entity struct {
	Name   string   `json:"name"`
	DBName string   `json:"dbName,omitempty"`
	Fields []*Field `json:"fields"`
}

// Field returns the field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ObjectFields returns the fields of kind Object in declaration order.
func (e *Entity) ObjectFields() []*Field {
	fields := make([]*Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.IsObject() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ScalarFields returns the fields of kind Scalar in declaration order.
func (e *Entity) ScalarFields() []*Field {
	fields := make([]*Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.IsScalar() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ListFieldOfType returns the first list-typed object field referencing
// the given entity name, or nil.
func (e *Entity) ListFieldOfType(name string) *Field {
	for _, f := range e.Fields {
		if f.IsObject() && f.IsList && f.Type == name {
			return f
		}
	}
	return nil
}

// TableName returns the database table name: DBName when mapped,
// the entity name otherwise.
func (e *Entity) TableName() string {
	if e.DBName != "" {
		return e.DBName
	}
	return e.Name
}

// Schema is the full entity graph. Entities preserves declaration
// order; the name index exists for lookups only and is never iterated.
type Schema struct {
	Entities []*Entity `json:"entities"`
	index    map[string]*Entity
}

// NewSchema builds a schema graph from the given entities and validates
// the structural contract. A violation is fatal for the whole run.
func NewSchema(entities ...*Entity) (*Schema, error) {
	s := &Schema{
		Entities: entities,
		index:    make(map[string]*Entity, len(entities)),
	}
	for _, e := range entities {
		if err := validateEntity(e); err != nil {
			return nil, err
		}
		if _, ok := s.index[e.Name]; ok {
			return nil, &MalformedError{Entity: e.Name, Message: "entity redeclared"}
		}
		s.index[e.Name] = e
	}
	return s, nil
}

// Entity returns the entity with the given name.
func (s *Schema) Entity(name string) (*Entity, bool) {
	e, ok := s.index[name]
	return e, ok
}

// ErrMalformed indicates the upstream introspection collaborator
// violated the input contract. Unlike per-relationship ambiguities,
// which are resolved locally, this terminates the whole run.
var ErrMalformed = errors.New("prismatic: malformed schema graph")

// MalformedError reports a structural violation of the input contract.
type MalformedError struct {
	Entity  string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("prismatic: entity %q field %q: %s", e.Entity, e.Field, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("prismatic: entity %q: %s", e.Entity, e.Message)
	default:
		return "prismatic: " + e.Message
	}
}

// Is reports whether the target matches the malformed-graph sentinel.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func validateEntity(e *Entity) error {
	if e == nil {
		return &MalformedError{Message: "nil entity"}
	}
	if e.Name == "" {
		return &MalformedError{Message: "entity name cannot be empty"}
	}
	seen := make(map[string]struct{}, len(e.Fields))
	for _, f := range e.Fields {
		if err := validateField(e.Name, f); err != nil {
			return err
		}
		if _, ok := seen[f.Name]; ok {
			return &MalformedError{Entity: e.Name, Field: f.Name, Message: "field redeclared"}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func validateField(entity string, f *Field) error {
	if f == nil {
		return &MalformedError{Entity: entity, Message: "nil field"}
	}
	if f.Name == "" {
		return &MalformedError{Entity: entity, Message: "field name cannot be empty"}
	}
	if f.Type == "" {
		return &MalformedError{Entity: entity, Field: f.Name, Message: "field type cannot be empty"}
	}
	if f.Kind != Scalar && f.Kind != Object {
		return &MalformedError{Entity: entity, Field: f.Name, Message: fmt.Sprintf("unknown field kind %q", f.Kind)}
	}
	return nil
}
