// Package gen emits Go model source from the classified schema. It
// consumes the inference registry rather than the raw graph, so
// junction tables never surface as first-class models and only
// classified relationships become struct references.
package gen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/prismatic/compiler/infer"
	"github.com/syssam/prismatic/compiler/load"
)

const header = "Code generated by prismatic. DO NOT EDIT."

// Config holds the generator settings.
type Config struct {
	// Target is the output directory. Required.
	Target string
	// Package is the output package name. Defaults to the base name
	// of Target.
	Package string
	// Workers bounds the parallel file writes.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the output package name.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", pkg, "package name cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "worker count must be positive")
		}
		c.Workers = n
		return nil
	}
}

// Generator writes one model file per non-junction entity plus a
// shared constants file, streaming each file to disk.
type Generator struct {
	cfg      *Config
	schema   *load.Schema
	registry *infer.Registry
}

// NewGenerator creates a generator for the given graph and registry.
func NewGenerator(s *load.Schema, r *infer.Registry, target string, opts ...Option) (*Generator, error) {
	if target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory")
	}
	cfg := &Config{
		Target:  target,
		Package: filepath.Base(target),
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Generator{cfg: cfg, schema: s, registry: r}, nil
}

// Generate emits all files with parallel streaming writes.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return err
	}
	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, e := range g.schema.Entities {
		if g.registry.IsJunction(e.Name) {
			continue
		}
		e := e
		errg.Go(func() error {
			return g.writeFile(g.genModel(e), snake(e.Name)+".go")
		})
	}
	errg.Go(func() error {
		return g.writeFile(g.genTables(), "tables.go")
	})
	return errg.Wait()
}

// genModel builds the model struct file for one entity: scalar fields
// in declaration order, then one reference field per classified
// outgoing relationship.
func (g *Generator) genModel(e *load.Entity) *jen.File {
	f := g.newFile()
	name := pascal(e.Name)
	fields := make([]jen.Code, 0, len(e.Fields))
	for _, fld := range e.ScalarFields() {
		fields = append(fields, jen.Id(pascal(fld.Name)).
			Add(scalarType(fld)).
			Tag(map[string]string{"json": fld.Name}))
	}
	for _, d := range g.registry.Outgoing(e.Name) {
		fields = append(fields, g.relationField(d))
	}
	f.Commentf("%s is the model entity for the %s table.", name, snake(e.TableName()))
	f.Type().Id(name).Struct(fields...)
	return f
}

// relationField maps one relationship descriptor to a struct field.
func (g *Generator) relationField(d *infer.Descriptor) jen.Code {
	target := pascal(d.Object.Name)
	switch d.Rel {
	case infer.O2M:
		return jen.Id(pascal(d.Subject.Field)).
			Index().Op("*").Id(target).
			Tag(map[string]string{"json": d.Subject.Field + ",omitempty"})
	case infer.M2M:
		// M2M has no navigable field of its own on the entity; the
		// generated collection is named after the far side.
		plural := rules.Pluralize(d.Object.Name)
		return jen.Id(pascal(plural)).
			Index().Op("*").Id(target).
			Tag(map[string]string{"json": camel(plural) + ",omitempty"})
	default: // M2O, O2O
		return jen.Id(pascal(d.Subject.Field)).
			Op("*").Id(target).
			Tag(map[string]string{"json": d.Subject.Field + ",omitempty"})
	}
}

// genTables builds the shared constants file: table name constants for
// every entity and the primary-key column pairs of junction tables.
func (g *Generator) genTables() *jen.File {
	f := g.newFile()
	consts := make([]jen.Code, 0, len(g.schema.Entities))
	for _, e := range g.schema.Entities {
		consts = append(consts,
			jen.Commentf("%sTable holds the table name of the %s entity.", pascal(e.Name), e.Name),
			jen.Id(pascal(e.Name)+"Table").Op("=").Lit(snake(e.TableName())),
		)
	}
	f.Const().Defs(consts...)
	for _, j := range g.registry.Junctions {
		f.Commentf("%sPrimaryKey is the junction primary key linking %s and %s.",
			pascal(j.Name), j.EntityA, j.EntityB)
		f.Var().Id(pascal(j.Name) + "PrimaryKey").Op("=").
			Index().String().Values(jen.Lit(j.FieldA), jen.Lit(j.FieldB))
	}
	return f
}

// scalarType maps a Prisma scalar type to its Go representation.
// Enum and unknown scalar types degrade to string. For nillable
// primitives we use Id("*type") rather than Op("*") to avoid
// whitespace issues in struct field definitions.
func scalarType(f *load.Field) jen.Code {
	optional := !f.IsRequired && !f.IsList
	switch f.Type {
	case "Int":
		return primitive("int", f.IsList, optional)
	case "BigInt":
		return primitive("int64", f.IsList, optional)
	case "Float", "Decimal":
		return primitive("float64", f.IsList, optional)
	case "Boolean":
		return primitive("bool", f.IsList, optional)
	case "Bytes":
		return jen.Index().Byte()
	case "DateTime":
		if optional {
			return jen.Op("*").Qual("time", "Time")
		}
		if f.IsList {
			return jen.Index().Qual("time", "Time")
		}
		return jen.Qual("time", "Time")
	case "Json":
		return jen.Qual("encoding/json", "RawMessage")
	default:
		return primitive("string", f.IsList, optional)
	}
}

func primitive(name string, list, optional bool) jen.Code {
	switch {
	case list:
		return jen.Index().Id(name)
	case optional:
		return jen.Id("*" + name)
	default:
		return jen.Id(name)
	}
}

func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.cfg.Package)
	f.HeaderComment(header)
	return f
}

// writeFile streams a rendered file to disk.
func (g *Generator) writeFile(f *jen.File, filename string) error {
	out, err := os.Create(filepath.Join(g.cfg.Target, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}
