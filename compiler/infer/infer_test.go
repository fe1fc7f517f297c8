package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/prismatic/compiler/load"
)

func graph(t *testing.T, entities ...*load.Entity) *load.Schema {
	t.Helper()
	s, err := load.NewSchema(entities...)
	require.NoError(t, err)
	return s
}

func scalar(name, typ string) *load.Field {
	return &load.Field{Name: name, Kind: load.Scalar, Type: typ, IsRequired: true}
}

func object(name, typ string) *load.Field {
	return &load.Field{Name: name, Kind: load.Object, Type: typ}
}

func list(name, typ string) *load.Field {
	return &load.Field{Name: name, Kind: load.Object, Type: typ, IsList: true, IsRequired: true}
}

// Scenario: Department has many Employees via a matched reciprocal pair.
func TestInfer_OneToMany(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "Department", Fields: []*load.Field{
			scalar("id", "Int"),
			list("employees", "Employee"),
		}},
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			object("department", "Department"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Empty(r.ManyToMany)
	require.Empty(r.OneToOne)
	require.Len(r.OneToMany, 1)
	require.Equal(EntityField{Name: "Department", Field: "employees"}, r.OneToMany[0].One)
	require.Equal(EntityField{Name: "Employee", Field: "department"}, r.OneToMany[0].Many)
}

// Scenario: Employee and Profile hold singular references to each other.
func TestInfer_OneToOne(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			object("profile", "Profile"),
		}},
		&load.Entity{Name: "Profile", Fields: []*load.Field{
			scalar("id", "Int"),
			object("employee", "Employee"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Empty(r.ManyToMany)
	require.Empty(r.OneToMany)
	// Both traversal directions must collapse to a single record.
	require.Len(r.OneToOne, 1)
	require.Equal(EntityField{Name: "Employee", Field: "profile"}, r.OneToOne[0].TableOne)
	require.Equal(EntityField{Name: "Profile", Field: "employee"}, r.OneToOne[0].TableTwo)
}

func m2mFixture(t *testing.T) *load.Schema {
	return graph(t,
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			list("assignments", "EmployeeProject"),
		}},
		&load.Entity{Name: "Project", Fields: []*load.Field{
			scalar("id", "Int"),
			list("assignments", "EmployeeProject"),
		}},
		&load.Entity{Name: "EmployeeProject", Fields: []*load.Field{
			scalar("employeeId", "Int"),
			scalar("projectId", "Int"),
			object("employee", "Employee"),
			object("project", "Project"),
		}},
	)
}

// Scenario: EmployeeProject is shaped like a pure join table and must
// produce exactly one mirrored many-to-many pair.
func TestInfer_ManyToMany(t *testing.T) {
	require := require.New(t)
	r, err := Infer(m2mFixture(t))
	require.NoError(err)
	require.True(r.IsJunction("EmployeeProject"))
	require.Len(r.ManyToMany, 2)

	rec, mirror := r.ManyToMany[0], r.ManyToMany[1]
	require.Equal(EntityField{Name: "Employee", Field: "employeeId"}, rec.A)
	require.Equal(EntityField{Name: "Project", Field: "projectId"}, rec.B)
	require.Equal(rec.A, mirror.B)
	require.Equal(rec.B, mirror.A)
	require.Equal(rec.Junction, mirror.Junction)
	require.Equal("EmployeeProject", rec.Junction.Name)

	// Junction exclusion: the join table must never surface as a
	// one-to-many or one-to-one subject.
	require.Empty(r.OneToMany)
	require.Empty(r.OneToOne)
	require.Empty(r.Outgoing("EmployeeProject"))
	for _, name := range r.Subjects() {
		require.NotEqual("EmployeeProject", name)
	}
}

// Boundary: two object fields without both reciprocal list fields is
// not a junction table and falls through to ordinary classification.
func TestInfer_JunctionBoundary(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			list("notes", "Note"),
		}},
		&load.Entity{Name: "Project", Fields: []*load.Field{
			scalar("id", "Int"),
		}},
		&load.Entity{Name: "Note", Fields: []*load.Field{
			scalar("id", "Int"),
			object("employee", "Employee"),
			object("project", "Project"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.False(r.IsJunction("Note"))
	require.Empty(r.ManyToMany)
	require.Len(r.OneToMany, 1)
	require.Equal("Note", r.OneToMany[0].Many.Name)
}

// A junction with fewer than two scalar fields cannot be side-matched
// and is skipped, not a failure.
func TestInfer_AmbiguousJunctionSkipped(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			list("tags", "EmployeeTag"),
		}},
		&load.Entity{Name: "Tag", Fields: []*load.Field{
			scalar("id", "Int"),
			list("tagged", "EmployeeTag"),
		}},
		&load.Entity{Name: "EmployeeTag", Fields: []*load.Field{
			scalar("id", "Int"),
			object("employee", "Employee"),
			object("tag", "Tag"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Empty(r.ManyToMany)
	require.Empty(r.Junctions)
	// Still detected as a junction, so it stays excluded downstream.
	require.True(r.IsJunction("EmployeeTag"))
	require.Empty(r.OneToMany)
}

func TestInfer_RelationNameCorrelation(t *testing.T) {
	require := require.New(t)
	// Two distinct relations between the same entities, disambiguated
	// by relation correlation names.
	author := &load.Field{Name: "author", Kind: load.Object, Type: "User", RelationName: "Written"}
	editor := &load.Field{Name: "editor", Kind: load.Object, Type: "User", RelationName: "Edited"}
	written := &load.Field{Name: "written", Kind: load.Object, Type: "Post", IsList: true, RelationName: "Written"}
	edited := &load.Field{Name: "edited", Kind: load.Object, Type: "Post", IsList: true, RelationName: "Edited"}
	s := graph(t,
		&load.Entity{Name: "User", Fields: []*load.Field{scalar("id", "Int"), written, edited}},
		&load.Entity{Name: "Post", Fields: []*load.Field{scalar("id", "Int"), author, editor}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Len(r.OneToMany, 2)
	require.Equal("written", r.OneToMany[0].One.Field)
	require.Equal("author", r.OneToMany[0].Many.Field)
	require.Equal("edited", r.OneToMany[1].One.Field)
	require.Equal("editor", r.OneToMany[1].Many.Field)
}

func TestInfer_DroppedCandidates(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "User", Fields: []*load.Field{
			scalar("id", "Int"),
			// Type resolves to no entity: silently dropped.
			list("events", "AuditEvent"),
			// No reciprocal on the other side: silently dropped.
			object("shadow", "Profile"),
		}},
		&load.Entity{Name: "Profile", Fields: []*load.Field{
			scalar("id", "Int"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Empty(r.OneToMany)
	require.Empty(r.OneToOne)
	require.Empty(r.Subjects())
}

func TestInfer_NoSchema(t *testing.T) {
	_, err := Infer(nil)
	require.ErrorIs(t, err, ErrNoSchema)
}

func TestInfer_RegistryAssembly(t *testing.T) {
	require := require.New(t)
	s := graph(t,
		&load.Entity{Name: "Department", Fields: []*load.Field{
			scalar("id", "Int"),
			list("employees", "Employee"),
		}},
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			scalar("id", "Int"),
			object("department", "Department"),
			object("profile", "Profile"),
		}},
		&load.Entity{Name: "Profile", Fields: []*load.Field{
			scalar("id", "Int"),
			object("employee", "Employee"),
		}},
	)
	r, err := Infer(s)
	require.NoError(err)
	require.Equal([]string{"Department", "Employee", "Profile"}, r.Subjects())

	out := r.Outgoing("Employee")
	require.Len(out, 2)
	require.Equal(M2O, out[0].Rel)
	require.Equal("Department", out[0].Object.Name)
	require.Equal(O2O, out[1].Rel)
	require.Equal("Profile", out[1].Object.Name)

	require.Len(r.Outgoing("Department"), 1)
	require.Equal(O2M, r.Outgoing("Department")[0].Rel)
}

// Running inference twice on the same graph yields byte-identical output.
func TestInfer_Idempotence(t *testing.T) {
	require := require.New(t)
	s := m2mFixture(t)

	first, err := Infer(s)
	require.NoError(err)
	second, err := Infer(s)
	require.NoError(err)

	b1, err := NewDocument(s, first).MarshalIndent()
	require.NoError(err)
	b2, err := NewDocument(s, second).MarshalIndent()
	require.NoError(err)
	require.Equal(string(b1), string(b2))
}

func TestRel_String(t *testing.T) {
	for rel, want := range map[Rel]string{
		Unk: "Unknown", O2O: "O2O", O2M: "O2M", M2O: "M2O", M2M: "M2M",
	} {
		assert.Equal(t, want, rel.String())
	}
}
