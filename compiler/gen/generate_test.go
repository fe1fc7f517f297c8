package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/prismatic/compiler/infer"
	"github.com/syssam/prismatic/compiler/load"
)

func fixture(t *testing.T) (*load.Schema, *infer.Registry) {
	t.Helper()
	s, err := load.NewSchema(
		&load.Entity{Name: "Employee", Fields: []*load.Field{
			{Name: "id", Kind: load.Scalar, Type: "Int", IsRequired: true, IsID: true},
			{Name: "email", Kind: load.Scalar, Type: "String", IsRequired: true, IsUnique: true},
			{Name: "bio", Kind: load.Scalar, Type: "String"},
			{Name: "createdAt", Kind: load.Scalar, Type: "DateTime", IsRequired: true},
			{Name: "department", Kind: load.Object, Type: "Department"},
			{Name: "assignments", Kind: load.Object, Type: "EmployeeProject", IsList: true, IsRequired: true},
		}},
		&load.Entity{Name: "Department", Fields: []*load.Field{
			{Name: "id", Kind: load.Scalar, Type: "Int", IsRequired: true, IsID: true},
			{Name: "employees", Kind: load.Object, Type: "Employee", IsList: true, IsRequired: true},
		}},
		&load.Entity{Name: "Project", Fields: []*load.Field{
			{Name: "id", Kind: load.Scalar, Type: "Int", IsRequired: true, IsID: true},
			{Name: "assignments", Kind: load.Object, Type: "EmployeeProject", IsList: true, IsRequired: true},
		}},
		&load.Entity{Name: "EmployeeProject", Fields: []*load.Field{
			{Name: "employeeId", Kind: load.Scalar, Type: "Int", IsRequired: true},
			{Name: "projectId", Kind: load.Scalar, Type: "Int", IsRequired: true},
			{Name: "employee", Kind: load.Object, Type: "Employee", IsRequired: true},
			{Name: "project", Kind: load.Object, Type: "Project", IsRequired: true},
		}},
	)
	require.NoError(t, err)
	r, err := infer.Infer(s)
	require.NoError(t, err)
	return s, r
}

func render(t *testing.T, g *Generator, e *load.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.genModel(e).Render(&buf))
	return buf.String()
}

func TestGenerator_Model(t *testing.T) {
	require := require.New(t)
	s, r := fixture(t)
	g, err := NewGenerator(s, r, "models")
	require.NoError(err)

	emp, _ := s.Entity("Employee")
	out := render(t, g, emp)
	require.Contains(out, "// Code generated by prismatic. DO NOT EDIT.")
	require.Contains(out, "package models")
	require.Contains(out, "type Employee struct")
	require.Contains(out, "ID int")
	require.Contains(out, "Bio *string")
	require.Contains(out, `CreatedAt time.Time`)
	// M2O back-reference and M2M collection from the registry.
	require.Contains(out, "Department *Department")
	require.Contains(out, "Projects []*Project")
	// The junction entity never leaks into the model.
	require.NotContains(out, "EmployeeProject")

	dept, _ := s.Entity("Department")
	out = render(t, g, dept)
	require.Contains(out, "Employees []*Employee")
}

func TestGenerator_Tables(t *testing.T) {
	require := require.New(t)
	s, r := fixture(t)
	g, err := NewGenerator(s, r, "models")
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(g.genTables().Render(&buf))
	out := buf.String()
	require.Contains(out, `EmployeeTable = "employee"`)
	require.Contains(out, `EmployeeProjectTable = "employee_project"`)
	require.Contains(out, `EmployeeProjectPrimaryKey = []string{"employeeId", "projectId"}`)
}

func TestGenerator_Generate(t *testing.T) {
	require := require.New(t)
	s, r := fixture(t)
	dir := filepath.Join(t.TempDir(), "models")
	g, err := NewGenerator(s, r, dir, WithWorkers(2))
	require.NoError(err)
	require.NoError(g.Generate(context.Background()))

	for _, name := range []string{"employee.go", "department.go", "project.go", "tables.go"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(err, name)
	}
	// Junction tables get no model file.
	_, err = os.Stat(filepath.Join(dir, "employee_project.go"))
	require.True(os.IsNotExist(err))
}

func TestGenerator_Options(t *testing.T) {
	s, r := fixture(t)

	_, err := NewGenerator(s, r, "")
	require.ErrorIs(t, err, ErrMissingConfig)

	_, err = NewGenerator(s, r, "models", WithPackage(""))
	require.ErrorIs(t, err, ErrMissingConfig)

	_, err = NewGenerator(s, r, "models", WithWorkers(0))
	require.ErrorIs(t, err, ErrMissingConfig)

	g, err := NewGenerator(s, r, "out/db", WithPackage("db"))
	require.NoError(t, err)
	require.Equal(t, "db", g.cfg.Package)
}

func TestNaming(t *testing.T) {
	tests := []struct {
		in, pascal, snake string
	}{
		{"employee_project", "EmployeeProject", "employee_project"},
		{"EmployeeProject", "EmployeeProject", "employee_project"},
		{"userId", "UserId", "user_id"},
		{"api_key", "APIKey", "api_key"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.pascal, pascal(tt.in), "pascal(%q)", tt.in)
		require.Equal(t, tt.snake, snake(tt.in), "snake(%q)", tt.in)
	}
	require.Equal(t, "employeeProjects", camel("employee_projects"))
}
