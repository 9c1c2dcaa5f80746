package manifest

import (
	"testing"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

func TestPyProjectParsePoetry(t *testing.T) {
	input := `
[tool.poetry]
name = "demo"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"
flask = { version = "3.0.0", extras = ["async"] }

[tool.poetry.dev-dependencies]
pytest = "^7.4"
`
	p := &PyProject{}
	got, err := p.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []Record{
		{Name: "requests", Version: "^2.31"},
		{Name: "flask", Version: "3.0.0"},
		{Name: "pytest", Version: "^7.4"},
	}
	if len(got) != len(want) {
		t.Fatalf("records = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPyProjectParseGroups(t *testing.T) {
	input := `
[tool.poetry.group.docs.dependencies]
sphinx = "^7.0"

[tool.poetry.group.lint.dependencies]
ruff = { version = "0.1.9" }
`
	p := &PyProject{}
	got, err := p.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []Record{
		{Name: "sphinx", Version: "^7.0"},
		{Name: "ruff", Version: "0.1.9"},
	}
	if len(got) != len(want) {
		t.Fatalf("records = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPyProjectParsePEP621(t *testing.T) {
	input := `
[project]
name = "demo"
dependencies = [
    "requests>=2.0,<3",
    "flask",
    "uvicorn[standard]>=0.23",
]
`
	p := &PyProject{}
	got, err := p.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []Record{
		{Name: "requests", Version: ">=2.0,<3"},
		{Name: "flask", Version: ""},
		{Name: "uvicorn", Version: ">=0.23"},
	}
	if len(got) != len(want) {
		t.Fatalf("records = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPyProjectParseEmpty(t *testing.T) {
	p := &PyProject{}
	got, err := p.Parse([]byte("[build-system]\nrequires = [\"poetry-core\"]\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("records = %+v, want none", got)
	}
}

func TestPyProjectParseMalformed(t *testing.T) {
	p := &PyProject{}
	if _, err := p.Parse([]byte("[tool.poetry\nbroken")); !apierr.Is(err, apierr.ErrCodeInvalidManifest) {
		t.Errorf("Parse() error = %v, want INVALID_MANIFEST", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	if p, ok := r.Lookup("requirements.txt"); !ok || p.System() != "pip" {
		t.Errorf("Lookup(requirements.txt) = %v, %v; want pip parser", p, ok)
	}
	if p, ok := r.Lookup("pyproject.toml"); !ok || p.System() != "poetry" {
		t.Errorf("Lookup(pyproject.toml) = %v, %v; want poetry parser", p, ok)
	}
	if _, ok := r.Lookup("package.json"); ok {
		t.Error("Lookup(package.json) should not match")
	}

	names := r.FileNames()
	if len(names) != 2 || names[0] != "requirements.txt" || names[1] != "pyproject.toml" {
		t.Errorf("FileNames() = %v, want requirements.txt before pyproject.toml", names)
	}
}
