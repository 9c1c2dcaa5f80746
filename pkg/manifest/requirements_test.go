package manifest

import (
	"testing"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

func TestRequirementsParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "pinned list",
			input: "requests==2.31.0\nflask==3.0.0\n",
			want: []Record{
				{Name: "requests", Version: "2.31.0"},
				{Name: "flask", Version: "3.0.0"},
			},
		},
		{
			name:  "comments and blanks skipped",
			input: "# deps\n\nrequests==2.31.0\n  # trailing comment line\n",
			want:  []Record{{Name: "requests", Version: "2.31.0"}},
		},
		{
			name:  "pip options skipped",
			input: "-r base.txt\n--index-url https://pypi.example\nflask==3.0.0\n",
			want:  []Record{{Name: "flask", Version: "3.0.0"}},
		},
		{
			name:  "duplicates and order preserved",
			input: "b==2\na==1\nb==2\n",
			want: []Record{
				{Name: "b", Version: "2"},
				{Name: "a", Version: "1"},
				{Name: "b", Version: "2"},
			},
		},
		{
			name:  "extras and markers stripped",
			input: "uvicorn[standard]==0.23.2 ; python_version >= \"3.8\"\n",
			want:  []Record{{Name: "uvicorn", Version: "0.23.2"}},
		},
		{
			name:  "inline comment stripped",
			input: "requests==2.31.0  # security pin\n",
			want:  []Record{{Name: "requests", Version: "2.31.0"}},
		},
		{
			name:  "empty file",
			input: "",
			want:  nil,
		},
	}

	p := &Requirements{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("records = %d, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("records[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRequirementsParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "range constraint", input: "requests>=2.0\n"},
		{name: "bare name", input: "requests\n"},
		{name: "empty version", input: "requests==\n"},
		{name: "empty name", input: "==2.31.0\n"},
	}

	p := &Requirements{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Parse([]byte(tt.input)); !apierr.Is(err, apierr.ErrCodeInvalidManifest) {
				t.Errorf("Parse() error = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestRequirementsSupports(t *testing.T) {
	p := &Requirements{}
	for name, want := range map[string]bool{
		"requirements.txt":     true,
		"requirements-dev.txt": true,
		"requirements_ci.txt":  true,
		"pyproject.toml":       false,
		"setup.py":             false,
	} {
		if got := p.Supports(name); got != want {
			t.Errorf("Supports(%q) = %v, want %v", name, got, want)
		}
	}
}
