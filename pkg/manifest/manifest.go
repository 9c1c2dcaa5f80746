// Package manifest parses dependency-declaration files into flat
// (name, version) records.
//
// Two formats are supported: the pinned-version list used by pip
// (requirements.txt) and the nested build configuration used by poetry
// and PEP 621 projects (pyproject.toml). Parsers preserve the order
// declarations appear in the source and keep duplicates; a malformed
// manifest is a parse error, never a silently shortened result.
package manifest

// Record is one declared dependency: the package name and the version
// text exactly as the manifest pins or constrains it.
type Record struct {
	Name    string
	Version string
}

// Parser extracts dependency records from one manifest format.
type Parser interface {
	// System names the dependency-management system ("pip", "poetry").
	System() string

	// Supports reports whether this parser handles the given file name.
	Supports(name string) bool

	// Parse extracts records from raw manifest bytes, in appearance
	// order, duplicates preserved. Malformed input is an error.
	Parse(data []byte) ([]Record, error)
}

// Registry maps manifest file names to their parser. Lookup order follows
// registration order, which doubles as the tree-search priority.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry with the built-in parsers: pinned
// requirements first, pyproject second.
func NewRegistry() *Registry {
	return &Registry{parsers: []Parser{&Requirements{}, &PyProject{}}}
}

// Lookup returns the parser responsible for the given manifest file name.
func (r *Registry) Lookup(fileName string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Supports(fileName) {
			return p, true
		}
	}
	return nil, false
}

// FileNames returns the canonical manifest file names to search for, in
// priority order.
func (r *Registry) FileNames() []string {
	return []string{"requirements.txt", "pyproject.toml"}
}
