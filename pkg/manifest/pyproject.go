package manifest

import (
	"strings"

	"github.com/BurntSushi/toml"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

// PyProject parses the nested build configuration in pyproject.toml.
// It reads poetry dependency tables (tool.poetry.dependencies,
// tool.poetry.dev-dependencies, tool.poetry.group.*.dependencies) and the
// PEP 621 project.dependencies list. Appearance order is preserved via
// the decoder's key metadata since Go maps would otherwise scramble it.
type PyProject struct{}

// System returns "poetry".
func (p *PyProject) System() string { return "poetry" }

// Supports matches pyproject.toml only.
func (p *PyProject) Supports(name string) bool { return name == "pyproject.toml" }

type pyprojectFile struct {
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// Parse extracts declared dependencies in appearance order.
func (p *PyProject) Parse(data []byte) ([]Record, error) {
	var doc pyprojectFile
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInvalidManifest, err, "parse pyproject.toml")
	}

	var records []Record
	for _, key := range md.Keys() {
		name, table := poetryDependencyKey(key)
		if name == "" || name == "python" {
			continue
		}
		var value any
		switch table {
		case "dependencies":
			value = doc.Tool.Poetry.Dependencies[name]
		case "dev-dependencies":
			value = doc.Tool.Poetry.DevDependencies[name]
		default: // group name
			value = doc.Tool.Poetry.Group[table].Dependencies[name]
		}
		records = append(records, Record{Name: name, Version: versionOf(value)})
	}

	for _, spec := range doc.Project.Dependencies {
		name, version := splitRequirement(spec)
		if name == "" {
			return nil, apierr.New(apierr.ErrCodeInvalidManifest,
				"project dependency %q has no package name", spec)
		}
		records = append(records, Record{Name: name, Version: version})
	}
	return records, nil
}

// poetryDependencyKey reports the dependency name and owning table when
// key addresses an entry of a poetry dependency table, "" otherwise.
// The table result is "dependencies", "dev-dependencies", or the group name.
func poetryDependencyKey(key toml.Key) (name, table string) {
	if len(key) < 2 || key[0] != "tool" || key[1] != "poetry" {
		return "", ""
	}
	switch {
	case len(key) == 4 && (key[2] == "dependencies" || key[2] == "dev-dependencies"):
		return key[3], key[2]
	case len(key) == 6 && key[2] == "group" && key[4] == "dependencies":
		return key[5], key[3]
	}
	return "", ""
}

// versionOf extracts the constraint text from a poetry dependency value,
// which is either a bare string or a table carrying a version key.
func versionOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["version"].(string); ok {
			return s
		}
	}
	return ""
}

// splitRequirement splits a PEP 508 requirement string like
// "requests>=2.0,<3" into its name and constraint text.
func splitRequirement(spec string) (name, version string) {
	spec = strings.TrimSpace(spec)
	cut := len(spec)
	for i, r := range spec {
		if strings.ContainsRune("=<>!~;[ ", r) {
			cut = i
			break
		}
	}
	name = spec[:cut]
	version = strings.TrimSpace(strings.TrimLeft(spec[cut:], "[ "))
	if idx := strings.Index(version, ";"); idx >= 0 {
		version = strings.TrimSpace(version[:idx])
	}
	if idx := strings.Index(version, "]"); idx >= 0 {
		// Drop the extras group; the constraint follows it.
		version = strings.TrimSpace(version[idx+1:])
	}
	return name, version
}
