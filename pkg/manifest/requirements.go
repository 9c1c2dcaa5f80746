package manifest

import (
	"bufio"
	"bytes"
	"strings"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

// Requirements parses the pinned-version list format used by pip:
// one "name==version" per line, with comments and pip option lines
// ignored. A requirement line without an exact pin is a parse error — a
// pinned list that silently drops lines would report a wrong inventory.
type Requirements struct{}

// System returns "pip".
func (r *Requirements) System() string { return "pip" }

// Supports matches requirements.txt and variants like requirements-dev.txt.
func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

// Parse extracts pinned records in line order, duplicates preserved.
func (r *Requirements) Parse(data []byte) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}

		name, version, ok := strings.Cut(line, "==")
		if !ok {
			return nil, apierr.New(apierr.ErrCodeInvalidManifest,
				"requirements line %d is not an exact pin: %q", lineNo, line)
		}

		// Strip environment markers and trailing comments from the pin.
		if v, _, found := strings.Cut(version, ";"); found {
			version = v
		}
		if v, _, found := strings.Cut(version, "#"); found {
			version = v
		}
		// Extras belong to the name, not the inventory.
		if n, _, found := strings.Cut(name, "["); found {
			name = n
		}

		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)
		if name == "" || version == "" {
			return nil, apierr.New(apierr.ErrCodeInvalidManifest,
				"requirements line %d has an empty name or version: %q", lineNo, line)
		}
		records = append(records, Record{Name: name, Version: version})
	}
	if err := scanner.Err(); err != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInvalidManifest, err, "scan requirements")
	}
	return records, nil
}
