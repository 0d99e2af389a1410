package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex is used to parse a name, optionally followed by a port index, e.g. `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// groupRegex validates group names.
var groupRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// isValidName checks for undesirable but technically valid names.
func isValidName(name string) bool {
	return name != "-"
}

// ValidName reports whether name can be used as the name part of an address.
func ValidName(name string) bool {
	m := segmentRegex.FindStringSubmatch(name)
	return m != nil && m[2] == "" && isValidName(name)
}

// Parse creates a new Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	group, rest, found := strings.Cut(rawID, ".")
	if !found {
		return Address{}, fmt.Errorf("identifier %q is missing a group", rawID)
	}
	if !groupRegex.MatchString(group) {
		return Address{}, fmt.Errorf("invalid group name: %q", group)
	}
	return ParseRef(group, rest)
}

// ParseRef parses a reference relative to group, e.g. `wavelet` or
// `wavelet[1]`, as found in configuration files.
func ParseRef(group, ref string) (Address, error) {
	if ref == "" {
		return Address{}, fmt.Errorf("reference cannot be empty")
	}

	matches := segmentRegex.FindStringSubmatch(ref)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid reference format: %q", ref)
	}

	name := matches[1]
	if !isValidName(name) {
		return Address{}, fmt.Errorf("invalid name: %q", name)
	}

	addr := New(group, name)
	if len(matches) > 2 && matches[2] != "" {
		port, err := strconv.Atoi(matches[2])
		if err != nil {
			// Unreachable due to regex `\d+`
			return Address{}, fmt.Errorf("internal error parsing port index: %w", err)
		}
		addr.Port = port
	}
	return addr, nil
}
