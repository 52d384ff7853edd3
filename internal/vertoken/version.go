// Package vertoken parses, increments, and rewrites the 4-part numeric
// version tokens embedded in assembly-info and native resource files.
// Everything in this package is a pure text transform; callers own all I/O.
package vertoken

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered 4-tuple of non-negative integers.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String returns the canonical dotted form, e.g. "1.2.3.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// commas returns the resource-record form, e.g. "1,2,3,4".
func (v Version) commas() string {
	return fmt.Sprintf("%d,%d,%d,%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseNumber parses a bare version string in either dotted ("1.2.3.4") or
// resource-record comma form ("1, 2, 3, 4"). Any shape other than exactly
// four numeric fields is not incrementable and reports ok=false.
func ParseNumber(s string) (Version, bool) {
	sep := "."
	if strings.Contains(s, ",") {
		sep = ","
	}
	parts := strings.Split(s, sep)
	if len(parts) != 4 {
		return Version{}, false
	}

	var fields [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Version{}, false
		}
		fields[i] = n
	}

	return Version{
		Major:    fields[0],
		Minor:    fields[1],
		Build:    fields[2],
		Revision: fields[3],
	}, true
}
