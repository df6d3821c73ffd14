package schematic

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Version is a major.minor.patch format version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Supported is the newest format version this package reads and the
// version it writes.
var Supported = Version{0, 0, 20}

// ParseVersion parses "x", "x.y" or "x.y.z". Missing parts are zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 {
		return v, fmt.Errorf("invalid version %q", s)
	}
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		*dst[i] = n
	}
	return v, nil
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return sign(v.Major - o.Major)
	case v.Minor != o.Minor:
		return sign(v.Minor - o.Minor)
	default:
		return sign(v.Patch - o.Patch)
	}
}

// IsZero reports whether v is 0.0.0.
func (v Version) IsZero() bool { return v == Version{} }

// Prev returns the largest version strictly below v.
func (v Version) Prev() Version {
	switch {
	case v.Patch > 0:
		return Version{v.Major, v.Minor, v.Patch - 1}
	case v.Minor > 0:
		return Version{v.Major, v.Minor - 1, math.MaxInt32}
	case v.Major > 0:
		return Version{v.Major - 1, math.MaxInt32, math.MaxInt32}
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
