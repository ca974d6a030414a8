package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AppVersion is the hvprm release version.
const AppVersion = "0.1.0"

// ErrVersionFormat is returned by ParseVersion for anything that is not
// exactly "major.minor.patch".
var ErrVersionFormat = errors.New("version must be 'major.minor.patch', e.g. '2.4.1'")

// Version is a semantic library version.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String formats the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major.minor.patch" where every component is a
// non-negative decimal integer.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, ErrVersionFormat
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.TrimSpace(p) != p {
			return Version{}, ErrVersionFormat
		}
		n, err := strconv.ParseUint(p, 10, 31)
		if err != nil {
			return Version{}, ErrVersionFormat
		}
		nums[i] = int(n)
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
