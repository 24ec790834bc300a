package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	topLevelIDRegex = regexp.MustCompile(`^([AGRPTC])([1-9][0-9]*)$`)
	childIDRegex    = regexp.MustCompile(`^([AGRPTC])([1-9][0-9]*)(\.[1-9][0-9]*)+$`)
)

// IsObjectID reports whether s is a well-formed object identifier,
// either top-level ("T12") or hierarchical ("P3.2", "P3.2.1")
func IsObjectID(s string) bool {
	return topLevelIDRegex.MatchString(s) || childIDRegex.MatchString(s)
}

// ValidateID checks that s is a well-formed object identifier
func ValidateID(s string) error {
	if !IsObjectID(s) {
		return fmt.Errorf("invalid object id: %q", s)
	}
	return nil
}

// IDPrefix returns the type-prefix letter of an id ("T12" -> "T")
func IDPrefix(id string) string {
	if len(id) == 0 {
		return ""
	}
	return id[:1]
}

// IDType returns the object type encoded in the id prefix
func IDType(id string) ObjectType {
	return TypeForPrefix(IDPrefix(id))
}

// ParentID returns the parent portion of a hierarchical id, or "" for a
// top-level id ("P3.2.1" -> "P3.2", "T12" -> "")
func ParentID(id string) string {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return ""
	}
	return id[:i]
}

// TopNumber returns the numeric suffix of a top-level id ("T12" -> 12)
func TopNumber(id string) (int, bool) {
	m := topLevelIDRegex.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ChildNumber returns the final dotted component of a hierarchical id
// ("P3.2" -> 2)
func ChildNumber(id string) (int, bool) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatID builds a top-level id from a prefix and number
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// FormatChildID builds a hierarchical child id
func FormatChildID(parentID string, n int) string {
	return fmt.Sprintf("%s.%d", parentID, n)
}

// idComponents splits an id into its prefix and numeric components:
// "P3.2.1" -> "P", [3 2 1]. Malformed components come back as -1 so a
// malformed id still sorts deterministically.
func idComponents(id string) (string, []int) {
	prefix := ""
	rest := id
	if len(id) > 0 && id[0] >= 'A' && id[0] <= 'Z' {
		prefix = id[:1]
		rest = id[1:]
	}
	parts := strings.Split(rest, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = -1
		}
		nums = append(nums, n)
	}
	return prefix, nums
}

// CompareIDs orders ids by prefix letter, then numeric-aware comparison of
// the dotted components, so "T2" sorts before "T10" and "P3.2" before
// "P3.10". The stable sort key for rendering.
func CompareIDs(a, b string) int {
	ap, an := idComponents(a)
	bp, bn := idComponents(b)
	if ap != bp {
		if ap < bp {
			return -1
		}
		return 1
	}
	for i := 0; i < len(an) && i < len(bn); i++ {
		if an[i] != bn[i] {
			if an[i] < bn[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(an) < len(bn):
		return -1
	case len(an) > len(bn):
		return 1
	}
	return strings.Compare(a, b)
}
