package version

import (
	"cmp"
	"slices"
	"strings"
)

// specialQualifiers rank above every other non-numeric part, in this order.
var specialQualifiers = []string{"rc", "snapshot", "final", "ga", "release", "sp"}

type part struct {
	text    string
	numeric bool
}

func isSeparator(c byte) bool {
	return c == '.' || c == '-' || c == '_' || c == '+'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// tokenize splits s at separators and at digit/letter boundaries.
func tokenize(s string) []part {
	var parts []part
	start := -1
	numeric := false
	flush := func(end int) {
		if start >= 0 && end > start {
			parts = append(parts, part{text: s[start:end], numeric: numeric})
		}
		start = -1
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSeparator(c) {
			flush(i)
			continue
		}
		d := isDigit(c)
		if start >= 0 && d != numeric {
			flush(i)
		}
		if start < 0 {
			start, numeric = i, d
		}
	}
	flush(len(s))
	return parts
}

// Compare orders static versions and returns -1, 0 or +1. It is a strict
// total order: Compare returns 0 only for versions with identical text.
//
// Non-static versions sort after all static ones, by kind and then text, so
// that Compare can be used to sort arbitrary slices.
func (v Version) Compare(o Version) int {
	if !v.IsStatic() || !o.IsStatic() {
		switch {
		case v.IsStatic():
			return -1
		case o.IsStatic():
			return 1
		}
		if c := cmp.Compare(v.kind, o.kind); c != 0 {
			return c
		}
		return strings.Compare(v.text, o.text)
	}
	if c := compareParts(v.parts, o.parts); c != 0 {
		return c
	}
	if c := strings.Compare(v.base, o.base); c != 0 {
		return c
	}
	switch {
	case v.kind == o.kind:
		return 0
	case v.kind == Snapshot:
		return -1
	default:
		return 1
	}
}

func compareParts(a, b []part) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		switch {
		case i >= len(a):
			if b[i].numeric {
				return -1
			}
			return 1
		case i >= len(b):
			if a[i].numeric {
				return 1
			}
			return -1
		}
		if c := comparePart(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func comparePart(a, b part) int {
	switch {
	case a.numeric && b.numeric:
		return compareNumeric(a.text, b.text)
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	default:
		return compareQualifier(a.text, b.text)
	}
}

// compareNumeric compares digit strings of any length by magnitude.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareQualifier(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "dev":
		return -1
	case b == "dev":
		return 1
	}
	ia, ib := specialIndex(a), specialIndex(b)
	switch {
	case ia >= 0 && ib >= 0:
		return cmp.Compare(ia, ib)
	case ia >= 0:
		return 1
	case ib >= 0:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func specialIndex(s string) int {
	s = strings.ToLower(s)
	return slices.IndexFunc(specialQualifiers, func(q string) bool {
		return strings.Contains(s, q)
	})
}

// Max returns the greatest static version in vs. The boolean is false when
// vs holds no static version.
func Max(vs []Version) (Version, bool) {
	var best Version
	found := false
	for _, v := range vs {
		if !v.IsStatic() {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

// Sort orders vs in place using [Version.Compare].
func Sort(vs []Version) {
	slices.SortFunc(vs, Version.Compare)
}
