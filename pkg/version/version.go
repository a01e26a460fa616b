package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies which variant a [Version] holds.
type Kind int

const (
	Unknown Kind = iota
	Exact
	Snapshot
	Range
	Prefix
	Latest
)

var kindNames = [...]string{"unknown", "exact", "snapshot", "range", "prefix", "latest"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

const (
	// SnapshotSuffix marks a development build.
	SnapshotSuffix = "-SNAPSHOT"

	// LatestRelease resolves to the newest release in Gradle.
	LatestRelease = "latest.release"

	// LatestIntegration resolves to the newest build, snapshots included.
	LatestIntegration = "latest.integration"
)

var errInvalidRange = errors.New("invalid version range")

// rangePattern matches "[a,b)", "(,b]", "[a,)", "[a,b[" and the pinned "[a]".
var rangePattern = regexp.MustCompile(`^([\[(])([^,\[\]()]*)(,([^,\[\]()]*))?([\])\[])$`)

// Version is a parsed version string. The zero value is an Unknown version
// with empty text.
//
// Version is an immutable value; copies are safe to share between goroutines.
type Version struct {
	kind Kind
	text string

	// Exact and Snapshot: parts of the exact text (the base for snapshots).
	parts []part
	base  string

	// Range bounds. A nil bound is unbounded on that side.
	lower *Bound
	upper *Bound

	// Prefix: text before the trailing '+', and the derived base release.
	prefix     string
	prefixBase *Version
}

// Bound is one end of a [Range] version.
type Bound struct {
	Version   Version
	Inclusive bool
}

// Parse converts text into a Version. It never fails: text that cannot be
// interpreted yields an [Unknown] version that still preserves the text.
//
// Dispatch order: empty text, range brackets, trailing "+", the Latest
// keywords, the snapshot suffix, and otherwise an exact version.
func Parse(text string) Version {
	v, err := parse(text)
	if err != nil {
		return Version{kind: Unknown, text: text}
	}
	return v
}

func parse(text string) (Version, error) {
	switch {
	case text == "":
		return Version{kind: Unknown}, nil
	case rangePattern.MatchString(text):
		return parseRange(text)
	case strings.HasSuffix(text, "+"):
		return parsePrefix(text), nil
	case text == LatestRelease || text == LatestIntegration:
		return Version{kind: Latest, text: text}, nil
	case strings.HasSuffix(text, SnapshotSuffix):
		base := strings.TrimSuffix(text, SnapshotSuffix)
		parts := tokenize(base)
		if len(parts) == 0 {
			return Version{}, fmt.Errorf("snapshot %q has no base version", text)
		}
		return Version{kind: Snapshot, text: text, parts: parts, base: base}, nil
	default:
		return newExact(text)
	}
}

func newExact(text string) (Version, error) {
	parts := tokenize(text)
	if len(parts) == 0 {
		return Version{}, fmt.Errorf("version %q has no parts", text)
	}
	return Version{kind: Exact, text: text, parts: parts, base: text}, nil
}

func parseRange(text string) (Version, error) {
	m := rangePattern.FindStringSubmatch(text)
	lowerInclusive := m[1] == "["
	upperInclusive := m[5] == "]"
	lowerText := strings.TrimSpace(m[2])

	if m[3] == "" {
		// Pinned form "[1.0]".
		if !lowerInclusive || !upperInclusive || lowerText == "" {
			return Version{}, fmt.Errorf("%w: %q", errInvalidRange, text)
		}
		b, err := staticBound(lowerText)
		if err != nil {
			return Version{}, err
		}
		return Version{
			kind:  Range,
			text:  text,
			lower: &Bound{Version: b, Inclusive: true},
			upper: &Bound{Version: b, Inclusive: true},
		}, nil
	}

	v := Version{kind: Range, text: text}
	if lowerText != "" {
		b, err := staticBound(lowerText)
		if err != nil {
			return Version{}, err
		}
		v.lower = &Bound{Version: b, Inclusive: lowerInclusive}
	}
	if upperText := strings.TrimSpace(m[4]); upperText != "" {
		b, err := staticBound(upperText)
		if err != nil {
			return Version{}, err
		}
		v.upper = &Bound{Version: b, Inclusive: upperInclusive}
	}

	switch {
	case v.lower == nil && v.upper == nil:
		return Version{}, fmt.Errorf("%w: %q is unbounded", errInvalidRange, text)
	case v.lower != nil && v.upper != nil:
		c := v.lower.Version.Compare(v.upper.Version)
		if c > 0 || (c == 0 && !(v.lower.Inclusive && v.upper.Inclusive)) {
			return Version{}, fmt.Errorf("%w: %q is empty", errInvalidRange, text)
		}
	}
	return v, nil
}

func staticBound(text string) (Version, error) {
	b := Parse(text)
	if !b.IsStatic() {
		return Version{}, fmt.Errorf("%w: bound %q is not a static version", errInvalidRange, text)
	}
	return b, nil
}

// parsePrefix handles "1.0.+" and "1.0+". Only one trailing separator is
// trimmed when deriving the base, so "1.0.+" and "1.0+" both have base "1.0"
// while matching different sets of versions.
func parsePrefix(text string) Version {
	prefix := strings.TrimSuffix(text, "+")
	v := Version{kind: Prefix, text: text, prefix: prefix}

	base := prefix
	if n := len(base); n > 0 && isSeparator(base[n-1]) {
		base = base[:n-1]
	}
	if base == "" {
		return v
	}
	if b, err := newExact(base); err == nil {
		v.prefixBase = &b
	}
	return v
}

// Kind returns the variant held by v.
func (v Version) Kind() Kind { return v.kind }

// String returns the text v was parsed from.
func (v Version) String() string { return v.text }

// IsStatic reports whether v denotes one concrete release (Exact or Snapshot).
func (v Version) IsStatic() bool { return v.kind == Exact || v.kind == Snapshot }

// IsSnapshot reports whether v is a Snapshot.
func (v Version) IsSnapshot() bool { return v.kind == Snapshot }

// Base returns the release a Snapshot or Prefix is derived from: "1.0" for
// both "1.0-SNAPSHOT" and "1.0.+". Exact versions return themselves. The
// boolean is false when no base exists.
func (v Version) Base() (Version, bool) {
	switch v.kind {
	case Exact:
		return v, true
	case Snapshot:
		return Version{kind: Exact, text: v.base, parts: v.parts, base: v.base}, true
	case Prefix:
		if v.prefixBase != nil {
			return *v.prefixBase, true
		}
	}
	return Version{}, false
}

// Bounds returns the lower and upper bound of a Range. Either may be nil for
// an unbounded side; both are nil for non-range versions.
func (v Version) Bounds() (lower, upper *Bound) {
	return v.lower, v.upper
}

// Equal reports whether v and o were parsed from the same text.
func (v Version) Equal(o Version) bool { return v.text == o.text && v.kind == o.kind }

// Contains reports whether the candidate o satisfies v.
//
// Exact and Snapshot versions contain only themselves. Ranges test their
// bounds. Prefixes match by text. Latest and Unknown contain nothing.
func (v Version) Contains(o Version) bool {
	switch v.kind {
	case Exact, Snapshot:
		return o.IsStatic() && v.Compare(o) == 0
	case Range:
		return v.rangeContains(o)
	case Prefix:
		if v.prefix == "" {
			return true
		}
		if strings.HasPrefix(o.text, v.prefix) {
			return true
		}
		return v.prefixBase != nil && o.text == v.prefixBase.text
	default:
		return false
	}
}

func (v Version) rangeContains(o Version) bool {
	if !o.IsStatic() {
		return false
	}
	if v.lower != nil {
		c := o.Compare(v.lower.Version)
		if c < 0 || (c == 0 && !v.lower.Inclusive) {
			return false
		}
	}
	if v.upper != nil {
		c := o.Compare(v.upper.Version)
		if c > 0 || (c == 0 && !v.upper.Inclusive) {
			return false
		}
	}
	return true
}

// IsUpdate reports whether the candidate o is newer than what v declares.
//
//   - Exact: o is a greater Exact, or a Snapshot whose base is not older.
//   - Snapshot: o orders after v.
//   - Range: o lies above the upper bound (or on an exclusive upper bound).
//     Contained versions are never updates and an unbounded range never
//     has one.
//   - Prefix: o falls outside the prefix and is an update of the base.
//   - Latest, Unknown: never.
func (v Version) IsUpdate(o Version) bool {
	if !o.IsStatic() {
		return false
	}
	switch v.kind {
	case Exact:
		if o.kind == Snapshot {
			base, _ := o.Base()
			return base.Compare(v) >= 0
		}
		return o.Compare(v) > 0
	case Snapshot:
		return o.Compare(v) > 0
	case Range:
		if v.rangeContains(o) || v.upper == nil {
			return false
		}
		c := o.Compare(v.upper.Version)
		if c > 0 || (c == 0 && !v.upper.Inclusive) {
			return true
		}
		return v.upper.Version.IsUpdate(o)
	case Prefix:
		if v.prefixBase == nil || v.Contains(o) {
			return false
		}
		return v.prefixBase.IsUpdate(o)
	default:
		return false
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.text), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (v *Version) UnmarshalText(text []byte) error {
	*v = Parse(string(text))
	return nil
}
