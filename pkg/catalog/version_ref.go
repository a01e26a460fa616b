package catalog

import (
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// RefKind identifies how a version is declared.
type RefKind int

const (
	// Unspecified means the entry declares no version.
	Unspecified RefKind = iota
	// Simple is a plain version string.
	Simple
	// Reference points into the versions table by name.
	Reference
	// Rich combines require, prefer, strictly and reject.
	Rich
)

func (k RefKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Reference:
		return "reference"
	case Rich:
		return "rich"
	default:
		return "unspecified"
	}
}

// RichVersion is a Gradle rich version declaration. Absent fields hold the
// zero [version.Version].
type RichVersion struct {
	Require  version.Version
	Prefer   version.Version
	Strictly version.Version
	Reject   []version.Version
}

// VersionRef is the version a catalog entry declares.
//
// VersionRef values are immutable once built.
type VersionRef struct {
	Kind    RefKind
	Version version.Version // Simple
	Name    string          // Reference
	Rich    RichVersion     // Rich
}

// SimpleRef returns a Simple reference to text.
func SimpleRef(text string) VersionRef {
	return VersionRef{Kind: Simple, Version: version.Parse(text)}
}

// NamedRef returns a Reference to the versions table entry name.
func NamedRef(name string) VersionRef {
	return VersionRef{Kind: Reference, Name: name}
}

// RichRef returns a Rich reference.
func RichRef(r RichVersion) VersionRef {
	return VersionRef{Kind: Rich, Rich: r}
}

// Resolve follows a Reference into table. Simple and Rich refs resolve to
// themselves. The boolean is false for Unspecified refs, unknown names, and
// references that point at another reference.
func (r VersionRef) Resolve(table map[string]VersionRef) (VersionRef, bool) {
	switch r.Kind {
	case Simple, Rich:
		return r, true
	case Reference:
		target, ok := table[r.Name]
		if !ok || target.Kind == Reference || target.Kind == Unspecified {
			return VersionRef{}, false
		}
		return target, true
	default:
		return VersionRef{}, false
	}
}

// Current returns the version used as the declaration's current version:
// strictly, else require, else prefer for rich versions; the version itself
// for simple ones. Unresolved refs return an Unknown version.
func (r VersionRef) Current() version.Version {
	switch r.Kind {
	case Simple:
		return r.Version
	case Rich:
		for _, v := range []version.Version{r.Rich.Strictly, r.Rich.Require, r.Rich.Prefer} {
			if present(v) {
				return v
			}
		}
	}
	return version.Version{}
}

// IsUpdate reports whether candidate moves a resolved declaration forward.
//
// For rich versions a rejected candidate is never an update. A lone strictly
// constraint defers to its own IsUpdate. Otherwise strictly restricts
// candidates to what it contains, and each of require and prefer that is
// present must consider the candidate an update. References must be resolved
// first; an unresolved ref never has updates.
func (r VersionRef) IsUpdate(candidate version.Version) bool {
	switch r.Kind {
	case Simple:
		return r.Version.IsUpdate(candidate)
	case Rich:
		return r.Rich.isUpdate(candidate)
	default:
		return false
	}
}

func (rv RichVersion) isUpdate(c version.Version) bool {
	for _, rej := range rv.Reject {
		if rej.Contains(c) {
			return false
		}
	}

	hasRequire, hasPrefer := present(rv.Require), present(rv.Prefer)
	if present(rv.Strictly) {
		if !hasRequire && !hasPrefer {
			return rv.Strictly.IsUpdate(c)
		}
		if !rv.Strictly.Contains(c) {
			return false
		}
	} else if !hasRequire && !hasPrefer {
		return false
	}

	if hasRequire && !rv.Require.IsUpdate(c) {
		return false
	}
	if hasPrefer && !rv.Prefer.IsUpdate(c) {
		return false
	}
	return true
}

// String returns the declaration as written, in catalog shorthand.
func (r VersionRef) String() string {
	switch r.Kind {
	case Simple:
		return r.Version.String()
	case Reference:
		return "ref:" + r.Name
	case Rich:
		return r.Current().String()
	default:
		return ""
	}
}

func present(v version.Version) bool { return v.String() != "" }
