package replacer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/checker"
)

// Replacement substitutes one version literal.
type Replacement struct {
	// Key is "section.key" of the entry that owns the literal, such as
	// "versions.groovy" or "libraries.junit".
	Key      string
	Position catalog.VersionPosition
	New      string
}

// Old returns the literal being replaced.
func (r Replacement) Old() string { return r.Position.Literal }

// Plan returns the replacements that apply updates to cat, sorted by source
// position. Updates for other catalogs are skipped, as are updates whose
// literal already holds the new version.
func Plan(cat *catalog.Catalog, updates []checker.UpdateResult) []Replacement {
	if cat.Positions == nil {
		return nil
	}
	byKey := make(map[string]Replacement)
	for _, u := range updates {
		if u.Catalog != "" && u.Catalog != cat.Path {
			continue
		}
		section, key := owner(u)
		pos, ok := cat.Positions.Lookup(section, key)
		if !ok {
			continue
		}
		rep := Replacement{Key: section + "." + key, Position: pos, New: literal(pos, u.Update.String())}
		if rep.New == rep.Old() {
			delete(byKey, rep.Key)
			continue
		}
		byKey[rep.Key] = rep
	}

	reps := make([]Replacement, 0, len(byKey))
	for _, r := range byKey {
		reps = append(reps, r)
	}
	slices.SortFunc(reps, func(a, b Replacement) int {
		return cmp.Or(
			cmp.Compare(a.Position.Line, b.Position.Line),
			cmp.Compare(a.Position.Column, b.Position.Column),
		)
	})
	return reps
}

// owner returns the table entry whose literal declares the version of u.
func owner(u checker.UpdateResult) (section, key string) {
	if ref := u.Dependency.Version; ref.Kind == catalog.Reference {
		return catalog.SectionVersions, ref.Name
	}
	if u.Dependency.Kind == catalog.Plugin {
		return catalog.SectionPlugins, u.Key
	}
	return catalog.SectionLibraries, u.Key
}

// literal renders v in the style of the literal at pos. Rich version tables
// become a plain double-quoted version.
func literal(pos catalog.VersionPosition, v string) string {
	for _, q := range []string{`"""`, "'''"} {
		if len(pos.Literal) >= 6 && strings.HasPrefix(pos.Literal, q) {
			return q + v + q
		}
	}
	if q, ok := pos.Quoted(); ok {
		return string(q) + v + string(q)
	}
	if len(pos.Literal) > 0 && pos.Literal[0] == '{' {
		return `"` + v + `"`
	}
	return v
}
