package catalog

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Exclusions removes dependencies from an update check.
//
// Library patterns match "group" when they contain no colon and
// "group:name" otherwise. In a pattern "*" matches within one dot separated
// segment, "**" matches zero or more segments and "?" matches one
// character. A pattern of only "**" matches every library.
type Exclusions struct {
	keys      map[string]bool
	libraries []libraryPattern
	plugins   map[string]bool
}

type libraryPattern struct {
	text     string
	withName bool
	globs    []glob.Glob
}

// NewExclusions compiles exclusion rules. keys are catalog keys, libraries
// are package globs and plugins are plugin ids.
func NewExclusions(keys, libraries, plugins []string) (*Exclusions, error) {
	e := &Exclusions{
		keys:    make(map[string]bool, len(keys)),
		plugins: make(map[string]bool, len(plugins)),
	}
	for _, k := range keys {
		e.keys[strings.TrimSpace(k)] = true
	}
	for _, id := range plugins {
		e.plugins[strings.TrimSpace(id)] = true
	}
	for _, raw := range libraries {
		p, err := compileLibraryPattern(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		e.libraries = append(e.libraries, p)
	}
	return e, nil
}

func compileLibraryPattern(text string) (libraryPattern, error) {
	if text == "" {
		return libraryPattern{}, fmt.Errorf("empty exclusion pattern")
	}
	p := libraryPattern{text: text, withName: strings.Contains(text, ":")}

	// "**" may also stand for no segment at all, so "org.**" matches "org"
	// and "org.**.core" matches "org.core".
	variants := []string{text}
	if collapsed := collapseDoubleStar(text); collapsed != text {
		variants = append(variants, collapsed)
	}
	for _, v := range variants {
		g, err := glob.Compile(v, '.', ':')
		if err != nil {
			return libraryPattern{}, fmt.Errorf("invalid exclusion pattern %q: %w", text, err)
		}
		p.globs = append(p.globs, g)
	}
	return p, nil
}

func collapseDoubleStar(text string) string {
	for _, sep := range []string{".**.", ":**."} {
		text = strings.ReplaceAll(text, sep, sep[:1])
	}
	text = strings.TrimSuffix(text, ".**")
	return strings.TrimPrefix(text, "**.")
}

func (p libraryPattern) matches(group, name string) bool {
	if p.text == "**" {
		return true
	}
	subject := group
	if p.withName {
		subject = group + ":" + name
	}
	for _, g := range p.globs {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

// Excludes reports whether the dependency declared under key is excluded.
// A nil Exclusions excludes nothing.
func (e *Exclusions) Excludes(key string, dep Dependency) bool {
	if e == nil {
		return false
	}
	if e.keys[key] {
		return true
	}
	if dep.Kind == Plugin {
		return e.plugins[dep.ID]
	}
	for _, p := range e.libraries {
		if p.matches(dep.GroupID, dep.ArtifactID) {
			return true
		}
	}
	return false
}
