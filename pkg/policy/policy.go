// Package policy decides whether a candidate version is an acceptable update.
//
// A [Policy] sees the current resolved version of a dependency and one static
// candidate that is already known to be newer. The default policy is
// [StabilityLevel], which refuses to move a dependency to a less stable
// release line. Several policies combine with [All].
//
// Policies are looked up by name in a [Registry] built once at startup.
// Additional policies can be contributed by a [Loader], such as the
// pattern-based policies declared in the configuration file.
package policy

import (
	"regexp"
	"strings"

	"github.com/matzehuels/catalogcheck/pkg/version"
)

// Policy gates candidate versions.
//
// Implementations must be safe for concurrent use.
type Policy interface {
	Name() string
	Description() string
	Accepts(current, candidate version.Version) bool
}

type funcPolicy struct {
	name, description string
	accepts           func(current, candidate version.Version) bool
}

// New returns a Policy backed by fn.
func New(name, description string, fn func(current, candidate version.Version) bool) Policy {
	return &funcPolicy{name: name, description: description, accepts: fn}
}

func (p *funcPolicy) Name() string        { return p.name }
func (p *funcPolicy) Description() string { return p.description }
func (p *funcPolicy) Accepts(current, candidate version.Version) bool {
	return p.accepts(current, candidate)
}

// Stability is an ordered release tier. Greater is more stable.
type Stability int

const (
	// Other is any version the tier patterns do not recognize.
	Other Stability = iota
	Alpha
	Beta
	ReleaseCandidate
	Stable
)

func (s Stability) String() string {
	switch s {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case ReleaseCandidate:
		return "rc"
	case Stable:
		return "stable"
	default:
		return "other"
	}
}

var (
	stablePattern = regexp.MustCompile(`(?i)^v?\d+([._+-]\d+)*([._-]?(final|ga|release|r|jre|android))?$`)

	// Checked in order: the most experimental marker wins.
	tierPatterns = []struct {
		tier Stability
		re   *regexp.Regexp
	}{
		{Alpha, regexp.MustCompile(`(?i)(^|[^a-z])(alpha|a|m|milestone|dev|ea|eap|preview|pre)([^a-z]|$)`)},
		{Beta, regexp.MustCompile(`(?i)(^|[^a-z])(beta|b)([^a-z]|$)`)},
		{ReleaseCandidate, regexp.MustCompile(`(?i)(^|[^a-z])(rc|cr)([^a-z]|$)`)},
	}
)

// Classify returns the stability tier of a static version. Snapshots are
// classified by their base. Non-static versions are Other.
func Classify(v version.Version) Stability {
	base, ok := v.Base()
	if !ok || !v.IsStatic() {
		return Other
	}
	text := base.String()
	if stablePattern.MatchString(text) {
		return Stable
	}
	for _, p := range tierPatterns {
		if p.re.MatchString(text) {
			return p.tier
		}
	}
	return Other
}

// StabilityLevelName is the name of the default policy.
const StabilityLevelName = "stability-level"

// StabilityLevel accepts a candidate only if it is at least as stable as the
// current version. Snapshot candidates are accepted only when the current
// version is a snapshot itself. When the current tier cannot be determined
// every candidate is accepted.
func StabilityLevel() Policy {
	return New(StabilityLevelName, "stay on the current stability tier or a more stable one", func(current, candidate version.Version) bool {
		if candidate.IsSnapshot() && !current.IsSnapshot() {
			return false
		}
		cur := Classify(current)
		if cur == Other {
			return true
		}
		return Classify(candidate) >= cur
	})
}

// AcceptAll accepts every candidate.
func AcceptAll() Policy {
	return New("accept-all", "accept every newer version", func(version.Version, version.Version) bool {
		return true
	})
}

// SameMajor accepts candidates whose leading numeric segment matches the
// current version. Non-static current versions accept everything.
func SameMajor() Policy {
	return New("same-major", "stay on the current major version", func(current, candidate version.Version) bool {
		base, ok := current.Base()
		if !ok || !current.IsStatic() {
			return true
		}
		cb, _ := candidate.Base()
		return major(base.String()) == major(cb.String())
	})
}

func major(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), "v")
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		return s
	}
	return s[:end]
}

type allPolicy []Policy

// All returns a policy that accepts a candidate only if every p does.
// All of a single policy returns it unchanged.
func All(ps ...Policy) Policy {
	if len(ps) == 1 {
		return ps[0]
	}
	return allPolicy(ps)
}

func (a allPolicy) Name() string {
	names := make([]string, len(a))
	for i, p := range a {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

func (a allPolicy) Description() string {
	descs := make([]string, 0, len(a))
	for _, p := range a {
		if d := p.Description(); d != "" {
			descs = append(descs, d)
		}
	}
	return strings.Join(descs, "; ")
}

func (a allPolicy) Accepts(current, candidate version.Version) bool {
	for _, p := range a {
		if !p.Accepts(current, candidate) {
			return false
		}
	}
	return true
}
