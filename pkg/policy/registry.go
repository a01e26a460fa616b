package policy

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// Loader contributes policies from outside the built-in set.
type Loader interface {
	LoadPolicies() ([]Policy, error)
}

// Registry maps policy names to policies.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

// NewRegistry returns a registry holding builtins. Duplicate names keep the
// first policy.
func NewRegistry(builtins ...Policy) *Registry {
	r := &Registry{policies: make(map[string]Policy, len(builtins))}
	for _, p := range builtins {
		if _, exists := r.policies[p.Name()]; !exists {
			r.policies[p.Name()] = p
		}
	}
	return r
}

// DefaultRegistry returns a registry with the built-in policies.
func DefaultRegistry() *Registry {
	return NewRegistry(StabilityLevel(), AcceptAll(), SameMajor())
}

// Register adds p. Names must be unique and non-empty.
func (r *Registry) Register(p Policy) error {
	name := p.Name()
	if name == "" {
		return errors.New(errors.ErrCodeInvalidPolicy, "policy name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[name]; exists {
		return errors.New(errors.ErrCodeInvalidPolicy, "policy %q is already registered", name)
	}
	r.policies[name] = p
	return nil
}

// Load registers every policy l provides.
func (r *Registry) Load(l Loader) error {
	ps, err := l.LoadPolicies()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "load policies")
	}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the policy registered under name.
func (r *Registry) Lookup(name string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[name]
	return p, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.policies))
	for n := range r.policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select combines the named policies with [All]. No names selects the
// stability-level policy.
func (r *Registry) Select(names ...string) (Policy, error) {
	if len(names) == 0 {
		names = []string{StabilityLevelName}
	}
	ps := make([]Policy, 0, len(names))
	for _, n := range names {
		p, ok := r.Lookup(n)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %q (available: %v)", n, r.Names())
		}
		ps = append(ps, p)
	}
	return All(ps...), nil
}

// PatternSpec declares a policy that rejects candidates matching any of a
// set of regular expressions.
type PatternSpec struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Reject      []string `toml:"reject"`
}

// PatternLoader builds policies from pattern specs.
type PatternLoader []PatternSpec

// LoadPolicies implements [Loader].
func (l PatternLoader) LoadPolicies() ([]Policy, error) {
	out := make([]Policy, 0, len(l))
	for _, spec := range l {
		p, err := NewPatternPolicy(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// NewPatternPolicy compiles spec into a policy.
func NewPatternPolicy(spec PatternSpec) (Policy, error) {
	res := make([]*regexp.Regexp, 0, len(spec.Reject))
	for _, expr := range spec.Reject {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", spec.Name, err)
		}
		res = append(res, re)
	}
	return New(spec.Name, spec.Description, func(_, candidate version.Version) bool {
		for _, re := range res {
			if re.MatchString(candidate.String()) {
				return false
			}
		}
		return true
	}), nil
}
