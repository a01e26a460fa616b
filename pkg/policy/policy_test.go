package policy

import (
	"errors"
	"testing"

	cerrors "github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Stability
	}{
		{"1.0", Stable},
		{"32.1.3-jre", Stable},
		{"32.1.3-android", Stable},
		{"5.3.30.RELEASE", Stable},
		{"6.4.0.Final", Stable},
		{"1.0-SNAPSHOT", Stable},
		{"2.0.0-RC1", ReleaseCandidate},
		{"3.0.0-cr2", ReleaseCandidate},
		{"1.0.0.Beta2", Beta},
		{"1.0-b3", Beta},
		{"3.0.5-alpha-1", Alpha},
		{"1.0.0-M1", Alpha},
		{"21-ea", Alpha},
		{"1.0-dev", Alpha},
		{"2.1.0-kotlin1.9", Other},
		{"[1.0,2.0)", Other},
		{"latest.release", Other},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Classify(version.Parse(tt.in)); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStabilityLevel(t *testing.T) {
	p := StabilityLevel()
	tests := []struct {
		current, candidate string
		want               bool
	}{
		{"3.0.5-alpha-1", "3.0.6", true},
		{"3.0.5-alpha-1", "3.0.6-alpha-2", true},
		{"3.0.5-alpha-1", "3.0.6-beta-1", true},
		{"1.0", "1.1-rc1", false},
		{"1.0", "1.1-beta", false},
		{"1.0", "1.1", true},
		{"1.0-rc1", "1.0-rc2", true},
		{"1.0-rc1", "1.1-alpha", false},
		{"1.0", "1.1-SNAPSHOT", false},
		{"1.0-SNAPSHOT", "1.1-SNAPSHOT", true},
		{"2.1.0-kotlin1.9", "2.2.0-alpha", true},
		{"[1.0,2.0)", "2.1-beta", true},
	}
	for _, tt := range tests {
		t.Run(tt.current+" -> "+tt.candidate, func(t *testing.T) {
			if got := p.Accepts(version.Parse(tt.current), version.Parse(tt.candidate)); got != tt.want {
				t.Errorf("Accepts(%s, %s) = %v, want %v", tt.current, tt.candidate, got, tt.want)
			}
		})
	}
	if p.Name() != StabilityLevelName || p.Description() == "" {
		t.Errorf("name/description = %q/%q", p.Name(), p.Description())
	}
}

func TestSameMajor(t *testing.T) {
	p := SameMajor()
	if !p.Accepts(version.Parse("1.2"), version.Parse("1.9")) {
		t.Error("1.9 keeps major 1")
	}
	if p.Accepts(version.Parse("1.2"), version.Parse("2.0")) {
		t.Error("2.0 changes the major version")
	}
	if !p.Accepts(version.Parse("1.+"), version.Parse("2.0")) {
		t.Error("non-static current versions accept everything")
	}
}

func TestAll(t *testing.T) {
	p := All(StabilityLevel(), SameMajor())
	if p.Name() != "stability-level+same-major" {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.Accepts(version.Parse("1.0"), version.Parse("1.1")) {
		t.Error("1.1 satisfies both policies")
	}
	if p.Accepts(version.Parse("1.0"), version.Parse("2.0")) {
		t.Error("2.0 violates same-major")
	}
	if p.Accepts(version.Parse("1.0"), version.Parse("1.1-rc1")) {
		t.Error("1.1-rc1 violates stability-level")
	}

	single := SameMajor()
	if All(single) != single {
		t.Error("All of one policy should return it")
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	if names := r.Names(); len(names) != 3 || names[0] != "accept-all" {
		t.Errorf("Names() = %v", names)
	}

	p, err := r.Select()
	if err != nil || p.Name() != StabilityLevelName {
		t.Errorf("Select() = %v, %v", p, err)
	}
	p, err = r.Select("stability-level", "same-major")
	if err != nil || p.Name() != "stability-level+same-major" {
		t.Errorf("Select(two) = %v, %v", p, err)
	}

	_, err = r.Select("nope")
	if !cerrors.Is(err, cerrors.ErrCodeInvalidPolicy) {
		t.Errorf("Select(unknown) error = %v", err)
	}

	if err := r.Register(AcceptAll()); !cerrors.Is(err, cerrors.ErrCodeInvalidPolicy) {
		t.Errorf("duplicate Register() error = %v", err)
	}
	if err := r.Register(New("", "", nil)); err == nil {
		t.Error("empty name should fail")
	}
}

func TestRegistryLoad(t *testing.T) {
	r := DefaultRegistry()
	loader := PatternLoader{
		{Name: "no-android", Description: "skip android builds", Reject: []string{`-android$`}},
	}
	if err := r.Load(loader); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	p, ok := r.Lookup("no-android")
	if !ok {
		t.Fatal("loaded policy not registered")
	}
	if p.Accepts(version.Parse("32.0.0-jre"), version.Parse("32.1.3-android")) {
		t.Error("android candidate should be rejected")
	}
	if !p.Accepts(version.Parse("32.0.0-jre"), version.Parse("32.1.3-jre")) {
		t.Error("jre candidate should be accepted")
	}

	bad := PatternLoader{{Name: "bad", Reject: []string{"("}}}
	if err := r.Load(bad); !cerrors.Is(err, cerrors.ErrCodeInvalidPolicy) {
		t.Errorf("Load(bad) error = %v", err)
	}

	failing := loaderFunc(func() ([]Policy, error) { return nil, errBoom })
	if err := r.Load(failing); !errors.Is(err, errBoom) {
		t.Errorf("Load(failing) error = %v, want wrapped errBoom", err)
	}
}

var errBoom = errors.New("boom")

type loaderFunc func() ([]Policy, error)

func (f loaderFunc) LoadPolicies() ([]Policy, error) { return f() }
