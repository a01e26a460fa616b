package version

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"", Unknown},
		{"1.0", Exact},
		{"32.1.3-jre", Exact},
		{"1.0-SNAPSHOT", Snapshot},
		{"[1.1,2.0)", Range},
		{"(,2.0]", Range},
		{"[1.0,)", Range},
		{"[1.0,2.0[", Range},
		{"[1.0]", Range},
		{"1.0.+", Prefix},
		{"1.0+", Prefix},
		{"+", Prefix},
		{"latest.release", Latest},
		{"latest.integration", Latest},
		{"[2.0,1.0]", Unknown},
		{"(,)", Unknown},
		{"[1.0,latest.release]", Unknown},
		{"(1.0)", Unknown},
		{"...", Unknown},
		{"-SNAPSHOT", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Parse(tt.input).Kind(); got != tt.want {
				t.Errorf("Parse(%q).Kind() = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"1.0", "1.0-SNAPSHOT", "[1.1,2.0)", "(,2.0]", "1.0.+", "+",
		"latest.release", "not a version", "[2.0,1.0]", "1.1.2.202505142326",
	}
	for _, in := range inputs {
		if got := Parse(in).String(); got != in {
			t.Errorf("Parse(%q).String() = %q", in, got)
		}
	}
}

func TestCompareOrdering(t *testing.T) {
	ordered := []string{
		"1.1",
		"1.1.2-dev",
		"1.1.2-alpha",
		"1.1.2-beta",
		"1.1.2-rc",
		"1.1.2-SNAPSHOT",
		"1.1.2",
		"1.1.2.202505142326",
		"1.2",
		"1.10",
	}

	for i := range ordered {
		for j := range ordered {
			a, b := Parse(ordered[i]), Parse(ordered[j])
			got := a.Compare(b)
			var want int
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%q, %q) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestCompareRules(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.1.1", "1.1", 1},
		{"1.1-rc", "1.1", -1},
		{"1.0-final", "1.0-rc", 1},
		{"1.0-ga", "1.0-final", 1},
		{"1.0-release", "1.0-ga", 1},
		{"1.0-sp", "1.0-release", 1},
		{"1.0-RC1", "1.0-foo", 1},
		{"1.0-dev", "1.0-aaa", -1},
		{"1.0-abc", "1.0-abd", -1},
		{"1.0a", "1.0.1", -1},
		{"1.0rc1", "1.0-rc-1", 1},
		{"1.01", "1.1", -1},
		{"1.1", "1-1", 1},
		{"100000000000000000000", "99999999999999999999", 1},
		{"1.0-SNAPSHOT", "1.0", -1},
		{"1.0-SNAPSHOT", "0.9", 1},
		{"1.1-SNAPSHOT", "1.0-SNAPSHOT", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := Parse(tt.a), Parse(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := b.Compare(a); got != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestCompareTotalOrder(t *testing.T) {
	inputs := []string{
		"1", "1.0", "1-0", "1.0.0", "1.0-SNAPSHOT", "1.0-rc", "1.0-RC", "1.0-dev",
		"1.0-alpha1", "1.0-alpha-1", "1.0.Final", "2", "2.0-sp1", "0.9.9", "1.0_1",
		"1.0+build", "1.0-source",
	}
	vs := make([]Version, len(inputs))
	for i, in := range inputs {
		vs[i] = Parse(in)
	}

	for _, a := range vs {
		if a.Compare(a) != 0 {
			t.Errorf("Compare(%q, itself) != 0", a)
		}
		for _, b := range vs {
			ab, ba := a.Compare(b), b.Compare(a)
			if ab != -ba {
				t.Errorf("antisymmetry: Compare(%q,%q)=%d, Compare(%q,%q)=%d", a, b, ab, b, a, ba)
			}
			if ab == 0 && a.String() != b.String() {
				t.Errorf("distinct texts %q and %q compare equal", a, b)
			}
			for _, c := range vs {
				if ab < 0 && b.Compare(c) < 0 && a.Compare(c) >= 0 {
					t.Errorf("transitivity: %q < %q < %q but Compare(a,c) = %d", a, b, c, a.Compare(c))
				}
			}
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Parse("[1.1,2.0)")
	for _, in := range []string{"1.1", "1.1.1", "1.9.9"} {
		if !r.Contains(Parse(in)) {
			t.Errorf("%s should contain %s", r, in)
		}
	}
	for _, in := range []string{"1.0.9", "2.0", "2.1"} {
		if r.Contains(Parse(in)) {
			t.Errorf("%s should not contain %s", r, in)
		}
	}

	alt := Parse("[1.0,2.0[")
	if alt.Contains(Parse("2.0")) {
		t.Error("[1.0,2.0[ should exclude its upper bound")
	}
	if !Parse("(,2.0]").Contains(Parse("2.0")) {
		t.Error("(,2.0] should include its upper bound")
	}
	if Parse("(1.0,)").Contains(Parse("1.0")) {
		t.Error("(1.0,) should exclude its lower bound")
	}
	if !Parse("[1.0]").Contains(Parse("1.0")) {
		t.Error("[1.0] should contain 1.0")
	}
}

func TestRangeIsUpdate(t *testing.T) {
	tests := []struct {
		rng, candidate string
		want           bool
	}{
		{"[1.1,2.0)", "1.5", false},
		{"[1.1,2.0)", "2.0", true},
		{"[1.1,2.0)", "2.1", true},
		{"[1.1,2.0)", "1.0", false},
		{"[1.1,2.0]", "2.0", false},
		{"[1.1,2.0]", "2.0.1", true},
		{"[1.1,)", "9.0", false},
		{"(,1.0]", "1.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.rng+" "+tt.candidate, func(t *testing.T) {
			if got := Parse(tt.rng).IsUpdate(Parse(tt.candidate)); got != tt.want {
				t.Errorf("%s.IsUpdate(%s) = %v, want %v", tt.rng, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	p := Parse("1.0.+")
	base, ok := p.Base()
	if !ok || base.String() != "1.0" {
		t.Fatalf("Base() = %v, %v; want 1.0, true", base, ok)
	}
	if !p.Contains(Parse("1.0")) || !p.Contains(Parse("1.0.5")) {
		t.Error("1.0.+ should contain 1.0 and 1.0.5")
	}
	if p.Contains(Parse("1.1")) {
		t.Error("1.0.+ should not contain 1.1")
	}
	if !p.IsUpdate(Parse("1.1")) {
		t.Error("1.1 should be an update of 1.0.+")
	}
	if p.IsUpdate(Parse("1.0.5")) {
		t.Error("1.0.5 should not be an update of 1.0.+")
	}

	noSep := Parse("1.0+")
	if b, _ := noSep.Base(); b.String() != "1.0" {
		t.Errorf("1.0+ base = %q, want 1.0", b)
	}
	if !noSep.Contains(Parse("1.05")) {
		t.Error("1.0+ matches by text and should contain 1.05")
	}
	if p.Contains(Parse("1.05")) {
		t.Error("1.0.+ should not contain 1.05")
	}

	bare := Parse("+")
	if _, ok := bare.Base(); ok {
		t.Error("bare + should have no base")
	}
	if !bare.Contains(Parse("42")) {
		t.Error("bare + should contain everything")
	}
	if bare.IsUpdate(Parse("42")) {
		t.Error("bare + should never report an update")
	}
}

func TestExactIsUpdate(t *testing.T) {
	v := Parse("1.0")
	tests := []struct {
		candidate string
		want      bool
	}{
		{"1.1", true},
		{"1.0", false},
		{"0.9", false},
		{"1.0-SNAPSHOT", true},
		{"1.1-SNAPSHOT", true},
		{"0.9-SNAPSHOT", false},
		{"[1.0,2.0)", false},
		{"latest.release", false},
	}
	for _, tt := range tests {
		if got := v.IsUpdate(Parse(tt.candidate)); got != tt.want {
			t.Errorf("1.0.IsUpdate(%s) = %v, want %v", tt.candidate, got, tt.want)
		}
	}
}

func TestSnapshotIsUpdate(t *testing.T) {
	s := Parse("1.0-SNAPSHOT")
	if !s.IsUpdate(Parse("1.0")) {
		t.Error("the 1.0 release should update 1.0-SNAPSHOT")
	}
	if !s.IsUpdate(Parse("1.1-SNAPSHOT")) {
		t.Error("1.1-SNAPSHOT should update 1.0-SNAPSHOT")
	}
	if s.IsUpdate(Parse("0.9")) {
		t.Error("0.9 should not update 1.0-SNAPSHOT")
	}
}

func TestLatestAndUnknownInert(t *testing.T) {
	for _, in := range []string{"latest.release", "latest.integration", "", "[2.0,1.0]"} {
		v := Parse(in)
		if v.Contains(Parse("1.0")) || v.IsUpdate(Parse("1.0")) {
			t.Errorf("%q should neither contain nor update", in)
		}
	}
}

func TestMax(t *testing.T) {
	vs := []Version{Parse("3.0.5"), Parse("3.0.6"), Parse("latest.release"), Parse("3.0.5-alpha-1")}
	got, ok := Max(vs)
	if !ok || got.String() != "3.0.6" {
		t.Errorf("Max() = %v, %v; want 3.0.6", got, ok)
	}
	if _, ok := Max([]Version{Parse("1.+")}); ok {
		t.Error("Max() of non-static versions should be false")
	}
}

func TestSortPlacesNonStaticLast(t *testing.T) {
	vs := []Version{Parse("1.+"), Parse("2.0"), Parse("1.0")}
	Sort(vs)
	if vs[0].String() != "1.0" || vs[1].String() != "2.0" || vs[2].String() != "1.+" {
		t.Errorf("Sort() = %v", vs)
	}
}

func TestJSONText(t *testing.T) {
	type doc struct {
		V Version `json:"v"`
	}
	data, err := json.Marshal(doc{V: Parse("[1.0,2.0)")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"v":"[1.0,2.0)"}` {
		t.Errorf("Marshal = %s", data)
	}
	var d doc
	if err := json.Unmarshal([]byte(`{"v":"1.0-SNAPSHOT"}`), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.V.Kind() != Snapshot {
		t.Errorf("Unmarshal kind = %v, want snapshot", d.V.Kind())
	}
}
