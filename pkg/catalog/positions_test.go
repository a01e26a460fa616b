package catalog

import (
	"strings"
	"testing"
)

// assertAt checks that pos points at its literal in src.
func assertAt(t *testing.T, src string, pos VersionPosition, literal string) {
	t.Helper()
	if pos.Literal != literal {
		t.Errorf("Literal = %q, want %q", pos.Literal, literal)
	}
	if !strings.HasPrefix(src[pos.Offset:], literal) {
		t.Errorf("Offset %d does not point at %q", pos.Offset, literal)
	}
	lines := strings.Split(src, "\n")
	line := lines[pos.Line-1]
	first, _, _ := strings.Cut(literal, "\n")
	if !strings.HasPrefix(line[pos.Column-1:], first) {
		t.Errorf("line %d column %d = %q, want %q", pos.Line, pos.Column, line[pos.Column-1:], first)
	}
	if want := strings.Count(literal, "\n") + 1; pos.LineSpan != want {
		t.Errorf("LineSpan = %d, want %d", pos.LineSpan, want)
	}
}

func TestScanPositions(t *testing.T) {
	p, err := ScanPositions([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ScanPositions() error: %v", err)
	}

	tests := []struct {
		section, key, literal string
	}{
		{SectionVersions, "groovy", `"3.0.5-alpha-1"`},
		{SectionVersions, "checkstyle", `'8.37'`},
		{SectionVersions, "guava", `{ strictly = "[31.0,33.0)", prefer = "32.1.3-jre" }`},
		{SectionLibraries, "commons-lang3", `3.12.0`},
		{SectionLibraries, "junit", `"4.13"`},
		{SectionPlugins, "versions", `"0.45.0"`},
		{SectionPlugins, "kotlin", `1.9.0`},
	}
	for _, tt := range tests {
		t.Run(tt.section+"."+tt.key, func(t *testing.T) {
			pos, ok := p.Lookup(tt.section, tt.key)
			if !ok {
				t.Fatalf("no position for %s.%s", tt.section, tt.key)
			}
			assertAt(t, sampleCatalog, pos, tt.literal)
		})
	}

	for _, key := range []string{"groovy-core", "groovy-json", "guava", "bom"} {
		if _, ok := p.Lookup(SectionLibraries, key); ok {
			t.Errorf("libraries.%s declares no literal and should have no position", key)
		}
	}
	if p.Len() != len(tests) {
		t.Errorf("Len() = %d, want %d", p.Len(), len(tests))
	}

	if !p.Ignored(SectionVersions, "checkstyle") || !p.Ignored(SectionLibraries, "junit") {
		t.Error("ignore markers not recorded")
	}
	if p.Ignored(SectionVersions, "groovy") {
		t.Error("groovy is not ignored")
	}
}

func TestScanPositionsMultiLine(t *testing.T) {
	src := "[versions]\n" +
		"guava = { strictly = \"[31.0,33.0)\", reject = [\n" +
		"    \"32.0.0-jre\", # broken\n" +
		"] } # ignore\n" +
		"slf4j = \"2.0.9\"\n"

	p, err := ScanPositions([]byte(src))
	if err != nil {
		t.Fatalf("ScanPositions() error: %v", err)
	}
	pos, ok := p.Lookup(SectionVersions, "guava")
	if !ok {
		t.Fatal("no position for guava")
	}
	assertAt(t, src, pos, "{ strictly = \"[31.0,33.0)\", reject = [\n    \"32.0.0-jre\", # broken\n] }")
	if pos.Line != 2 || pos.EndLine() != 4 {
		t.Errorf("lines %d-%d, want 2-4", pos.Line, pos.EndLine())
	}
	if !p.Ignored(SectionVersions, "guava") {
		t.Error("ignore marker after a multi-line value should apply")
	}

	slf4j, _ := p.Lookup(SectionVersions, "slf4j")
	if slf4j.Line != 5 || slf4j.Column != 9 {
		t.Errorf("slf4j at %d:%d, want 5:9", slf4j.Line, slf4j.Column)
	}
}

func TestScanPositionsSyntax(t *testing.T) {
	src := "\ufeff[versions]\r\n" +
		"\"quoted.key\" = \"1.0\"\r\n" +
		"multi = '''2.0'''\r\n" +
		"[libraries]\r\n" +
		"a.module = \"g:a\"\r\n" +
		"a.version = \"1.1\" #ignore\r\n" +
		"b = { module = \"g:b\", version = \"1.2\", tags = { x = 1 } }\r\n" +
		"[[other.array]]\r\n" +
		"n = 1979-05-27\r\n"

	p, err := ScanPositions([]byte(src))
	if err != nil {
		t.Fatalf("ScanPositions() error: %v", err)
	}
	if pos, ok := p.Lookup(SectionVersions, "quoted.key"); !ok || pos.Literal != `"1.0"` {
		t.Errorf("quoted key position = %+v, %v", pos, ok)
	}
	if pos, ok := p.Lookup(SectionVersions, "multi"); !ok || pos.Literal != `'''2.0'''` {
		t.Errorf("multi-line literal string position = %+v, %v", pos, ok)
	}
	if pos, ok := p.Lookup(SectionLibraries, "a"); !ok || pos.Literal != `"1.1"` {
		t.Errorf("dotted version key position = %+v, %v", pos, ok)
	}
	if !p.Ignored(SectionLibraries, "a") {
		t.Error("dotted entry should be ignored")
	}
	if pos, ok := p.Lookup(SectionLibraries, "b"); !ok || pos.Literal != `"1.2"` {
		t.Errorf("b position = %+v, %v", pos, ok)
	}
}

func TestScanPositionsSubTables(t *testing.T) {
	src := "[libraries.junit]\n" +
		"module = \"junit:junit\"\n" +
		"version = \"4.12\" # ignore\n" +
		"\n" +
		"[libraries.guava]\n" +
		"module = \"com.google.guava:guava\"\n" +
		"version = { strictly = \"[31.0,33.0)\", prefer = \"32.1.3-jre\" }\n" +
		"\n" +
		"[plugins.versions] # ignore\n" +
		"id = \"com.github.ben-manes.versions\"\n" +
		"version = \"0.45.0\"\n" +
		"\n" +
		"[versions.kotlin]\n" +
		"strictly = \"1.9.0\"\n"

	p, err := ScanPositions([]byte(src))
	if err != nil {
		t.Fatalf("ScanPositions() error: %v", err)
	}

	junit, ok := p.Lookup(SectionLibraries, "junit")
	if !ok {
		t.Fatal("no position for libraries.junit")
	}
	assertAt(t, src, junit, `"4.12"`)
	if junit.Line != 3 || junit.Column != 11 {
		t.Errorf("junit at %d:%d, want 3:11", junit.Line, junit.Column)
	}

	guava, ok := p.Lookup(SectionLibraries, "guava")
	if !ok {
		t.Fatal("no position for libraries.guava")
	}
	assertAt(t, src, guava, `{ strictly = "[31.0,33.0)", prefer = "32.1.3-jre" }`)

	plugin, ok := p.Lookup(SectionPlugins, "versions")
	if !ok {
		t.Fatal("no position for plugins.versions")
	}
	assertAt(t, src, plugin, `"0.45.0"`)

	if _, ok := p.Lookup(SectionVersions, "kotlin"); ok {
		t.Error("a rich version spread over a sub-table has no single literal")
	}

	if !p.Ignored(SectionLibraries, "junit") {
		t.Error("ignore marker on a sub-table key should apply to the entry")
	}
	if !p.Ignored(SectionPlugins, "versions") {
		t.Error("ignore marker on a sub-table header should apply to the entry")
	}
	if p.Ignored(SectionLibraries, "guava") {
		t.Error("guava is not ignored")
	}
}

func TestScanPositionsErrors(t *testing.T) {
	for _, src := range []string{
		"[versions\n",
		"[versions]\na \"1\"\n",
		"[versions]\na = \"1\n\"\n",
		"[versions]\na = { b = 1\n",
		"[versions]\na = \"1\" b\n",
		"[versions]\na = [1 2]\n",
	} {
		if _, err := ScanPositions([]byte(src)); err == nil {
			t.Errorf("ScanPositions(%q) should fail", src)
		}
	}
}

func TestVersionPositionQuoted(t *testing.T) {
	tests := []struct {
		literal string
		quote   byte
		ok      bool
	}{
		{`"1.0"`, '"', true},
		{`'1.0'`, '\'', true},
		{`1.0`, 0, false},
		{`{ prefer = "1.0" }`, 0, false},
	}
	for _, tt := range tests {
		q, ok := VersionPosition{Literal: tt.literal}.Quoted()
		if q != tt.quote || ok != tt.ok {
			t.Errorf("Quoted(%s) = %q, %v", tt.literal, q, ok)
		}
	}
}
