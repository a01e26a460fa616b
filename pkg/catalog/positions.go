package catalog

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Catalog tables that carry versions.
const (
	SectionVersions  = "versions"
	SectionLibraries = "libraries"
	SectionPlugins   = "plugins"
)

// VersionPosition locates one version literal in the catalog source.
// Line and Column are 1-based; Column counts bytes. Literal is the exact
// source text, quotes included, or the braces of a rich version table. For
// the "group:name:version" notation only the version part is recorded.
type VersionPosition struct {
	Line     int
	Column   int
	LineSpan int
	Offset   int
	Literal  string
}

// EndLine returns the last line the literal occupies.
func (p VersionPosition) EndLine() int { return p.Line + p.LineSpan - 1 }

// Quoted reports whether the literal is a quoted string with quote
// character q set to '"' or '\''. Literals inside module notation are bare.
func (p VersionPosition) Quoted() (q byte, ok bool) {
	if n := len(p.Literal); n >= 2 && (p.Literal[0] == '"' || p.Literal[0] == '\'') && p.Literal[n-1] == p.Literal[0] {
		return p.Literal[0], true
	}
	return 0, false
}

// Positions holds the version positions and ignore markers of one catalog
// source. It is built once by [ScanPositions] and not modified afterwards.
type Positions struct {
	entries map[string]map[string]VersionPosition
	ignored map[string]map[string]bool
}

// Lookup returns the position of the version declared by key in section.
func (p *Positions) Lookup(section, key string) (VersionPosition, bool) {
	pos, ok := p.entries[section][key]
	return pos, ok
}

// Ignored reports whether key in section carries an ignore marker.
func (p *Positions) Ignored(section, key string) bool {
	return p.ignored[section][key]
}

// Len returns the number of recorded positions.
func (p *Positions) Len() int {
	n := 0
	for _, m := range p.entries {
		n += len(m)
	}
	return n
}

func (p *Positions) set(section, key string, pos VersionPosition) {
	if p.entries[section] == nil {
		p.entries[section] = make(map[string]VersionPosition)
	}
	p.entries[section][key] = pos
}

func (p *Positions) ignore(section, key string) {
	if p.ignored[section] == nil {
		p.ignored[section] = make(map[string]bool)
	}
	p.ignored[section][key] = true
}

// ScanPositions parses catalog source and records where each version
// literal of the versions, libraries and plugins tables starts and ends,
// together with the ignore markers.
//
// Entries may be declared inline (junit = { ... }), with dotted keys
// (junit.version = "4.12") or as a sub-table ([libraries.junit]). Only
// literals that can be replaced as a unit get a position: a string, an
// inline rich version table or the version part of module notation.
func ScanPositions(src []byte) (*Positions, error) {
	s := newScanner(src)
	p := &Positions{
		entries: make(map[string]map[string]VersionPosition),
		ignored: make(map[string]map[string]bool),
	}

	var parser unstable.Parser
	parser.Reset(src[s.base:])

	var table []string
	for parser.NextExpression() {
		expr := parser.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			keys, last := keyParts(expr.Key())
			table = keys
			if expr.Kind == unstable.ArrayTable || len(keys) < 2 {
				continue
			}
			if section, entry, _, ok := split(table, nil); ok && last != nil && s.ignoreAfter(s.offset(last.Raw)+int(last.Raw.Length)) {
				p.ignore(section, entry)
			}
		case unstable.KeyValue:
			keys, _ := keyParts(expr.Key())
			section, entry, sub, ok := split(table, keys)
			if !ok {
				continue
			}
			if _, end, ok := s.valueSpan(expr); ok && s.ignoreAfter(end) {
				p.ignore(section, entry)
			}
			if pos, ok := s.position(section, sub, expr); ok {
				p.set(section, entry, pos)
			}
		}
	}
	if err := parser.Error(); err != nil {
		return nil, fmt.Errorf("scan positions: %w", err)
	}
	return p, nil
}

// split resolves a key inside the current table into its catalog section,
// entry key and the sub-key below the entry.
func split(table, key []string) (section, entry string, sub []string, ok bool) {
	full := append(append([]string(nil), table...), key...)
	if len(full) < 2 {
		return "", "", nil, false
	}
	switch full[0] {
	case SectionVersions, SectionLibraries, SectionPlugins:
		return full[0], full[1], full[2:], true
	}
	return "", "", nil, false
}

func keyParts(it unstable.Iterator) ([]string, *unstable.Node) {
	var (
		parts []string
		last  *unstable.Node
	)
	for it.Next() {
		last = it.Node()
		parts = append(parts, string(last.Data))
	}
	return parts, last
}

// position locates the replaceable version literal of one key/value pair.
func (s *scanner) position(section string, sub []string, kv *unstable.Node) (VersionPosition, bool) {
	v := kv.Value()
	switch {
	case section == SectionVersions:
		if len(sub) > 0 {
			// Rich version spelled as dotted keys or a sub-table.
			return VersionPosition{}, false
		}
		return s.literal(kv)
	case len(sub) == 1 && sub[0] == "version":
		return s.versionField(kv)
	case len(sub) > 0:
		// module, group, name, id or version.ref spelled as dotted keys.
		return VersionPosition{}, false
	case v.Kind == unstable.String:
		return s.notationVersion(section, kv)
	case v.Kind == unstable.InlineTable:
		if field := child(v, "version"); field != nil {
			return s.versionField(field)
		}
	}
	return VersionPosition{}, false
}

// literal is the span of a string or inline table value.
func (s *scanner) literal(kv *unstable.Node) (VersionPosition, bool) {
	if k := kv.Value().Kind; k != unstable.String && k != unstable.InlineTable {
		return VersionPosition{}, false
	}
	start, end, ok := s.valueSpan(kv)
	if !ok {
		return VersionPosition{}, false
	}
	return s.span(start, end), true
}

// versionField locates the value of a version key. References carry no
// literal of their own.
func (s *scanner) versionField(kv *unstable.Node) (VersionPosition, bool) {
	if v := kv.Value(); v.Kind == unstable.InlineTable && child(v, "ref") != nil {
		return VersionPosition{}, false
	}
	return s.literal(kv)
}

// notationVersion locates the version inside "group:name:version" or
// "id:version".
func (s *scanner) notationVersion(section string, kv *unstable.Node) (VersionPosition, bool) {
	start, end, ok := s.valueSpan(kv)
	if !ok {
		return VersionPosition{}, false
	}
	raw := s.src[start:end]
	delim := quoteLen(raw)
	if len(raw) < 2*delim {
		return VersionPosition{}, false
	}
	content := string(raw[delim : len(raw)-delim])
	want := 3
	if section == SectionPlugins {
		want = 2
	}
	parts := strings.SplitN(content, ":", want)
	if len(parts) != want || parts[want-1] == "" {
		return VersionPosition{}, false
	}
	end -= delim
	return s.span(end-len(parts[want-1]), end), true
}

// child returns the key/value pair of the single-part key name in an
// inline table.
func child(table *unstable.Node, name string) *unstable.Node {
	it := table.Children()
	for it.Next() {
		kv := it.Node()
		if keys, _ := keyParts(kv.Key()); len(keys) == 1 && keys[0] == name {
			return kv
		}
	}
	return nil
}

func quoteLen(raw []byte) int {
	if bytes.HasPrefix(raw, []byte(`"""`)) || bytes.HasPrefix(raw, []byte("'''")) {
		return 3
	}
	return 1
}

func isIgnoreComment(comment string) bool {
	fields := strings.Fields(comment)
	return len(fields) > 0 && strings.EqualFold(strings.TrimRight(fields[0], ":,.;!"), "ignore")
}

type scanner struct {
	src        []byte
	base       int // length of a leading byte order mark
	lineStarts []int
}

func newScanner(src []byte) *scanner {
	s := &scanner{src: src, lineStarts: []int{0}}
	for i, c := range src {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	if bytes.HasPrefix(src, []byte("\ufeff")) {
		s.base = len("\ufeff")
	}
	return s
}

// offset converts a parser range into an offset in src.
func (s *scanner) offset(r unstable.Range) int {
	return s.base + int(r.Offset)
}

// location converts a byte offset into a 1-based line and column.
func (s *scanner) location(off int) (line, col int) {
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > off }) - 1
	return i + 1, off - s.lineStarts[i] + 1
}

func (s *scanner) span(start, end int) VersionPosition {
	line, col := s.location(start)
	endLine, _ := s.location(max(end-1, start))
	return VersionPosition{
		Line:     line,
		Column:   col,
		LineSpan: endLine - line + 1,
		Offset:   start,
		Literal:  string(s.src[start:end]),
	}
}

// valueSpan returns the source span of the string, inline table or array
// assigned in kv. The parser records exact ranges for keys only, so the
// value is found after the last key and its end by matching quotes or
// brackets.
func (s *scanner) valueSpan(kv *unstable.Node) (start, end int, ok bool) {
	_, last := keyParts(kv.Key())
	if last == nil || last.Raw.Length == 0 {
		return 0, 0, false
	}
	start = s.offset(last.Raw) + int(last.Raw.Length)
	for start < len(s.src) && (s.src[start] == ' ' || s.src[start] == '\t' || s.src[start] == '=') {
		start++
	}
	if start >= len(s.src) {
		return 0, 0, false
	}
	switch kv.Value().Kind {
	case unstable.String:
		end, ok = s.stringEnd(start)
	case unstable.InlineTable, unstable.Array:
		end, ok = s.closing(start)
	}
	return start, end, ok
}

// closing returns the offset after the bracket matching the one at open,
// skipping strings and comments.
func (s *scanner) closing(open int) (int, bool) {
	depth := 0
	for i := open; i < len(s.src); i++ {
		switch c := s.src[i]; c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '#':
			for i < len(s.src) && s.src[i] != '\n' {
				i++
			}
		case '"', '\'':
			end, ok := s.stringEnd(i)
			if !ok {
				return 0, false
			}
			i = end - 1
		}
	}
	return 0, false
}

// stringEnd returns the offset after the string starting at start.
func (s *scanner) stringEnd(start int) (int, bool) {
	q := s.src[start]
	delim := s.src[start : start+1]
	if bytes.HasPrefix(s.src[start:], bytes.Repeat(delim, 3)) {
		delim = s.src[start : start+3]
	}
	for i := start + len(delim); i < len(s.src); i++ {
		if q == '"' && s.src[i] == '\\' {
			i++
			continue
		}
		if bytes.HasPrefix(s.src[i:], delim) {
			end := i + len(delim)
			// """a"""" ends with the last run of quotes.
			for len(delim) == 3 && end < len(s.src) && end-i < 5 && s.src[end] == q {
				end++
			}
			return end, true
		}
	}
	return 0, false
}

// ignoreAfter reports whether the rest of the line after off, past closing
// brackets, is an ignore comment.
func (s *scanner) ignoreAfter(off int) bool {
	i := off
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == ']') {
		i++
	}
	if i >= len(s.src) || s.src[i] != '#' {
		return false
	}
	end := bytes.IndexByte(s.src[i:], '\n')
	if end < 0 {
		end = len(s.src) - i
	}
	return isIgnoreComment(strings.TrimRight(string(s.src[i+1:i+end]), "\r"))
}
