package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// DefaultPath is where Gradle looks for the default catalog.
const DefaultPath = "gradle/libs.versions.toml"

// Catalog is a parsed version catalog.
type Catalog struct {
	Path      string
	Versions  map[string]VersionRef
	Libraries map[string]Dependency
	Plugins   map[string]Dependency
	Bundles   map[string][]string

	// Positions locates every version literal in the source.
	Positions *Positions
}

type document struct {
	Versions  map[string]any      `toml:"versions"`
	Libraries map[string]any      `toml:"libraries"`
	Plugins   map[string]any      `toml:"plugins"`
	Bundles   map[string][]string `toml:"bundles"`
}

// Load reads and parses the catalog at path. A missing file is reported with
// [errors.ErrCodeCatalogNotFound]; a file that is not a valid catalog with
// [errors.ErrCodeInvalidCatalog].
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeCatalogNotFound, "version catalog %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read %s", path)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "parse %s", path)
	}
	cat.Path = path
	return cat, nil
}

// Parse decodes catalog source.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}
	positions, err := ScanPositions(data)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		Versions:  make(map[string]VersionRef, len(doc.Versions)),
		Libraries: make(map[string]Dependency, len(doc.Libraries)),
		Plugins:   make(map[string]Dependency, len(doc.Plugins)),
		Bundles:   doc.Bundles,
		Positions: positions,
	}

	for key, raw := range doc.Versions {
		ref, err := decodeVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("versions.%s: %w", key, err)
		}
		if ref.Kind == Reference {
			return nil, fmt.Errorf("versions.%s: a version cannot reference another version", key)
		}
		cat.Versions[key] = ref
	}
	for key, raw := range doc.Libraries {
		dep, err := decodeLibrary(raw)
		if err != nil {
			return nil, fmt.Errorf("libraries.%s: %w", key, err)
		}
		cat.Libraries[key] = dep
	}
	for key, raw := range doc.Plugins {
		dep, err := decodePlugin(raw)
		if err != nil {
			return nil, fmt.Errorf("plugins.%s: %w", key, err)
		}
		cat.Plugins[key] = dep
	}
	return cat, nil
}

// Dependencies returns the library or plugin map for kind.
func (c *Catalog) Dependencies(kind DependencyKind) map[string]Dependency {
	if kind == Plugin {
		return c.Plugins
	}
	return c.Libraries
}

// Keys returns the sorted keys of the library or plugin table.
func (c *Catalog) Keys(kind DependencyKind) []string {
	deps := c.Dependencies(kind)
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ignored reports whether the entry key of kind, or the version it
// references, carries an ignore marker.
func (c *Catalog) Ignored(kind DependencyKind, key string) bool {
	if c.Positions == nil {
		return false
	}
	if c.Positions.Ignored(sectionFor(kind), key) {
		return true
	}
	dep, ok := c.Dependencies(kind)[key]
	return ok && dep.Version.Kind == Reference && c.Positions.Ignored(SectionVersions, dep.Version.Name)
}

func sectionFor(kind DependencyKind) string {
	if kind == Plugin {
		return SectionPlugins
	}
	return SectionLibraries
}

func decodeLibrary(raw any) (Dependency, error) {
	switch v := raw.(type) {
	case string:
		group, name, ver, ok := parseModule(v)
		if !ok {
			return Dependency{}, fmt.Errorf("invalid module notation %q", v)
		}
		ref := VersionRef{}
		if ver != "" {
			ref = SimpleRef(ver)
		}
		return NewLibrary(group, name, ref), nil
	case map[string]any:
		var group, name string
		if module, ok := v["module"].(string); ok {
			var valid bool
			if group, name, _, valid = parseModule(module); !valid {
				return Dependency{}, fmt.Errorf("invalid module %q", module)
			}
		} else {
			group, _ = v["group"].(string)
			name, _ = v["name"].(string)
		}
		if group == "" || name == "" {
			return Dependency{}, fmt.Errorf("library needs module or group and name")
		}
		ref, err := decodeVersion(v["version"])
		if err != nil {
			return Dependency{}, err
		}
		return NewLibrary(group, name, ref), nil
	default:
		return Dependency{}, fmt.Errorf("unexpected %T", raw)
	}
}

func decodePlugin(raw any) (Dependency, error) {
	switch v := raw.(type) {
	case string:
		id, ver, _ := strings.Cut(strings.TrimSpace(v), ":")
		if id == "" {
			return Dependency{}, fmt.Errorf("invalid plugin notation %q", v)
		}
		ref := VersionRef{}
		if ver != "" {
			ref = SimpleRef(ver)
		}
		return NewPlugin(id, ref), nil
	case map[string]any:
		id, _ := v["id"].(string)
		if id == "" {
			return Dependency{}, fmt.Errorf("plugin needs an id")
		}
		ref, err := decodeVersion(v["version"])
		if err != nil {
			return Dependency{}, err
		}
		return NewPlugin(id, ref), nil
	default:
		return Dependency{}, fmt.Errorf("unexpected %T", raw)
	}
}

// decodeVersion accepts a version string, { ref = "name" } or a rich table.
func decodeVersion(raw any) (VersionRef, error) {
	switch v := raw.(type) {
	case nil:
		return VersionRef{}, nil
	case string:
		return SimpleRef(v), nil
	case map[string]any:
		if name, ok := v["ref"].(string); ok {
			return NamedRef(name), nil
		}
		var rv RichVersion
		for field, val := range v {
			switch field {
			case "require":
				rv.Require = parseField(val)
			case "prefer":
				rv.Prefer = parseField(val)
			case "strictly":
				rv.Strictly = parseField(val)
			case "reject":
				rv.Reject = append(rv.Reject, parseList(val)...)
			case "rejectAll":
			default:
				return VersionRef{}, fmt.Errorf("unknown rich version field %q", field)
			}
		}
		return RichRef(rv), nil
	default:
		return VersionRef{}, fmt.Errorf("unexpected version %T", raw)
	}
}

func parseField(val any) version.Version {
	s, _ := val.(string)
	return version.Parse(s)
}

func parseList(val any) []version.Version {
	switch v := val.(type) {
	case string:
		return []version.Version{version.Parse(v)}
	case []any:
		out := make([]version.Version, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, version.Parse(s))
			}
		}
		return out
	default:
		return nil
	}
}
