package checker

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// UpdateResult is an accepted update for one catalog entry.
type UpdateResult struct {
	Catalog    string                  `json:"catalog"`
	Key        string                  `json:"key"`
	Dependency catalog.Dependency      `json:"-"`
	ModuleID   string                  `json:"module"`
	Repository integrations.Repository `json:"repository"`
	Current    version.Version         `json:"current"`
	Update     version.Version         `json:"update"`

	// Filled in from the descriptor; may be empty.
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// String formats the update as "key: current -> update".
func (u UpdateResult) String() string {
	return fmt.Sprintf("%s: %s -> %s", u.Key, u.Current, u.Update)
}

// BuildToolUpdate is a newer Gradle release.
type BuildToolUpdate struct {
	Current version.Version `json:"current"`
	Update  version.Version `json:"update"`
}

// Result holds the updates found by one check.
type Result struct {
	Libraries []UpdateResult   `json:"libraries"`
	Plugins   []UpdateResult   `json:"plugins"`
	BuildTool *BuildToolUpdate `json:"buildTool,omitempty"`

	// Catalogs are the parsed catalogs, in the order they were given.
	Catalogs []*catalog.Catalog `json:"-"`

	// Checked counts the dependencies that were resolved.
	Checked int `json:"checked"`
}

// Len returns the number of updates, the build tool included.
func (r *Result) Len() int {
	n := len(r.Libraries) + len(r.Plugins)
	if r.BuildTool != nil {
		n++
	}
	return n
}

// ForCatalog returns the library and plugin updates of the catalog at path.
func (r *Result) ForCatalog(path string) []UpdateResult {
	var out []UpdateResult
	for _, group := range [][]UpdateResult{r.Libraries, r.Plugins} {
		for _, u := range group {
			if u.Catalog == path {
				out = append(out, u)
			}
		}
	}
	return out
}

// sortUpdates orders updates by catalog key, then by catalog path, so a
// key checked in several catalogs stays grouped.
func sortUpdates(us []UpdateResult) {
	slices.SortFunc(us, func(a, b UpdateResult) int {
		return cmp.Or(
			cmp.Compare(a.Key, b.Key),
			cmp.Compare(a.Catalog, b.Catalog),
			cmp.Compare(a.ModuleID, b.ModuleID),
		)
	})
}
