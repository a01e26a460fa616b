package integrations

import (
	"net/url"
	"sort"
	"strings"

	"github.com/matzehuels/catalogcheck/pkg/cache"
)

// Well-known repository locations.
const (
	MavenCentralURL  = "https://repo.maven.apache.org/maven2"
	GoogleMavenURL   = "https://dl.google.com/dl/android/maven2"
	PluginPortalURL  = "https://plugins.gradle.org/m2"
	GradleServiceURL = "https://services.gradle.org"
)

// Repository is a Maven layout repository with optional credentials.
type Repository struct {
	Name     string            `toml:"name" json:"name"`
	URL      string            `toml:"url" json:"url"`
	Username string            `toml:"username" json:"-"`
	Password string            `toml:"password" json:"-"`
	Headers  map[string]string `toml:"headers" json:"-"`
}

// String returns the repository name, or its URL when unnamed.
func (r Repository) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.URL
}

// CacheScope returns the cache key prefix for responses fetched from r.
// Repositories without credentials or headers share the unscoped "" so public
// responses are reused; otherwise the scope is derived from a hash of the
// credentials and headers.
func (r Repository) CacheScope() string {
	if r.Username == "" && r.Password == "" && len(r.Headers) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Username)
	b.WriteByte(0)
	b.WriteString(r.Password)
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Headers[k])
	}
	return "auth:" + cache.Hash([]byte(b.String()))[:16] + ":"
}

// Resolve joins path onto the repository base URL.
func (r Repository) Resolve(path string) string {
	return strings.TrimRight(r.URL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Host returns the host part of the repository URL, or "" if it does not parse.
func (r Repository) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// DefaultLibraryRepositories are queried for libraries when none are configured.
func DefaultLibraryRepositories() []Repository {
	return []Repository{
		{Name: "maven-central", URL: MavenCentralURL},
		{Name: "google", URL: GoogleMavenURL},
	}
}

// DefaultPluginRepositories are queried for plugins when none are configured.
func DefaultPluginRepositories() []Repository {
	return []Repository{
		{Name: "gradle-plugin-portal", URL: PluginPortalURL},
	}
}
