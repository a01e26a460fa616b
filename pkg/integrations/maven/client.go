package maven

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// Metadata is the content of a maven-metadata.xml document.
//
// Zero values: Latest and Release may be empty; Versions is nil if the
// document lists none.
type Metadata struct {
	GroupID    string
	ArtifactID string
	Latest     string
	Release    string
	Versions   []string
}

// Candidates returns every version the metadata advertises: release, latest,
// then the enumerated list. Empty entries are skipped; duplicates are kept.
func (m *Metadata) Candidates() []version.Version {
	out := make([]version.Version, 0, len(m.Versions)+2)
	for _, s := range append([]string{m.Release, m.Latest}, m.Versions...) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, version.Parse(s))
		}
	}
	return out
}

// Coordinate identifies one artifact, optionally at a version.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// String returns "groupId:artifactId[:version]".
func (c Coordinate) String() string {
	s := c.GroupID + ":" + c.ArtifactID
	if c.Version != "" {
		s += ":" + c.Version
	}
	return s
}

// Descriptor holds the fields of a POM the checker reports.
//
// Dependencies include only compile and runtime scope entries; test,
// provided and optional dependencies and entries with unresolved Maven
// properties (${...}) are skipped.
type Descriptor struct {
	Coordinate
	Name         string
	URL          string
	Dependencies []Coordinate
}

// Client fetches Maven documents through the shared integrations client.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
}

// NewClient creates a Maven client that caches response bodies in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	return &Client{Client: integrations.NewClient(c, "maven:", ttl, headers)}
}

// FetchMetadata retrieves <group path>/<artifact>/maven-metadata.xml from repo.
//
// Returns:
//   - [integrations.ErrNotFound] if the repository has no such artifact
//   - [integrations.ErrNetwork] for HTTP failures, retryable where transient
//   - [integrations.ErrMalformed] if the document is not valid metadata XML
//   - an error wrapping [cache.ErrCorrupted] if the cached copy is unreadable
func (c *Client) FetchMetadata(ctx context.Context, repo integrations.Repository, group, artifact string) (*Metadata, error) {
	path := fmt.Sprintf("%s/%s/maven-metadata.xml", groupPath(group), artifact)
	data, err := c.Fetch(ctx, repo, path)
	if err != nil {
		return nil, err
	}

	var doc metadataDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s:%s metadata: %v", integrations.ErrMalformed, group, artifact, err)
	}
	return &Metadata{
		GroupID:    firstNonEmpty(doc.GroupID, group),
		ArtifactID: firstNonEmpty(doc.ArtifactID, artifact),
		Latest:     strings.TrimSpace(doc.Versioning.Latest),
		Release:    strings.TrimSpace(doc.Versioning.Release),
		Versions:   doc.Versioning.Versions,
	}, nil
}

// FetchDescriptor retrieves the POM of group:artifact:version from repo.
// Errors follow [Client.FetchMetadata].
func (c *Client) FetchDescriptor(ctx context.Context, repo integrations.Repository, group, artifact, ver string) (*Descriptor, error) {
	path := fmt.Sprintf("%s/%s/%s/%s-%s.pom", groupPath(group), artifact, ver, artifact, ver)
	data, err := c.Fetch(ctx, repo, path)
	if err != nil {
		return nil, err
	}

	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, fmt.Errorf("%w: %s:%s:%s pom: %v", integrations.ErrMalformed, group, artifact, ver, err)
	}
	return &Descriptor{
		Coordinate: Coordinate{
			GroupID:    firstNonEmpty(pom.GroupID, group),
			ArtifactID: firstNonEmpty(pom.ArtifactID, artifact),
			Version:    firstNonEmpty(pom.Version, ver),
		},
		Name:         strings.TrimSpace(pom.Name),
		URL:          strings.TrimSpace(pom.URL),
		Dependencies: extractDeps(&pom),
	}, nil
}

func extractDeps(pom *pomProject) []Coordinate {
	var deps []Coordinate
	seen := make(map[string]bool)

	for _, dep := range pom.Dependencies {
		if dep.Scope == "test" || dep.Scope == "provided" || dep.Optional == "true" {
			continue
		}
		// Skip dependencies with unresolved properties
		if strings.HasPrefix(dep.GroupID, "${") || strings.HasPrefix(dep.ArtifactID, "${") {
			continue
		}
		coord := Coordinate{
			GroupID:    strings.TrimSpace(dep.GroupID),
			ArtifactID: strings.TrimSpace(dep.ArtifactID),
			Version:    strings.TrimSpace(dep.Version),
		}
		if key := coord.GroupID + ":" + coord.ArtifactID; !seen[key] {
			seen[key] = true
			deps = append(deps, coord)
		}
	}
	return deps
}

func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}

func firstNonEmpty(a, b string) string {
	if a = strings.TrimSpace(a); a != "" {
		return a
	}
	return b
}

type metadataDoc struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Name         string          `xml:"name"`
	URL          string          `xml:"url"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}
