package checker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/integrations/maven"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// fakeFetcher serves metadata and descriptors from maps keyed by
// "repo|group:artifact" and "repo|group:artifact:version".
type fakeFetcher struct {
	mu          sync.Mutex
	metadata    map[string][]string
	descriptors map[string]*maven.Descriptor
	errs        map[string]error
	calls       map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		metadata:    make(map[string][]string),
		descriptors: make(map[string]*maven.Descriptor),
		errs:        make(map[string]error),
		calls:       make(map[string]int),
	}
}

func (f *fakeFetcher) addVersions(repo, module string, versions ...string) {
	f.metadata[repo+"|"+module] = versions
}

func (f *fakeFetcher) addDescriptor(repo, coord, name, url string, deps ...maven.Coordinate) {
	f.descriptors[repo+"|"+coord] = &maven.Descriptor{Name: name, URL: url, Dependencies: deps}
}

func (f *fakeFetcher) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeFetcher) FetchMetadata(ctx context.Context, repo integrations.Repository, group, artifact string) (*maven.Metadata, error) {
	key := repo.Name + "|" + group + ":" + artifact
	f.mu.Lock()
	f.calls[key]++
	err := f.errs[key]
	versions, ok := f.metadata[key]
	f.mu.Unlock()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return &maven.Metadata{GroupID: group, ArtifactID: artifact, Versions: versions}, nil
}

func (f *fakeFetcher) FetchDescriptor(ctx context.Context, repo integrations.Repository, group, artifact, ver string) (*maven.Descriptor, error) {
	key := repo.Name + "|" + group + ":" + artifact + ":" + ver
	f.mu.Lock()
	f.calls[key]++
	err := f.errs[key]
	d, ok := f.descriptors[key]
	f.mu.Unlock()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, integrations.ErrNotFound
	}
	out := *d
	out.Coordinate = maven.Coordinate{GroupID: group, ArtifactID: artifact, Version: ver}
	return &out, nil
}

type fakeBuildTool struct {
	versions []string
	err      error
}

func (f fakeBuildTool) FetchVersions(context.Context) ([]version.Version, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]version.Version, len(f.versions))
	for i, s := range f.versions {
		out[i] = version.Parse(s)
	}
	return out, nil
}

var (
	central = integrations.Repository{Name: "central", URL: "https://central.example"}
	google  = integrations.Repository{Name: "google", URL: "https://google.example"}
	portal  = integrations.Repository{Name: "portal", URL: "https://portal.example"}
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libs.versions.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func mustParse(s string) version.Version { return version.Parse(s) }

func parseAll(ss ...string) []version.Version {
	out := make([]version.Version, len(ss))
	for i, s := range ss {
		out[i] = version.Parse(s)
	}
	return out
}
