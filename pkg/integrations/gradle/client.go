// Package gradle lists released Gradle distributions from the Gradle
// services API.
package gradle

import (
	"context"
	"time"

	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// Release is one entry of the versions/all document.
type Release struct {
	Version        string `json:"version"`
	BuildTime      string `json:"buildTime"`
	Current        bool   `json:"current"`
	Snapshot       bool   `json:"snapshot"`
	Nightly        bool   `json:"nightly"`
	ReleaseNightly bool   `json:"releaseNightly"`
	Broken         bool   `json:"broken"`
	RCFor          string `json:"rcFor"`
	MilestoneFor   string `json:"milestoneFor"`
}

// Published reports whether r is a distributed build: not a snapshot, not
// a nightly and not withdrawn.
func (r Release) Published() bool {
	return !r.Snapshot && !r.Nightly && !r.ReleaseNightly && !r.Broken && r.Version != ""
}

// Client fetches the list of Gradle distributions.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Gradle services client that caches responses in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "gradle:", ttl, headers),
		baseURL: integrations.GradleServiceURL,
	}
}

// FetchReleases returns every entry of the versions/all document.
func (c *Client) FetchReleases(ctx context.Context) ([]Release, error) {
	var releases []Release
	if err := c.Get(ctx, c.baseURL+"/versions/all", &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// FetchVersions returns the published Gradle versions, release candidates
// and milestones included. Callers filter those with a policy.
func (c *Client) FetchVersions(ctx context.Context) ([]version.Version, error) {
	releases, err := c.FetchReleases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]version.Version, 0, len(releases))
	for _, r := range releases {
		if r.Published() {
			out = append(out, version.Parse(r.Version))
		}
	}
	return out, nil
}
