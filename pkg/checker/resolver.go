package checker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/integrations/maven"
	"github.com/matzehuels/catalogcheck/pkg/policy"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

const (
	DefaultTimeout  = 30 * time.Second // Per request
	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
)

// Fetcher reads repository documents. [maven.Client] implements it.
type Fetcher interface {
	FetchMetadata(ctx context.Context, repo integrations.Repository, group, artifact string) (*maven.Metadata, error)
	FetchDescriptor(ctx context.Context, repo integrations.Repository, group, artifact, version string) (*maven.Descriptor, error)
}

// BuildToolFetcher lists released build-tool versions. [gradle.Client]
// implements it.
//
// [gradle.Client]: github.com/matzehuels/catalogcheck/pkg/integrations/gradle.Client
type BuildToolFetcher interface {
	FetchVersions(ctx context.Context) ([]version.Version, error)
}

// Resolver finds the update for a single dependency.
//
// Resolver is safe for concurrent use once configured.
type Resolver struct {
	Fetcher Fetcher
	Policy  policy.Policy

	// Verify fetches the descriptor of a candidate and drops it if the
	// repository does not have one.
	Verify bool

	// OnlyStatic skips dependencies whose current version is not static.
	OnlyStatic bool

	Timeout  time.Duration // per request (default: 30s)
	Attempts int           // per request, retries included (default: 3)
	Backoff  time.Duration // first retry delay, doubled each retry (default: 500ms)
	Logger   *log.Logger
}

// WithDefaults returns a copy of r with zero values replaced by defaults.
func (r Resolver) WithDefaults() Resolver {
	if r.Policy == nil {
		r.Policy = policy.StabilityLevel()
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	if r.Attempts <= 0 {
		r.Attempts = DefaultAttempts
	}
	if r.Backoff <= 0 {
		r.Backoff = DefaultBackoff
	}
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return r
}

// Resolve returns the update for dep declared under key, or nil if no
// repository offers one. repos are tried in order and the first repository
// with an accepted candidate wins.
//
// Only fatal conditions are returned as errors: a corrupted response cache
// and cancellation of ctx.
func (r *Resolver) Resolve(ctx context.Context, key string, dep catalog.Dependency, versions map[string]catalog.VersionRef, repos []integrations.Repository) (*UpdateResult, error) {
	c := r.WithDefaults()
	logger := c.Logger.With("key", key)

	declared, ok := dep.Version.Resolve(versions)
	if !ok {
		logger.Debug("skipping, version does not resolve", "version", dep.Version)
		return nil, nil
	}
	current := declared.Current()
	if c.OnlyStatic && !current.IsStatic() {
		logger.Debug("skipping, version is not static", "version", current)
		return nil, nil
	}
	if !dep.Resolvable() {
		logger.Debug("skipping, incomplete coordinates", "module", dep.ModuleID())
		return nil, nil
	}

	for _, repo := range repos {
		var md *maven.Metadata
		err := c.call(ctx, func(ctx context.Context) (err error) {
			md, err = c.Fetcher.FetchMetadata(ctx, repo, dep.Group(), dep.Name())
			return err
		})
		if err != nil {
			if fatal := fatalError(ctx, err); fatal != nil {
				return nil, fatal
			}
			logger.Debug("metadata unavailable", "repository", repo.String(), "err", err)
			continue
		}

		candidate, ok := c.pick(declared, current, md.Candidates())
		if !ok {
			continue
		}

		if c.Verify {
			err := c.call(ctx, func(ctx context.Context) error {
				_, err := c.Fetcher.FetchDescriptor(ctx, repo, dep.Group(), dep.Name(), candidate.String())
				return err
			})
			if err != nil {
				if fatal := fatalError(ctx, err); fatal != nil {
					return nil, fatal
				}
				logger.Debug("candidate has no descriptor", "repository", repo.String(), "candidate", candidate, "err", err)
				continue
			}
		}

		return &UpdateResult{
			Key:        key,
			Dependency: dep,
			ModuleID:   dep.ModuleID(),
			Repository: repo,
			Current:    current,
			Update:     candidate,
		}, nil
	}
	return nil, nil
}

// ResolveBuildTool returns the newest accepted build-tool release above
// current, or nil.
func (r *Resolver) ResolveBuildTool(ctx context.Context, current version.Version, source BuildToolFetcher) (*BuildToolUpdate, error) {
	c := r.WithDefaults()
	var releases []version.Version
	err := c.call(ctx, func(ctx context.Context) (err error) {
		releases, err = source.FetchVersions(ctx)
		return err
	})
	if err != nil {
		if fatal := fatalError(ctx, err); fatal != nil {
			return nil, fatal
		}
		c.Logger.Debug("build tool versions unavailable", "err", err)
		return nil, nil
	}

	candidate, ok := c.pick(catalog.VersionRef{Kind: catalog.Simple, Version: current}, current, releases)
	if !ok {
		return nil, nil
	}
	return &BuildToolUpdate{Current: current, Update: candidate}, nil
}

// pick returns the greatest static candidate that declared considers an
// update and the policy accepts.
func (r *Resolver) pick(declared catalog.VersionRef, current version.Version, candidates []version.Version) (version.Version, bool) {
	accepted := make([]version.Version, 0, len(candidates))
	for _, c := range candidates {
		if c.IsStatic() && declared.IsUpdate(c) && r.Policy.Accepts(current, c) {
			accepted = append(accepted, c)
		}
	}
	return version.Max(accepted)
}

// call runs fn with a per-attempt timeout, retrying transient failures with
// exponential backoff.
func (r *Resolver) call(ctx context.Context, fn func(context.Context) error) error {
	return cache.Retry(ctx, r.Attempts, r.Backoff, func() error {
		cctx, cancel := context.WithTimeout(ctx, r.Timeout)
		defer cancel()
		err := fn(cctx)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) && !cache.IsRetryable(err) {
			return cache.Retryable(err)
		}
		return err
	})
}

// fatalError returns the error that must abort the check, or nil when err
// only concerns the current repository.
func fatalError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, cache.ErrCorrupted) || errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
