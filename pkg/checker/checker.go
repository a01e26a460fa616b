package checker

import (
	"cmp"
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/catalog"
	cerrors "github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/integrations/maven"
	"github.com/matzehuels/catalogcheck/pkg/observability"
	"github.com/matzehuels/catalogcheck/pkg/version"
)

// Progress task names.
const (
	TaskFindUpdates = "Finding updates"
	TaskGatherInfo  = "Gathering dependency info"
)

// Options configures a check.
type Options struct {
	// Catalogs are the catalog files to check. Every file must exist.
	Catalogs []string

	// Repositories in priority order (defaults: Maven Central and Google
	// for libraries, the Gradle plugin portal for plugins).
	LibraryRepositories []integrations.Repository
	PluginRepositories  []integrations.Repository

	Exclusions *catalog.Exclusions

	// BuildToolVersion is the Gradle version in use; empty skips the
	// build-tool check.
	BuildToolVersion string

	// Concurrency bounds in-flight tasks (default: 4 x GOMAXPROCS).
	Concurrency int

	Progress ProgressFunc
	Logger   *log.Logger
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if len(o.LibraryRepositories) == 0 {
		o.LibraryRepositories = integrations.DefaultLibraryRepositories()
	}
	if len(o.PluginRepositories) == 0 {
		o.PluginRepositories = integrations.DefaultPluginRepositories()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4 * runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Checker runs update checks.
type Checker struct {
	Resolver  Resolver
	BuildTool BuildToolFetcher
}

// New returns a Checker. buildTool may be nil when the build-tool check is
// never requested.
func New(r Resolver, buildTool BuildToolFetcher) *Checker {
	return &Checker{Resolver: r, BuildTool: buildTool}
}

type task struct {
	catalog *catalog.Catalog
	key     string
	dep     catalog.Dependency
	repos   []integrations.Repository
}

// Check loads the catalogs named in opts and looks up updates for every
// dependency that is neither excluded nor ignored.
//
// A missing catalog fails with [cerrors.ErrCodeCatalogNotFound] before any
// request is made. A corrupted response cache fails with
// [cerrors.ErrCodeCacheCorrupted]. Cancelling ctx returns ctx.Err().
//
// The progress stream ends with [Done] whether or not the check succeeds.
func (c *Checker) Check(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	start := time.Now()
	defer opts.Progress.emit(Done)

	result := &Result{}
	for _, path := range opts.Catalogs {
		cat, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		result.Catalogs = append(result.Catalogs, cat)
	}

	resolver := c.Resolver
	if resolver.Logger == nil {
		resolver.Logger = opts.Logger
	}
	resolver = resolver.WithDefaults()

	tasks := c.plan(result.Catalogs, opts)
	result.Checked = len(tasks)
	observability.Check().OnCheckStart(ctx, len(tasks))

	err := c.findUpdates(ctx, &resolver, tasks, opts, result)
	if err == nil {
		err = c.gatherInfo(ctx, &resolver, opts, result)
	}
	if err != nil {
		err = classify(ctx, err)
		observability.Check().OnCheckComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}

	sortUpdates(result.Libraries)
	sortUpdates(result.Plugins)
	observability.Check().OnCheckComplete(ctx, result.Len(), time.Since(start), nil)
	return result, nil
}

// plan lists the dependencies to resolve in catalog and key order.
func (c *Checker) plan(cats []*catalog.Catalog, opts Options) []task {
	var tasks []task
	for _, cat := range cats {
		for _, kind := range []catalog.DependencyKind{catalog.Library, catalog.Plugin} {
			repos := opts.LibraryRepositories
			if kind == catalog.Plugin {
				repos = opts.PluginRepositories
			}
			deps := cat.Dependencies(kind)
			for _, key := range cat.Keys(kind) {
				dep := deps[key]
				switch {
				case cat.Ignored(kind, key):
					opts.Logger.Debug("ignored", "catalog", cat.Path, "key", key)
				case opts.Exclusions.Excludes(key, dep):
					opts.Logger.Debug("excluded", "catalog", cat.Path, "key", key)
				default:
					tasks = append(tasks, task{catalog: cat, key: key, dep: dep, repos: repos})
				}
			}
		}
	}
	return tasks
}

// findUpdates is phase one: resolve every task plus the build tool.
func (c *Checker) findUpdates(ctx context.Context, r *Resolver, tasks []task, opts Options, result *Result) error {
	total := len(tasks)
	checkBuildTool := opts.BuildToolVersion != "" && c.BuildTool != nil
	if checkBuildTool {
		total++
	}
	opts.Progress.emit(Determinate(TaskFindUpdates, 0))

	var (
		mu        sync.Mutex
		completed atomic.Int64
	)
	done := func() {
		n := completed.Add(1)
		opts.Progress.emit(Determinate(TaskFindUpdates, phase(0, int(n), total)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, t := range tasks {
		g.Go(func() error {
			begin := time.Now()
			u, err := r.Resolve(gctx, t.key, t.dep, t.catalog.Versions, t.repos)
			if err != nil {
				return err
			}
			repo := ""
			if u != nil {
				u.Catalog = t.catalog.Path
				repo = u.Repository.String()
				mu.Lock()
				if t.dep.Kind == catalog.Plugin {
					result.Plugins = append(result.Plugins, *u)
				} else {
					result.Libraries = append(result.Libraries, *u)
				}
				mu.Unlock()
			}
			observability.Check().OnResolve(gctx, t.dep.ModuleID(), repo, u != nil, time.Since(begin))
			done()
			return nil
		})
	}

	if checkBuildTool {
		g.Go(func() error {
			u, err := r.ResolveBuildTool(gctx, version.Parse(opts.BuildToolVersion), c.BuildTool)
			if err != nil {
				return err
			}
			mu.Lock()
			result.BuildTool = u
			mu.Unlock()
			done()
			return nil
		})
	}

	return g.Wait()
}

// gatherInfo is phase two: attach descriptor name and URL to each update.
func (c *Checker) gatherInfo(ctx context.Context, r *Resolver, opts Options, result *Result) error {
	groups := [][]UpdateResult{result.Libraries, result.Plugins}
	total := len(result.Libraries) + len(result.Plugins)
	opts.Progress.emit(Determinate(TaskGatherInfo, 50))

	var (
		mu        sync.Mutex
		completed atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, group := range groups {
		for i := range group {
			g.Go(func() error {
				u := group[i]
				name, url, err := r.describe(gctx, u)
				if err != nil {
					return err
				}
				mu.Lock()
				group[i].Name, group[i].URL = name, url
				mu.Unlock()
				n := completed.Add(1)
				opts.Progress.emit(Determinate(TaskGatherInfo, phase(50, int(n), total)))
				return nil
			})
		}
	}
	return g.Wait()
}

// describe fetches the descriptor of an update. A plugin marker whose POM
// points at exactly one artifact with a static version is followed once,
// and the backing artifact's descriptor is preferred when it is available.
func (r *Resolver) describe(ctx context.Context, u UpdateResult) (name, url string, err error) {
	c := r.WithDefaults()
	fetch := func(group, artifact, ver string) (*maven.Descriptor, error) {
		var d *maven.Descriptor
		err := c.call(ctx, func(ctx context.Context) (err error) {
			d, err = c.Fetcher.FetchDescriptor(ctx, u.Repository, group, artifact, ver)
			return err
		})
		return d, err
	}

	d, err := fetch(u.Dependency.Group(), u.Dependency.Name(), u.Update.String())
	if err != nil {
		if fatal := fatalError(ctx, err); fatal != nil {
			return "", "", fatal
		}
		c.Logger.Debug("descriptor unavailable", "key", u.Key, "err", err)
		return "", "", nil
	}

	if u.Dependency.Kind != catalog.Plugin || len(d.Dependencies) != 1 {
		return d.Name, d.URL, nil
	}
	target := d.Dependencies[0]
	if !version.Parse(target.Version).IsStatic() {
		return d.Name, d.URL, nil
	}
	backing, err := fetch(target.GroupID, target.ArtifactID, target.Version)
	if err != nil {
		if fatal := fatalError(ctx, err); fatal != nil {
			return "", "", fatal
		}
		c.Logger.Debug("plugin artifact descriptor unavailable", "key", u.Key, "artifact", target.String(), "err", err)
		return d.Name, d.URL, nil
	}
	return cmp.Or(backing.Name, d.Name), cmp.Or(backing.URL, d.URL), nil
}

// classify maps fatal errors onto coded errors for the CLI.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, cache.ErrCorrupted):
		return cerrors.Wrap(cerrors.ErrCodeCacheCorrupted, err, "response cache is corrupted")
	default:
		return err
	}
}
