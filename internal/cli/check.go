package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/catalogcheck/pkg/buildinfo"
	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/checker"
	"github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/integrations/gradle"
	"github.com/matzehuels/catalogcheck/pkg/integrations/maven"
	"github.com/matzehuels/catalogcheck/pkg/replacer"
)

// gradleVersionAuto reads the version from the Gradle wrapper properties.
const gradleVersionAuto = "auto"

// wrapperProperties is the wrapper file, relative to the project root.
var wrapperProperties = filepath.Join("gradle", "wrapper", "gradle-wrapper.properties")

var distributionURLPattern = regexp.MustCompile(`(?m)^\s*distributionUrl\s*[=:].*/gradle-(\S+?)-(?:bin|all)\.zip\s*$`)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	catalogs      []string      // catalog files to check
	policies      []string      // policy names, combined
	verify        bool          // require a POM for every candidate
	onlyStatic    bool          // skip ranges, prefixes and latest.* versions
	update        bool          // rewrite the catalogs
	format        string        // report format: "text" or "json"
	concurrency   int           // in-flight requests
	gradleVersion string        // build-tool version, "auto", or empty to skip
	timeout       time.Duration // per request
	noCache       bool          // bypass the response cache
	cacheTTL      time.Duration // lifetime of cached responses
	redisURL      string        // shared Redis cache instead of the file cache

	exclude          []string // catalog keys
	excludeLibraries []string // group or group:name globs
	excludePlugins   []string // plugin ids

	libraryRepos []string // repository URLs, replacing the defaults
	pluginRepos  []string
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{
		catalogs: []string{catalog.DefaultPath},
		format:   formatText,
		timeout:  checker.DefaultTimeout,
		cacheTTL: defaultCacheTTL,
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report newer versions for the dependencies of version catalogs",
		Long: `Look up every library and plugin of the given catalogs in the configured
repositories and report the versions that can be updated.

Entries whose line ends with a "# ignore" comment are skipped, as are entries
matched by the exclusion flags. With --update the catalogs are rewritten in place.

Examples:
  catalogcheck check                                    # gradle/libs.versions.toml
  catalogcheck check --catalog gradle/libs.versions.toml --catalog gradle/test.versions.toml
  catalogcheck check --policy stability-level --policy same-major
  catalogcheck check --exclude-library 'org.jetbrains.kotlin*' --update
  catalogcheck check --gradle-version auto --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			opts.applyConfig(cfg, cmd.Flags())
			return c.runCheck(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.catalogs, "catalog", "c", opts.catalogs, "version catalog file (repeatable)")
	f.StringSliceVarP(&opts.policies, "policy", "p", nil, "update policy (repeatable, default: stability-level)")
	f.BoolVar(&opts.verify, "verify", false, "only propose versions whose POM can be fetched")
	f.BoolVar(&opts.onlyStatic, "only-static", false, "skip ranges, dynamic and latest.* versions")
	f.BoolVarP(&opts.update, "update", "u", false, "rewrite the catalogs with the updates")
	f.StringVarP(&opts.format, "format", "f", opts.format, "report format: text or json")
	f.IntVar(&opts.concurrency, "concurrency", 0, "concurrent lookups (default: 4 per CPU)")
	f.StringVar(&opts.gradleVersion, "gradle-version", "", `check the Gradle version too ("auto" reads the wrapper)`)
	f.DurationVar(&opts.timeout, "timeout", opts.timeout, "timeout per request")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	f.DurationVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "how long cached responses are reused")
	f.StringVar(&opts.redisURL, "cache-redis", "", "shared Redis cache URL (redis://host:6379/0)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "catalog key to skip (repeatable)")
	f.StringSliceVar(&opts.excludeLibraries, "exclude-library", nil, "group or group:name glob to skip (repeatable)")
	f.StringSliceVar(&opts.excludePlugins, "exclude-plugin", nil, "plugin id to skip (repeatable)")
	f.StringSliceVar(&opts.libraryRepos, "library-repository", nil, "library repository URL (repeatable, replaces the defaults)")
	f.StringSliceVar(&opts.pluginRepos, "plugin-repository", nil, "plugin repository URL (repeatable, replaces the defaults)")

	return cmd
}

// applyConfig fills options from cfg wherever the flag was not given.
func (o *checkOpts) applyConfig(cfg *Config, flags *pflag.FlagSet) {
	unset := func(name string) bool { return !flags.Changed(name) }

	if unset("catalog") && len(cfg.Check.Catalogs) > 0 {
		o.catalogs = cfg.Check.Catalogs
	}
	if unset("policy") && len(cfg.Check.Policies) > 0 {
		o.policies = cfg.Check.Policies
	}
	if unset("verify") {
		o.verify = o.verify || cfg.Check.Verify
	}
	if unset("only-static") {
		o.onlyStatic = o.onlyStatic || cfg.Check.OnlyStatic
	}
	if unset("concurrency") && cfg.Check.Concurrency > 0 {
		o.concurrency = cfg.Check.Concurrency
	}
	if unset("gradle-version") && cfg.Check.GradleVersion != "" {
		o.gradleVersion = cfg.Check.GradleVersion
	}
	if unset("timeout") && cfg.Check.Timeout.Duration > 0 {
		o.timeout = cfg.Check.Timeout.Duration
	}
	if unset("no-cache") {
		o.noCache = o.noCache || cfg.Cache.Disabled
	}
	if unset("cache-ttl") && cfg.Cache.TTL.Duration > 0 {
		o.cacheTTL = cfg.Cache.TTL.Duration
	}
	if unset("cache-redis") && cfg.Cache.Redis != "" {
		o.redisURL = cfg.Cache.Redis
	}
	o.exclude = append(o.exclude, cfg.Exclusions.Keys...)
	o.excludeLibraries = append(o.excludeLibraries, cfg.Exclusions.Libraries...)
	o.excludePlugins = append(o.excludePlugins, cfg.Exclusions.Plugins...)
}

// repositories returns the flag repositories if any, else those of cfg.
// Nil selects the defaults.
func repositories(urls []string, configured []integrations.Repository) ([]integrations.Repository, error) {
	if len(urls) == 0 {
		return configured, nil
	}
	repos := make([]integrations.Repository, 0, len(urls))
	for _, raw := range urls {
		if err := errors.ValidateURL(raw); err != nil {
			return nil, err
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "repository %s", raw)
		}
		repos = append(repos, integrations.Repository{Name: u.Host, URL: raw})
	}
	return repos, nil
}

// detectGradleVersion reads the distribution version from the wrapper
// properties below root.
func detectGradleVersion(root string) (string, error) {
	path := filepath.Join(root, wrapperProperties)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read Gradle wrapper properties")
	}
	m := distributionURLPattern.FindSubmatch(data)
	if m == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s has no distributionUrl", path)
	}
	return string(m[1]), nil
}

// requireCatalogs fails with CATALOG_NOT_FOUND for the first path that does
// not exist, before any cache connection or network request is made.
func requireCatalogs(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return errors.New(errors.ErrCodeCatalogNotFound, "version catalog %s does not exist", path)
		}
	}
	return nil
}

func (c *CLI) runCheck(ctx context.Context, cfg *Config, opts checkOpts) error {
	logger := c.Logger

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	pol, err := reg.Select(opts.policies...)
	if err != nil {
		return err
	}
	excl, err := catalog.NewExclusions(opts.exclude, opts.excludeLibraries, opts.excludePlugins)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid exclusion")
	}
	libRepos, err := repositories(opts.libraryRepos, cfg.Repositories.Libraries)
	if err != nil {
		return err
	}
	pluginRepos, err := repositories(opts.pluginRepos, cfg.Repositories.Plugins)
	if err != nil {
		return err
	}
	if opts.format != formatText && opts.format != formatJSON {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", opts.format, formatText, formatJSON)
	}

	if err := requireCatalogs(opts.catalogs); err != nil {
		return err
	}

	gradleVersion := opts.gradleVersion
	if gradleVersion == gradleVersionAuto {
		root := filepath.Dir(filepath.Dir(opts.catalogs[0]))
		if gradleVersion, err = detectGradleVersion(root); err != nil {
			return err
		}
		logger.Debug("detected Gradle version", "version", gradleVersion)
	}

	respCache, err := c.newCache(ctx, cacheOptions{disabled: opts.noCache, redisURL: opts.redisURL})
	if err != nil {
		return err
	}
	defer respCache.Close()

	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	var buildTool checker.BuildToolFetcher
	if gradleVersion != "" {
		buildTool = gradle.NewClient(respCache, opts.cacheTTL, headers)
	}
	chk := checker.New(checker.Resolver{
		Fetcher:    maven.NewClient(respCache, opts.cacheTTL, headers),
		Policy:     pol,
		Verify:     opts.verify,
		OnlyStatic: opts.onlyStatic,
		Timeout:    opts.timeout,
		Logger:     logger,
	}, buildTool)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	checkOptions := checker.Options{
		Catalogs:            opts.catalogs,
		LibraryRepositories: libRepos,
		PluginRepositories:  pluginRepos,
		Exclusions:          excl,
		BuildToolVersion:    gradleVersion,
		Concurrency:         opts.concurrency,
		Logger:              logger,
		Progress:            logProgress(logger),
	}
	var view *progressView
	if opts.format == formatText && c.isTerminal(os.Stderr.Fd()) {
		view = startProgress(ctx, os.Stderr, cancel)
		checkOptions.Progress = view.Func()
	}

	logger.Debug("checking", "catalogs", opts.catalogs, "policy", pol.Name())
	el := newElapsed(logger)
	res, err := chk.Check(ctx, checkOptions)
	if view != nil {
		view.Stop()
	}
	if err != nil {
		return err
	}
	el.done(fmt.Sprintf("Checked %d dependencies", res.Checked))

	if err := writeReport(c.out, res, opts.format); err != nil {
		return err
	}

	if !opts.update {
		if res.Len() > 0 && opts.format == formatText {
			printNextStep(c.out, "Apply the updates", appName+" check --update")
		}
		return nil
	}
	return c.applyUpdates(res, opts.format == formatText)
}

// applyUpdates rewrites every catalog with its updates.
func (c *CLI) applyUpdates(res *checker.Result, verbose bool) error {
	r := replacer.New()
	for _, cat := range res.Catalogs {
		n, err := r.Apply(cat.Path, replacer.Plan(cat, res.ForCatalog(cat.Path)))
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		c.Logger.Debug("rewrote catalog", "path", cat.Path, "replacements", n)
		if verbose {
			printSuccess(c.out, "Updated %d versions", n)
			printFile(c.out, cat.Path)
		}
	}
	return nil
}
