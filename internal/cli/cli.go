// Package cli implements the catalogcheck command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/catalogcheck/pkg/buildinfo"
	"github.com/matzehuels/catalogcheck/pkg/cache"
	"github.com/matzehuels/catalogcheck/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "catalogcheck"

	// defaultCacheTTL is how long repository responses are reused.
	defaultCacheTTL = 24 * time.Hour

	// redisPrefix namespaces the keys written to a shared Redis cache.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is set by the persistent --config flag.
	ConfigPath string

	out io.Writer

	// isTerminal decides whether the progress view is shown.
	isTerminal func(fd uintptr) bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout, isTerminal: isatty.IsTerminal}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which is stdout by default.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "catalogcheck finds newer versions for Gradle version catalogs",
		Long: `catalogcheck reads Gradle version catalogs (libs.versions.toml), looks up every
library and plugin in the configured Maven repositories and reports the versions
that can be updated. With --update it rewrites the catalog in place, touching
only the version literals that change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ./"+defaultConfigFile+" if present)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.policiesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// cacheOptions selects the response cache backend.
type cacheOptions struct {
	disabled bool
	redisURL string
}

// newCache returns the response cache for opts: none, Redis, or the file
// cache under cacheDir. A file cache that cannot be created degrades to no
// caching.
func (c *CLI) newCache(ctx context.Context, opts cacheOptions) (cache.Cache, error) {
	switch {
	case opts.disabled:
		return cache.NewNullCache(), nil
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("response cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("response cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/catalogcheck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
