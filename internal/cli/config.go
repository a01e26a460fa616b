package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
	"github.com/matzehuels/catalogcheck/pkg/policy"
)

// defaultConfigFile is read from the working directory when --config is not set.
const defaultConfigFile = "catalogcheck.toml"

// Config is the content of a catalogcheck.toml file.
//
//	[check]
//	catalogs = ["gradle/libs.versions.toml"]
//	policies = ["stability-level", "no-milestones"]
//
//	[[repositories.libraries]]
//	name = "internal"
//	url = "https://maven.example.com/releases"
//	username = "${MAVEN_USER}"
//	password = "${MAVEN_PASSWORD}"
//
//	[exclusions]
//	libraries = ["com.example.**"]
//
//	[[policy]]
//	name = "no-milestones"
//	reject = ['(?i)-M\d+$']
type Config struct {
	Check        CheckConfig          `toml:"check"`
	Cache        CacheConfig          `toml:"cache"`
	Repositories RepositoriesConfig   `toml:"repositories"`
	Exclusions   ExclusionsConfig     `toml:"exclusions"`
	Policies     []policy.PatternSpec `toml:"policy"`
}

// CheckConfig holds defaults for the check command flags.
type CheckConfig struct {
	Catalogs      []string `toml:"catalogs"`
	Policies      []string `toml:"policies"`
	Verify        bool     `toml:"verify"`
	OnlyStatic    bool     `toml:"only-static"`
	Concurrency   int      `toml:"concurrency"`
	GradleVersion string   `toml:"gradle-version"`
	Timeout       duration `toml:"timeout"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	Disabled bool     `toml:"disabled"`
	Redis    string   `toml:"redis"`
	TTL      duration `toml:"ttl"`
}

// RepositoriesConfig replaces the default repositories when non-empty.
type RepositoriesConfig struct {
	Libraries []integrations.Repository `toml:"libraries"`
	Plugins   []integrations.Repository `toml:"plugins"`
}

// ExclusionsConfig lists entries that are never checked.
type ExclusionsConfig struct {
	Keys      []string `toml:"keys"`
	Libraries []string `toml:"libraries"`
	Plugins   []string `toml:"plugins"`
}

// duration decodes TOML strings such as "30s" or "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the config file at path. An empty path reads
// catalogcheck.toml from the working directory if it exists.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		return &Config{}, nil
	case os.IsNotExist(err):
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config file %s does not exist", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown setting %q", path, undecoded[0].String())
	}

	cfg.Repositories.Libraries = expandRepositories(cfg.Repositories.Libraries)
	cfg.Repositories.Plugins = expandRepositories(cfg.Repositories.Plugins)
	for _, repos := range [][]integrations.Repository{cfg.Repositories.Libraries, cfg.Repositories.Plugins} {
		for _, r := range repos {
			if err := errors.ValidateURL(r.URL); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: repository %s", path, r)
			}
		}
	}
	return &cfg, nil
}

// expandRepositories substitutes environment variables in credentials and
// header values, so secrets can stay out of the file.
func expandRepositories(repos []integrations.Repository) []integrations.Repository {
	for i := range repos {
		r := &repos[i]
		r.Username = os.ExpandEnv(r.Username)
		r.Password = os.ExpandEnv(r.Password)
		for k, v := range r.Headers {
			r.Headers[k] = os.ExpandEnv(v)
		}
	}
	return repos
}
