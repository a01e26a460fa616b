package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/catalogcheck/pkg/errors"
	"github.com/matzehuels/catalogcheck/pkg/integrations"
)

const testCatalog = `[versions]
groovy = "3.0.5-alpha-1" # build language

[libraries]
groovy-core = { module = "org.codehaus.groovy:groovy", version.ref = "groovy" }
junit = "junit:junit:4.13.2"
`

const groovyMetadata = `<metadata>
  <groupId>org.codehaus.groovy</groupId>
  <artifactId>groovy</artifactId>
  <versioning>
    <latest>3.0.6</latest>
    <release>3.0.6</release>
    <versions>
      <version>3.0.5</version>
      <version>3.0.5-alpha-1</version>
      <version>3.0.6</version>
    </versions>
  </versioning>
</metadata>`

func mavenServer(t *testing.T) *httptest.Server {
	t.Helper()
	routes := make(map[string]string)
	routes["/org/codehaus/groovy/groovy/maven-metadata.xml"] = groovyMetadata
	routes["/org/codehaus/groovy/groovy/3.0.6/groovy-3.0.6.pom"] = `<project><name>Apache Groovy</name><url>https://groovy-lang.org</url></project>`
	routes["/junit/junit/maven-metadata.xml"] = `<metadata><versioning><versions><version>4.13.2</version></versions></versioning></metadata>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	c.isTerminal = func(uintptr) bool { return false }

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradle", "libs.versions.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckCommandJSON(t *testing.T) {
	server := mavenServer(t)
	path := writeTestCatalog(t)

	out, err := runCLI(t, "check", "--catalog", path, "--library-repository", server.URL, "--no-cache", "--format", "json")
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	var report struct {
		Libraries []struct {
			Key        string `json:"key"`
			Module     string `json:"module"`
			Current    string `json:"current"`
			Update     string `json:"update"`
			Name       string `json:"name"`
			Repository struct {
				URL string `json:"url"`
			} `json:"repository"`
		} `json:"libraries"`
		Checked int `json:"checked"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Libraries) != 1 {
		t.Fatalf("libraries = %+v", report.Libraries)
	}
	lib := report.Libraries[0]
	if lib.Key != "groovy-core" || lib.Current != "3.0.5-alpha-1" || lib.Update != "3.0.6" {
		t.Errorf("update = %+v", lib)
	}
	if lib.Name != "Apache Groovy" || lib.Repository.URL != server.URL {
		t.Errorf("name = %q, repository = %q", lib.Name, lib.Repository.URL)
	}
	if report.Checked != 2 {
		t.Errorf("checked = %d, want 2", report.Checked)
	}
}

func TestCheckCommandUpdate(t *testing.T) {
	server := mavenServer(t)
	path := writeTestCatalog(t)

	out, err := runCLI(t, "check", "-c", path, "--library-repository", server.URL, "--no-cache", "--update")
	if err != nil {
		t.Fatalf("check --update: %v", err)
	}
	if !strings.Contains(out, "Updated 1 versions") {
		t.Errorf("output does not report the rewrite:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Replace(testCatalog, `"3.0.5-alpha-1"`, `"3.0.6"`, 1)
	if string(data) != want {
		t.Errorf("catalog after update:\n%s\nwant:\n%s", data, want)
	}

	out, err = runCLI(t, "check", "-c", path, "--library-repository", server.URL, "--no-cache")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("second check should find nothing:\n%s", out)
	}
}

func TestCheckCommandMissingCatalog(t *testing.T) {
	_, err := runCLI(t, "check", "-c", filepath.Join(t.TempDir(), "missing.toml"), "--no-cache")
	if !errors.Is(err, errors.ErrCodeCatalogNotFound) {
		t.Errorf("err = %v, want CATALOG_NOT_FOUND", err)
	}
}

func TestCheckCommandMissingCatalogBeforeRedis(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")
	_, err := runCLI(t, "check", "-c", missing, "--cache-redis", "redis://127.0.0.1:1/0")
	if !errors.Is(err, errors.ErrCodeCatalogNotFound) {
		t.Errorf("err = %v, want CATALOG_NOT_FOUND before any cache connection", err)
	}
}

func TestCheckCommandInvalidInput(t *testing.T) {
	path := writeTestCatalog(t)
	tests := [][]string{
		{"check", "-c", path, "--policy", "does-not-exist"},
		{"check", "-c", path, "--format", "yaml"},
		{"check", "-c", path, "--library-repository", "ftp://example.com"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[3:], " "), func(t *testing.T) {
			if _, err := runCLI(t, args...); err == nil {
				t.Errorf("%v: expected an error", args)
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	cfg := &Config{
		Check: CheckConfig{
			Catalogs:    []string{"a.toml"},
			Policies:    []string{"same-major"},
			Verify:      true,
			Concurrency: 3,
		},
		Exclusions: ExclusionsConfig{Keys: []string{"junit"}},
	}

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	opts := checkOpts{catalogs: []string{"default.toml"}, concurrency: 0}
	flags.StringSliceVar(&opts.catalogs, "catalog", opts.catalogs, "")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "")
	if err := flags.Parse([]string{"--concurrency", "8"}); err != nil {
		t.Fatal(err)
	}

	opts.applyConfig(cfg, flags)
	if len(opts.catalogs) != 1 || opts.catalogs[0] != "a.toml" {
		t.Errorf("catalogs = %v, want config value", opts.catalogs)
	}
	if opts.concurrency != 8 {
		t.Errorf("concurrency = %d, want the flag value 8", opts.concurrency)
	}
	if !opts.verify || opts.policies[0] != "same-major" {
		t.Errorf("verify = %v, policies = %v", opts.verify, opts.policies)
	}
	if len(opts.exclude) != 1 || opts.exclude[0] != "junit" {
		t.Errorf("exclude = %v", opts.exclude)
	}
}

func TestRepositories(t *testing.T) {
	configured := []integrations.Repository{{Name: "internal", URL: "https://maven.example.com"}}

	repos, err := repositories(nil, configured)
	if err != nil || len(repos) != 1 || repos[0].Name != "internal" {
		t.Errorf("repositories(nil) = %v, %v", repos, err)
	}

	repos, err = repositories([]string{"https://repo.example.org/maven2"}, configured)
	if err != nil || len(repos) != 1 || repos[0].Name != "repo.example.org" {
		t.Errorf("repositories(flag) = %v, %v", repos, err)
	}

	if _, err := repositories([]string{"repo.example.org"}, nil); err == nil {
		t.Error("expected an error for a URL without scheme")
	}
}

func TestDetectGradleVersion(t *testing.T) {
	tests := []struct {
		props string
		want  string
	}{
		{"distributionUrl=https\\://services.gradle.org/distributions/gradle-8.4-bin.zip\n", "8.4"},
		{"distributionBase=GRADLE_USER_HOME\ndistributionUrl=https\\://services.gradle.org/distributions/gradle-8.6-rc-1-all.zip\nzipStorePath=wrapper/dists\n", "8.6-rc-1"},
	}
	for _, tt := range tests {
		root := t.TempDir()
		path := filepath.Join(root, wrapperProperties)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(tt.props), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := detectGradleVersion(root)
		if err != nil || got != tt.want {
			t.Errorf("detectGradleVersion() = %q, %v; want %q", got, err, tt.want)
		}
	}

	if _, err := detectGradleVersion(t.TempDir()); err == nil {
		t.Error("expected an error without wrapper properties")
	}
}
