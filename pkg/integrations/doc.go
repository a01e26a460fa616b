// Package integrations provides HTTP clients for Maven-style repositories.
//
// # Overview
//
// Each source of version information has its own subpackage:
//
//   - [maven]: maven-metadata.xml and POM descriptors from any Maven layout
//     repository (Maven Central, Google, the Gradle plugin portal, private
//     mirrors)
//   - [gradle]: released Gradle distributions, used for the build-tool check
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all clients:
// default and per-repository headers, HTTP basic auth, status mapping to
// [ErrNotFound] and [ErrNetwork], and response caching via [cache.Cache].
//
// Clients make exactly one attempt per call. Timeouts and retries are owned
// by the caller, which wraps calls with [cache.Retry]; transient failures are
// returned wrapped in [cache.RetryableError] so the caller can tell them apart.
//
// # Repositories
//
// A [Repository] is a base URL plus optional credentials. Repository order is
// significant to callers: the first repository that yields an update wins.
//
// [maven]: github.com/matzehuels/catalogcheck/pkg/integrations/maven
// [gradle]: github.com/matzehuels/catalogcheck/pkg/integrations/gradle
// [cache.Cache]: github.com/matzehuels/catalogcheck/pkg/cache.Cache
// [cache.Retry]: github.com/matzehuels/catalogcheck/pkg/cache.Retry
// [cache.RetryableError]: github.com/matzehuels/catalogcheck/pkg/cache.RetryableError
package integrations
