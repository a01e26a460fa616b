// Package pkg provides the libraries behind catalogcheck, a dependency update
// checker for Gradle version catalogs.
//
// # Overview
//
// catalogcheck reads libs.versions.toml files, asks Maven repositories and the
// Gradle plugin portal for newer releases of every library and plugin, and can
// rewrite the catalog in place to adopt them. The pkg directory is organized
// into four main areas:
//
//  1. Domain model ([version], [catalog], [policy])
//  2. Checking ([checker]) and rewriting ([replacer])
//  3. External clients ([integrations], [integrations/maven], [integrations/gradle])
//  4. Infrastructure ([cache], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow through catalogcheck:
//
//	libs.versions.toml
//	         ↓
//	    [catalog] package (decode entries + locate version literals)
//	         ↓
//	    [checker] package (resolve candidates per repository, apply policy)
//	         ↓
//	    [replacer] package (splice accepted versions into the file)
//
// # Quick Start
//
// Check a catalog and apply the updates:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/catalogcheck/pkg/cache"
//	    "github.com/matzehuels/catalogcheck/pkg/checker"
//	    "github.com/matzehuels/catalogcheck/pkg/integrations/maven"
//	    "github.com/matzehuels/catalogcheck/pkg/replacer"
//	)
//
//	// 1. Resolve updates
//	chk := checker.New(checker.Resolver{
//	    Fetcher: maven.NewClient(cache.NewNullCache(), 0, nil),
//	}, nil)
//	res, _ := chk.Check(context.Background(), checker.Options{
//	    Catalogs: []string{"gradle/libs.versions.toml"},
//	})
//
//	// 2. Rewrite the catalog
//	n, _ := replacer.New().Replace("gradle/libs.versions.toml", append(res.Libraries, res.Plugins...))
//
// # Main Packages
//
// [version] - Gradle version parsing and ordering. Exact releases, snapshots,
// ranges, dynamic prefixes and the latest.* keywords.
//
// [catalog] - Version catalog decoding with BurntSushi/toml, plus a go-toml/v2 pass that
// records the byte position of every version literal and honours "# ignore"
// comments.
//
// [policy] - Candidate filters. The default stability-level policy never moves
// a dependency to a less stable release; custom policies reject by pattern.
//
// [checker] - Concurrent resolution across repositories with retries, per
// request timeouts and progress events.
//
// [replacer] - Position-aware catalog rewriting. Only the version literals
// change and the original file survives any failed write.
//
// [cache] - Response caches (file, Redis, null) and retry helpers shared by
// the HTTP clients.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/version/...            # Specific package
//	go test -run Example                 # Examples only
//
// [version]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/version
// [catalog]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/catalog
// [policy]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/policy
// [checker]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/checker
// [replacer]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/replacer
// [integrations]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/integrations/maven
// [integrations/gradle]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/integrations/gradle
// [cache]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/catalogcheck/pkg/buildinfo
package pkg
