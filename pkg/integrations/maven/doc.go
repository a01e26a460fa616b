// Package maven reads version metadata and POM descriptors from Maven layout
// repositories such as Maven Central, Google Maven or the Gradle plugin
// portal.
//
// # Usage
//
//	client := maven.NewClient(fileCache, 24*time.Hour, nil)
//	repo := integrations.Repository{Name: "central", URL: integrations.MavenCentralURL}
//
//	meta, err := client.FetchMetadata(ctx, repo, "com.google.guava", "guava")
//	if err != nil {
//	    return err
//	}
//	for _, v := range meta.Candidates() {
//	    fmt.Println(v)
//	}
//
// # Metadata
//
// [Client.FetchMetadata] reads <group path>/<artifact>/maven-metadata.xml.
// [Metadata.Candidates] returns the release and latest markers followed by the
// enumerated versions, parsed with the version package. Choosing among them is
// left to the checker and its policies.
//
// # Descriptors
//
// [Client.FetchDescriptor] reads the POM of one version and returns a
// [Descriptor] with its [Coordinate], name, URL and direct dependencies.
// Test, provided and optional dependencies are dropped, as are entries whose
// coordinates still contain unresolved ${...} properties.
//
// Plugins are looked up through their marker artifact,
// <plugin id>:<plugin id>.gradle.plugin, using the same two calls.
//
// # Repositories and authentication
//
// Each call takes the [integrations.Repository] to query. Basic credentials and
// extra headers configured on the repository are sent with every request, and
// responses fetched with credentials are cached apart from public ones.
//
// # Errors
//
// Missing artifacts surface as [integrations.ErrNotFound], transport failures
// as [integrations.ErrNetwork] and undecodable XML as
// [integrations.ErrMalformed]. Transient network errors are marked retryable
// with [cache.Retryable].
package maven
