// Package catalog models a Gradle version catalog (libs.versions.toml).
//
// # Overview
//
// A catalog has three tables this package reads:
//
//	[versions]
//	groovy = "3.0.5-alpha-1"
//
//	[libraries]
//	groovy-core = { module = "org.codehaus.groovy:groovy", version.ref = "groovy" }
//	commons-lang3 = "org.apache.commons:commons-lang3:3.12.0"
//
//	[plugins]
//	versions = { id = "com.github.ben-manes.versions", version = "0.51.0" } # ignore
//
// [Load] decodes the document into a [Catalog] and records, with
// [ScanPositions], where every version literal sits in the source so the
// file can later be patched without reformatting it.
//
// # Version References
//
// A declared version is a [VersionRef]: a simple version string, a reference
// to an entry of the versions table, or a rich version combining require,
// prefer, strictly and reject. [VersionRef.Resolve] follows one reference and
// [VersionRef.IsUpdate] decides whether a candidate moves the declaration
// forward.
//
// # Ignoring Entries
//
// A trailing comment whose first word is "ignore" excludes the declaration on
// that line from update checks. On a versions entry it excludes every
// dependency that references it. [Exclusions] adds key lists and package
// globs supplied by configuration.
package catalog
