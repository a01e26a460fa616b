// Package version parses and orders dependency versions as they appear in
// Gradle version catalogs.
//
// # Overview
//
// A version string is parsed into one of a closed set of kinds:
//
//   - [Exact]: a concrete release such as "1.2.3" or "32.1.3-jre"
//   - [Snapshot]: a development build such as "1.3.0-SNAPSHOT"
//   - [Range]: a bracketed interval such as "[1.0,2.0)" or "[1.0,2.0["
//   - [Prefix]: a dynamic prefix such as "1.0.+"
//   - [Latest]: the keywords "latest.release" and "latest.integration"
//   - [Unknown]: anything that could not be parsed
//
// Exact and Snapshot versions are static: they denote a single point release
// and can be ordered with [Version.Compare]. Only static versions are ever
// proposed as an update.
//
// # Ordering
//
// Static versions follow Gradle's version ordering. The text is split at the
// separators ".", "-", "_" and "+", and again wherever digits and letters
// meet, so "1.0rc1" becomes [1 0 rc 1]. Parts are compared pairwise:
//
//   - two numeric parts compare by magnitude
//   - a numeric part is greater than a non-numeric part
//   - "dev" is lower than any other non-numeric part
//   - qualifiers containing rc, snapshot, final, ga, release or sp rank in
//     that order and above every other non-numeric part
//   - other non-numeric parts compare lexically
//
// When one version runs out of parts, an extra numeric part makes the longer
// version greater ("1.1.1" > "1.1") and an extra non-numeric part makes it
// smaller ("1.1-rc" < "1.1").
//
// Distinct texts never compare equal: versions whose parts tie are ordered by
// their text, and a snapshot sorts directly below the release of its base.
//
// # Updates
//
// [Version.IsUpdate] answers whether a static candidate would move a declared
// version forward. Ranges only consider versions above their upper bound,
// prefixes only consider versions outside the prefix, and Latest and Unknown
// never report updates:
//
//	current := version.Parse("1.0.+")
//	current.IsUpdate(version.Parse("1.1"))   // true
//	current.IsUpdate(version.Parse("1.0.5")) // false, already matched
package version
