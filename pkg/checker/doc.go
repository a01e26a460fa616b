// Package checker finds newer versions for the dependencies of one or more
// version catalogs.
//
// # Overview
//
// A check runs in two phases. Phase one resolves every dependency that is
// neither excluded nor ignored, plus the optional build-tool check,
// concurrently. For each dependency the [Resolver] walks the repositories in
// order and stops at the first one that offers an accepted newer version.
// Phase two fetches the POM of every update to report its project name and
// URL. Plugin markers are followed one level to the artifact they point at.
//
// Progress is reported as [Event] values: phase one covers 0-50%, phase two
// 50-100%, and the last event is always [Done].
//
// # Errors
//
// Per-dependency failures (unreachable repositories, missing artifacts,
// malformed documents) are logged at debug level and yield no update. Only
// two conditions stop a check: a catalog that does not exist, detected before
// any request is made, and a corrupted response cache. Cancelling the
// context aborts the check with the context error.
//
// # Determinism
//
// Task completion order is never observable: [Result] groups are sorted by
// module id, then catalog key, then catalog path.
package checker
