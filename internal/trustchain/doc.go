// Package trustchain is the verification engine behind the update hook.
//
// A repository hosts its own web of trust: every commit must carry a
// signature that validates against key material committed under a fixed
// directory in one of its parents' trees. The chain bootstraps from an
// initial commit trusted by convention, so a commit with no parents is
// always rejected.
//
// Evaluation of one reference update proceeds in layers:
//
//  1. Gate computes the set of commits the push introduces (reachable from
//     the new value, minus the exclusion set) and walks it in a fixed
//     order, failing the whole push on the first unverifiable commit.
//  2. For each commit, Walker tries every parent in recorded order: load
//     that parent's key directory into a fresh keyring, verify, classify.
//     Any one verified parent accepts the commit (OR semantics), which is
//     what makes merges and key rotation work.
//  3. Loader imports each key blob into an ephemeral keyring; a blob that
//     fails to decode is a warning, not a failure.
//
// Evaluation is single-threaded and synchronous. Parents are tried in a
// deterministic order so trust attribution and diagnostics are
// reproducible, and every keyring is destroyed at the end of its attempt
// regardless of outcome.
package trustchain
