// Package gitobj is the read-only query surface over the repository object
// database that the verification chain consumes.
//
// The Store interface covers exactly the operations the chain needs: raw
// commit bytes, parent ids, the kind of tree entry at a path, recursive
// blob listing, blob contents and reference enumeration. Production code
// uses the go-git backed Repository; tests substitute an in-memory fake.
//
// Everything here treats the repository as immutable for the duration of
// one push evaluation. Nothing in this package writes.
package gitobj
