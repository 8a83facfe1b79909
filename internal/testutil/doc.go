// Package testutil provides the in-memory collaborators the chain tests
// are written against: a fake object store with a small builder API and a
// scripted signature engine that records every keyring it hands out.
package testutil
