// Package keyring models the cryptographic primitive as an injected
// capability with two operations: import key material, verify a detached
// signature. The core chain logic is testable against a scripted fake.
//
// A Keyring is an ephemeral trust store created fresh for one verification
// attempt and never shared: two keyrings from the same engine have no
// common state, and Close releases everything the attempt acquired on
// every path, including failures. Trust is always-trust over membership -
// a signature verifies if and only if the signer's key was imported into
// this keyring; no web-of-trust score is consulted.
//
// Two engines exist. ExecEngine shells out to gpg with an isolated
// --homedir and parses its --status-fd stream. OpenPGPEngine verifies
// in-process with ProtonMail/go-crypto and synthesizes the same status
// vocabulary, so the interpreter sees one format regardless of engine.
package keyring
