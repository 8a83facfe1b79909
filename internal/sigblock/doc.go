// Package sigblock splits a raw commit object into the payload the signer
// hashed and the detached signature embedded in the object's headers.
//
// A signed commit object carries its signature in a "gpgsig" header whose
// value spans multiple lines; every line after the first is encoded with a
// single leading space. Extraction is a two-state automaton over decoded
// lines ({payload, in-signature}), because the leading-space rule is
// ambiguous: inside the signature block a leading space marks a
// continuation line and is stripped, outside the block it is ordinary
// payload content and must survive byte-for-byte.
//
// The reconstructed payload is exactly what the signer hashed, so
// whitespace and line-ending fidelity is load-bearing: every payload line
// is emitted with a trailing newline, and any content after the final
// newline of the object is copied verbatim.
package sigblock
