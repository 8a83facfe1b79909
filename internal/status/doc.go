// Package status parses the machine-readable status stream emitted by the
// signature engine and settles it into a single verdict.
//
// The stream format follows gpg's --status-fd protocol: one line per event,
// each tagged with the "[GNUPG:] " prefix, followed by a keyword and
// space-separated arguments. Lines without the prefix are diagnostic output
// and carry no meaning here.
//
// Interpretation is an explicit state machine rather than early-return
// control flow, so synthetic event sequences can be fed to it directly in
// tests. The asymmetry is deliberate: any negative classification
// (BADSIG, EXPSIG, EXPKEYSIG, REVKEYSIG, ERRSIG) is definitive and stops
// consumption immediately, while GOODSIG only sets the running result and
// keeps consuming - the final verdict is decided when the stream ends.
package status
