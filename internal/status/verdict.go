package status

// Verdict is the final classification of one verification attempt.
//
// Exactly one verdict is produced per (commit, parent) attempt. NoSignature
// and NoKeyDirectory are assigned by the callers that detect those
// conditions before any status stream exists; the remaining values come out
// of the Interpreter.
type Verdict int

const (
	// Unverified is the default: the stream ended without a conclusive
	// positive result and without a definitive negative event.
	Unverified Verdict = iota

	// Verified means the signature checked out against an imported key.
	Verified

	// NoSignature means the commit object carries no embedded signature.
	NoSignature

	// NoKeyDirectory means the consulted parent has no key directory.
	NoKeyDirectory

	// ExpiredSignature means the signature itself has expired.
	ExpiredSignature

	// ExpiredKeySignature means the signing key has expired.
	ExpiredKeySignature

	// RevokedKeySignature means the signing key has been revoked.
	RevokedKeySignature

	// BadSignature means the signature does not match the payload.
	BadSignature

	// SignatureError means the signature could not be checked at all,
	// most commonly because no imported key matches the signer.
	SignatureError
)

// String returns the human-readable form used in diagnostics.
func (v Verdict) String() string {
	switch v {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case NoSignature:
		return "no signature"
	case NoKeyDirectory:
		return "no key directory"
	case ExpiredSignature:
		return "expired signature"
	case ExpiredKeySignature:
		return "signature from expired key"
	case RevokedKeySignature:
		return "signature from revoked key"
	case BadSignature:
		return "bad signature"
	case SignatureError:
		return "signature error"
	default:
		return "unknown"
	}
}
