package trustchain

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// ErrorCode categorizes why a push was rejected.
type ErrorCode string

const (
	// ErrCodeNoParents marks a commit with no ancestors: there is no key
	// directory to validate it against, so the chain of trust cannot
	// reach it.
	ErrCodeNoParents ErrorCode = "NO_PARENTS"

	// ErrCodeNoSignature marks a commit without an embedded signature.
	ErrCodeNoSignature ErrorCode = "NO_SIGNATURE"

	// ErrCodeUnverifiable marks a commit whose signature validated
	// against none of its parents' key sets.
	ErrCodeUnverifiable ErrorCode = "UNVERIFIABLE"
)

// VerifyError is the terminal rejection of a push, carrying the commit
// that failed and the per-parent attempts made for it.
type VerifyError struct {
	Code     ErrorCode
	Commit   plumbing.Hash
	Attempts []Attempt
}

func (e *VerifyError) Error() string {
	switch e.Code {
	case ErrCodeNoParents:
		return fmt.Sprintf("%s: commit %s has no parents to derive trust from", e.Code, e.Commit)
	case ErrCodeNoSignature:
		return fmt.Sprintf("%s: commit %s is not signed", e.Code, e.Commit)
	default:
		if n := len(e.Attempts); n > 0 {
			last := e.Attempts[n-1]
			return fmt.Sprintf("%s: commit %s verified against none of its %d parent(s); last attempt: %s",
				e.Code, e.Commit, n, last.Verdict)
		}
		return fmt.Sprintf("%s: commit %s could not be verified", e.Code, e.Commit)
	}
}

// AsVerifyError unwraps err to a *VerifyError if one is in the chain.
func AsVerifyError(err error) (*VerifyError, bool) {
	var verr *VerifyError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
