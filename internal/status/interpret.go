package status

import "strings"

// noPubkeyCode is the error code in an ERRSIG line's rc field that means
// the signing key is not present in the keyring (GPG_ERR_NO_PUBKEY).
const noPubkeyCode = "9"

// errSigRCIndex is the position of the rc field within ERRSIG arguments:
// keyid, pk_algo, hash_algo, sig_class, timestamp, rc.
const errSigRCIndex = 5

// Result is the settled outcome of interpreting one status stream.
type Result struct {
	Verdict Verdict

	// SignerKeyID and SignerIdentity are taken from a GOODSIG event.
	SignerKeyID    string
	SignerIdentity string

	// MissingKeyID is set when ERRSIG reported that no imported key
	// matches the signer.
	MissingKeyID string
}

// Interpreter consumes status events one at a time and settles on exactly
// one verdict.
//
// State transitions:
//   - GOODSIG sets the running result to Verified and keeps consuming.
//   - EXPSIG, EXPKEYSIG, REVKEYSIG, BADSIG and ERRSIG are terminal; once
//     seen, later events are not consumed.
//   - Stream end with a running Verified result settles on Verified,
//     anything else settles on Unverified.
type Interpreter struct {
	result Result
	done   bool
}

// NewInterpreter returns an interpreter in its initial (Unverified) state.
func NewInterpreter() *Interpreter {
	return &Interpreter{result: Result{Verdict: Unverified}}
}

// Feed advances the state machine by one event. It returns false once the
// verdict is terminal and no further events will be consumed.
func (in *Interpreter) Feed(ev Event) bool {
	if in.done {
		return false
	}

	switch ev.Keyword {
	case KeywordGoodSig:
		in.result.Verdict = Verified
		if len(ev.Args) > 0 {
			in.result.SignerKeyID = ev.Args[0]
		}
		if len(ev.Args) > 1 {
			in.result.SignerIdentity = strings.Join(ev.Args[1:], " ")
		}

	case KeywordExpSig:
		in.settle(ExpiredSignature)
	case KeywordExpKeySig:
		in.settle(ExpiredKeySignature)
	case KeywordRevKeySig:
		in.settle(RevokedKeySignature)
	case KeywordBadSig:
		in.settle(BadSignature)

	case KeywordErrSig:
		in.settle(SignatureError)
		if len(ev.Args) > errSigRCIndex && ev.Args[errSigRCIndex] == noPubkeyCode {
			in.result.MissingKeyID = ev.Args[0]
		}
	}

	return !in.done
}

// settle records a definitive negative verdict and stops consumption.
func (in *Interpreter) settle(v Verdict) {
	in.result.Verdict = v
	in.done = true
}

// Result returns the current outcome. After the stream has ended this is
// the final result: Verified survives only if no negative event displaced
// it, everything else collapses to the recorded verdict.
func (in *Interpreter) Result() Result {
	return in.result
}

// Interpret runs a complete event sequence through a fresh interpreter.
func Interpret(events []Event) Result {
	in := NewInterpreter()
	for _, ev := range events {
		if !in.Feed(ev) {
			break
		}
	}
	return in.Result()
}
