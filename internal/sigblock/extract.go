package sigblock

import (
	"bytes"
	"errors"
	"strings"
)

// Header is the commit-object header token that introduces the embedded
// signature block.
const Header = "gpgsig "

// ErrNoSignature is returned when the object contains no signature block.
// An empty signature is never produced silently.
var ErrNoSignature = errors.New("commit object carries no signature")

// state of the line automaton.
type state int

const (
	statePayload state = iota
	stateInSignature
)

// Extract splits raw commit-object bytes into the signed payload and the
// detached signature, reconstituted to the exact byte sequence the signer
// produced.
func Extract(raw []byte) (payload, signature []byte, err error) {
	var pay, sig bytes.Buffer

	lines := strings.Split(string(raw), "\n")

	// The element after the final newline has no terminator of its own
	// and is handled outside the line loop.
	trailer := lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	st := statePayload
	seen := false

	for _, line := range lines {
		switch {
		case st == stateInSignature && strings.HasPrefix(line, " "):
			// Continuation line: exactly one leading space is
			// encoding, the rest is signature content.
			sig.WriteString(line[1:])
			sig.WriteByte('\n')

		case strings.HasPrefix(line, Header):
			sig.WriteString(line[len(Header):])
			sig.WriteByte('\n')
			st = stateInSignature
			seen = true

		default:
			// Any other line ends the block. A leading space out
			// here is payload content and is preserved verbatim.
			st = statePayload
			pay.WriteString(line)
			pay.WriteByte('\n')
		}
	}

	// Trailing content after the last newline is payload even if empty.
	pay.WriteString(trailer)

	if !seen {
		return nil, nil, ErrNoSignature
	}
	return pay.Bytes(), sig.Bytes(), nil
}
