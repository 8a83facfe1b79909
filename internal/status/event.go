package status

import (
	"bufio"
	"bytes"
	"strings"
)

// Prefix tags machine-readable status lines. Output from the engine that
// does not carry this prefix is ordinary diagnostics and is dropped.
const Prefix = "[GNUPG:] "

// Keywords for the status events the interpreter acts on.
const (
	KeywordGoodSig   = "GOODSIG"
	KeywordExpSig    = "EXPSIG"
	KeywordExpKeySig = "EXPKEYSIG"
	KeywordRevKeySig = "REVKEYSIG"
	KeywordBadSig    = "BADSIG"
	KeywordErrSig    = "ERRSIG"
)

// Event is one parsed status line: a keyword plus its raw arguments.
type Event struct {
	Keyword string
	Args    []string
}

// Parse splits a raw status stream into events, one per tagged line.
func Parse(raw []byte) []Event {
	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, Prefix) {
			continue
		}
		fields := strings.Fields(line[len(Prefix):])
		if len(fields) == 0 {
			continue
		}
		events = append(events, Event{Keyword: fields[0], Args: fields[1:]})
	}
	return events
}
