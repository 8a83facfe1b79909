package trustchain

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
)

// Report is the user-facing record of one push evaluation: every commit
// that was examined, with the per-parent attempts made for it.
type Report struct {
	Ref     RefUpdate
	Commits []CommitReport
}

// CommitReport holds the walk outcome for one commit.
type CommitReport struct {
	Commit        plumbing.Hash
	TrustedParent plumbing.Hash
	Attempts      []Attempt
}

// Render writes the human-readable report. It goes to the error stream;
// standard output belongs to the host protocol.
func (r *Report) Render(w io.Writer) {
	if r.Ref.New == plumbing.ZeroHash {
		fmt.Fprintf(w, "%s: deleted, nothing to verify\n", r.Ref.Name)
		return
	}

	for _, c := range r.Commits {
		fmt.Fprintf(w, "commit %s\n", c.Commit)
		for i, a := range c.Attempts {
			fmt.Fprintf(w, "  parent %d %s: %s", i+1, a.Parent, a.Verdict)
			if a.MissingKeyID != "" {
				fmt.Fprintf(w, " (no committed key matches %s)", a.MissingKeyID)
			}
			fmt.Fprintln(w)
		}
		if c.TrustedParent != plumbing.ZeroHash {
			fmt.Fprintf(w, "  verified, trust derived from parent %s\n", c.TrustedParent)
		} else {
			fmt.Fprintf(w, "  not verified\n")
		}
	}
}
