package trustchain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

func TestReport_Render(t *testing.T) {
	old := plumbing.NewHash(strings.Repeat("a", 40))
	decoy := plumbing.NewHash(strings.Repeat("b", 40))
	first := plumbing.NewHash(strings.Repeat("1", 40))
	second := plumbing.NewHash(strings.Repeat("2", 40))

	report := &Report{
		Ref: RefUpdate{Name: "refs/heads/main", Old: old, New: second},
		Commits: []CommitReport{
			{
				Commit:        first,
				TrustedParent: old,
				Attempts: []Attempt{
					{Parent: old, Verdict: status.Verified},
				},
			},
			{
				Commit: second,
				Attempts: []Attempt{
					{Parent: first, Verdict: status.NoKeyDirectory},
					{Parent: decoy, Verdict: status.SignatureError, MissingKeyID: "ABCDEF0123456789"},
				},
			},
		},
	}

	var buf bytes.Buffer
	report.Render(&buf)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "push_report", buf.Bytes())
}

func TestReport_RenderDeletion(t *testing.T) {
	report := &Report{
		Ref: RefUpdate{
			Name: "refs/heads/gone",
			Old:  plumbing.NewHash(strings.Repeat("a", 40)),
			New:  plumbing.ZeroHash,
		},
	}

	var buf bytes.Buffer
	report.Render(&buf)
	assert.Equal(t, "refs/heads/gone: deleted, nothing to verify\n", buf.String())
}
