package trustchain

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
	"github.com/sebschrader/gpg-verify-update-hook/internal/testutil"
)

func TestVerifyError_Messages(t *testing.T) {
	commit := testutil.Hash("commit")
	parent := testutil.Hash("parent")

	cases := []struct {
		name string
		err  *VerifyError
		want string
	}{
		{
			"no parents",
			&VerifyError{Code: ErrCodeNoParents, Commit: commit},
			"NO_PARENTS: commit " + commit.String() + " has no parents to derive trust from",
		},
		{
			"no signature",
			&VerifyError{Code: ErrCodeNoSignature, Commit: commit},
			"NO_SIGNATURE: commit " + commit.String() + " is not signed",
		},
		{
			"unverifiable with attempts",
			&VerifyError{
				Code:   ErrCodeUnverifiable,
				Commit: commit,
				Attempts: []Attempt{
					{Parent: parent, Verdict: status.BadSignature},
				},
			},
			"UNVERIFIABLE: commit " + commit.String() + " verified against none of its 1 parent(s); last attempt: bad signature",
		},
		{
			"unverifiable without attempts",
			&VerifyError{Code: ErrCodeUnverifiable, Commit: commit},
			"UNVERIFIABLE: commit " + commit.String() + " could not be verified",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestAsVerifyError_UnwrapsThroughWrapping(t *testing.T) {
	inner := &VerifyError{Code: ErrCodeNoSignature, Commit: testutil.Hash("commit")}
	wrapped := fmt.Errorf("push rejected: %w", inner)

	verr, ok := AsVerifyError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoSignature, verr.Code)

	_, ok = AsVerifyError(fmt.Errorf("unrelated"))
	assert.False(t, ok)
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("one", "two")
	assert.Equal(t, "one", gen.Generate())
	assert.Equal(t, "two", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	first := gen.Generate()
	second := gen.Generate()

	assert.NotEqual(t, first, second)
	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
