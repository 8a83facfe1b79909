package keyring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

// ExecEngine runs the external gpg program. Every keyring gets its own
// throwaway home directory, so nothing the user has in ~/.gnupg can leak
// into a verification attempt.
type ExecEngine struct {
	program string
}

// NewExecEngine creates an engine invoking the given program. An empty
// program name falls back to "gpg".
func NewExecEngine(program string) *ExecEngine {
	if program == "" {
		program = "gpg"
	}
	return &ExecEngine{program: program}
}

// NewKeyring creates an isolated home directory for one attempt.
func (e *ExecEngine) NewKeyring(ctx context.Context) (Keyring, error) {
	home, err := os.MkdirTemp("", "verify-keyring-*")
	if err != nil {
		return nil, fmt.Errorf("create keyring home: %w", err)
	}
	return &execKeyring{program: e.program, home: home}, nil
}

type execKeyring struct {
	program string
	home    string
	closed  bool
}

func (k *execKeyring) Import(ctx context.Context, key []byte) error {
	cmd := exec.CommandContext(ctx, k.program,
		"--homedir", k.home,
		"--batch", "--quiet",
		"--import")
	cmd.Stdin = bytes.NewReader(key)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s --import: %s", k.program, msg)
	}
	return nil
}

func (k *execKeyring) Verify(ctx context.Context, payload, signature []byte) ([]status.Event, error) {
	sigFile := filepath.Join(k.home, "detached.sig")
	if err := os.WriteFile(sigFile, signature, 0o600); err != nil {
		return nil, fmt.Errorf("write signature file: %w", err)
	}

	// Status events go to stdout via --status-fd 1; human diagnostics
	// stay on stderr. Trust is membership only (--trust-model always).
	cmd := exec.CommandContext(ctx, k.program,
		"--homedir", k.home,
		"--batch", "--quiet",
		"--status-fd", "1",
		"--trust-model", "always",
		"--verify", sigFile, "-")
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// A non-zero exit is the normal signal for a failed
		// verification; the classification still arrives on the
		// status stream. Only a failure to run the program at all is
		// an error here.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", k.program, err)
		}
	}

	return status.Parse(stdout.Bytes()), nil
}

func (k *execKeyring) Close() error {
	if k.closed {
		return nil
	}
	k.closed = true
	return os.RemoveAll(k.home)
}
