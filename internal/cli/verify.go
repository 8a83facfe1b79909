package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"

	"github.com/sebschrader/gpg-verify-update-hook/internal/gitobj"
	"github.com/sebschrader/gpg-verify-update-hook/internal/keyring"
	"github.com/sebschrader/gpg-verify-update-hook/internal/trustchain"
)

// runVerify is the hook body: open the repository named by $GIT_DIR, read
// the hook configuration, and gate the reference update.
func runVerify(opts *RootOptions, args []string, cmd *cobra.Command) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))

	gitDir := os.Getenv("GIT_DIR")
	if gitDir == "" {
		return NewExitError(ExitUsage, "GIT_DIR is not set; this program must run as a git update hook")
	}

	ref, err := parseRefUpdate(args)
	if err != nil {
		return WrapExitError(ExitUsage, "invalid arguments", err)
	}

	repo, err := gitobj.Open(gitDir)
	if err != nil {
		return WrapExitError(ExitUsage, "not a usable repository", err)
	}

	hookOpts, err := repo.HookOptions()
	if err != nil {
		return WrapExitError(ExitUsage, "invalid hook configuration", err)
	}

	var engine keyring.Engine
	if hookOpts.Engine == gitobj.EngineBuiltin {
		engine = keyring.OpenPGPEngine{}
	} else {
		engine = keyring.NewExecEngine(hookOpts.Program)
	}

	gate := trustchain.NewGate(repo, engine, hookOpts, trustchain.UUIDv7Generator{})

	report, err := gate.VerifyUpdate(cmd.Context(), ref)
	if report != nil {
		report.Render(cmd.ErrOrStderr())
	}
	if err != nil {
		if verr, ok := trustchain.AsVerifyError(err); ok {
			return WrapExitError(ExitReject, "push rejected", verr)
		}
		return WrapExitError(ExitReject, "verification failed", err)
	}
	return nil
}

// parseRefUpdate validates and decodes the three positional arguments.
func parseRefUpdate(args []string) (trustchain.RefUpdate, error) {
	oldHash, err := parseHash(args[1])
	if err != nil {
		return trustchain.RefUpdate{}, err
	}
	newHash, err := parseHash(args[2])
	if err != nil {
		return trustchain.RefUpdate{}, err
	}
	return trustchain.RefUpdate{Name: args[0], Old: oldHash, New: newHash}, nil
}

// parseHash decodes a 40-hex-digit object id. The all-zero id is the
// distinguished "no such value".
func parseHash(s string) (plumbing.Hash, error) {
	var h plumbing.Hash
	if len(s) != len(h)*2 {
		return h, fmt.Errorf("object id %q: must be %d hex digits", s, len(h)*2)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("object id %q: %w", s, err)
	}
	copy(h[:], raw)
	return h, nil
}
