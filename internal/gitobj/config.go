package gitobj

import "fmt"

// Defaults for the hook configuration.
const (
	DefaultKeyDir  = "keys"
	DefaultProgram = "gpg"

	// EngineGPG shells out to the configured gpg program; EngineBuiltin
	// verifies in-process.
	EngineGPG     = "gpg"
	EngineBuiltin = "builtin"
)

// Options is the hook configuration, read once per invocation and threaded
// explicitly into every component. No component reads ambient process
// state directly.
type Options struct {
	// KeyDir is the repository-relative path of the key directory,
	// resolved against a different tree snapshot per consulted commit.
	KeyDir string

	// Program is the external signature program (gpg by convention).
	Program string

	// Engine selects between the external program and the in-process
	// verifier.
	Engine string
}

// DefaultOptions returns the configuration used when the repository sets
// nothing.
func DefaultOptions() Options {
	return Options{KeyDir: DefaultKeyDir, Program: DefaultProgram, Engine: EngineGPG}
}

// HookOptions reads the hook configuration from the repository's git
// config:
//
//	hooks.verify.keydir   key directory path (default "keys")
//	hooks.verify.engine   "gpg" or "builtin" (default "gpg")
//	hooks.verify.program  signature program override
//	gpg.program           conventional program override (lower precedence)
func (r *Repository) HookOptions() (Options, error) {
	opts := DefaultOptions()

	cfg, err := r.repo.Config()
	if err != nil {
		return opts, fmt.Errorf("read repository config: %w", err)
	}

	if v := cfg.Raw.Section("gpg").Option("program"); v != "" {
		opts.Program = v
	}

	verify := cfg.Raw.Section("hooks").Subsection("verify")
	if v := verify.Option("keydir"); v != "" {
		opts.KeyDir = v
	}
	if v := verify.Option("program"); v != "" {
		opts.Program = v
	}
	if v := verify.Option("engine"); v != "" {
		if v != EngineGPG && v != EngineBuiltin {
			return opts, fmt.Errorf("invalid hooks.verify.engine %q: must be %q or %q", v, EngineGPG, EngineBuiltin)
		}
		opts.Engine = v
	}

	return opts, nil
}
