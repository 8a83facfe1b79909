package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the update-hook command. Git invokes the hook
// with exactly three positional arguments: the reference name, the old
// value and the new value.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gpg-verify-update-hook <ref-name> <old-value> <new-value>",
		Short: "Git update hook enforcing a committed web of trust",
		Long: `A git update hook that rejects pushes of commits whose signature does not
validate against the key directory committed in one of their parents.

Key material lives as ordinary blobs under a fixed repository path
(hooks.verify.keydir, default "keys"); the key set in effect for a commit
is the one recorded in its parent's tree. All diagnostics go to stderr.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args, cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	return cmd
}
