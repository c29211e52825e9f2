package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewIdentityCommand creates the identity command group.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage identities",
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a fresh identity",
		Long: `Generate a fresh identity string. Identities are opaque to the
registry; any unique string works. This prints a random UUID, suitable
for the identity field of the config file or the --as flag.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd)
			return f.Success(uuid.NewString())
		},
	}

	cmd.AddCommand(newCmd)
	return cmd
}
