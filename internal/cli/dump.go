package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the ledger deterministically",
		Long: `Dump the whole ledger as JSON. Slots order by last write, operations
by sequence number; two databases that processed the same operation
sequence dump byte-identically, so dumps diff cleanly.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpLedger(rootOpts, cmd)
		},
	}

	return cmd
}

func dumpLedger(opts *RootOptions, cmd *cobra.Command) error {
	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	dump, err := rt.ledger.DumpState(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to dump ledger", err)
	}

	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode dump", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
