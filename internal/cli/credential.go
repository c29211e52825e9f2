package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CredentialOptions holds flags for the credential subcommands.
type CredentialOptions struct {
	*RootOptions
	Amount uint64
}

// NewCredentialCommand creates the credential command group.
func NewCredentialCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CredentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Mint and inspect role credentials",
	}

	mint := &cobra.Command{
		Use:   "mint <owner> <role>",
		Short: "Mint a role credential",
		Long: `Mint a role credential for an owner. Only the credential family's
bootstrap admin may mint. The role must belong to the policy's role
vocabulary.

Example:
  rollcall credential mint alice admin --as root
  rollcall credential mint sam student --amount 1 --as root`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mintCredential(opts, args[0], args[1], cmd)
		},
	}
	mint.Flags().Uint64Var(&opts.Amount, "amount", 1, "credential amount (zero mints a dead credential)")

	check := &cobra.Command{
		Use:           "check <owner> <role>",
		Short:         "Check whether an identity holds a role",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCredential(rootOpts, args[0], args[1], cmd)
		},
	}

	show := &cobra.Command{
		Use:           "show <owner> <role>",
		Short:         "Show a credential record",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCredential(rootOpts, args[0], args[1], cmd)
		},
	}

	cmd.AddCommand(mint, check, show)
	return cmd
}

func mintCredential(opts *CredentialOptions, owner, role string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	// The registry accepts any role string; the CLI narrows to the
	// policy vocabulary so a typo cannot mint an unusable credential.
	if !rt.registry.Policy().KnownRole(role) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown role %q: policy roles are %v", role, rt.registry.Policy().Roles))
	}

	admin, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	cred, err := rt.registry.MintCredential(cmd.Context(), admin, owner, role, opts.Amount)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(cred)
}

func checkCredential(opts *RootOptions, owner, role string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	ok, err := rt.registry.HasRole(cmd.Context(), owner, role)
	if err != nil {
		return f.Fail(err)
	}

	if opts.Format == "json" {
		return f.Success(map[string]any{"owner": owner, "role": role, "has_role": ok})
	}
	return f.Success(fmt.Sprintf("%s holds %s: %t", owner, role, ok))
}

func showCredential(opts *RootOptions, owner, role string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	cred, err := rt.registry.GetCredential(cmd.Context(), owner, role)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(cred)
}
