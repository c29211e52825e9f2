package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// storage families addressable from the command line, in bootstrap order.
var initFamilies = []string{"access", "formation", "session", "attendance", "credential"}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <family>",
		Short: "Bootstrap a record family",
		Long: `Bootstrap a record family's counter. The acting identity is recorded
as the family's bootstrap admin; for the credential family it becomes
the only identity allowed to mint.

Each family initializes exactly once. Use "all" to bootstrap every
family in one go.

Example:
  rollcall init all --as root
  rollcall init credential --as root`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInit(opts *RootOptions, family string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	families := []string{family}
	if family == "all" {
		families = initFamilies
	} else if !validFamily(family) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown family %q: must be one of %v or all", family, initFamilies))
	}

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	admin, err := rt.caller(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, fam := range families {
		var initErr error
		switch fam {
		case "access":
			initErr = rt.registry.InitAccessStorage(ctx, admin)
		case "formation":
			initErr = rt.registry.InitFormationStorage(ctx, admin)
		case "session":
			initErr = rt.registry.InitSessionStorage(ctx, admin)
		case "attendance":
			initErr = rt.registry.InitAttendanceStorage(ctx, admin)
		case "credential":
			initErr = rt.registry.InitCredentialStorage(ctx, admin)
		}
		if initErr != nil {
			return f.Fail(initErr)
		}
		if err := f.Success(fmt.Sprintf("initialized %s storage (admin %s)", fam, admin)); err != nil {
			return err
		}
	}
	return nil
}

func validFamily(family string) bool {
	for _, f := range initFamilies {
		if f == family {
			return true
		}
	}
	return false
}
