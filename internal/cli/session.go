package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avelar/rollcall/internal/registry"
)

// SessionOptions holds flags for the session subcommands.
type SessionOptions struct {
	*RootOptions
	FormationID string
	Title       string
	Description string
	Date        int64
	Duration    uint64
	Location    string
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Schedule and inspect sessions",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule a session",
		Long: `Schedule a session of a formation. Admin or trainer credential
required. Session fields are fixed at creation; there is no update.

Example:
  rollcall session create --formation 0 --title "Day 1" --date 1700150000 --duration 90 --as tom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createSession(opts, cmd)
		},
	}
	create.Flags().StringVar(&opts.FormationID, "formation", "", "formation id this session belongs to")
	create.Flags().StringVar(&opts.Title, "title", "", "session title")
	create.Flags().StringVar(&opts.Description, "description", "", "session description")
	create.Flags().Int64Var(&opts.Date, "date", 0, "session date (unix seconds)")
	create.Flags().Uint64Var(&opts.Duration, "duration", 0, "duration in minutes")
	create.Flags().StringVar(&opts.Location, "location", "", "session location")

	show := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a session record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSession(opts.RootOptions, args[0], cmd)
		},
	}

	cmd.AddCommand(create, show)
	return cmd
}

func createSession(opts *SessionOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	trainer, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	sess, err := rt.registry.CreateSession(cmd.Context(), trainer, registry.SessionFields{
		FormationID: opts.FormationID,
		Title:       opts.Title,
		Description: opts.Description,
		Date:        opts.Date,
		Duration:    opts.Duration,
		Location:    opts.Location,
	})
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(sess)
}

func showSession(opts *RootOptions, idArg string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	id, err := parseSessionID(idArg)
	if err != nil {
		return err
	}

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	sess, err := rt.registry.GetSession(cmd.Context(), id)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(sess)
}

// parseSessionID parses a decimal session id argument.
func parseSessionID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid session id %q", arg))
	}
	return id, nil
}
