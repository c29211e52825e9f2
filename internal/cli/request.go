package cli

import (
	"github.com/spf13/cobra"
)

// RequestOptions holds flags for the request subcommands.
type RequestOptions struct {
	*RootOptions
	Message   string
	GrantRole string
}

// NewRequestCommand creates the request command group.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RequestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit and process access requests",
	}

	submit := &cobra.Command{
		Use:   "submit <role>",
		Short: "Submit an access request",
		Long: `Submit an access request for a role. One live request per identity:
the request's address derives from the requester alone, so a second
submit fails while the first exists.

Example:
  rollcall request submit student --message "new hire" --as sam`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitRequest(opts, args[0], cmd)
		},
	}
	submit.Flags().StringVar(&opts.Message, "message", "", "free-form message to the admin")

	approve := &cobra.Command{
		Use:   "approve <requester>",
		Short: "Approve a pending request",
		Long: `Approve a pending request. Admin credential required. With
--grant-role, the stored role is replaced before approval, so an admin
can approve for a different role than the one requested.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return approveRequest(opts, args[0], cmd)
		},
	}
	approve.Flags().StringVar(&opts.GrantRole, "grant-role", "", "approve for this role instead of the requested one")

	reject := &cobra.Command{
		Use:           "reject <requester>",
		Short:         "Reject a pending request",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rejectRequest(opts, args[0], cmd)
		},
	}

	show := &cobra.Command{
		Use:           "show <requester>",
		Short:         "Show a request record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRequest(opts.RootOptions, args[0], cmd)
		},
	}

	cmd.AddCommand(submit, approve, reject, show)
	return cmd
}

func submitRequest(opts *RequestOptions, role string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	requester, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	req, err := rt.registry.SubmitRequest(cmd.Context(), requester, role, opts.Message)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(req)
}

func approveRequest(opts *RequestOptions, requester string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	admin, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	req, err := rt.registry.ApproveRequest(cmd.Context(), admin, requester, opts.GrantRole)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(req)
}

func rejectRequest(opts *RequestOptions, requester string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	admin, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	req, err := rt.registry.RejectRequest(cmd.Context(), admin, requester)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(req)
}

func showRequest(opts *RootOptions, requester string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	req, err := rt.registry.GetRequest(cmd.Context(), requester)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(req)
}
