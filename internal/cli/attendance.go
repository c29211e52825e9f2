package cli

import (
	"github.com/spf13/cobra"
)

// AttendanceOptions holds flags for the attendance subcommands.
type AttendanceOptions struct {
	*RootOptions
	Present bool
	Note    string
}

// NewAttendanceCommand creates the attendance command group.
func NewAttendanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AttendanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Check in, check out and inspect attendance",
	}

	checkin := &cobra.Command{
		Use:   "checkin <session-id>",
		Short: "Check in to a session",
		Long: `Check in to a session. Student credential required. One attendance
record per (student, session); a second check-in for the same session
fails.

Example:
  rollcall attendance checkin 0 --as sam
  rollcall attendance checkin 0 --note "front row" --as sam`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkIn(opts, args[0], cmd)
		},
	}
	checkin.Flags().BoolVar(&opts.Present, "present", true, "mark the student present")
	checkin.Flags().StringVar(&opts.Note, "note", "", "free-form note")

	checkout := &cobra.Command{
		Use:   "checkout <session-id>",
		Short: "Check out of a session",
		Long: `Check out of a session the caller previously checked in to. Only the
record's own student can check out, and only once. An empty --note
keeps the check-in note.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkOut(opts, args[0], cmd)
		},
	}
	checkout.Flags().BoolVar(&opts.Present, "present", true, "final presence flag")
	checkout.Flags().StringVar(&opts.Note, "note", "", "free-form note (empty keeps the check-in note)")

	show := &cobra.Command{
		Use:           "show <student> <session-id>",
		Short:         "Show an attendance record",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showAttendance(opts.RootOptions, args[0], args[1], cmd)
		},
	}

	cmd.AddCommand(checkin, checkout, show)
	return cmd
}

func checkIn(opts *AttendanceOptions, sessionArg string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	sessionID, err := parseSessionID(sessionArg)
	if err != nil {
		return err
	}

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	student, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	att, err := rt.registry.CheckIn(cmd.Context(), student, sessionID, opts.Present, opts.Note)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(att)
}

func checkOut(opts *AttendanceOptions, sessionArg string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	sessionID, err := parseSessionID(sessionArg)
	if err != nil {
		return err
	}

	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	student, err := rt.caller(opts.RootOptions)
	if err != nil {
		return err
	}

	att, err := rt.registry.CheckOut(cmd.Context(), student, sessionID, opts.Present, opts.Note)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(att)
}

func showAttendance(opts *RootOptions, student, sessionArg string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	sessionID, err := parseSessionID(sessionArg)
	if err != nil {
		return err
	}

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	att, err := rt.registry.GetAttendance(cmd.Context(), student, sessionID)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(att)
}
