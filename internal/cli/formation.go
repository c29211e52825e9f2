package cli

import (
	"github.com/spf13/cobra"

	"github.com/avelar/rollcall/internal/registry"
)

// FormationOptions holds flags for the formation subcommands.
type FormationOptions struct {
	*RootOptions
	ID          string
	Title       string
	Description string
	StartDate   int64
	EndDate     int64
	Active      bool
}

// NewFormationCommand creates the formation command group.
func NewFormationCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormationOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "formation",
		Short: "Create, update and inspect formations",
	}

	upsert := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update a formation",
		Long: `Create or update a formation. Admin credential required. Without
--id a new formation is created and its id comes from the formation
counter. With --id the existing formation is updated: empty --title and
--description keep the stored values, dates and the active flag are
always written.

Example:
  rollcall formation upsert --title "Go 101" --active --as alice
  rollcall formation upsert --id 0 --title "Go 101 (rev)" --as alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return upsertFormation(opts, cmd)
		},
	}
	upsert.Flags().StringVar(&opts.ID, "id", "", "formation id to update (omit to create)")
	upsert.Flags().StringVar(&opts.Title, "title", "", "formation title")
	upsert.Flags().StringVar(&opts.Description, "description", "", "formation description")
	upsert.Flags().Int64Var(&opts.StartDate, "start", 0, "start date (unix seconds)")
	upsert.Flags().Int64Var(&opts.EndDate, "end", 0, "end date (unix seconds)")
	upsert.Flags().BoolVar(&opts.Active, "active", false, "mark the formation active")

	show := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a formation record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showFormation(opts.RootOptions, args[0], cmd)
		},
	}

	cmd.AddCommand(upsert, show)
	return cmd
}

func upsertFormation(opts *FormationOptions, cmd *cobra.Command) error {
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

	target := registry.CreateFormation()
	if opts.ID != "" {
		target = registry.ExistingFormation(opts.ID)
	}

	formation, err := rt.registry.UpsertFormation(cmd.Context(), admin, target, registry.FormationFields{
		Title:       opts.Title,
		Description: opts.Description,
		StartDate:   opts.StartDate,
		EndDate:     opts.EndDate,
		Active:      opts.Active,
	})
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(formation)
}

func showFormation(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	formation, err := rt.registry.GetFormation(cmd.Context(), id)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(formation)
}
