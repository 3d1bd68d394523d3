package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkordes/trippacks/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every trip with its stops",
		Long: `Write one row per stop, each carrying its trip's fields. Trips without
stops get a single row with empty stop fields.

Example:
  trippacks export --as csv > trips.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(as)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid export format", err)
			}

			a, err := openApp(cmd.Context(), rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.close()

			rows, err := a.export.Export(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to export", err)
			}
			if err := export.Write(cmd.OutOrStdout(), f, rows); err != nil {
				return WrapExitError(ExitFailure, "failed to write export", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "json", "export format (json|csv|yaml)")

	return cmd
}
