package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDeleteAllCommand creates the delete-all command.
func NewDeleteAllCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every trip and stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to delete every record without --yes")
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			a, err := openApp(cmd.Context(), rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.close()

			trips, stops, err := a.trips.DeleteAll(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to delete records", err)
			}
			data := map[string]int64{"trips": trips, "stops": stops}
			return out.Success(data, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "deleted %d trips and %d stops\n", trips, stops)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}
