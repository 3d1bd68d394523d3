package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/trippacks/internal/domain"
)

// NewStopsCommand creates the stops command group.
func NewStopsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stops",
		Short: "List stops",
	}

	var trip string
	list := &cobra.Command{
		Use:   "list",
		Short: "List stops in stop order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			a, err := openApp(cmd.Context(), rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.close()

			stops, err := a.stops.List(cmd.Context(), trip)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list stops", err)
			}
			return out.Success(stops, func(w io.Writer) error {
				return writeStopTable(w, stops)
			})
		},
	}
	list.Flags().StringVar(&trip, "trip", "", "only stops of this trip number")
	cmd.AddCommand(list)

	return cmd
}

func writeStopTable(w io.Writer, stops []domain.Stop) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRIP\t#\tLOCATION\tHUB\tCOMPLETED")
	for _, s := range stops {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\n", s.ID, s.TripNumber, s.StopIndex, s.Location, s.ArrivalHub, s.DateCompleted)
	}
	return tw.Flush()
}
