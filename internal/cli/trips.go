package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/service"
	"github.com/pkordes/trippacks/internal/validation"
)

// TripsAddOptions holds flags for the trips add command.
type TripsAddOptions struct {
	*RootOptions
	Stops    []string
	Received string
	State    int
}

// NewTripsCommand creates the trips command group.
func NewTripsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Create and list trips",
	}
	cmd.AddCommand(newTripsAddCommand(rootOpts))
	cmd.AddCommand(newTripsListCommand(rootOpts))
	return cmd
}

func newTripsAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TripsAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a trip with its stops",
		Long: `Create a trip numbered one past the highest existing trip number, with
one stop per location in the order given.

Example:
  trippacks trips add --stops Depot,Mill,Yard --received 2018-01-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTripsAdd(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Stops, "stops", nil, "comma-separated stop locations in travel order")
	cmd.Flags().StringVar(&opts.Received, "received", "", "received date yyyy-MM-dd (default today)")
	cmd.Flags().IntVar(&opts.State, "state", int(domain.StateAssigned), "trip state (100 assigned, 101 open, 102 closed, 103 submitted)")

	return cmd
}

func runTripsAdd(cmd *cobra.Command, opts *TripsAddOptions) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	a, err := openApp(cmd.Context(), opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer a.close()

	var msgs validation.Collector
	ctx := validation.NewContext(cmd.Context(), &msgs)

	pack, err := a.trips.CreateTrip(ctx, service.TripDraft{
		Stops:        opts.Stops,
		ReceivedDate: opts.Received,
		State:        domain.TripState(opts.State),
	})
	if err != nil {
		if service.IsRejected(err) {
			_ = out.Error("validation_error", "trip rejected", msgs.Messages)
			return WrapExitError(ExitFailure, "trip rejected", err)
		}
		return WrapExitError(ExitFailure, "failed to create trip", err)
	}

	return out.Success(pack, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "created trip %s (id %d): %s\n", pack.Trip.TripNumber, pack.Trip.ID, pack.Trip.FromTo)
		return err
	})
}

func newTripsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trips, highest trip number first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			a, err := openApp(cmd.Context(), rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.close()

			trips, err := a.trips.List(cmd.Context(), nil)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list trips", err)
			}
			return out.Success(trips, func(w io.Writer) error {
				return writeTripTable(w, trips)
			})
		},
	}
}

func writeTripTable(w io.Writer, trips []domain.Trip) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRIP\tSTATE\tRECEIVED\tSUBMITTED\tHUBS\tFROM/TO")
	for _, t := range trips {
		submitted := "-"
		if t.SubmittedDate != nil {
			submitted = *t.SubmittedDate
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d-%d\t%s\n",
			t.ID, t.TripNumber, strings.ToUpper(t.State.String()), t.ReceivedDate, submitted, t.HubStart, t.HubEnd, t.FromTo)
	}
	return tw.Flush()
}
