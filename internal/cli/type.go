package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pkordes/trippacks/internal/domain"
)

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "type <path>",
		Short: "Print the type tag of a record path",
		Long: `Resolve a record path such as /trips or /stops/12 and print its type tag.

Example:
  trippacks type /trips/3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			target, err := domain.ParseTarget(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "unsupported path", err)
			}

			a, err := openApp(cmd.Context(), rootOpts, nil)
			if err != nil {
				return err
			}
			defer a.close()

			tt, err := a.records.Type(target)
			if err != nil {
				return WrapExitError(ExitCommandError, "unsupported path", err)
			}
			data := map[string]string{"path": target.Path(), "type": string(tt)}
			return out.Success(data, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, tt)
				return err
			})
		},
	}
}
