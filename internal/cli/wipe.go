package cli

import (
	"github.com/spf13/cobra"
)

// NewWipeCommand creates the wipe command: clear every table, then
// compact the database file.
func NewWipeCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all data and reclaim disk space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to wipe without --yes")
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Wipe(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to wipe store", err)
			}
			return newFormatter(cmd, rootOpts).Success("wiped")
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
