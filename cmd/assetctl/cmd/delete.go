package cmd

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(ccmd *cobra.Command, args []string) error {
			a := appFrom(ccmd)
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			var delErr error
			a.view.OnDelete = func(id int64) {
				delErr = a.dash.Delete(ccmd.Context(), id)
			}
			a.view.Delete(id)
			return report(ccmd, a, delErr)
		},
	}
}
