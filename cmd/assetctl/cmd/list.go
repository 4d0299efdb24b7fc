package cmd

import (
	"fmt"

	"assets-manager/internal/listview"

	"github.com/spf13/cobra"
)

const (
	flagStatus = "status"
	flagQuery  = "query"
	flagPage   = "page"
)

func addFilterFlags(ccmd *cobra.Command) {
	ccmd.Flags().String(flagStatus, string(listview.AllStatuses), "status key or label to show, or all")
	ccmd.Flags().StringP(flagQuery, "q", "", "quick search over every column")
}

// visibleRows mounts the dashboard and applies the filter flags.
func visibleRows(ccmd *cobra.Command, a *app) ([]listview.Row, error) {
	status, _ := ccmd.Flags().GetString(flagStatus)
	filter, err := listview.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	q, _ := ccmd.Flags().GetString(flagQuery)
	a.view.SetStatusFilter(filter)
	a.view.SetQuery(q)

	if err := a.dash.Mount(ccmd.Context()); err != nil {
		printFeedback(ccmd.ErrOrStderr(), a.dash.Feedback())
		return nil, err
	}
	return a.view.Visible(a.dash.Assets()), nil
}

func newListCmd() *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "list",
		Short:   "List assets a page at a time",
		Example: "assetctl list --status in_use -q dell --page 2",
		Args:    cobra.NoArgs,
		RunE: func(ccmd *cobra.Command, _ []string) error {
			a := appFrom(ccmd)
			rows, err := visibleRows(ccmd, a)
			if err != nil {
				return err
			}
			n, _ := ccmd.Flags().GetInt(flagPage)
			page, pages := listview.Page(rows, n)
			if err := printRows(ccmd.OutOrStdout(), page); err != nil {
				return err
			}
			fmt.Fprintf(ccmd.OutOrStdout(), "página %d de %d (%d ativos)\n", min(max(n, 1), pages), pages, len(rows))
			return nil
		},
	}
	addFilterFlags(ccmd)
	ccmd.Flags().Int(flagPage, 1, "page number")
	return ccmd
}
