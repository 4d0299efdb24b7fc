package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"assets-manager/internal/asset"
	"assets-manager/internal/dashboard"
	"assets-manager/internal/listview"
)

func printRows(w io.Writer, rows []listview.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tSERIAL\tCATEGORIA\tSTATUS\tDATA")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.SerialNumber, r.Category, r.Status, r.AcquiredOn)
	}
	return tw.Flush()
}

func printFieldErrors(w io.Writer, fe asset.FieldErrors) {
	for _, field := range []string{
		asset.FieldName,
		asset.FieldSerialNumber,
		asset.FieldCategory,
		asset.FieldStatus,
		asset.FieldAcquisitionDate,
	} {
		if msg, ok := fe[field]; ok {
			fmt.Fprintf(w, "%s: %s\n", field, msg)
		}
	}
}

func printFeedback(w io.Writer, fb dashboard.Feedback) {
	if fb.Kind != dashboard.FeedbackNone {
		fmt.Fprintln(w, fb.Message)
	}
}
