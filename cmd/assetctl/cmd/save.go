package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"assets-manager/internal/asset"
	"assets-manager/internal/dashboard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagName     = "name"
	flagSerial   = "serial"
	flagCategory = "category"
	flagDate     = "date"
)

func addRecordFlags(ccmd *cobra.Command) {
	ccmd.Flags().String(flagName, "", "asset name")
	ccmd.Flags().String(flagSerial, "", "serial number")
	ccmd.Flags().String(flagCategory, "", "category key or label")
	ccmd.Flags().String(flagStatus, "", "status key or label")
	ccmd.Flags().String(flagDate, "", "acquisition date (YYYY-MM-DD or ISO-8601)")
}

// applyFlags overwrites the fields of in whose flags were set. Labels are
// accepted for category and status.
func applyFlags(ccmd *cobra.Command, in asset.Input) asset.Input {
	set := func(name string, dst *string) {
		if ccmd.Flags().Changed(name) {
			*dst, _ = ccmd.Flags().GetString(name)
		}
	}
	set(flagName, &in.Name)
	set(flagSerial, &in.SerialNumber)
	set(flagCategory, &in.Category)
	set(flagStatus, &in.Status)
	if ccmd.Flags().Changed(flagDate) {
		d, _ := ccmd.Flags().GetString(flagDate)
		in.AcquisitionDate = &d
	}

	if c, ok := asset.ParseCategory(in.Category); ok {
		in.Category = string(c)
	}
	if s, ok := asset.ParseStatus(in.Status); ok {
		in.Status = string(s)
	}
	return in
}

// submit saves the open draft and reports the outcome.
func submit(ccmd *cobra.Command, a *app, in asset.Input) error {
	if err := a.dash.SetDraft(in); err != nil {
		return err
	}
	err := a.dash.Submit(ccmd.Context())
	var fe asset.FieldErrors
	if errors.As(err, &fe) {
		printFieldErrors(ccmd.ErrOrStderr(), fe)
		return errors.New("invalid asset")
	}
	return report(ccmd, a, err)
}

// report prints the banner left by a save or delete. When the write went
// through but the list reload failed, the command still succeeds and only
// warns.
func report(ccmd *cobra.Command, a *app, err error) error {
	fb := a.dash.Feedback()
	if err != nil && fb.Kind != dashboard.FeedbackSuccess {
		printFeedback(ccmd.ErrOrStderr(), fb)
		return err
	}
	printFeedback(ccmd.OutOrStdout(), fb)
	if err != nil {
		a.log.Warn("reload after write failed", zap.Error(err))
		fmt.Fprintf(ccmd.ErrOrStderr(), "aviso: não foi possível recarregar a lista: %v\n", err)
	}
	return nil
}

func newCreateCmd() *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an asset",
		Example: `assetctl create --name "Notebook Dell" --serial SN-1 --category notebook --status available`,
		Args:    cobra.NoArgs,
		RunE: func(ccmd *cobra.Command, _ []string) error {
			a := appFrom(ccmd)
			a.dash.New()
			draft, _ := a.dash.Draft()
			return submit(ccmd, a, applyFlags(ccmd, draft))
		},
	}
	addRecordFlags(ccmd)
	return ccmd
}

func newUpdateCmd() *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change the fields given as flags on an existing asset",
		Example: "assetctl update 3 --status maintenance",
		Args:    cobra.ExactArgs(1),
		RunE: func(ccmd *cobra.Command, args []string) error {
			a := appFrom(ccmd)
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := a.dash.Mount(ccmd.Context()); err != nil {
				printFeedback(ccmd.ErrOrStderr(), a.dash.Feedback())
				return err
			}

			a.view.OnEdit = a.dash.Edit
			if !a.view.Edit(a.dash.Assets(), id) {
				return fmt.Errorf("asset %d not found", id)
			}
			draft, _ := a.dash.Draft()
			return submit(ccmd, a, applyFlags(ccmd, draft))
		},
	}
	addRecordFlags(ccmd)
	return ccmd
}

func parseIDArg(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}
