package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"assets-manager/internal/listview"
	"assets-manager/pkg/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagOut       = "out"
	flagDryRun    = "dry-run"
	flagMaxErrors = "max-errors"
	flagMapping   = "mapping"
	flagJSON      = "json"
)

func newExportCmd() *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the filtered list to an xlsx workbook",
		Example: "assetctl export --status available --out disponiveis.xlsx",
		Args:    cobra.NoArgs,
		RunE: func(ccmd *cobra.Command, _ []string) error {
			a := appFrom(ccmd)
			rows, err := visibleRows(ccmd, a)
			if err != nil {
				return err
			}

			path, _ := ccmd.Flags().GetString(flagOut)
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := listview.ExportXLSX(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(ccmd.OutOrStdout(), "%d ativos exportados para %s\n", len(rows), path)
			return nil
		},
	}
	addFilterFlags(ccmd)
	ccmd.Flags().StringP(flagOut, "o", "ativos.xlsx", "output file")
	return ccmd
}

func newImportCmd() *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "import FILE",
		Short:   "Create or update assets from an xlsx workbook",
		Long:    "Rows are matched to existing assets by serial number. Headers are resolved through the column mapping.",
		Example: "assetctl import inventario.xlsx --dry-run",
		Args:    cobra.ExactArgs(1),
		RunE: func(ccmd *cobra.Command, args []string) error {
			a := appFrom(ccmd)
			ctx := ccmd.Context()

			dryRun, _ := ccmd.Flags().GetBool(flagDryRun)
			maxErrors, _ := ccmd.Flags().GetInt(flagMaxErrors)
			mapping, _ := ccmd.Flags().GetString(flagMapping)
			asJSON, _ := ccmd.Flags().GetBool(flagJSON)

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			if err := a.dash.Mount(ctx); err != nil {
				printFeedback(ccmd.ErrOrStderr(), a.dash.Feedback())
				return err
			}

			summary, impErr := importer.ImportExcel(ctx, a.client, file, importer.ImportOptions{
				MappingPath: mapping,
				DryRun:      dryRun,
				MaxErrors:   maxErrors,
				Existing:    a.dash.Assets(),
			})
			a.log.Debug("import finished", zap.Int("inserted", summary.Inserted), zap.Error(impErr))
			if !dryRun && summary.Inserted+summary.Updated > 0 {
				if err := a.dash.Refresh(ctx); err != nil {
					a.log.Warn("reload after import failed", zap.Error(err))
				}
			}

			out := ccmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(summary); err != nil {
					return err
				}
				return impErr
			}

			fmt.Fprintf(out, "Import summary (dry_run=%v)\n", summary.DryRun)
			fmt.Fprintf(out, "  inserted: %d\n  updated:  %d\n  skipped:  %d\n  errors:   %d\n",
				summary.Inserted, summary.Updated, summary.Skipped, summary.Errors)
			for _, sheet := range summary.Sheets {
				fmt.Fprintf(out, "  sheet %s: %d inserted, %d updated, %d skipped, %d errors\n",
					sheet.Name, sheet.Inserted, sheet.Updated, sheet.Skipped, sheet.Errors)
				for _, sample := range sheet.Samples {
					fmt.Fprintf(out, "    row %d: %s\n", sample.Row, sample.Message)
				}
			}
			return impErr
		},
	}
	ccmd.Flags().Bool(flagDryRun, false, "validate and count without writing")
	ccmd.Flags().Int(flagMaxErrors, 50, "stop after this many failed rows")
	ccmd.Flags().String(flagMapping, "", "YAML column mapping (default: embedded)")
	ccmd.Flags().Bool(flagJSON, false, "print the summary as JSON")
	return ccmd
}
