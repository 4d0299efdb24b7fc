// Package importer loads asset records from Excel workbooks.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"assets-manager/internal/asset"

	"github.com/hashicorp/go-multierror"
	"github.com/tealeg/xlsx/v3"
)

const defaultMaxErrors = 50

// ErrTooManyErrors stops an import once more than MaxErrors rows failed.
var ErrTooManyErrors = errors.New("too many errors, stopping import")

// Target receives the imported records. Both the store and the REST client
// satisfy it.
type Target interface {
	Create(ctx context.Context, r asset.Record) (asset.Record, error)
	Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error)
}

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	MappingPath string // empty uses the embedded mapping
	DryRun      bool
	MaxErrors   int // default 50
	// Existing holds the records already stored. A row whose serial number
	// matches one of them updates it instead of creating a new record.
	Existing []asset.Record
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Message)
}

// SheetSummary contains the import statistics for a single sheet
type SheetSummary struct {
	Name     string     `json:"name"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary contains the overall import statistics
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

type run struct {
	target   Target
	mapping  *MappingConfig
	opts     ImportOptions
	date1904 bool
	// bySerial maps a serial number to the id of the record holding it;
	// 0 marks a record only created by a dry run.
	bySerial map[string]int64
	errs     *multierror.Error
	total    int
}

// ImportExcel reads every mapped sheet of the workbook in r and creates or
// updates one record per data row. Rows failing validation are reported in
// the summary and joined into the returned error; the import goes on until
// more than MaxErrors rows failed.
func ImportExcel(ctx context.Context, target Target, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{
		DryRun: opts.DryRun,
		Sheets: []SheetSummary{},
	}

	if opts.MaxErrors <= 0 {
		opts.MaxErrors = defaultMaxErrors
	}

	mapping, err := LoadMapping(opts.MappingPath)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping config: %w", err)
	}

	// xlsx needs random access, so the whole workbook is buffered.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	ru := &run{
		target:   target,
		mapping:  mapping,
		opts:     opts,
		date1904: xlFile.Date1904,
		bySerial: make(map[string]int64, len(opts.Existing)),
	}
	for _, rec := range opts.Existing {
		if rec.ID != nil {
			ru.bySerial[rec.SerialNumber] = *rec.ID
		}
	}

	for _, sheet := range xlFile.Sheets {
		if !mapping.wantsSheet(sheet.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		sheetSummary := ru.processSheet(ctx, sheet)
		summary.Sheets = append(summary.Sheets, sheetSummary)

		summary.Inserted += sheetSummary.Inserted
		summary.Updated += sheetSummary.Updated
		summary.Skipped += sheetSummary.Skipped
		summary.Errors += sheetSummary.Errors

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("%w (%d)", ErrTooManyErrors, summary.Errors)
		}
	}

	return summary, ru.errs.ErrorOrNil()
}

func (ru *run) fail(summary *SheetSummary, row int, msg string) {
	rowErr := RowError{Sheet: summary.Name, Row: row, Message: msg}
	summary.Errors++
	ru.total++
	if ru.total <= ru.opts.MaxErrors {
		summary.Samples = append(summary.Samples, rowErr)
		ru.errs = multierror.Append(ru.errs, rowErr)
	}
}

func (ru *run) processSheet(ctx context.Context, sheet *xlsx.Sheet) SheetSummary {
	summary := SheetSummary{Name: sheet.Name}
	if sheet.MaxRow == 0 {
		return summary
	}

	columns := make(map[string]int)
	for col := 0; col < sheet.MaxCol; col++ {
		cell, err := sheet.Cell(0, col)
		if err != nil {
			ru.fail(&summary, 1, "failed to read header row: "+err.Error())
			return summary
		}
		if field, ok := ru.mapping.fieldFor(cell.String()); ok {
			if _, dup := columns[field]; !dup {
				columns[field] = col
			}
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := columns[field]; ok {
			continue
		}
		if _, ok := ru.mapping.Defaults[field]; ok {
			continue
		}
		missing = append(missing, field)
	}
	if len(missing) > 0 {
		ru.fail(&summary, 1, "missing columns: "+strings.Join(missing, ", "))
		return summary
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		if ctx.Err() != nil || ru.total > ru.opts.MaxErrors {
			break
		}
		rowNum := rowIdx + 1

		values, err := ru.readRow(sheet, rowIdx, columns)
		if err != nil {
			ru.fail(&summary, rowNum, err.Error())
			continue
		}
		if values == nil {
			summary.Skipped++
			continue
		}

		rec, fe := asset.Validate(ru.input(values))
		if fe != nil {
			ru.fail(&summary, rowNum, strings.TrimPrefix(fe.Error(), "invalid asset: "))
			continue
		}

		id, exists := ru.bySerial[rec.SerialNumber]
		switch {
		case exists:
			if !ru.opts.DryRun && id != 0 {
				if _, err := ru.target.Update(ctx, id, rec); err != nil {
					ru.fail(&summary, rowNum, err.Error())
					continue
				}
			}
			summary.Updated++
		default:
			if !ru.opts.DryRun {
				created, err := ru.target.Create(ctx, rec)
				if err != nil {
					ru.fail(&summary, rowNum, err.Error())
					continue
				}
				id = created.IDValue()
			}
			ru.bySerial[rec.SerialNumber] = id
			summary.Inserted++
		}
	}

	return summary
}

// readRow returns the trimmed mapped cells of a row, or nil when they are
// all blank.
func (ru *run) readRow(sheet *xlsx.Sheet, rowIdx int, columns map[string]int) (map[string]string, error) {
	values := make(map[string]string, len(columns))
	blank := true
	for field, col := range columns {
		cell, err := sheet.Cell(rowIdx, col)
		if err != nil {
			return nil, fmt.Errorf("failed to read cell: %w", err)
		}
		v, err := ru.cellValue(field, cell)
		if err != nil {
			return nil, err
		}
		if v != "" {
			blank = false
		}
		values[field] = v
	}
	if blank {
		return nil, nil
	}
	return values, nil
}

func (ru *run) cellValue(field string, cell *xlsx.Cell) (string, error) {
	if field == asset.FieldAcquisitionDate && cell.IsTime() {
		t, err := cell.GetTime(ru.date1904)
		if err != nil {
			return "", fmt.Errorf("%s: %w", field, err)
		}
		return t.Format(time.DateOnly), nil
	}
	return strings.TrimSpace(cell.String()), nil
}

// input builds the form input of a row. Categories and statuses may be
// given by key or by label; dates may use the DD/MM/YYYY display form.
func (ru *run) input(values map[string]string) asset.Input {
	get := func(field string) string {
		if v := values[field]; v != "" {
			return v
		}
		return strings.TrimSpace(ru.mapping.Defaults[field])
	}

	in := asset.Input{
		Name:         get(asset.FieldName),
		SerialNumber: get(asset.FieldSerialNumber),
		Category:     get(asset.FieldCategory),
		Status:       get(asset.FieldStatus),
	}
	if c, ok := asset.ParseCategory(in.Category); ok {
		in.Category = string(c)
	}
	if s, ok := asset.ParseStatus(in.Status); ok {
		in.Status = string(s)
	}
	if d := get(asset.FieldAcquisitionDate); d != "" {
		if t, err := time.Parse("02/01/2006", d); err == nil {
			d = t.Format(time.DateOnly)
		}
		in.AcquisitionDate = &d
	}
	return in
}
