package listview

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v3"
)

const sheetName = "Ativos"

var exportHeader = []string{"ID", "Nome", "Serial", "Categoria", "Status", "Data"}

// ExportXLSX writes rows to a single-sheet workbook.
func ExportXLSX(w io.Writer, rows []Row) error {
	f := xlsx.NewFile()
	sh, err := f.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sh.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}

	for _, r := range rows {
		row := sh.AddRow()
		row.AddCell().SetInt64(r.ID)
		row.AddCell().SetString(r.Name)
		row.AddCell().SetString(r.SerialNumber)
		row.AddCell().SetString(r.Category)
		row.AddCell().SetString(r.Status)
		row.AddCell().SetString(r.AcquiredOn)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
