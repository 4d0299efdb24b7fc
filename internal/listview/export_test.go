package listview

import (
	"bytes"
	"testing"

	"assets-manager/internal/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
)

func TestExportXLSX(t *testing.T) {
	v := New(nil)
	v.SetStatusFilter(StatusFilter(asset.StatusAvailable))
	rows := v.Visible(records())

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, rows))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sh := f.Sheets[0]
	assert.Equal(t, sheetName, sh.Name)
	assert.Equal(t, 2, sh.MaxRow)

	var header []string
	for c := 0; c < len(exportHeader); c++ {
		cell, err := sh.Cell(0, c)
		require.NoError(t, err)
		header = append(header, cell.String())
	}
	assert.Equal(t, exportHeader, header)

	var got []string
	for c := 0; c < len(exportHeader); c++ {
		cell, err := sh.Cell(1, c)
		require.NoError(t, err)
		got = append(got, cell.String())
	}
	assert.Equal(t, []string{"1", "Notebook Lenovo", "NB-100", "Notebook", "Disponível", "10/03/2024"}, got)
}

func TestExportXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, nil))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, f.Sheets[0].MaxRow)
}
