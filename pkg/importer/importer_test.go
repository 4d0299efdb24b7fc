package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"assets-manager/internal/asset"
	"assets-manager/internal/listview"
	"assets-manager/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/zap"
)

var header = []string{"Nome", "Serial", "Categoria", "Status", "Data"}

// workbook builds an in-memory xlsx with one sheet per entry in sheets.
func workbook(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sh, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, cells := range rows {
			row := sh.AddRow()
			for _, v := range cells {
				row.AddCell().SetString(v)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func listAll(t *testing.T, st store.Store) []asset.Record {
	t.Helper()
	out, err := st.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	return out
}

func TestImportExcelCreatesRecords(t *testing.T) {
	st := store.NewMemoryStore()
	wb := workbook(t, map[string][][]string{
		"Ativos": {
			header,
			{"Notebook Dell", "SN-1", "Notebook", "Em uso", "15/01/2024"},
			{"Monitor LG", "SN-2", "monitor", "available", ""},
			{" ", " ", " ", " ", " "},
			{"Cadeira 3", "SN-3", "furniture", "available", ""},
		},
	})

	summary, err := ImportExcel(context.Background(), st, wb, ImportOptions{})

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	require.Len(t, summary.Sheets, 1)
	require.Len(t, summary.Sheets[0].Samples, 1)
	sample := summary.Sheets[0].Samples[0]
	assert.Equal(t, "Ativos", sample.Sheet)
	assert.Equal(t, 5, sample.Row)
	assert.Contains(t, sample.Message, asset.MsgNameDigits)

	want := []asset.Record{
		{
			ID: asset.Int64Ptr(1), Name: "Notebook Dell", SerialNumber: "SN-1",
			Category: asset.CategoryNotebook, Status: asset.StatusInUse,
			AcquisitionDate: asset.StringPtr("2024-01-15T00:00:00Z"),
		},
		{
			ID: asset.Int64Ptr(2), Name: "Monitor LG", SerialNumber: "SN-2",
			Category: asset.CategoryMonitor, Status: asset.StatusAvailable,
		},
	}
	if diff := cmp.Diff(want, listAll(t, st)); diff != "" {
		t.Errorf("stored records mismatch (-want +got):\n%s", diff)
	}
}

func TestImportExcelUpdatesExistingSerial(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	existing, err := st.Create(ctx, asset.Record{
		Name: "Switch", SerialNumber: "SW-9", Category: asset.CategoryNetwork, Status: asset.StatusAvailable,
	})
	require.NoError(t, err)

	wb := workbook(t, map[string][][]string{
		"Ativos": {
			header,
			{"Switch Core", "SW-9", "Rede", "Em manutenção", ""},
		},
	})

	summary, err := ImportExcel(ctx, st, wb, ImportOptions{Existing: []asset.Record{existing}})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)

	got, err := st.Get(ctx, existing.IDValue())
	require.NoError(t, err)
	assert.Equal(t, "Switch Core", got.Name)
	assert.Equal(t, asset.StatusMaintenance, got.Status)
}

func TestImportExcelRepeatedSerialUpdatesEarlierRow(t *testing.T) {
	st := store.NewMemoryStore()
	wb := workbook(t, map[string][][]string{
		"Ativos": {
			header,
			{"Teclado", "K-1", "peripheral", "available", ""},
			{"Teclado USB", "K-1", "peripheral", "in_use", ""},
		},
	})

	summary, err := ImportExcel(context.Background(), st, wb, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)

	records := listAll(t, st)
	require.Len(t, records, 1)
	assert.Equal(t, "Teclado USB", records[0].Name)
	assert.Equal(t, asset.StatusInUse, records[0].Status)
}

func TestImportExcelDryRunWritesNothing(t *testing.T) {
	st := store.NewMemoryStore()
	wb := workbook(t, map[string][][]string{
		"Ativos": {
			header,
			{"Notebook", "N-1", "notebook", "available", ""},
			{"Notebook", "N-1", "notebook", "in_use", ""},
			{"Monitor", "M-1", "monitor", "available", ""},
		},
	})

	summary, err := ImportExcel(context.Background(), st, wb, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Empty(t, listAll(t, st))
}

func TestImportExcelReportsStoreFailures(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	_, err := st.Create(ctx, asset.Record{
		Name: "Outro", SerialNumber: "DUP", Category: asset.CategoryOther, Status: asset.StatusAvailable,
	})
	require.NoError(t, err)

	// Existing is not passed, so the row is created and collides.
	wb := workbook(t, map[string][][]string{
		"Ativos": {header, {"Outro", "DUP", "other", "available", ""}},
	})
	summary, err := ImportExcel(ctx, st, wb, ImportOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Contains(t, summary.Sheets[0].Samples[0].Message, store.ErrDuplicateSerial.Error())
}

func TestImportExcelMissingColumns(t *testing.T) {
	wb := workbook(t, map[string][][]string{
		"Ativos": {
			{"Nome", "Categoria"},
			{"Mesa", "furniture"},
		},
	})

	summary, err := ImportExcel(context.Background(), store.NewMemoryStore(), wb, ImportOptions{})
	require.Error(t, err)
	require.Len(t, summary.Sheets, 1)
	assert.Equal(t, 1, summary.Errors)
	sample := summary.Sheets[0].Samples[0]
	assert.Equal(t, 1, sample.Row)
	assert.Equal(t, "missing columns: serialNumber, status", sample.Message)
}

func TestImportExcelStopsAfterMaxErrors(t *testing.T) {
	rows := [][]string{header}
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{"", "", "", "", ""})
		rows[len(rows)-1][4] = "not a date"
	}
	wb := workbook(t, map[string][][]string{"Ativos": rows})

	summary, err := ImportExcel(context.Background(), store.NewMemoryStore(), wb, ImportOptions{MaxErrors: 2})
	require.ErrorIs(t, err, ErrTooManyErrors)
	assert.Equal(t, 3, summary.Errors)
	assert.Len(t, summary.Sheets[0].Samples, 2)
}

func TestImportExcelReadsExportedWorkbook(t *testing.T) {
	ctx := context.Background()
	source := store.NewMemoryStore()
	for _, r := range []asset.Record{
		{Name: "Notebook", SerialNumber: "A-1", Category: asset.CategoryNotebook, Status: asset.StatusInUse, AcquisitionDate: asset.StringPtr("2023-03-10T00:00:00Z")},
		{Name: "Roteador", SerialNumber: "A-2", Category: asset.CategoryNetwork, Status: asset.StatusDisposed},
	} {
		_, err := source.Create(ctx, r)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	rows := listview.New(zap.NewNop()).Visible(listAll(t, source))
	require.NoError(t, listview.ExportXLSX(&buf, rows))

	target := store.NewMemoryStore()
	summary, err := ImportExcel(ctx, target, &buf, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)

	ignoreID := cmpopts.IgnoreFields(asset.Record{}, "ID")
	if diff := cmp.Diff(listAll(t, source), listAll(t, target), ignoreID); diff != "" {
		t.Errorf("round trip mismatch (-source +target):\n%s", diff)
	}
}

func TestImportExcelCustomMapping(t *testing.T) {
	mapping := []byte(`version: 1
sheets: ["Inventario"]
aliases:
  name: ["Equipamento"]
  serialNumber: ["Patrimonio"]
  category: ["Grupo"]
defaults:
  status: available
`)
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, mapping, 0o600))

	st := store.NewMemoryStore()
	wb := workbook(t, map[string][][]string{
		"Inventario": {
			{"Equipamento", "Patrimonio", "Grupo"},
			{"Impressora", "P-100", "Periférico"},
		},
		"Ignorada": {
			{"Equipamento", "Patrimonio", "Grupo"},
			{"Mesa", "P-200", "furniture"},
		},
	})

	summary, err := ImportExcel(context.Background(), st, wb, ImportOptions{MappingPath: path})
	require.NoError(t, err)
	require.Len(t, summary.Sheets, 1)
	assert.Equal(t, "Inventario", summary.Sheets[0].Name)

	records := listAll(t, st)
	require.Len(t, records, 1)
	assert.Equal(t, asset.CategoryPeripheral, records[0].Category)
	assert.Equal(t, asset.StatusAvailable, records[0].Status)
}

func TestImportExcelRejectsGarbage(t *testing.T) {
	_, err := ImportExcel(context.Background(), store.NewMemoryStore(), bytes.NewBufferString("not a workbook"), ImportOptions{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTooManyErrors))
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"default", string(defaultMapping), ""},
		{"bad version", "version: 2\n", "unsupported mapping version 2"},
		{"unknown alias field", "version: 1\naliases:\n  owner: [Dono]\n", `unknown field "owner"`},
		{"unknown default field", "version: 1\ndefaults:\n  owner: x\n", `unknown default field "owner"`},
		{"not yaml", "version: [", "decode mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMapping([]byte(tt.data))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			field, ok := m.fieldFor(" número de série ")
			assert.True(t, ok)
			assert.Equal(t, asset.FieldSerialNumber, field)
		})
	}
}
