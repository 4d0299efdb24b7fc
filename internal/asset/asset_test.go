package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCategoryHasALabel(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Categories() {
		label, ok := CategoryLabel(c)
		require.True(t, ok, "category %q has no label", c)
		assert.NotEmpty(t, label)
		assert.False(t, seen[label], "label %q used twice", label)
		seen[label] = true
	}
	_, ok := CategoryLabel("laptop")
	assert.False(t, ok)
}

func TestEveryStatusHasADisplay(t *testing.T) {
	want := map[Status]StatusDisplay{
		StatusAvailable:   {Label: "Disponível", Severity: SeverityPositive},
		StatusInUse:       {Label: "Em uso", Severity: SeverityInformational},
		StatusMaintenance: {Label: "Em manutenção", Severity: SeverityCautionary},
		StatusDisposed:    {Label: "Descartado", Severity: SeverityNegative},
	}
	require.Len(t, Statuses(), len(want))
	for _, s := range Statuses() {
		got, ok := StatusLabel(s)
		require.True(t, ok, "status %q has no display", s)
		assert.Equal(t, want[s], got)
	}
	_, ok := StatusLabel("")
	assert.False(t, ok)
}

func TestParseCategoryAndStatus(t *testing.T) {
	c, ok := ParseCategory("Periférico")
	require.True(t, ok)
	assert.Equal(t, CategoryPeripheral, c)

	c, ok = ParseCategory(" NETWORK ")
	require.True(t, ok)
	assert.Equal(t, CategoryNetwork, c)

	s, ok := ParseStatus("em manutenção")
	require.True(t, ok)
	assert.Equal(t, StatusMaintenance, s)

	_, ok = ParseStatus("broken")
	assert.False(t, ok)
}

func TestRecordJSONShape(t *testing.T) {
	draft := Record{Name: "Laptop", SerialNumber: "SN-001", Category: CategoryNotebook, Status: StatusAvailable}

	data, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Laptop","serialNumber":"SN-001","category":"notebook","status":"available","acquisitionDate":null}`, string(data))

	persisted := draft.WithID(3)
	persisted.AcquisitionDate = StringPtr("2025-01-15T03:00:00Z")
	data, err = json.Marshal(persisted)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Laptop","serialNumber":"SN-001","category":"notebook","status":"available","acquisitionDate":"2025-01-15T03:00:00Z"}`, string(data))
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := Record{ID: Int64Ptr(1), Name: "Monitor", AcquisitionDate: StringPtr("2024-01-01T00:00:00Z")}

	cp := orig.Clone()
	*cp.ID = 2
	*cp.AcquisitionDate = "2020-01-01T00:00:00Z"
	cp.Name = "Other"

	assert.Equal(t, int64(1), *orig.ID)
	assert.Equal(t, "2024-01-01T00:00:00Z", *orig.AcquisitionDate)
	assert.Equal(t, "Monitor", orig.Name)
	assert.Nil(t, orig.WithoutID().ID)
}

func TestRecordInputRoundTrip(t *testing.T) {
	rec := Record{ID: Int64Ptr(4), Name: "Switch", SerialNumber: "SW-1", Category: CategoryNetwork, Status: StatusInUse, AcquisitionDate: StringPtr("2023-05-02T00:00:00Z")}

	out, fe := Validate(rec.Input())
	require.Nil(t, fe)
	assert.Equal(t, rec.WithoutID(), out)
}
