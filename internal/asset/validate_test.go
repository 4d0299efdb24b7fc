package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:         "Laptop X",
		SerialNumber: "SN-001",
		Category:     "notebook",
		Status:       "available",
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "empty", value: "", wantErr: MsgNameRequired},
		{name: "only spaces", value: "   \t", wantErr: MsgNameRequired},
		{name: "ascii digit", value: "Laptop X1", wantErr: MsgNameDigits},
		{name: "leading digit", value: "1 Monitor", wantErr: MsgNameDigits},
		{name: "arabic-indic digit", value: "Monitor ٣", wantErr: MsgNameDigits},
		{name: "plain", value: "Monitor Dell", wantErr: ""},
		{name: "accents and punctuation", value: "Cadeira ergonômica - sala B", wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Name = tt.value
			_, fe := Validate(in)
			if tt.wantErr == "" {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, tt.wantErr, fe[FieldName])
			assert.Len(t, fe, 1)
		})
	}
}

func TestValidateTrimsNameAndSerial(t *testing.T) {
	in := validInput()
	in.Name = "  Monitor  "
	in.SerialNumber = "\tSN-9 "

	rec, fe := Validate(in)
	require.Nil(t, fe)
	assert.Equal(t, "Monitor", rec.Name)
	assert.Equal(t, "SN-9", rec.SerialNumber)
}

func TestValidateSerialNumber(t *testing.T) {
	in := validInput()
	in.SerialNumber = "   "

	_, fe := Validate(in)
	require.NotNil(t, fe)
	assert.Equal(t, MsgSerialRequired, fe[FieldSerialNumber])
}

func TestValidateEnumerations(t *testing.T) {
	for _, c := range Categories() {
		in := validInput()
		in.Category = string(c)
		_, fe := Validate(in)
		assert.Nil(t, fe, "category %s", c)
	}
	for _, s := range Statuses() {
		in := validInput()
		in.Status = string(s)
		_, fe := Validate(in)
		assert.Nil(t, fe, "status %s", s)
	}

	tests := []struct {
		name     string
		category string
		status   string
	}{
		{name: "missing both", category: "", status: ""},
		{name: "unknown values", category: "laptop", status: "lost"},
		{name: "display labels are not keys", category: "Computador", status: "Em uso"},
		{name: "wrong case", category: "Monitor", status: "IN_USE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Category = tt.category
			in.Status = tt.status
			_, fe := Validate(in)
			require.NotNil(t, fe)
			assert.Equal(t, MsgCategoryRequired, fe[FieldCategory])
			assert.Equal(t, MsgStatusRequired, fe[FieldStatus])
			assert.False(t, fe.Has(FieldName))
		})
	}
}

func TestValidateReportsEveryInvalidField(t *testing.T) {
	_, fe := Validate(Input{Name: "", SerialNumber: "SN-1", Category: "", Status: ""})

	require.NotNil(t, fe)
	assert.Equal(t, FieldErrors{
		FieldName:     MsgNameRequired,
		FieldCategory: MsgCategoryRequired,
		FieldStatus:   MsgStatusRequired,
	}, fe)
	assert.False(t, fe.Has(FieldSerialNumber))
}

func TestValidateAcquisitionDate(t *testing.T) {
	tests := []struct {
		name    string
		value   *string
		want    *string
		invalid bool
	}{
		{name: "absent", value: nil, want: nil},
		{name: "blank is absent", value: StringPtr("  "), want: nil},
		{name: "browser timestamp", value: StringPtr("2025-01-15T03:00:00.000Z"), want: StringPtr("2025-01-15T03:00:00Z")},
		{name: "offset timestamp", value: StringPtr("2025-01-15T00:00:00-03:00"), want: StringPtr("2025-01-15T03:00:00Z")},
		{name: "calendar date", value: StringPtr("2024-12-31"), want: StringPtr("2024-12-31T00:00:00Z")},
		{name: "display format is rejected", value: StringPtr("15/01/2025"), invalid: true},
		{name: "garbage", value: StringPtr("yesterday"), invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.AcquisitionDate = tt.value
			rec, fe := Validate(in)
			if tt.invalid {
				require.NotNil(t, fe)
				assert.Equal(t, MsgDateInvalid, fe[FieldAcquisitionDate])
				return
			}
			require.Nil(t, fe)
			assert.Equal(t, tt.want, rec.AcquisitionDate)
		})
	}
}

func TestValidateDoesNotTouchInput(t *testing.T) {
	date := " 2024-01-01 "
	in := validInput()
	in.Name = " Monitor "
	in.AcquisitionDate = &date

	_, fe := Validate(in)
	require.Nil(t, fe)
	assert.Equal(t, " Monitor ", in.Name)
	assert.Equal(t, " 2024-01-01 ", date)
}

func TestValidateRecordKeepsID(t *testing.T) {
	rec := Record{ID: Int64Ptr(7), Name: "Mesa", SerialNumber: "M-1", Category: CategoryFurniture, Status: StatusInUse}

	out, fe := ValidateRecord(rec)
	require.Nil(t, fe)
	require.NotNil(t, out.ID)
	assert.Equal(t, int64(7), *out.ID)
	assert.NotSame(t, rec.ID, out.ID)
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := FieldErrors{FieldStatus: MsgStatusRequired, FieldName: MsgNameRequired}
	assert.Equal(t, "invalid asset: name: Nome é obrigatório; status: Status é obrigatório", fe.Error())
}
