package asset

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Input is the raw content of the asset form. A null form value arrives as
// the empty string, except for the optional date which is nil.
type Input struct {
	Name            string  `json:"name" validate:"required,nodigits"`
	SerialNumber    string  `json:"serialNumber" validate:"required"`
	Category        string  `json:"category" validate:"required,category"`
	Status          string  `json:"status" validate:"required,status"`
	AcquisitionDate *string `json:"acquisitionDate" validate:"omitempty,isodate"`
}

const (
	MsgNameRequired     = "Nome é obrigatório"
	MsgNameDigits       = "O campo não pode conter números"
	MsgSerialRequired   = "Serial é obrigatório"
	MsgCategoryRequired = "Categoria é obrigatória"
	MsgStatusRequired   = "Status é obrigatório"
	MsgDateInvalid      = "Data de aquisição inválida"
	MsgSerialTaken      = "Serial já cadastrado"
)

// Field names as they appear in FieldErrors and on the wire.
const (
	FieldName            = "name"
	FieldSerialNumber    = "serialNumber"
	FieldCategory        = "category"
	FieldStatus          = "status"
	FieldAcquisitionDate = "acquisitionDate"
)

// messages maps "<field>_<tag>" to the message shown next to the field.
// Fields without a tag specific entry fall back to "<field>".
var messages = map[string]string{
	FieldName + "_required": MsgNameRequired,
	FieldName + "_nodigits": MsgNameDigits,
	FieldSerialNumber:       MsgSerialRequired,
	FieldCategory:           MsgCategoryRequired,
	FieldStatus:             MsgStatusRequired,
	FieldAcquisitionDate:    MsgDateInvalid,
}

// FieldErrors maps a field name to the message describing why it is invalid.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "invalid asset: " + strings.Join(parts, "; ")
}

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"nodigits": func(fl validator.FieldLevel) bool {
			return !containsDigit(fl.Field().String())
		},
		"category": func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		},
		"status": func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		},
		"isodate": func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("asset: register validation " + tag + ": " + err.Error())
		}
	}
	return v
}

// Validate checks raw form input and returns the record it describes. Every
// field is checked; fe holds one message per invalid field and is nil when
// the input is valid. Validate has no side effects.
func Validate(in Input) (Record, FieldErrors) {
	in.Name = strings.TrimSpace(in.Name)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.Category = strings.TrimSpace(in.Category)
	in.Status = strings.TrimSpace(in.Status)
	if in.AcquisitionDate != nil {
		d := strings.TrimSpace(*in.AcquisitionDate)
		if d == "" {
			in.AcquisitionDate = nil
		} else {
			in.AcquisitionDate = &d
		}
	}

	if err := validate.Struct(in); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			// Only reachable when Input itself is not a struct.
			panic("asset: " + err.Error())
		}
		fe := FieldErrors{}
		for _, valErr := range valErrs {
			field := valErr.Field()
			if _, seen := fe[field]; seen {
				continue
			}
			fe[field] = messageFor(field, valErr.Tag())
		}
		return Record{}, fe
	}

	rec := Record{
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Category:     Category(in.Category),
		Status:       Status(in.Status),
	}
	if in.AcquisitionDate != nil {
		t, _ := ParseDate(*in.AcquisitionDate)
		rec.AcquisitionDate = StringPtr(NormalizeDate(t))
	}
	return rec, nil
}

// ValidateRecord re-validates a record, e.g. one decoded from a request body.
// The id is carried over untouched.
func ValidateRecord(r Record) (Record, FieldErrors) {
	out, fe := Validate(r.Input())
	if fe != nil {
		return Record{}, fe
	}
	if r.ID != nil {
		out.ID = Int64Ptr(*r.ID)
	}
	return out, nil
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field+"_"+tag]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return strings.TrimSpace(field + " " + tag)
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
