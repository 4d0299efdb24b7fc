package asset

// Category is the closed set of asset kinds.
type Category string

const (
	CategoryComputer   Category = "computer"
	CategoryNotebook   Category = "notebook"
	CategoryMonitor    Category = "monitor"
	CategoryNetwork    Category = "network"
	CategoryFurniture  Category = "furniture"
	CategoryPeripheral Category = "peripheral"
	CategoryOther      Category = "other"
)

// Status is the closed set of lifecycle states of an asset.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in_use"
	StatusMaintenance Status = "maintenance"
	StatusDisposed    Status = "disposed"
)

// Severity is the visual tag attached to a status when it is displayed.
type Severity string

const (
	SeverityPositive      Severity = "positive"
	SeverityNegative      Severity = "negative"
	SeverityInformational Severity = "informational"
	SeverityCautionary    Severity = "cautionary"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryComputer,
		CategoryNotebook,
		CategoryMonitor,
		CategoryNetwork,
		CategoryFurniture,
		CategoryPeripheral,
		CategoryOther,
	}
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusInUse, StatusMaintenance, StatusDisposed}
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	_, ok := CategoryLabel(c)
	return ok
}

// Valid reports whether s is a member of the enumeration.
func (s Status) Valid() bool {
	_, ok := StatusLabel(s)
	return ok
}

// Record is an asset as persisted by the backend. ID is nil until the
// backend assigns one.
type Record struct {
	ID              *int64   `json:"id,omitempty"`
	Name            string   `json:"name"`
	SerialNumber    string   `json:"serialNumber"`
	Category        Category `json:"category"`
	Status          Status   `json:"status"`
	AcquisitionDate *string  `json:"acquisitionDate"`
}

// Persisted reports whether the record carries a backend-assigned id.
func (r Record) Persisted() bool {
	return r.ID != nil
}

// IDValue returns the id or 0 for a draft.
func (r Record) IDValue() int64 {
	if r.ID == nil {
		return 0
	}
	return *r.ID
}

// Clone returns a deep copy; the pointer fields of the copy never alias r.
func (r Record) Clone() Record {
	out := r
	if r.ID != nil {
		id := *r.ID
		out.ID = &id
	}
	if r.AcquisitionDate != nil {
		d := *r.AcquisitionDate
		out.AcquisitionDate = &d
	}
	return out
}

// WithID returns a copy of r carrying id.
func (r Record) WithID(id int64) Record {
	out := r.Clone()
	out.ID = &id
	return out
}

// WithoutID returns a copy of r with the id cleared, the shape sent on create.
func (r Record) WithoutID() Record {
	out := r.Clone()
	out.ID = nil
	return out
}

// Input converts the record back to raw form input.
func (r Record) Input() Input {
	in := Input{
		Name:         r.Name,
		SerialNumber: r.SerialNumber,
		Category:     string(r.Category),
		Status:       string(r.Status),
	}
	if r.AcquisitionDate != nil {
		d := *r.AcquisitionDate
		in.AcquisitionDate = &d
	}
	return in
}

// Int64Ptr is a convenience for building records with literal ids.
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr is a convenience for building records with literal dates.
func StringPtr(v string) *string {
	return &v
}
