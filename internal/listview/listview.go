// Package listview projects asset records into display rows and applies the
// client-side status filter and quick search.
package listview

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"assets-manager/internal/asset"

	"go.uber.org/zap"
)

// PageSize is the number of rows shown per page.
const PageSize = 5

// Row is the display form of one record.
type Row struct {
	ID           int64
	Name         string
	SerialNumber string
	CategoryKey  asset.Category
	Category     string
	StatusKey    asset.Status
	Status       string
	Severity     asset.Severity
	AcquiredOn   string
}

// cells returns the searchable text of the row.
func (r Row) cells() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.SerialNumber,
		string(r.CategoryKey),
		r.Category,
		string(r.StatusKey),
		r.Status,
		r.AcquiredOn,
	}
}

// StatusFilter is either AllStatuses or one asset status.
type StatusFilter string

const AllStatuses StatusFilter = "all"

// ParseStatusFilter accepts "all" (or "") and any status key or label.
func ParseStatusFilter(v string) (StatusFilter, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, string(AllStatuses)) {
		return AllStatuses, nil
	}
	s, ok := asset.ParseStatus(v)
	if !ok {
		return "", fmt.Errorf("unknown status filter %q", v)
	}
	return StatusFilter(s), nil
}

func (f StatusFilter) allows(s asset.Status) bool {
	return f == "" || f == AllStatuses || asset.Status(f) == s
}

// View holds the filter state and the row intents. Intents only notify the
// owner; the view never mutates records.
type View struct {
	OnEdit   func(asset.Record)
	OnDelete func(id int64)

	mu     sync.RWMutex
	status StatusFilter
	terms  []string
	log    *zap.Logger
}

func New(log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{status: AllStatuses, log: log}
}

func (v *View) SetStatusFilter(f StatusFilter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = f
}

// SetQuery replaces the quick search. Terms are split on whitespace.
func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.terms = strings.Fields(strings.ToLower(q))
}

func (v *View) StatusFilter() StatusFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

// Project renders every record.
func (v *View) Project(records []asset.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, v.project(r))
	}
	return rows
}

// Visible renders the records that pass both the quick search and the status filter.
func (v *View) Visible(records []asset.Record) []Row {
	v.mu.RLock()
	status, terms := v.status, v.terms
	v.mu.RUnlock()

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := v.project(r)
		if status.allows(row.StatusKey) && matchesAll(row, terms) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (v *View) project(r asset.Record) Row {
	row := Row{
		ID:           r.IDValue(),
		Name:         r.Name,
		SerialNumber: r.SerialNumber,
		CategoryKey:  r.Category,
		Category:     string(r.Category),
		StatusKey:    r.Status,
		Status:       string(r.Status),
		AcquiredOn:   asset.FormatDate(r.AcquisitionDate),
	}
	if label, ok := asset.CategoryLabel(r.Category); ok {
		row.Category = label
	} else {
		v.log.Warn("unknown asset category", zap.Int64("id", row.ID), zap.String("category", string(r.Category)))
	}
	if d, ok := asset.StatusLabel(r.Status); ok {
		row.Status = d.Label
		row.Severity = d.Severity
	} else {
		v.log.Warn("unknown asset status", zap.Int64("id", row.ID), zap.String("status", string(r.Status)))
	}
	return row
}

// Edit emits a copy of the record with the given id to OnEdit.
func (v *View) Edit(records []asset.Record, id int64) bool {
	for _, r := range records {
		if r.Persisted() && *r.ID == id {
			if v.OnEdit != nil {
				v.OnEdit(r.Clone())
			}
			return true
		}
	}
	return false
}

// Delete emits id to OnDelete.
func (v *View) Delete(id int64) {
	if v.OnDelete != nil {
		v.OnDelete(id)
	}
}

func matchesAll(row Row, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	cells := row.cells()
	for i := range cells {
		cells[i] = strings.ToLower(cells[i])
	}
	for _, term := range terms {
		found := false
		for _, c := range cells {
			if strings.Contains(c, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Page returns the n-th page (1-based) of rows and the page count. n is
// clamped into range; an empty input has one empty page.
func Page(rows []Row, n int) ([]Row, int) {
	pages := (len(rows) + PageSize - 1) / PageSize
	if pages == 0 {
		return []Row{}, 1
	}
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}
	start := (n - 1) * PageSize
	end := min(start+PageSize, len(rows))
	return rows[start:end], pages
}
