// Package store persists asset records for the REST backend.
package store

import (
	"context"
	"errors"
	"strings"

	"assets-manager/internal/asset"
)

var (
	ErrNotFound        = errors.New("asset not found")
	ErrDuplicateSerial = errors.New("an asset with this serial number already exists")
)

// Filter narrows a listing. The zero value matches every record.
type Filter struct {
	Status asset.Status
	Query  string
}

// Store is the persistence boundary behind the /assets endpoints.
// Records passed to Create and Update are expected to be validated already.
type Store interface {
	List(ctx context.Context, f Filter) ([]asset.Record, error)
	Get(ctx context.Context, id int64) (asset.Record, error)
	Create(ctx context.Context, r asset.Record) (asset.Record, error)
	Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

func (f Filter) matches(r asset.Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.SerialNumber), q)
}
