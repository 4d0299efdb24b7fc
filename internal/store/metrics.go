package store

import (
	"context"
	"errors"

	"assets-manager/internal/asset"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumented counts store operations by outcome.
type instrumented struct {
	next Store
	ops  *prometheus.CounterVec
}

// WithMetrics wraps s so that every operation increments
// assets_store_operations_total{op,result} on reg.
func WithMetrics(s Store, reg prometheus.Registerer) Store {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assets_store_operations_total",
			Help: "Asset store operations by outcome",
		},
		[]string{"op", "result"},
	)
	reg.MustRegister(ops)
	return &instrumented{next: s, ops: ops}
}

func (i *instrumented) observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrDuplicateSerial):
		result = "conflict"
	default:
		result = "error"
	}
	i.ops.WithLabelValues(op, result).Inc()
}

func (i *instrumented) List(ctx context.Context, f Filter) ([]asset.Record, error) {
	out, err := i.next.List(ctx, f)
	i.observe("list", err)
	return out, err
}

func (i *instrumented) Get(ctx context.Context, id int64) (asset.Record, error) {
	out, err := i.next.Get(ctx, id)
	i.observe("get", err)
	return out, err
}

func (i *instrumented) Create(ctx context.Context, r asset.Record) (asset.Record, error) {
	out, err := i.next.Create(ctx, r)
	i.observe("create", err)
	return out, err
}

func (i *instrumented) Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error) {
	out, err := i.next.Update(ctx, id, r)
	i.observe("update", err)
	return out, err
}

func (i *instrumented) Delete(ctx context.Context, id int64) error {
	err := i.next.Delete(ctx, id)
	i.observe("delete", err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
