package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"assets-manager/internal"
	"assets-manager/internal/asset"
	"assets-manager/internal/config"
	"assets-manager/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// newBackend starts the real API over an in-memory store.
func newBackend(t *testing.T) *Client {
	t.Helper()
	srv := internal.NewServer(store.NewMemoryStore(), &config.Config{Store: config.StoreMemory}, zap.NewNop())
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return New(ts.URL, WithLogger(zaptest.NewLogger(t)))
}

func laptop() asset.Record {
	return asset.Record{
		Name:            "Laptop",
		SerialNumber:    "SN-001",
		Category:        asset.CategoryNotebook,
		Status:          asset.StatusAvailable,
		AcquisitionDate: asset.StringPtr("2025-01-15T03:00:00Z"),
	}
}

func TestListEmpty(t *testing.T) {
	c := newBackend(t)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newBackend(t)

	created, err := c.Create(ctx, laptop())
	require.NoError(t, err)
	require.NotNil(t, created.ID)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	if diff := cmp.Diff(laptop().WithID(*created.ID), list[0]); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	got, err := c.Get(ctx, *created.ID)
	require.NoError(t, err)
	assert.Equal(t, list[0], got)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	c := newBackend(t)

	created, err := c.Create(ctx, laptop())
	require.NoError(t, err)
	id := *created.ID

	changed := created
	changed.Status = asset.StatusMaintenance
	changed.AcquisitionDate = nil
	updated, err := c.Update(ctx, id, changed)
	require.NoError(t, err)
	assert.Equal(t, changed, updated)

	require.NoError(t, c.Delete(ctx, id))
	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = c.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreateNeverSendsID(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":5,"name":"Laptop","serialNumber":"SN-001","category":"notebook","status":"available","acquisitionDate":null}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	r := laptop().WithID(42)
	got, err := c.Create(context.Background(), r)
	require.NoError(t, err)

	assert.NotContains(t, body, "id")
	assert.Equal(t, "SN-001", body["serialNumber"])
	assert.Equal(t, int64(5), *got.ID)
	assert.Equal(t, int64(42), *r.ID, "caller's record is not modified")
}

func TestValidationErrorsAreDecoded(t *testing.T) {
	c := newBackend(t)
	bad := laptop()
	bad.Name = "Laptop 9"

	_, err := c.Create(context.Background(), bad)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, asset.MsgNameDigits, apiErr.Fields[asset.FieldName])
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := New(ts.URL).List(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "list asset: status 500", err.Error())
}

func TestUndecodableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer ts.Close()

	_, err := New(ts.URL).List(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).List(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.StatusCode)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestCanceledContext(t *testing.T) {
	c := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
