package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"assets-manager/internal/asset"
	"assets-manager/internal/store"

	"github.com/go-chi/chi/v5"
)

var errInvalidID = errors.New("invalid id")

// parseID reads the {id} URL parameter; only positive integers are accepted.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// parseListFilter parses the optional status and q query parameters.
// status accepts an enumeration key or its display label.
func parseListFilter(r *http.Request) (store.Filter, error) {
	values := r.URL.Query()

	var f store.Filter
	if s := strings.TrimSpace(values.Get("status")); s != "" {
		st, ok := asset.ParseStatus(s)
		if !ok {
			return store.Filter{}, fmt.Errorf("invalid status %q", s)
		}
		f.Status = st
	}
	f.Query = strings.TrimSpace(values.Get("q"))
	return f, nil
}
