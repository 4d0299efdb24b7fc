package client

import (
	"errors"
	"fmt"
	"net/http"

	"assets-manager/internal/asset"
)

// ErrNotFound matches, via errors.Is, any *Error for a 404 answer.
var ErrNotFound = errors.New("asset not found")

type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindServer means the server answered with a non-2xx status
	// or a body that could not be decoded.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation that fails.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	// Fields holds per-field messages when the server rejected the record.
	Fields asset.FieldErrors
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork:
		return fmt.Sprintf("%s asset: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s asset: status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s asset: status %d", e.Op, e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
