// Package client talks to the assets REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"assets-manager/internal/asset"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=client.go -destination=mock/repository.go -package=mock

// Repository is the set of remote operations the front end depends on.
type Repository interface {
	List(ctx context.Context) ([]asset.Record, error)
	Create(ctx context.Context, r asset.Record) (asset.Record, error)
	Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error)
	Delete(ctx context.Context, id int64) error
}

type Client struct {
	http *resty.Client
	log  *zap.Logger
}

var _ Repository = (*Client)(nil)

type Option func(*Client)

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient swaps the underlying *http.Client. It must come before
// WithTimeout in the option list.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = newResty(resty.NewWithClient(hc), c.http.BaseURL)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: newResty(resty.New(), strings.TrimRight(baseURL, "/")),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]asset.Record, error) {
	res, err := c.do(ctx, "list", http.MethodGet, "/assets", nil)
	if err != nil {
		return nil, err
	}
	out := []asset.Record{}
	if err := decode(res, &out); err != nil {
		return nil, &Error{Op: "list", Kind: KindServer, StatusCode: res.StatusCode(), Err: err}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (asset.Record, error) {
	return c.record(ctx, "get", http.MethodGet, pathFor(id), nil)
}

// Create posts r without its id; the server assigns one.
func (c *Client) Create(ctx context.Context, r asset.Record) (asset.Record, error) {
	return c.record(ctx, "create", http.MethodPost, "/assets", r.WithoutID())
}

// Update replaces the record stored under id with r.
func (c *Client) Update(ctx context.Context, id int64, r asset.Record) (asset.Record, error) {
	return c.record(ctx, "update", http.MethodPut, pathFor(id), r.WithID(id))
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, pathFor(id), nil)
	return err
}

func (c *Client) record(ctx context.Context, op, method, path string, body any) (asset.Record, error) {
	res, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return asset.Record{}, err
	}
	var out asset.Record
	if err := decode(res, &out); err != nil {
		return asset.Record{}, &Error{Op: op, Kind: KindServer, StatusCode: res.StatusCode(), Err: err}
	}
	return out, nil
}

// do sends one request and turns transport failures and non-2xx answers
// into *Error.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (*resty.Response, error) {
	start := time.Now()
	reqID := uuid.NewString()

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		c.log.Debug("asset api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}

	c.log.Debug("asset api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode()),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() >= 300 {
		e := &Error{Op: op, Kind: KindServer, StatusCode: res.StatusCode()}
		var body struct {
			Errors asset.FieldErrors `json:"errors"`
		}
		if json.Unmarshal(res.Body(), &body) == nil && len(body.Errors) > 0 {
			e.Fields = body.Errors
		}
		return nil, e
	}
	return res, nil
}

func newResty(rc *resty.Client, baseURL string) *resty.Client {
	return rc.SetBaseURL(baseURL).SetHeader("Accept", "application/json")
}

func decode(res *resty.Response, v any) error {
	if err := json.Unmarshal(res.Body(), v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func pathFor(id int64) string {
	return "/assets/" + strconv.FormatInt(id, 10)
}
