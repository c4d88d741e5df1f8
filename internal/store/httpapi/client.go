// Package httpapi talks to the REST finance backend that owns the records.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 512

// Client is a store.Store backed by the REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

var _ store.Store = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func createPath(kind model.Kind) string {
	if kind == model.KindExpenses {
		return "/expenses/add/"
	}
	return "/income/add/"
}

func listPath(kind model.Kind, user string) string {
	collection := "incomes"
	if kind == model.KindExpenses {
		collection = "expenses"
	}
	return "/" + collection + "/" + url.PathEscape(user) + "/"
}

// Create posts rec to the kind's add endpoint.
func (c *Client) Create(ctx context.Context, who session.Identity, rec model.Record) (model.Record, error) {
	if err := store.Authorize(who, rec.Owner); err != nil {
		return model.Record{}, err
	}
	body, err := json.Marshal(rec.Entry())
	if err != nil {
		return model.Record{}, fmt.Errorf("encoding record: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, createPath(rec.Kind), who.Token, body)
	if err != nil {
		return model.Record{}, &store.UpstreamError{Op: log.OpCreate, Kind: rec.Kind, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, log.OpCreate, rec.Kind); err != nil {
		c.logger.Warn("create rejected", log.FieldKind, string(rec.Kind), log.FieldStatusCode, resp.StatusCode)
		return model.Record{}, err
	}
	io.Copy(io.Discard, resp.Body)
	return rec, nil
}

// List fetches the user's entries of kind.
func (c *Client) List(ctx context.Context, who session.Identity, kind model.Kind) ([]model.Entry, error) {
	if err := store.Authorize(who, ""); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodGet, listPath(kind, who.UserID), who.Token, nil)
	if err != nil {
		return nil, &store.UpstreamError{Op: log.OpList, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, log.OpList, kind); err != nil {
		c.logger.Warn("list rejected", log.FieldKind, string(kind), log.FieldStatusCode, resp.StatusCode)
		return nil, err
	}

	var entries []model.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &store.UpstreamError{Op: log.OpList, Kind: kind, Status: resp.StatusCode, Reason: "malformed payload", Err: err}
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func checkStatus(resp *http.Response, op string, kind model.Kind) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	ue := &store.UpstreamError{
		Op:     op,
		Kind:   kind,
		Status: resp.StatusCode,
		Reason: strings.TrimSpace(string(snippet)),
	}
	if resp.StatusCode == http.StatusUnauthorized {
		ue.Err = store.ErrUnauthorized
	}
	return ue
}
