// Package store is the client side of the remote orders table: a
// resource-oriented REST API in the PostgREST dialect, reached with a static
// API key. The table is the only shared mutable resource in the system;
// writes are last-write-wins with no version check.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"parcelTrackingManagement/models"
)

const requestTimeout = 5 * time.Second

// Client talks to the remote store. All methods classify failures as either
// ErrNotFound (valid request, no row) or *TransportError (everything else);
// nothing is swallowed into a silent empty result.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	log     *logrus.Logger
	now     func() time.Time
}

// New creates a store client for the given project base URL and API key.
func New(baseURL, apiKey string, log *logrus.Logger) *Client {
	st := gobreaker.Settings{
		Name:        "OrderStore",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("CircuitBreaker[%s] state changed from %s to %s", name, from, to)
		},
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		cb:      gobreaker.NewCircuitBreaker(st),
		log:     log,
		now:     time.Now,
	}
}

// FetchAll returns every order, newest first.
func (c *Client) FetchAll(ctx context.Context) ([]models.Order, error) {
	rows, err := c.getRows(ctx, "order=updated_at.desc")
	observe("fetch_all", err)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Order())
	}
	return out, nil
}

// FetchByCode looks up one order by its tracking code. The code is normalized
// (trimmed, uppercased) before the lookup; the remote comparison itself is
// exact and case-sensitive.
func (c *Client) FetchByCode(ctx context.Context, code string) (*models.Order, error) {
	o, err := c.fetchByCode(ctx, code)
	observe("fetch_by_code", err)
	return o, err
}

func (c *Client) fetchByCode(ctx context.Context, code string) (*models.Order, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		return nil, ErrNotFound
	}
	rows, err := c.getRows(ctx, "order_code=eq."+url.QueryEscape(code))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	o := rows[0].Order()
	return &o, nil
}

// Upsert reconciles an order with the store keyed by its tracking code: an
// existing row with the same code is patched in place (the incoming id is
// discarded), otherwise a new row is inserted. updated_at is stamped with the
// time of this call, overwriting whatever the caller supplied.
//
// Two concurrent upserts with a brand-new code can insert two rows; the
// contract offers no atomic insert-if-absent. Known limitation.
func (c *Client) Upsert(ctx context.Context, o models.Order) (*models.Order, error) {
	out, err := c.upsert(ctx, o)
	observe("upsert", err)
	return out, err
}

func (c *Client) upsert(ctx context.Context, o models.Order) (*models.Order, error) {
	o.OrderCode = models.NormalizeCode(o.OrderCode)
	if o.OrderCode == "" {
		return nil, errors.New("order code is required")
	}
	row := RowFromOrder(o, c.now())

	existing, err := c.getRows(ctx, "order_code=eq."+url.QueryEscape(o.OrderCode))
	if err != nil {
		return nil, err
	}

	var written []Row
	if len(existing) > 0 {
		// The code, not the id, is the external identity key: patch the row
		// that already owns this code regardless of the incoming id.
		row.ID = ""
		written, err = c.write(ctx, http.MethodPatch, "orders", "id=eq."+url.QueryEscape(existing[0].ID), row)
	} else {
		written, err = c.write(ctx, http.MethodPost, "orders", "", row)
	}
	if err != nil {
		return nil, err
	}
	if len(written) == 0 {
		return nil, &TransportError{Op: "upsert", Err: errors.New("store returned no representation")}
	}
	res := written[0].Order()
	return &res, nil
}

// Delete removes an order by its internal id. Resolving a tracking code to an
// id requires a prior FetchByCode.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "orders", "id=eq."+url.QueryEscape(id), nil)
	observe("delete", err)
	return err
}

// FetchNotifications returns the polled notification rows, newest first.
func (c *Client) FetchNotifications(ctx context.Context) ([]models.AppNotification, error) {
	body, err := c.do(ctx, http.MethodGet, "notifications", "order=timestamp.desc", nil)
	observe("fetch_notifications", err)
	if err != nil {
		return nil, err
	}
	var rows []NotificationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &TransportError{Op: "fetch_notifications", Err: errors.Wrap(err, "decode response")}
	}
	out := make([]models.AppNotification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Notification())
	}
	return out, nil
}

func (c *Client) getRows(ctx context.Context, query string) ([]Row, error) {
	body, err := c.do(ctx, http.MethodGet, "orders", query, nil)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &TransportError{Op: "get orders", Err: errors.Wrap(err, "decode response")}
	}
	return rows, nil
}

func (c *Client) write(ctx context.Context, method, table, query string, row Row) ([]Row, error) {
	body, err := c.do(ctx, method, table, query, row)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &TransportError{Op: "write " + table, Err: errors.Wrap(err, "decode response")}
	}
	return rows, nil
}

// do performs one request through the circuit breaker with a per-call timeout.
// Non-2xx responses and network errors surface as *TransportError and count
// against the breaker.
func (c *Client) do(ctx context.Context, method, table, query string, payload any) ([]byte, error) {
	op := method + " " + table

	u := c.baseURL + "/rest/v1/" + table
	if query != "" {
		u += "?" + query
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Op: op, Err: errors.Wrap(err, "encode request")}
		}
		reqBody = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, errors.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
		}
		return body, nil
	})
	if err != nil {
		c.log.WithFields(logrus.Fields{"op": op, "url": u}).WithError(err).Warn("store request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	return res.([]byte), nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
