// Package api wraps the MediTrack REST backend. Every method issues exactly
// one HTTP call and returns the parsed response or an *APIError; there are
// no retries, no caching and no request batching. Idempotency of update and
// delete is the server's responsibility.
package api

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meditrack/meditrack/internal/domain/records"
)

const basePath = "/api/v1"

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// do issues one request. A non-nil out is filled from the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + basePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &APIError{Message: "could not reach the server"}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("read response")
		return &APIError{Status: resp.StatusCode, Message: "could not read server response"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: serverMessage(data, resp.StatusCode)}
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("server error")
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// -- Prescriptions --

func (c *Client) List(ctx context.Context) ([]records.Prescription, error) {
	var out []records.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescription", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int) (*records.Prescription, error) {
	var out records.Prescription
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prescription/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, p records.Prescription) (*records.Prescription, error) {
	var out records.Prescription
	if err := c.do(ctx, http.MethodPost, "/prescription", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int, p records.Prescription) (*records.Prescription, error) {
	var out records.Prescription
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/prescription/%d", id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/prescription/%d", id), nil, nil, nil)
}

func (c *Client) ListByDate(ctx context.Context, start, end string) ([]records.Prescription, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var out []records.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescription/by-date", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListByName(ctx context.Context, name string) ([]records.Prescription, error) {
	q := url.Values{"name": {name}}
	var out []records.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescription/by-name", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListByGender(ctx context.Context, gender string) ([]records.Prescription, error) {
	q := url.Values{"gender": {gender}}
	var out []records.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescription/by-gender", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DayWiseReport(ctx context.Context, start, end string) ([]records.DayWiseCount, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var out []records.DayWiseCount
	if err := c.do(ctx, http.MethodGet, "/prescription/daywise-report", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByDate removes every prescription inside the range on the server.
func (c *Client) DeleteByDate(ctx context.Context, start, end string) error {
	q := url.Values{"start": {start}, "end": {end}}
	return c.do(ctx, http.MethodDelete, "/prescription/by-date", q, nil, nil)
}

// -- History --

func (c *Client) ListHistory(ctx context.Context) ([]records.History, error) {
	var out []records.History
	if err := c.do(ctx, http.MethodGet, "/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) HistoryByName(ctx context.Context, name string) ([]records.History, error) {
	q := url.Values{"name": {name}}
	var out []records.History
	if err := c.do(ctx, http.MethodGet, "/history/by-name", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) HistoryByDate(ctx context.Context, start, end string) ([]records.History, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var out []records.History
	if err := c.do(ctx, http.MethodGet, "/history/by-date", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Archive posts the full prescription body to the history collection. The
// caller must not drop the record from any local set until this returns nil.
func (c *Client) Archive(ctx context.Context, p records.Prescription) (*records.History, error) {
	var out records.History
	if err := c.do(ctx, http.MethodPost, "/history", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -- Auth --

// Login exchanges credentials for a session payload. The payload is opaque
// to the client and stored verbatim as the session marker.
func (c *Client) Login(ctx context.Context, username, password string) (json.RawMessage, error) {
	body := map[string]string{"username": username, "password": password}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
