// Package transport talks to the Tracekit backend: an HTTP client for
// breakpoint listing, auto-registration, and snapshot submission, and
// an optional websocket channel for live breakpoint updates.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tracekit/agent-go/pkg/breakpoint"
	"github.com/tracekit/agent-go/pkg/snapshot"
)

const (
	// Version is the SDK version reported to the backend.
	Version   = "1.0.0"
	userAgent = "tracekit-go-sdk/" + Version

	connectTimeout = 5 * time.Second
	requestTimeout = 10 * time.Second
)

// Client is the HTTP client for the snapshot backend. All calls carry
// the service API key and bounded connect/overall timeouts; it is safe
// for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	serviceName string
	http        *http.Client
}

// NewClient creates a backend client. baseURL is the API root without a
// trailing slash.
func NewClient(baseURL, apiKey, serviceName string) *Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		serviceName: serviceName,
		http: &http.Client{
			Timeout:   requestTimeout,
			Transport: &http.Transport{DialContext: dialer.DialContext},
		},
	}
}

type breakpointsResponse struct {
	Breakpoints []breakpoint.Config `json:"breakpoints"`
}

// FetchBreakpoints returns the active breakpoint configs for this
// service.
func (c *Client) FetchBreakpoints(ctx context.Context) ([]breakpoint.Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/sdk/snapshots/active/"+c.serviceName, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch breakpoints: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch breakpoints: HTTP %d", resp.StatusCode)
	}

	var parsed breakpointsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse breakpoints response: %w", err)
	}
	return parsed.Breakpoints, nil
}

// RegisterBreakpoint submits an auto-registration. A nil error means
// the backend accepted it with 200 or 201.
func (c *Client) RegisterBreakpoint(ctx context.Context, reg breakpoint.Registration) error {
	return c.postJSON(ctx, "/sdk/snapshots/auto-register", reg)
}

// SubmitSnapshot sends a captured snapshot to the backend.
func (c *Client) SubmitSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	return c.postJSON(ctx, "/sdk/snapshots/capture", snap)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s: HTTP %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)
}

// drain discards the remaining body so the connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
