// Package restapi implements secondary.OutpassStore against the hostel
// backend's security-desk REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/outpass/internal/ports/secondary"
)

const basePath = "/api/security"

// Config holds the connection settings for the backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client implements secondary.OutpassStore over HTTP/JSON.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a new REST outpass store.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}, nil
}

// ListApproved retrieves outpasses eligible for departure marking.
func (c *Client) ListApproved(ctx context.Context) ([]*secondary.OutpassRecord, error) {
	var data []wireOutpass
	if err := c.do(ctx, http.MethodGet, "/outpasses/approved", nil, false, &data); err != nil {
		return nil, fmt.Errorf("failed to list approved outpasses: %w", err)
	}
	return toRecords(data), nil
}

// ListActive retrieves outpasses eligible for return marking.
func (c *Client) ListActive(ctx context.Context) ([]*secondary.OutpassRecord, error) {
	var data []wireOutpass
	if err := c.do(ctx, http.MethodGet, "/outpasses/active", nil, false, &data); err != nil {
		return nil, fmt.Errorf("failed to list active outpasses: %w", err)
	}
	return toRecords(data), nil
}

// GetByID retrieves a fresh snapshot of a single outpass.
func (c *Client) GetByID(ctx context.Context, id string) (*secondary.OutpassRecord, error) {
	var data wireOutpass
	if err := c.do(ctx, http.MethodGet, "/outpasses/"+url.PathEscape(id), nil, false, &data); err != nil {
		return nil, fmt.Errorf("failed to get outpass %s: %w", id, err)
	}
	return data.toRecord(), nil
}

// SubmitDeparture marks departure; the backend stamps actualDepartureTime.
func (c *Client) SubmitDeparture(ctx context.Context, req secondary.DepartureSubmission) (*secondary.OutpassRecord, error) {
	body := departureBody{Comments: req.Comments}
	var data wireOutpass
	if err := c.do(ctx, http.MethodPost, "/outpasses/"+url.PathEscape(req.OutpassID)+"/departure", body, true, &data); err != nil {
		return nil, fmt.Errorf("failed to mark departure for %s: %w", req.OutpassID, err)
	}
	return data.toRecord(), nil
}

// SubmitReturn marks return; the backend stamps actualReturnTime.
func (c *Client) SubmitReturn(ctx context.Context, req secondary.ReturnSubmission) (*secondary.OutpassRecord, error) {
	body := returnBody{Comments: req.Comments, LateReturnReason: req.LateReturnReason}
	var data wireOutpass
	if err := c.do(ctx, http.MethodPost, "/outpasses/"+url.PathEscape(req.OutpassID)+"/return", body, true, &data); err != nil {
		return nil, fmt.Errorf("failed to mark return for %s: %w", req.OutpassID, err)
	}
	return data.toRecord(), nil
}

// TodayActivity retrieves today's departures, returns and expected returns.
func (c *Client) TodayActivity(ctx context.Context) (*secondary.ActivityRecord, error) {
	var data wireActivity
	if err := c.do(ctx, http.MethodGet, "/activity/today", nil, false, &data); err != nil {
		return nil, fmt.Errorf("failed to get today's activity: %w", err)
	}
	return &secondary.ActivityRecord{
		Departures:      toRecords(data.Departures),
		Returns:         toRecords(data.Returns),
		ExpectedReturns: toRecords(data.ExpectedReturns),
	}, nil
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body any, idempotent bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotent {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("took", time.Since(start)),
	)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, env.Message)
	}
	if !env.Success {
		if env.Message == "" {
			env.Message = "request was not successful"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// Ensure Client implements the interface
var _ secondary.OutpassStore = (*Client)(nil)
