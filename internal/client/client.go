// Package client is the HTTP client for the procurement backend. It knows the
// base URL and the four endpoints; it holds no state of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"procurement/internal/app/dto"

	"github.com/sirupsen/logrus"
)

// ErrRequestFailed wraps every failure: transport errors, non-2xx answers and
// undecodable bodies alike.
var ErrRequestFailed = errors.New("request failed")

// HTTPError is a non-2xx answer. The status is kept for diagnostics only.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error { return ErrRequestFailed }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRequests fetches every persisted request.
func (c *Client) ListRequests(ctx context.Context) ([]dto.RequestResponse, error) {
	var out []dto.RequestResponse
	if err := c.Get(ctx, "/requests/", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []dto.RequestResponse{}
	}
	return out, nil
}

// CreateRequest submits a draft as-is.
func (c *Client) CreateRequest(ctx context.Context, req dto.ProcurementRequest) (dto.RequestResponse, error) {
	var out dto.RequestResponse
	err := c.Post(ctx, "/requests/", req, &out)
	return out, err
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status dto.Status) error {
	path := "/requests/" + strconv.FormatInt(id, 10) + "/status"
	return c.Put(ctx, path, dto.StatusUpdateRequest{Status: string(status)}, nil)
}

// Extract uploads a document and returns the extracted draft. Missing fields
// come back as zero values; order_lines may be nil.
func (c *Client) Extract(ctx context.Context, filename string, r io.Reader) (dto.ProcurementRequest, error) {
	var out dto.ProcurementRequest
	err := c.PostFile(ctx, "/extract", "file", filename, r, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode body: %w", ErrRequestFailed, err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode body: %w", ErrRequestFailed, err)
	}
	return c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(payload), out)
}

// PostFile sends r as a single multipart file field.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("%w: build form: %w", ErrRequestFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrRequestFailed, filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%w: build form: %w", ErrRequestFailed, err)
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("client: %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %w", ErrRequestFailed, method, path, err)
	}
	return nil
}

// errorMessage pulls the message out of the backend's error envelope, falling
// back to the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var envelope dto.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(raw))
}
