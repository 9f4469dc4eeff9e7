package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatectl/internal/config"
	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/route"
	"github.com/gatehouse/gatectl/internal/tokenstore"
	"github.com/gatehouse/gatectl/internal/utils"
)

// RequestIDHeader carries a per-call correlation id
const RequestIDHeader = "X-Request-ID"

// Logger receives debug traces of outgoing requests
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Client represents the portal API client. Every typed call funnels through
// Do, which owns the bearer header, the timeout and the 401 policy.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	timeout   time.Duration
	tokens    tokenstore.Store
	navigator route.Navigator
	tenant    string
	logger    Logger

	mu        sync.Mutex
	onExpired []func()
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithNavigator sets where 401 redirects go
func WithNavigator(nav route.Navigator) Option {
	return func(c *Client) {
		c.navigator = nav
	}
}

// WithTenant scopes the login redirect to a tenant
func WithTenant(slug string) Option {
	return func(c *Client) {
		c.tenant = slug
	}
}

// WithLogger sets the debug logger
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, tokens tokenstore.Store, opts ...Option) *Client {
	if tokens == nil {
		tokens = tokenstore.NewMemoryStore()
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		timeout:    config.DefaultTimeout,
		tokens:     tokens,
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSessionExpired registers fn to run whenever a call is answered with 401
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// Response represents a successful API response
type Response struct {
	StatusCode int
	Data       json.RawMessage
}

// Decode unmarshals the response body into T
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || len(resp.Data) == 0 {
		return out, fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

type requestOptions struct {
	token    string
	skipAuth bool
	headers  http.Header
}

// RequestOption customizes a single call
type RequestOption func(*requestOptions)

// WithToken authenticates the call with token instead of the stored one
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
	}
}

// WithoutAuth sends the call without a bearer header
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.skipAuth = true
	}
}

// WithHeaders sets extra headers, overriding the defaults on conflict
func WithHeaders(h http.Header) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		for k, vs := range h {
			o.headers[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
}

// Multipart is a multipart/form-data body. The content type, including the
// boundary, is set by the encoder.
type Multipart struct {
	Fields map[string]string
	Files  []MultipartFile
}

// MultipartFile is one file part of a Multipart body
type MultipartFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// encodeBody picks the wire encoding from the body type
func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case *Multipart:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// Do executes a request against the portal API
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	ro := requestOptions{}
	for _, opt := range opts {
		opt(&ro)
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !ro.skipAuth {
		token := ro.token
		if token == "" {
			token = c.tokens.Get()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range ro.headers {
		req.Header[k] = vs
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debugf("%s %s failed after %s (request %s): %v", method, path, time.Since(start), requestID, err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	c.logger.Debugf("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.handleUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &utils.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
			Kind:       utils.KindForStatus(resp.StatusCode),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Data: data}, nil
}

// handleUnauthorized evicts the token, notifies listeners and redirects to
// login unless the navigator already shows a login route
func (c *Client) handleUnauthorized() error {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Debugf("failed to clear token: %v", err)
	}

	c.mu.Lock()
	hooks := append([]func(){}, c.onExpired...)
	c.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}

	if c.navigator != nil && !route.IsLogin(c.navigator.Location()) {
		c.navigator.Redirect(route.LoginFor(c.tenant))
	}

	return &utils.APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    ErrSessionExpired.Error(),
		Kind:       utils.KindAuth,
		Err:        ErrSessionExpired,
	}
}

func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &utils.APIError{
			Message: ErrTimeout.Error(),
			Kind:    utils.KindTimeout,
			Err:     fmt.Errorf("%w: %w", ErrTimeout, err),
		}
	}
	return &utils.APIError{
		Message: ErrTransport.Error(),
		Kind:    utils.KindTransport,
		Err:     fmt.Errorf("%w: %w", ErrTransport, err),
	}
}

// errorMessage extracts the user-facing message from an error body
func errorMessage(data []byte, status int) string {
	var body models.ErrorBody
	if err := json.Unmarshal(data, &body); err == nil {
		switch detail := body.Detail.(type) {
		case string:
			if detail != "" {
				return detail
			}
		case []interface{}:
			// 422 bodies list one entry per invalid field
			var msgs []string
			for _, item := range detail {
				if m, ok := item.(map[string]interface{}); ok {
					if msg, ok := m["msg"].(string); ok && msg != "" {
						msgs = append(msgs, msg)
					}
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("API request failed (%d)", status)
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// requireToken fails fast when an endpoint needs a session and none is held
func (c *Client) requireToken() error {
	if c.tokens.Get() == "" {
		return ErrNotAuthenticated
	}
	return nil
}
