/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive // naming conventions acceptable in test code
package api

//go:generate mockgen -source=api_client.go -destination=mock/doer.go -package=mock

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

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"golang.org/x/time/rate"
)

// Doer is the transport the client sends requests through, *http.Client
// satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	// Body is serialised as JSON when non-nil.
	Body any
	// Query is added to the URL query string.
	Query map[string]string
	// Headers override the client's default headers.
	Headers map[string]string
}

type APIClient struct {
	baseURL   string
	client    Doer
	headers   map[string]string
	config    *TestConfig
	endpoints *Endpoints
	fixtures  FixtureLoader
	limiter   *rate.Limiter
	log       logr.Logger
	metrics   *Metrics
	trace     *Trace
}

// ClientOption customises an APIClient.
type ClientOption func(*APIClient)

// WithBaseURL overrides the configured base URL, used to target the fake API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *APIClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithDoer replaces the HTTP transport.
func WithDoer(doer Doer) ClientOption {
	return func(c *APIClient) {
		c.client = doer
	}
}

// WithLogger replaces the default Ginkgo logger.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *APIClient) {
		c.log = log
	}
}

// WithMetrics records latencies into a shared collector.
func WithMetrics(metrics *Metrics) ClientOption {
	return func(c *APIClient) {
		c.metrics = metrics
	}
}

// WithFixtures replaces the on-disk fixture loader.
func WithFixtures(fixtures FixtureLoader) ClientOption {
	return func(c *APIClient) {
		c.fixtures = fixtures
	}
}

func NewAPIClientWithConfig(config *TestConfig, options ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		headers:   config.DefaultHeaders(),
		config:    config,
		endpoints: NewEndpoints(),
		fixtures:  NewDirLoader(config.FixturesDir),
		log:       ginkgo.GinkgoLogr,
	}

	if config.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	if config.TraceOnFailure {
		c.trace = NewTrace()
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Endpoints exposes the path builders.
func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// Fixtures exposes the fixture loader the client composes payloads from.
func (c *APIClient) Fixtures() FixtureLoader {
	return c.fixtures
}

// Trace returns captured exchanges, nil unless trace capture is enabled.
func (c *APIClient) Trace() *Trace {
	return c.trace
}

func (c *APIClient) SetAuthToken(token string) {
	if token == "" {
		delete(c.headers, "Authorization")
		return
	}

	c.headers["Authorization"] = "Bearer " + token
}

// Get issues a GET request.
func (c *APIClient) Get(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, options)
}

// Post issues a POST request with a JSON body.
func (c *APIClient) Post(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, options)
}

// Put issues a PUT request with a JSON body.
func (c *APIClient) Put(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodPut, path, options)
}

// Patch issues a PATCH request with a JSON body.
func (c *APIClient) Patch(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodPatch, path, options)
}

// Delete issues a DELETE request.
func (c *APIClient) Delete(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodDelete, path, options)
}

// Head issues a HEAD request, the response body is never decoded.
func (c *APIClient) Head(ctx context.Context, path string, options *RequestOptions) (*Response, error) {
	return c.doRequest(ctx, http.MethodHead, path, options)
}

// Fetch issues a request with an arbitrary method, GET if empty.
func (c *APIClient) Fetch(ctx context.Context, method, path string, options *RequestOptions) (*Response, error) {
	if method == "" {
		method = http.MethodGet
	}

	return c.doRequest(ctx, strings.ToUpper(method), path, options)
}

func (c *APIClient) buildURL(path string, query map[string]string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing request URL: %w", err)
	}

	if len(query) > 0 {
		values := u.Query()

		for k, v := range query {
			values.Set(k, v)
		}

		u.RawQuery = values.Encode()
	}

	return u.String(), nil
}

// logError logs a transport failure with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	c.log.Error(err, context, "method", method, "path", path, "duration", duration, "traceparent", traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, method, path string, options *RequestOptions) (*Response, error) {
	if options == nil {
		options = &RequestOptions{}
	}

	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	transportError := func(err error) error {
		return &TransportError{Method: method, Path: path, TraceID: traceID, Err: err}
	}

	fullURL, err := c.buildURL(path, options.Query)
	if err != nil {
		return nil, transportError(err)
	}

	var (
		body        io.Reader
		requestBody []byte
	)

	if options.Body != nil && method != http.MethodHead {
		requestBody, err = json.Marshal(options.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(requestBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, transportError(fmt.Errorf("creating request: %w", err))
	}

	// Add W3C Trace Context headers
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	for k, v := range options.Headers {
		req.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)

	if err != nil {
		duration := time.Since(start)
		c.observe(method, path, duration, traceID, requestBody, nil, 0, err)
		c.logError(method, path, duration, traceParent, err, "http request failed")

		return nil, transportError(fmt.Errorf("http request failed: %w", err))
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration := time.Since(start)

	if err != nil {
		c.observe(method, path, duration, traceID, requestBody, nil, resp.StatusCode, err)
		c.logError(method, path, duration, traceParent, err, "reading response body")

		return nil, transportError(fmt.Errorf("reading response body: %w", err))
	}

	c.observe(method, path, duration, traceID, requestBody, respBody, resp.StatusCode, nil)

	if c.config.LogRequests || c.config.DebugLogging {
		c.log.Info("request complete", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if (c.config.LogResponses || c.config.DebugLogging) && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
		TraceID:    traceID,
		Method:     method,
		Path:       path,
	}, nil
}

// observe feeds metrics and the failure trace.
func (c *APIClient) observe(method, path string, duration time.Duration, traceID string, requestBody, responseBody []byte, status int, err error) {
	if c.metrics != nil {
		c.metrics.Record(method, duration, err)
	}

	if c.trace != nil {
		c.trace.record(Exchange{
			Method:       method,
			Path:         path,
			StatusCode:   status,
			Duration:     duration,
			TraceID:      traceID,
			RequestBody:  string(requestBody),
			ResponseBody: string(responseBody),
			Err:          err,
		})
	}
}

// GetPost retrieves a post by ID.
func (c *APIClient) GetPost(ctx context.Context, id int) (*Response, error) {
	return c.Get(ctx, c.endpoints.GetPost(id), nil)
}

// GetAllPosts lists posts with optional query filters e.g. userId.
func (c *APIClient) GetAllPosts(ctx context.Context, params map[string]string) (*Response, error) {
	return c.Get(ctx, c.endpoints.ListPosts(), &RequestOptions{Query: params})
}

// GetAllUsers lists users.
func (c *APIClient) GetAllUsers(ctx context.Context) (*Response, error) {
	return c.Get(ctx, c.endpoints.ListUsers(), nil)
}

// CreatePost composes a payload from the validPost fixture and the overrides
// and POSTs it.  The payload is returned so callers can compare the echo.
func (c *APIClient) CreatePost(ctx context.Context, overrides map[string]any) (*Response, Payload, error) {
	template, err := c.postTemplate("validPost")
	if err != nil {
		return nil, nil, err
	}

	payload := Compose(KindCreate, template, overrides)

	resp, err := c.Post(ctx, c.endpoints.CreatePost(), &RequestOptions{Body: payload})
	if err != nil {
		return nil, payload, fmt.Errorf("creating post: %w", err)
	}

	return resp, payload, nil
}

// UpdatePost replaces a post with a payload composed from the updatePost fixture.
func (c *APIClient) UpdatePost(ctx context.Context, id int, overrides map[string]any) (*Response, Payload, error) {
	template, err := c.postTemplate("updatePost")
	if err != nil {
		return nil, nil, err
	}

	payload := ComposeUpdate(id, template, overrides)

	resp, err := c.Put(ctx, c.endpoints.UpdatePost(id), &RequestOptions{Body: payload})
	if err != nil {
		return nil, payload, fmt.Errorf("updating post %d: %w", id, err)
	}

	return resp, payload, nil
}

// PatchPost partially updates a post with a payload composed from the patchPost fixture.
func (c *APIClient) PatchPost(ctx context.Context, id int, overrides map[string]any) (*Response, Payload, error) {
	template, err := c.postTemplate("patchPost")
	if err != nil {
		return nil, nil, err
	}

	payload := Compose(KindPatch, template, overrides)

	resp, err := c.Patch(ctx, c.endpoints.PatchPost(id), &RequestOptions{Body: payload})
	if err != nil {
		return nil, payload, fmt.Errorf("patching post %d: %w", id, err)
	}

	return resp, payload, nil
}

// DeletePost deletes a post by ID.
func (c *APIClient) DeletePost(ctx context.Context, id int) (*Response, error) {
	return c.Delete(ctx, c.endpoints.DeletePost(id), nil)
}

func (c *APIClient) postTemplate(name string) (map[string]any, error) {
	document, err := c.fixtures.Load(PostsFixture)
	if err != nil {
		return nil, err
	}

	return document.Template(name)
}
