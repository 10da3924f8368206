/*
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

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Response is a completed HTTP exchange.  The body is read eagerly so the
// connection can be released, but only decoded on demand.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	TraceID    string

	// Method and Path identify the request for error messages.
	Method string
	Path   string

	decodeOnce sync.Once
	decoded    any
	decodeErr  error
}

// HeaderValue returns a header value, keys are case-insensitive.
func (r *Response) HeaderValue(key string) string {
	return r.Header.Get(key)
}

// Headers returns a flattened, lower-cased header mapping.
func (r *Response) Headers() map[string]string {
	out := make(map[string]string, len(r.Header))

	for k, v := range r.Header {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}

	return out
}

// IsJSON reports whether the content type announces JSON.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.HeaderValue("Content-Type"), "application/json")
}

// JSON decodes the body once and caches the result.
func (r *Response) JSON() (any, error) {
	r.decodeOnce.Do(func() {
		if r.Method == http.MethodHead {
			r.decodeErr = fmt.Errorf("%s %s: HEAD responses have no body", r.Method, r.Path)
			return
		}

		if err := json.Unmarshal(r.Body, &r.decoded); err != nil {
			r.decodeErr = fmt.Errorf("%s %s: decoding response body: %w", r.Method, r.Path, err)
		}
	})

	return r.decoded, r.decodeErr
}

// Object decodes the body as a JSON object.
func (r *Response) Object() (map[string]any, error) {
	v, err := r.JSON()
	if err != nil {
		return nil, err
	}

	object, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s %s: expected JSON object, got %s", r.Method, r.Path, typeName(v))
	}

	return object, nil
}

// Array decodes the body as a JSON array of objects.
func (r *Response) Array() ([]map[string]any, error) {
	v, err := r.JSON()
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s %s: expected JSON array, got %s", r.Method, r.Path, typeName(v))
	}

	out := make([]map[string]any, len(items))

	for i, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s %s: item %d expected JSON object, got %s", r.Method, r.Path, i, typeName(item))
		}

		out[i] = object
	}

	return out, nil
}

// Get queries the body with a gjson path e.g. "id", "0.title", "#".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d (%s, trace ID: %s) body: %s", r.Method, r.Path, r.StatusCode, r.Duration, r.TraceID, truncate(string(r.Body), 512))
}
