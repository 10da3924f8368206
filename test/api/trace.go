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

package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// maxTracedBody bounds how much of a body is kept per captured exchange.
const maxTracedBody = 2048

// generateTraceID creates a new W3C trace ID.
// A fresh trace ID per request lets a failure be found in the target's logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// Exchange is one captured request/response pair.
type Exchange struct {
	Method       string
	Path         string
	StatusCode   int
	Duration     time.Duration
	TraceID      string
	RequestBody  string
	ResponseBody string
	Err          error
}

func (e Exchange) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s trace=%s duration=%s", e.Method, e.Path, e.TraceID, e.Duration)

	if e.Err != nil {
		fmt.Fprintf(&b, " error=%v", e.Err)
	} else {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}

	if e.RequestBody != "" {
		fmt.Fprintf(&b, "\n  request: %s", e.RequestBody)
	}

	if e.ResponseBody != "" {
		fmt.Fprintf(&b, "\n  response: %s", e.ResponseBody)
	}

	return b.String()
}

// Trace accumulates exchanges made by a client so they can be attached to
// the report of a failing spec.
type Trace struct {
	lock      sync.Mutex
	exchanges []Exchange
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) record(e Exchange) {
	e.RequestBody = truncate(e.RequestBody, maxTracedBody)
	e.ResponseBody = truncate(e.ResponseBody, maxTracedBody)

	t.lock.Lock()
	defer t.lock.Unlock()

	t.exchanges = append(t.exchanges, e)
}

// Exchanges returns a copy of everything captured so far.
func (t *Trace) Exchanges() []Exchange {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]Exchange, len(t.exchanges))
	copy(out, t.exchanges)

	return out
}

func (t *Trace) String() string {
	exchanges := t.Exchanges()

	lines := make([]string, len(exchanges))
	for i, e := range exchanges {
		lines[i] = fmt.Sprintf("#%d %s", i+1, e)
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	// Never split a multi-byte rune.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n] + "...(truncated)"
}
