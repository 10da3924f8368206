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
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Histogram range is 1us to 60s with 3 significant digits.
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
	sigFigures   = 3

	// metricsFilePattern names per-process collectors awaiting collection.
	metricsFilePattern = "metrics-*.json"
)

// LatencySummary is a point-in-time view of one method's latencies.
type LatencySummary struct {
	Method string
	Count  int64
	Errors int64
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// Metrics records request latencies per HTTP method.  It is safe for
// concurrent use by every client in a process.
type Metrics struct {
	lock       sync.Mutex
	histograms map[string]*hdrhistogram.Histogram
	errors     map[string]int64
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		histograms: map[string]*hdrhistogram.Histogram{},
		errors:     map[string]int64{},
	}
}

// Record adds one observation, transport failures are counted separately
// but their latency is still recorded.
func (m *Metrics) Record(method string, duration time.Duration, err error) {
	latencyUs := min(max(duration.Microseconds(), minLatencyUs), maxLatencyUs)

	m.lock.Lock()
	defer m.lock.Unlock()

	h, ok := m.histograms[method]
	if !ok {
		h = hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigures)
		m.histograms[method] = h
	}

	_ = h.RecordValue(latencyUs)

	if err != nil {
		m.errors[method]++
	}
}

// Summaries returns one summary per method, ordered by method name.
func (m *Metrics) Summaries() []LatencySummary {
	m.lock.Lock()
	defer m.lock.Unlock()

	methods := make([]string, 0, len(m.histograms))
	for method := range m.histograms {
		methods = append(methods, method)
	}

	slices.Sort(methods)

	out := make([]LatencySummary, len(methods))

	for i, method := range methods {
		h := m.histograms[method]

		out[i] = LatencySummary{
			Method: method,
			Count:  h.TotalCount(),
			Errors: m.errors[method],
			P50:    time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P95:    time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
			P99:    time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
			Max:    time.Duration(h.Max()) * time.Microsecond,
		}
	}

	return out
}

func (m *Metrics) String() string {
	var b strings.Builder

	for _, s := range m.Summaries() {
		fmt.Fprintf(&b, "%-7s count=%d errors=%d p50=%s p95=%s p99=%s max=%s\n", s.Method, s.Count, s.Errors, s.P50, s.P95, s.P99, s.Max)
	}

	return b.String()
}

// metricsFile is the serialised form of a collector.
type metricsFile struct {
	Histograms map[string]*hdrhistogram.Snapshot `json:"histograms"`
	Errors     map[string]int64                  `json:"errors"`
}

// Merge adds every observation of other into m.
func (m *Metrics) Merge(other *Metrics) {
	other.lock.Lock()
	defer other.lock.Unlock()

	m.lock.Lock()
	defer m.lock.Unlock()

	for method, h := range other.histograms {
		if existing, ok := m.histograms[method]; ok {
			existing.Merge(h)
			continue
		}

		m.histograms[method] = hdrhistogram.Import(h.Export())
	}

	for method, n := range other.errors {
		m.errors[method] += n
	}
}

// Save writes the collector for process n into dir, to be combined by
// CollectMetrics once every process has finished.
func (m *Metrics) Save(dir string, n int) error {
	m.lock.Lock()

	file := metricsFile{
		Histograms: make(map[string]*hdrhistogram.Snapshot, len(m.histograms)),
		Errors:     maps.Clone(m.errors),
	}

	for method, h := range m.histograms {
		file.Histograms[method] = h.Export()
	}

	m.lock.Unlock()

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("metrics-%d.json", n)), data, 0o600); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}

	return nil
}

// CollectMetrics merges and removes every collector saved in dir.
func CollectMetrics(dir string) (*Metrics, error) {
	paths, err := filepath.Glob(filepath.Join(dir, metricsFilePattern))
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading metrics: %w", err)
		}

		var file metricsFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decoding metrics %s: %w", path, err)
		}

		other := NewMetrics()

		for method, snapshot := range file.Histograms {
			other.histograms[method] = hdrhistogram.Import(snapshot)
		}

		maps.Copy(other.errors, file.Errors)

		metrics.Merge(other)

		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("removing metrics: %w", err)
		}
	}

	return metrics, nil
}
