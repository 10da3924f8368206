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
	"fmt"
	"maps"
	"math/rand/v2"
	"regexp"
	"time"

	utilrand "k8s.io/apimachinery/pkg/util/rand"
)

// markerSuffixLength is the length of the random part of a uniqueness marker.
const markerSuffixLength = 6

// MarkerPattern matches the uniqueness marker appended to composed titles.
var MarkerPattern = regexp.MustCompile(`test_\d+_[a-z0-9]+$`)

// PayloadKind selects how uniqueness markers are applied.
type PayloadKind int

const (
	// KindCreate marks title and body for POST.
	KindCreate PayloadKind = iota
	// KindUpdate marks title and body for PUT.
	KindUpdate
	// KindPatch marks only the title, a patched body is echoed verbatim.
	KindPatch
)

// Payload is a composed request body.
type Payload map[string]any

// Title returns the composed title.
func (p Payload) Title() string {
	s, _ := p["title"].(string)
	return s
}

// Body returns the composed body.
func (p Payload) Body() string {
	s, _ := p["body"].(string)
	return s
}

// RandomData is the per-call randomness injected into payloads.
type RandomData struct {
	ID           int
	Timestamp    int64
	RandomString string
	RandomNumber int
}

// GenerateRandomData produces fresh randomness, the random string is
// test_<unix millis>_<alphanumeric>.
func GenerateRandomData() RandomData {
	timestamp := time.Now().UnixMilli()

	return RandomData{
		ID:           rand.IntN(100000),
		Timestamp:    timestamp,
		RandomString: fmt.Sprintf("test_%d_%s", timestamp, utilrand.String(markerSuffixLength)),
		RandomNumber: rand.IntN(1000),
	}
}

// GenerateTestID returns a short random identifier for names.
func GenerateTestID() string {
	return "test-" + utilrand.String(8)
}

// Compose merges a fixture template with caller overrides and appends
// uniqueness markers.  Neither input is modified.
func Compose(kind PayloadKind, template, overrides map[string]any) Payload {
	random := GenerateRandomData()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	payload := make(Payload, len(template)+len(overrides))
	maps.Copy(payload, template)
	maps.Copy(payload, overrides)

	payload["title"] = fmt.Sprintf("%v - %s", pick("title", template, overrides), random.RandomString)

	switch kind {
	case KindCreate:
		payload["body"] = fmt.Sprintf("%v - Generated at %s", pick("body", template, overrides), now)
	case KindUpdate:
		payload["body"] = fmt.Sprintf("%v - Updated at %s", pick("body", template, overrides), now)
	case KindPatch:
	}

	return payload
}

// ComposeUpdate composes a full replacement payload for the given post.
func ComposeUpdate(id int, template, overrides map[string]any) Payload {
	payload := Compose(KindUpdate, template, overrides)
	payload["id"] = id

	return payload
}

// pick returns the override's value for key if set, otherwise the template's.
func pick(key string, template, overrides map[string]any) any {
	if v, ok := overrides[key]; ok && v != nil && v != "" {
		return v
	}

	if v, ok := template[key]; ok && v != nil {
		return v
	}

	return ""
}

// PostOverrides is a typed view of the override map, nil fields are not set.
type PostOverrides struct {
	Title  *string
	Body   *string
	UserID *int
}

// Map converts the overrides to the form Compose accepts.
func (o PostOverrides) Map() map[string]any {
	out := map[string]any{}

	if o.Title != nil {
		out["title"] = *o.Title
	}

	if o.Body != nil {
		out["body"] = *o.Body
	}

	if o.UserID != nil {
		out["userId"] = *o.UserID
	}

	return out
}
