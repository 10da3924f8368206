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

// Package api provides end-to-end test utilities for the JSONPlaceholder
// posts API.
//
// # Separate Client Implementation
//
// The suites talk to the target through APIClient rather than a generated
// client.  Request paths, payloads and assertions are written out by hand so
// that a drift in the target's behaviour shows up as a test failure and not as
// a silently regenerated type.  The bundled OpenAPI document in pkg/openapi is
// checked independently by ContractValidator.
//
// The client adds the features the suites rely on:
//   - W3C trace context propagation and an exchange log for failing specs
//   - Unique titles and timestamps on every composed write payload
//   - Default and per-request headers, including API key and bearer token
//   - Per-verb latency histograms
//
// # Fixtures
//
// Payload templates and id scenarios live in test/data, see FixtureLoader.
// A fixture with a sibling <name>.schema.json is validated on load.
package api
