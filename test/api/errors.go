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
	"errors"
	"fmt"
)

var (
	// ErrFixtureNotFound is raised when a fixture file does not exist.
	ErrFixtureNotFound = errors.New("fixture not found")

	// ErrFixtureParse is raised when a fixture cannot be decoded or fails
	// its schema.
	ErrFixtureParse = errors.New("fixture parse error")

	// ErrTransport is raised for failures at the HTTP client boundary.
	ErrTransport = errors.New("transport error")

	// ErrAssertion is raised when a response does not match a contract.
	ErrAssertion = errors.New("assertion failure")

	// ErrConditionTimeout is raised when a polled condition never holds.
	ErrConditionTimeout = errors.New("condition timeout")

	// ErrConfiguration is raised for malformed environment configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrRegression is raised when a spec that passed in the previous
	// recorded run no longer passes.
	ErrRegression = errors.New("regression")
)

// AssertionFailure describes the first unmet requirement of a validation contract.
type AssertionFailure struct {
	// Contract is the name of the shape being checked e.g. "post".
	Contract string
	// Field is the offending field name.
	Field string
	// Expected is the required primitive type.
	Expected string
	// Actual is what was found, "missing" if absent.
	Actual string
}

func (e *AssertionFailure) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: expected %s, got %s", e.Contract, e.Expected, e.Actual)
	}

	return fmt.Sprintf("%s: field %q expected %s, got %s", e.Contract, e.Field, e.Expected, e.Actual)
}

func (e *AssertionFailure) Unwrap() error {
	return ErrAssertion
}

// TransportError wraps a failure to complete an HTTP exchange.
type TransportError struct {
	Method  string
	Path    string
	TraceID string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed (trace ID: %s): %v", e.Method, e.Path, e.TraceID, e.Err)
}

// Is allows errors.Is(err, ErrTransport) while keeping the cause reachable.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
