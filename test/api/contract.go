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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/nscaledev/placeholder-api-tests/pkg/openapi"
)

// ContractValidator checks responses against the bundled OpenAPI document.
type ContractValidator struct {
	baseURL string
	router  routers.Router
}

// NewContractValidator binds the document to the target base URL so that
// request paths resolve to operations.
func NewContractValidator(baseURL string) (*ContractValidator, error) {
	doc, err := openapi.GetSwagger()
	if err != nil {
		return nil, err
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	doc.Servers = openapi3.Servers{
		&openapi3.Server{URL: baseURL},
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}

	return &ContractValidator{
		baseURL: baseURL,
		router:  router,
	}, nil
}

// ValidateResponse fails if the status is undocumented for the operation or
// the headers or body do not match its schema.
func (v *ContractValidator) ValidateResponse(ctx context.Context, resp *Response) error {
	req, err := http.NewRequestWithContext(ctx, resp.Method, v.baseURL+resp.Path, nil)
	if err != nil {
		return fmt.Errorf("rebuilding request: %w", err)
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s has no documented operation: %w", ErrAssertion, resp.Method, resp.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   io.NopCloser(bytes.NewReader(resp.Body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAssertion, resp, err)
	}

	return nil
}
