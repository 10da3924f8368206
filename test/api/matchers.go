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
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/onsi/gomega/gcustom"
	"github.com/onsi/gomega/types"
	"github.com/spjmurray/go-util/pkg/set"
)

// contractResult is rendered by the failure template after a match.
type contractResult struct {
	Name    string
	Failure error
}

func contractMatcher(contract Contract) types.GomegaMatcher {
	result := &contractResult{
		Name: contract.Name,
	}

	return gcustom.MakeMatcher(func(actual any) (bool, error) {
		result.Failure = contract.Validate(actual)

		return result.Failure == nil, nil
	}).WithTemplate("Expected:\n{{.FormattedActual}}\n{{.To}} have {{.Data.Name}} structure ({{.Data.Failure}})", result)
}

// HavePostStructure succeeds when ValidatePostStructure does.
func HavePostStructure() types.GomegaMatcher {
	return contractMatcher(PostContract)
}

// HaveUserStructure succeeds when ValidateUserStructure does.
func HaveUserStructure() types.GomegaMatcher {
	return contractMatcher(UserContract)
}

func HaveCommentStructure() types.GomegaMatcher {
	return contractMatcher(CommentContract)
}

func HaveAlbumStructure() types.GomegaMatcher {
	return contractMatcher(AlbumContract)
}

func HaveTodoStructure() types.GomegaMatcher {
	return contractMatcher(TodoContract)
}

// HaveStatus matches a *Response status code, the failure message includes
// the body and trace ID so the request can be found in the target's logs.
func HaveStatus(expected int) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(resp *Response) (bool, error) {
		if resp == nil {
			return false, fmt.Errorf("response is nil")
		}

		return resp.StatusCode == expected, nil
	}).WithTemplate("Expected {{.Actual}} to have status {{.Data}}", expected)
}

// HaveHeaders succeeds when every named header is present, names are case-insensitive.
func HaveHeaders(names ...string) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(resp *Response) (bool, error) {
		if resp == nil {
			return false, fmt.Errorf("response is nil")
		}

		missing := MissingHeaders(resp, names...)
		if len(missing) > 0 {
			return false, fmt.Errorf("missing headers: %s", strings.Join(missing, ", "))
		}

		return true, nil
	}).WithTemplate("Expected {{.Actual}} to have headers {{.Data}}", names)
}

// MissingHeaders returns the requested header names absent from the response, sorted.
func MissingHeaders(resp *Response, names ...string) []string {
	present := set.New[string](slices.Collect(maps.Keys(resp.Headers()))...)

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	required := set.New[string](lowered...)

	missing := slices.Collect(required.Difference(present).All())
	slices.Sort(missing)

	return missing
}
