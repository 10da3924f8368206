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

package openapi

import (
	"errors"
	"strconv"
)

var ErrInvalidResourceID = errors.New("invalid id: must be a positive decimal integer")

// ResourceID is a numeric resource identifier as it appears in a path.
type ResourceID int

func (n *ResourceID) UnmarshalText(text []byte) error {
	i, err := strconv.Atoi(string(text))
	if err != nil || i <= 0 {
		return ErrInvalidResourceID
	}

	*n = ResourceID(i)

	return nil
}

func (n ResourceID) Int() int {
	return int(n)
}
