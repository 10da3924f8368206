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

package api_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nscaledev/placeholder-api-tests/test/api"
)

var errProbe = errors.New("probe failed")

// TestWaitForConditionSucceeds ensures polling stops once the condition holds.
func TestWaitForConditionSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	condition := func(context.Context) (bool, error) {
		return calls.Add(1) >= 3, nil
	}

	require.NoError(t, api.WaitForCondition(t.Context(), condition, time.Second, time.Millisecond))
	require.Equal(t, int32(3), calls.Load())
}

// TestWaitForConditionImmediate ensures the first check is not delayed.
func TestWaitForConditionImmediate(t *testing.T) {
	t.Parallel()

	start := time.Now()

	require.NoError(t, api.WaitForCondition(t.Context(), func(context.Context) (bool, error) {
		return true, nil
	}, time.Second, time.Minute))

	require.Less(t, time.Since(start), time.Second)
}

// TestWaitForConditionTimeout ensures a condition that never holds times out.
func TestWaitForConditionTimeout(t *testing.T) {
	t.Parallel()

	err := api.WaitForCondition(t.Context(), func(context.Context) (bool, error) {
		return false, nil
	}, 50*time.Millisecond, 10*time.Millisecond)

	require.ErrorIs(t, err, api.ErrConditionTimeout)
}

// TestWaitForConditionError ensures predicate errors abort polling.
func TestWaitForConditionError(t *testing.T) {
	t.Parallel()

	err := api.WaitForCondition(t.Context(), func(context.Context) (bool, error) {
		return false, errProbe
	}, time.Second, time.Millisecond)

	require.ErrorIs(t, err, errProbe)
	require.NotErrorIs(t, err, api.ErrConditionTimeout)
}
