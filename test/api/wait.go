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
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	DefaultConditionTimeout  = 5 * time.Second
	DefaultConditionInterval = 100 * time.Millisecond
)

// Condition is polled until it returns true.  An error stops polling.
type Condition func(ctx context.Context) (bool, error)

// WaitForCondition polls condition immediately and then every interval until it
// holds or timeout elapses, zero values select the defaults.
func WaitForCondition(ctx context.Context, condition Condition, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultConditionTimeout
	}

	if interval <= 0 {
		interval = DefaultConditionInterval
	}

	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, wait.ConditionWithContextFunc(condition))
	if err == nil {
		return nil
	}

	if wait.Interrupted(err) {
		return fmt.Errorf("%w: condition not met within %s", ErrConditionTimeout, timeout)
	}

	return err
}
