/*
SPDX-License-Identifier: Apache-2.0

Copyright Contributors to the Submariner project.

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

package fake

import (
	"time"

	testingclock "k8s.io/utils/clock/testing"
)

// AutoStep advances the fake clock by step whenever something is waiting on it, so code that sleeps on the
// clock runs to completion without real delays. Call the returned function to stop.
func AutoStep(fc *testingclock.FakeClock, step time.Duration) func() {
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(time.Millisecond):
			}

			if fc.HasWaiters() {
				fc.Step(step)
			}
		}
	}()

	return func() {
		close(done)
	}
}
