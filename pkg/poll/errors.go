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

package poll

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
)

// TimeoutError is returned when the deadline passes without the matcher being satisfied.
type TimeoutError struct {
	Kind     string
	ID       string
	Elapsed  time.Duration
	Expected string
	// Last is the record observed by the final attempt, nil if the resource was absent.
	Last accessor.Record
}

func (e *TimeoutError) Error() string {
	observed := "absent"
	if e.Last != nil {
		observed = fmt.Sprintf("%v", map[string]interface{}(e.Last))
	}

	return fmt.Sprintf("timed out after %v waiting for %s %q to match %q, last observed: %s",
		e.Elapsed, e.Kind, e.ID, e.Expected, observed)
}

// UnexpectedStateError is returned when a resource being deleted reports a status other than the
// transitional one.
type UnexpectedStateError struct {
	Kind     string
	ID       string
	Observed string
	Expected string
}

func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("%s %q has status %q, expected %q while it is being deleted", e.Kind, e.ID, e.Observed, e.Expected)
}

func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

func IsUnexpectedState(err error) bool {
	var u *UnexpectedStateError
	return errors.As(err, &u)
}
