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
	"context"
	"sync"

	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/tags"
)

// Accessor is an in-memory accessor.Interface. Each Get consumes the next scripted response for the
// identifier; the last one is repeated once the script is exhausted.
type Accessor struct {
	mutex        sync.Mutex
	kind         string
	statusField  string
	transitional string
	timing       accessor.Timing
	responses    map[string][]response
	tags         map[string][]tags.Tag
	getCalls     map[string]int
}

type response struct {
	record accessor.Record
	err    error
}

var (
	_ accessor.Interface       = &Accessor{}
	_ accessor.StatusReporter  = &Accessor{}
	_ accessor.TimingDefaulter = &Accessor{}
)

func NewAccessor(kind, statusField, transitional string) *Accessor {
	return &Accessor{
		kind:         kind,
		statusField:  statusField,
		transitional: transitional,
		timing:       accessor.DefaultTiming,
		responses:    map[string][]response{},
		tags:         map[string][]tags.Tag{},
		getCalls:     map[string]int{},
	}
}

func (a *Accessor) SetTiming(t accessor.Timing) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.timing = t
}

// Set replaces the script for id with a single record, nil meaning absent.
func (a *Accessor) Set(id string, r accessor.Record) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.responses[id] = []response{{record: r}}
}

// Then appends records to the script for id.
func (a *Accessor) Then(id string, records ...accessor.Record) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	for _, r := range records {
		a.responses[id] = append(a.responses[id], response{record: r})
	}
}

// FailWith appends an error response to the script for id.
func (a *Accessor) FailWith(id string, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.responses[id] = append(a.responses[id], response{err: err})
}

func (a *Accessor) SetTags(arn string, t []tags.Tag) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.tags[arn] = t
}

func (a *Accessor) GetCalls(id string) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.getCalls[id]
}

func (a *Accessor) Kind() string {
	return a.kind
}

func (a *Accessor) Get(_ context.Context, id string) (accessor.Record, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.getCalls[id]++

	script := a.responses[id]
	if len(script) == 0 {
		return nil, nil
	}

	next := script[0]
	if len(script) > 1 {
		a.responses[id] = script[1:]
	}

	if next.err != nil {
		return nil, next.err
	}

	return copyRecord(next.record), nil
}

func (a *Accessor) GetTags(_ context.Context, arn string) ([]tags.Tag, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	t, ok := a.tags[arn]
	if !ok {
		return nil, nil
	}

	return append([]tags.Tag(nil), t...), nil
}

func (a *Accessor) StatusField() string {
	return a.statusField
}

func (a *Accessor) TransitionalStatus() string {
	return a.transitional
}

func (a *Accessor) WaitTiming() accessor.Timing {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.timing
}

func (a *Accessor) DeleteTiming() accessor.Timing {
	return a.WaitTiming()
}

func copyRecord(r accessor.Record) accessor.Record {
	if r == nil {
		return nil
	}

	c := make(accessor.Record, len(r))
	for k, v := range r {
		c[k] = v
	}

	return c
}
