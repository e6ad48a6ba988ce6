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

// Package accessor defines how the state of a cloud resource is read back for comparison with the desired state.
package accessor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/tags"
)

// Record is the describe output for a single resource keyed by the cloud API's field names. A nil Record
// denotes a resource that does not exist.
type Record map[string]interface{}

// Interface reads one kind of cloud resource by identifier.
type Interface interface {
	Kind() string
	// Get returns a nil Record and no error if the resource does not exist.
	Get(ctx context.Context, id string) (Record, error)
	// GetTags returns no tags and no error if the resource does not exist.
	GetTags(ctx context.Context, arn string) ([]tags.Tag, error)
}

// StatusReporter is implemented by accessors whose kind exposes a lifecycle status.
type StatusReporter interface {
	// StatusField is the record field holding the status, empty if the kind has none.
	StatusField() string
	// TransitionalStatus is the only status a resource may report while its deletion is in progress.
	TransitionalStatus() string
}

type Timing struct {
	Timeout  time.Duration
	Interval time.Duration
}

// TimingDefaulter is implemented by accessors that know how long their kind takes to converge.
type TimingDefaulter interface {
	WaitTiming() Timing
	DeleteTiming() Timing
}

var DefaultTiming = Timing{Timeout: 10 * time.Minute, Interval: 15 * time.Second}

func WaitTimingFor(a Interface) Timing {
	if d, ok := a.(TimingDefaulter); ok {
		return d.WaitTiming()
	}

	return DefaultTiming
}

func DeleteTimingFor(a Interface) Timing {
	if d, ok := a.(TimingDefaulter); ok {
		return d.DeleteTiming()
	}

	return DefaultTiming
}

// Status returns the lifecycle status of the record, if the accessor's kind has one.
func Status(a Interface, r Record) (string, bool) {
	sr, ok := a.(StatusReporter)
	if !ok || sr.StatusField() == "" || r == nil {
		return "", false
	}

	v, found := matcher.Field(r, sr.StatusField())
	if !found {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// StatusEquals matches a record whose lifecycle status, as reported by the accessor, equals status.
func StatusEquals(a Interface, status string) matcher.Matcher {
	if sr, ok := a.(StatusReporter); ok && sr.StatusField() != "" {
		return matcher.Equals(sr.StatusField(), status)
	}

	return matcher.Equals("Status", status)
}

// ToRecord converts an SDK output shape into a Record. The SDK shapes carry no JSON tags so the record
// keys are the API field names.
func ToRecord(from interface{}) (Record, error) {
	if from == nil {
		return nil, nil
	}

	data, err := json.Marshal(from)
	if err != nil {
		return nil, errors.Wrapf(err, "error marshalling %T", from)
	}

	r := Record{}

	err = json.Unmarshal(data, &r)
	if err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling %T", from)
	}

	return r, nil
}

// String returns the string value of a top-level field, or empty if it's missing or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}
