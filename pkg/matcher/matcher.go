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

// Package matcher provides the predicates a poll loop evaluates against an observed cloud record.
package matcher

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

type Type int

const (
	FieldEquals Type = iota
	Absence
	Predicate
)

// Matcher is a pure predicate over an observed record. A nil record denotes an absent resource.
type Matcher struct {
	kind        Type
	field       string
	value       interface{}
	description string
	fn          func(map[string]interface{}) bool
}

// Equals matches a present record whose field equals value. The field may be a dotted path into nested
// structures, e.g. "Endpoint.Address".
func Equals(field string, value interface{}) Matcher {
	return Matcher{kind: FieldEquals, field: field, value: value}
}

// Absent matches only the absent record.
func Absent() Matcher {
	return Matcher{kind: Absence}
}

// Custom matches when fn returns true. The description is used in timeout messages.
func Custom(description string, fn func(record map[string]interface{}) bool) Matcher {
	return Matcher{kind: Predicate, description: description, fn: fn}
}

func (m Matcher) Type() Type {
	return m.kind
}

func (m Matcher) Matches(record map[string]interface{}) bool {
	switch m.kind {
	case FieldEquals:
		if record == nil {
			return false
		}

		actual, found := Field(record, m.field)

		return found && fmt.Sprint(actual) == fmt.Sprint(m.value)
	case Absence:
		return record == nil
	case Predicate:
		return m.fn != nil && m.fn(record)
	}

	return false
}

func (m Matcher) String() string {
	switch m.kind {
	case FieldEquals:
		return fmt.Sprintf("%s == %v", m.field, m.value)
	case Absence:
		return "absent"
	case Predicate:
		return m.description
	}

	return "unknown"
}

// Field resolves a dotted path in the record.
func Field(record map[string]interface{}, path string) (interface{}, bool) {
	if record == nil || path == "" {
		return nil, false
	}

	v, found, err := unstructured.NestedFieldNoCopy(record, strings.Split(path, ".")...)
	if err != nil || !found {
		return nil, false
	}

	return v, true
}
