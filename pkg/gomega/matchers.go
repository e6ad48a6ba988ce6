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

// Package gomega provides Gomega matchers for cloud records, tags and errors.
package gomega

import (
	"fmt"
	"strings"

	"github.com/onsi/gomega/format"
	gomegaTypes "github.com/onsi/gomega/types"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/tags"
)

type containErrorSubstring struct {
	expected error
}

// ContainErrorSubstring checks whether the actual error's message contains the expected error's message.
func ContainErrorSubstring(expected error) gomegaTypes.GomegaMatcher {
	return &containErrorSubstring{expected}
}

func (m *containErrorSubstring) Match(x interface{}) (bool, error) {
	actual, ok := x.(error)
	if !ok {
		return false, fmt.Errorf("containErrorSubstring matcher requires an error.  Got:\n%s", format.Object(x, 1))
	}

	return strings.Contains(actual.Error(), m.expected.Error()), nil
}

func (m *containErrorSubstring) FailureMessage(actual interface{}) string {
	return format.Message(actual, "to contain substring", m.expected.Error())
}

func (m *containErrorSubstring) NegatedFailureMessage(actual interface{}) (message string) {
	return format.Message(actual, "not to contain substring", m.expected.Error())
}

type satisfyMatcher struct {
	m matcher.Matcher
}

// SatisfyRecordMatcher succeeds if the actual accessor.Record satisfies m. A nil record only satisfies an
// absence matcher.
func SatisfyRecordMatcher(m matcher.Matcher) gomegaTypes.GomegaMatcher {
	return &satisfyMatcher{m: m}
}

// HaveRecordField succeeds if the dotted field path of the actual accessor.Record equals value.
func HaveRecordField(field string, value interface{}) gomegaTypes.GomegaMatcher {
	return &satisfyMatcher{m: matcher.Equals(field, value)}
}

func (s *satisfyMatcher) Match(x interface{}) (bool, error) {
	switch r := x.(type) {
	case accessor.Record:
		return s.m.Matches(r), nil
	case map[string]interface{}:
		return s.m.Matches(r), nil
	case nil:
		return s.m.Matches(nil), nil
	}

	return false, fmt.Errorf("record matcher requires an accessor.Record.  Got:\n%s", format.Object(x, 1))
}

func (s *satisfyMatcher) FailureMessage(actual interface{}) string {
	return format.Message(actual, "to satisfy", s.m.String())
}

func (s *satisfyMatcher) NegatedFailureMessage(actual interface{}) string {
	return format.Message(actual, "not to satisfy", s.m.String())
}

type haveTags struct {
	expected []tags.Tag
}

// HaveTags succeeds if the actual []tags.Tag equals expected once system tags are removed, in any order.
func HaveTags(expected ...tags.Tag) gomegaTypes.GomegaMatcher {
	return &haveTags{expected: tags.Clean(expected)}
}

func (h *haveTags) Match(x interface{}) (bool, error) {
	actual, ok := x.([]tags.Tag)
	if !ok {
		return false, fmt.Errorf("HaveTags matcher requires a []tags.Tag.  Got:\n%s", format.Object(x, 1))
	}

	cleaned := tags.Clean(actual)
	if len(cleaned) != len(h.expected) {
		return false, nil
	}

	for i := range cleaned {
		if cleaned[i] != h.expected[i] {
			return false, nil
		}
	}

	return true, nil
}

func (h *haveTags) FailureMessage(actual interface{}) string {
	return format.Message(actual, "to have user tags", h.expected)
}

func (h *haveTags) NegatedFailureMessage(actual interface{}) string {
	return format.Message(actual, "not to have user tags", h.expected)
}
