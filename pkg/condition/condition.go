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

// Package condition reads the conditions a controller reports in a custom resource's status.
package condition

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	TypeAdopted         = "ACK.Adopted"
	TypeResourceSynced  = "ACK.ResourceSynced"
	TypeTerminal        = "ACK.Terminal"
	TypeRecoverable     = "ACK.Recoverable"
	TypeAdvisory        = "ACK.Advisory"
	TypeLateInitialized = "ACK.LateInitialized"
)

// Condition is a status condition as written by the controller. Unlike metav1.Condition it carries no
// observed generation and its reason and message are optional.
type Condition struct {
	Type               string                 `json:"type"`
	Status             metav1.ConditionStatus `json:"status"`
	LastTransitionTime *metav1.Time           `json:"lastTransitionTime,omitempty"`
	Reason             *string                `json:"reason,omitempty"`
	Message            *string                `json:"message,omitempty"`
}

func FromUnstructured(from *unstructured.Unstructured) []Condition {
	if from == nil {
		return nil
	}

	return fromObject(from.Object)
}

func fromObject(obj map[string]interface{}) []Condition {
	rawConditions, _, _ := unstructured.NestedSlice(obj, "status", "conditions")

	conditions := make([]Condition, 0, len(rawConditions))

	for i := range rawConditions {
		m, ok := rawConditions[i].(map[string]interface{})
		if !ok {
			continue
		}

		c := Condition{}
		_ = runtime.DefaultUnstructuredConverter.FromUnstructured(m, &c)
		conditions = append(conditions, c)
	}

	return conditions
}

func ToUnstructured(conditions []Condition, to *unstructured.Unstructured) {
	newConditions := make([]interface{}, len(conditions))
	for i := range conditions {
		newConditions[i], _ = runtime.DefaultUnstructuredConverter.ToUnstructured(&conditions[i])
	}

	_ = unstructured.SetNestedSlice(to.Object, newConditions, "status", "conditions")
}

// Find returns the condition of the given type, or nil.
func Find(conditions []Condition, condType string) *Condition {
	for i := range conditions {
		if conditions[i].Type == condType {
			return &conditions[i]
		}
	}

	return nil
}

// Get reads the resource and returns its condition of the given type, or nil.
func Get(ctx context.Context, client *resource.Client, ref resource.Reference, condType string) (*Condition, error) {
	obj, err := client.Get(ctx, ref)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already carries the reference.
	}

	if obj == nil {
		return nil, fmt.Errorf("%s does not exist", ref)
	}

	return Find(FromUnstructured(obj), condType), nil
}

// AssertTypeStatus returns an error unless the resource has a condition of the given type in the given status.
func AssertTypeStatus(ctx context.Context, client *resource.Client, ref resource.Reference, condType string,
	status metav1.ConditionStatus,
) error {
	c, err := Get(ctx, client, ref, condType)
	if err != nil {
		return err
	}

	if c == nil {
		return fmt.Errorf("failed to find %s condition in %s", condType, ref)
	}

	if c.Status != status {
		return fmt.Errorf("expected %s condition of %s to have status %s but found %s", condType, ref, status, c.Status)
	}

	return nil
}

func AssertSynced(ctx context.Context, client *resource.Client, ref resource.Reference) error {
	return AssertTypeStatus(ctx, client, ref, TypeResourceSynced, metav1.ConditionTrue)
}

func AssertNotSynced(ctx context.Context, client *resource.Client, ref resource.Reference) error {
	return AssertTypeStatus(ctx, client, ref, TypeResourceSynced, metav1.ConditionFalse)
}

// Matches returns a matcher for resources having a condition of the given type in the given status.
func Matches(condType string, status metav1.ConditionStatus) matcher.Matcher {
	return matcher.Custom(fmt.Sprintf("%s is %s", condType, status), func(obj map[string]interface{}) bool {
		c := Find(fromObject(obj), condType)
		return c != nil && c.Status == status
	})
}

// WaitForSynced waits until the controller reports the resource as synced.
func WaitForSynced(ctx context.Context, client *resource.Client, ref resource.Reference, timeout, interval time.Duration) error {
	_, err := client.WaitFor(ctx, ref, Matches(TypeResourceSynced, metav1.ConditionTrue), timeout, interval)
	return errors.WithMessage(err, "resource never synced")
}
