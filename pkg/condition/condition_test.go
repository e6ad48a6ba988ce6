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

package condition_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/condition"
	"github.com/submariner-io/rds-e2e/pkg/fake"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/utils/ptr"
)

var ref = resource.Reference{
	Group:     "rds.services.k8s.aws",
	Version:   "v1alpha1",
	Resource:  "dbinstances",
	Name:      "db-1",
	Namespace: "default",
}

func newDBInstance(conditions ...condition.Condition) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("rds.services.k8s.aws/v1alpha1")
	obj.SetKind("DBInstance")
	obj.SetName(ref.Name)
	obj.SetNamespace(ref.Namespace)
	condition.ToUnstructured(conditions, obj)

	return obj
}

var _ = Describe("Unstructured conditions conversion", func() {
	It("should correctly convert to and from Unstructured", func() {
		conditions := []condition.Condition{
			{
				Type:    condition.TypeTerminal,
				Status:  metav1.ConditionTrue,
				Message: ptr.To("InvalidParameterCombination"),
			},
			{
				Type:   condition.TypeResourceSynced,
				Status: metav1.ConditionFalse,
			},
		}

		obj := &unstructured.Unstructured{Object: map[string]interface{}{}}
		condition.ToUnstructured(conditions, obj)

		Expect(condition.FromUnstructured(obj)).To(Equal(conditions))
		Expect(condition.FromUnstructured(&unstructured.Unstructured{Object: map[string]interface{}{}})).To(BeEmpty())
	})
})

var _ = Describe("Find", func() {
	It("should return the condition of the requested type", func() {
		conditions := []condition.Condition{{Type: condition.TypeAdopted, Status: metav1.ConditionTrue}}
		Expect(condition.Find(conditions, condition.TypeAdopted)).To(Equal(&conditions[0]))
		Expect(condition.Find(conditions, condition.TypeResourceSynced)).To(BeNil())
	})
})

var _ = Describe("Assertions", func() {
	var client *resource.Client

	newClient := func(obj *unstructured.Unstructured) *resource.Client {
		return resource.NewClient(fake.NewDynamicClient(map[schema.GroupVersionResource]string{
			ref.GroupVersionResource(): "DBInstanceList",
		}, obj))
	}

	When("the resource is synced", func() {
		BeforeEach(func() {
			client = newClient(newDBInstance(condition.Condition{Type: condition.TypeResourceSynced, Status: metav1.ConditionTrue}))
		})

		It("should pass AssertSynced and fail AssertNotSynced", func() {
			Expect(condition.AssertSynced(context.TODO(), client, ref)).To(Succeed())
			Expect(condition.AssertNotSynced(context.TODO(), client, ref)).ToNot(Succeed())
		})

		It("should not wait", func() {
			Expect(condition.WaitForSynced(context.TODO(), client, ref, time.Second, time.Second)).To(Succeed())
		})
	})

	When("the resource is not synced", func() {
		BeforeEach(func() {
			client = newClient(newDBInstance(condition.Condition{Type: condition.TypeResourceSynced, Status: metav1.ConditionFalse}))
		})

		It("should pass AssertNotSynced", func() {
			Expect(condition.AssertNotSynced(context.TODO(), client, ref)).To(Succeed())
		})
	})

	When("the condition is missing", func() {
		BeforeEach(func() {
			client = newClient(newDBInstance())
		})

		It("should fail", func() {
			err := condition.AssertTypeStatus(context.TODO(), client, ref, condition.TypeTerminal, metav1.ConditionTrue)
			Expect(err).To(MatchError(ContainSubstring("failed to find ACK.Terminal")))

			c, err := condition.Get(context.TODO(), client, ref, condition.TypeTerminal)
			Expect(err).To(Succeed())
			Expect(c).To(BeNil())
		})
	})

	When("the resource doesn't exist", func() {
		It("should fail", func() {
			client = newClient(newDBInstance())
			Expect(condition.AssertSynced(context.TODO(), client, ref.WithName("db-2"))).ToNot(Succeed())
		})
	})
})

var _ = Describe("Matches", func() {
	It("should match on type and status", func() {
		obj := newDBInstance(condition.Condition{Type: condition.TypeResourceSynced, Status: metav1.ConditionTrue})

		Expect(condition.Matches(condition.TypeResourceSynced, metav1.ConditionTrue).Matches(obj.Object)).To(BeTrue())
		Expect(condition.Matches(condition.TypeResourceSynced, metav1.ConditionFalse).Matches(obj.Object)).To(BeFalse())
		Expect(condition.Matches(condition.TypeResourceSynced, metav1.ConditionTrue).Matches(nil)).To(BeFalse())
	})
})
