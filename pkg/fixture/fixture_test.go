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

package fixture_test

import (
	"context"
	"errors"
	"strings"
	"testing/fstest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	fakeaccessor "github.com/submariner-io/rds-e2e/pkg/accessor/fake"
	"github.com/submariner-io/rds-e2e/pkg/fake"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	"github.com/submariner-io/rds-e2e/pkg/template"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/testing"
	testingclock "k8s.io/utils/clock/testing"
)

const (
	groupName        = "pg13-test"
	groupDescription = "Parameters for PostgreSQL 13"
)

const paramGroupTemplate = `apiVersion: rds.services.k8s.aws/v1alpha1
kind: DBParameterGroup
metadata:
  name: $DB_PARAMETER_GROUP_NAME
spec:
  name: $DB_PARAMETER_GROUP_NAME
  description: $DB_PARAMETER_GROUP_DESC
  family: postgres13
  parameterOverrides:
    array_nulls: "1"
    authentication_timeout: "50"
  tags:
    - key: environment
      value: dev
`

const subnetGroupTemplate = `apiVersion: rds.services.k8s.aws/v1alpha1
kind: DBSubnetGroup
metadata:
  name: $DB_SUBNET_GROUP_NAME
spec:
  name: $DB_SUBNET_GROUP_NAME
  description: Subnet group
`

var _ = Describe("Manager", func() {
	var (
		dynClient   *dynamicfake.FakeDynamicClient
		cloud       *fakeaccessor.Accessor
		consumer    *fake.ConsumingReactor
		manager     *fixture.Manager
		spec        fixture.Spec
		fakeClock   *testingclock.FakeClock
		stopClock   func()
		deleteCount int
		onDelete    func(name string)
	)

	BeforeEach(func() {
		ref := resource.Reference{
			Group:     "rds.services.k8s.aws",
			Version:   "v1alpha1",
			Resource:  "dbparametergroups",
			Name:      groupName,
			Namespace: "default",
		}

		dynClient = fake.NewDynamicClient(map[schema.GroupVersionResource]string{
			ref.GroupVersionResource(): "DBParameterGroupList",
		})

		cloud = fakeaccessor.NewAccessor("DBParameterGroup", "", "")
		deleteCount = 0
		onDelete = func(name string) {
			cloud.Set(name, nil)
		}

		// Simulate the controller: the cloud resource appears when the custom resource is created and
		// disappears when it's deleted.
		dynClient.PrependReactor("create", ref.Resource, func(a testing.Action) (bool, runtime.Object, error) {
			obj := a.(testing.CreateAction).GetObject().(*unstructured.Unstructured)
			desc, _, _ := unstructured.NestedString(obj.Object, "spec", "description")
			cloud.Set(obj.GetName(), accessor.Record{"DBParameterGroupName": obj.GetName(), "Description": desc})

			return false, nil, nil
		})
		dynClient.PrependReactor("delete", ref.Resource, func(a testing.Action) (bool, runtime.Object, error) {
			deleteCount++
			onDelete(a.(testing.DeleteAction).GetName())

			return false, nil, nil
		})

		consumer = fake.AddConsumingReactor(&dynClient.Fake, ref.Resource, map[string]interface{}{
			"ackResourceMetadata": map[string]interface{}{"arn": "arn:aws:rds:us-west-2:123456789012:pg:" + groupName},
		})

		fakeClock = testingclock.NewFakeClock(time.Now())
		stopClock = fake.AutoStep(fakeClock, time.Second)

		manager = fixture.NewManager(&template.Renderer{
			FS: fstest.MapFS{
				"resources/db_parameter_group_postgres13_standard.yaml": &fstest.MapFile{Data: []byte(paramGroupTemplate)},
			},
			Dir: "resources",
		}, resource.NewClient(dynClient).WithClock(fakeClock))

		spec = fixture.Spec{
			Template: "db_parameter_group_postgres13_standard",
			Replacements: template.Replacements{
				"DB_PARAMETER_GROUP_NAME": groupName,
				"DB_PARAMETER_GROUP_DESC": groupDescription,
			},
			Reference:     ref,
			Accessor:      cloud,
			DeleteOptions: []poll.Option{poll.WithClock(fakeClock), poll.WithInterval(time.Second)},
		}
	})

	AfterEach(func() {
		stopClock()
	})

	It("should converge the parameter group and confirm its deletion on release", func() {
		h, err := manager.Acquire(context.TODO(), spec)
		Expect(err).To(Succeed())
		Expect(h.ID).To(Equal(groupName))
		Expect(h.Initial.GetName()).To(Equal(groupName))
		Expect(h.Initial.Object).To(HaveKey("status"))

		r, err := poll.WaitUntil(context.TODO(), cloud, h.ID, matcher.Equals("Description", groupDescription),
			poll.WithClock(fakeClock))
		Expect(err).To(Succeed())
		Expect(r.String("DBParameterGroupName")).To(Equal(groupName))

		Expect(manager.Release(context.TODO(), h)).To(Succeed())

		r, err = cloud.Get(context.TODO(), groupName)
		Expect(err).To(Succeed())
		Expect(r).To(BeNil())
	})

	It("should release at most once", func() {
		h, err := manager.Acquire(context.TODO(), spec)
		Expect(err).To(Succeed())

		Expect(manager.Release(context.TODO(), h)).To(Succeed())
		Expect(manager.Release(context.TODO(), h)).To(Succeed())
		Expect(deleteCount).To(Equal(1))
	})

	When("a replacement is missing", func() {
		It("should fail before creating anything", func() {
			delete(spec.Replacements, "DB_PARAMETER_GROUP_DESC")

			_, err := manager.Acquire(context.TODO(), spec)
			Expect(template.IsMissingReplacement(err)).To(BeTrue())
			Expect(dynClient.Actions()).To(BeEmpty())
		})
	})

	When("the controller never consumes the resource", func() {
		It("should release it and return the timeout", func() {
			consumer.SetEnabled(false)

			_, err := manager.Acquire(context.TODO(), spec)
			Expect(poll.IsTimeout(err)).To(BeTrue())
			Expect(deleteCount).To(Equal(1))
		})
	})

	When("deleting the custom resource fails", func() {
		It("should still wait for the cloud resource and report it if it's never deleted", func() {
			spec.DeleteOptions = append(spec.DeleteOptions, poll.WithTimeout(5*time.Second))

			h, err := manager.Acquire(context.TODO(), spec)
			Expect(err).To(Succeed())

			fake.NewFailingReactor(&dynClient.Fake).SetFailOnDelete(apierrors.NewServiceUnavailable("fake"))

			err = manager.Release(context.TODO(), h)
			Expect(err).To(HaveOccurred())
			Expect(poll.IsTimeout(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(groupName))
		})
	})

	When("the custom resource was already deleted", func() {
		It("should treat it as deleted", func() {
			h, err := manager.Acquire(context.TODO(), spec)
			Expect(err).To(Succeed())

			Expect(resource.NewClient(dynClient).Delete(context.TODO(), h.Reference)).To(Succeed())
			Expect(manager.Release(context.TODO(), h)).To(Succeed())
		})
	})

	When("the cloud resource has a lifecycle status", func() {
		BeforeEach(func() {
			cloud = fakeaccessor.NewAccessor("DBInstance", "DBInstanceStatus", "deleting")
			spec.Accessor = cloud
		})

		It("should wait for the controller to start deleting it", func() {
			onDelete = func(name string) {
				cloud.Set(name, accessor.Record{"DBInstanceStatus": "available"})
				cloud.Then(name, accessor.Record{"DBInstanceStatus": "deleting"}, nil)
			}

			h, err := manager.Acquire(context.TODO(), spec)
			Expect(err).To(Succeed())

			Expect(manager.Release(context.TODO(), h)).To(Succeed())
			Expect(cloud.GetCalls(groupName)).To(Equal(3))
		})

		It("should fail if it leaves the deleting status without going away", func() {
			onDelete = func(name string) {
				cloud.Set(name, accessor.Record{"DBInstanceStatus": "deleting"})
				cloud.Then(name, accessor.Record{"DBInstanceStatus": "failed"})
			}

			h, err := manager.Acquire(context.TODO(), spec)
			Expect(err).To(Succeed())

			err = manager.Release(context.TODO(), h)
			Expect(poll.IsUnexpectedState(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(groupName))
			Expect(err.Error()).To(ContainSubstring("failed"))
			Expect(deleteCount).To(Equal(1))
		})
	})

	Describe("WithFixture", func() {
		It("should release after the body succeeds", func() {
			var seen *fixture.Handle

			Expect(manager.WithFixture(context.TODO(), spec, func(h *fixture.Handle) error {
				seen = h
				return nil
			})).To(Succeed())

			Expect(seen).ToNot(BeNil())
			Expect(deleteCount).To(Equal(1))
		})

		It("should release exactly once when the body fails and return the body's error", func() {
			bodyErr := errors.New("assertion failed")

			err := manager.WithFixture(context.TODO(), spec, func(_ *fixture.Handle) error {
				return bodyErr
			})
			Expect(err).To(BeIdenticalTo(bodyErr))
			Expect(deleteCount).To(Equal(1))
		})

		It("should release when the body panics", func() {
			Expect(func() {
				_ = manager.WithFixture(context.TODO(), spec, func(_ *fixture.Handle) error {
					panic("boom")
				})
			}).To(PanicWith("boom"))

			Expect(deleteCount).To(Equal(1))

			r, err := cloud.Get(context.TODO(), groupName)
			Expect(err).To(Succeed())
			Expect(r).To(BeNil())
		})
	})

	Describe("Scope", func() {
		It("should release every fixture in reverse order", func() {
			var order []string

			dynClient.PrependReactor("delete", "dbparametergroups", func(a testing.Action) (bool, runtime.Object, error) {
				order = append(order, a.(testing.DeleteAction).GetName())
				return false, nil, nil
			})

			scope := manager.NewScope()

			for _, name := range []string{"pg13-a", "pg13-b", "pg13-c"} {
				s := spec
				s.Reference = spec.Reference.WithName(name)
				s.Replacements = template.Merge(spec.Replacements, template.Replacements{"DB_PARAMETER_GROUP_NAME": name})

				_, err := scope.Acquire(context.TODO(), s)
				Expect(err).To(Succeed())
			}

			Expect(scope.Len()).To(Equal(3))
			Expect(scope.Release(context.TODO())).To(Succeed())
			Expect(scope.Len()).To(BeZero())
			Expect(order).To(Equal([]string{"pg13-c", "pg13-b", "pg13-a"}))
			Expect(deleteCount).To(Equal(3))
		})
	})
})

var _ = Describe("Register", func() {
	var (
		manager     *fixture.Manager
		ref         resource.Reference
		deleteCount int
	)

	setup := func() {
		ref = resource.Reference{
			Group:     "rds.services.k8s.aws",
			Version:   "v1alpha1",
			Resource:  "dbsubnetgroups",
			Name:      "subnet-group-test",
			Namespace: "default",
		}

		dynClient := fake.NewDynamicClient(map[schema.GroupVersionResource]string{
			ref.GroupVersionResource(): "DBSubnetGroupList",
		})
		dynClient.PrependReactor("delete", ref.Resource, func(_ testing.Action) (bool, runtime.Object, error) {
			deleteCount++
			return false, nil, nil
		})
		fake.AddConsumingReactor(&dynClient.Fake, ref.Resource, map[string]interface{}{"subnetGroupStatus": "Complete"})

		manager = fixture.NewManager(&template.Renderer{
			FS: fstest.MapFS{
				"resources/db_subnet_group.yaml": &fstest.MapFile{Data: []byte(subnetGroupTemplate)},
			},
			Dir: "resources",
		}, resource.NewClient(dynClient))
		deleteCount = 0
	}

	acquire := func(scope *fixture.Scope) {
		_, err := scope.Acquire(context.TODO(), fixture.Spec{
			Template:     "db_subnet_group",
			Replacements: template.Replacements{"DB_SUBNET_GROUP_NAME": ref.Name},
			Reference:    ref,
		})
		Expect(err).To(Succeed())
	}

	Context("from BeforeAll", Ordered, func() {
		var (
			scope *fixture.Scope
			seen  []int
		)

		BeforeAll(func() {
			setup()

			// Cleanups run in reverse order so this one observes the scope's release.
			DeferCleanup(func() {
				Expect(scope.Len()).To(BeZero())
				Expect(deleteCount).To(Equal(1))
			})

			scope = manager.Register()
			acquire(scope)
		})

		It("should keep the fixture for the first spec", func() {
			seen = append(seen, deleteCount)
			Expect(scope.Len()).To(Equal(1))
		})

		It("should keep the fixture for a later spec", func() {
			seen = append(seen, deleteCount)
			Expect(scope.Len()).To(Equal(1))
		})

		AfterAll(func() {
			Expect(seen).To(Equal([]int{0, 0}))
			Expect(deleteCount).To(BeZero())
		})
	})

	Context("from a spec", Ordered, func() {
		var scope *fixture.Scope

		BeforeAll(func() {
			setup()
		})

		It("should hold the fixture while the spec runs", func() {
			scope = manager.Register()
			acquire(scope)

			Expect(scope.Len()).To(Equal(1))
			Expect(deleteCount).To(BeZero())
		})

		It("should have released it exactly once when the spec completed", func() {
			Expect(scope.Len()).To(BeZero())
			Expect(deleteCount).To(Equal(1))
		})
	})
})

var _ = Describe("RandomSuffixName", func() {
	It("should respect the maximum length", func() {
		name := fixture.RandomSuffixName("ack-test-subnet-group", 30)
		Expect(name).To(HaveLen(30))
		Expect(name).To(HavePrefix("ack-test-subnet-group-"))
		Expect(strings.ToLower(name)).To(Equal(name))
	})

	It("should produce distinct names", func() {
		Expect(fixture.RandomSuffixName("pg13", 24)).ToNot(Equal(fixture.RandomSuffixName("pg13", 24)))
	})

	It("should shorten a long prefix", func() {
		name := fixture.RandomSuffixName("a-very-long-resource-name-prefix", 20)
		Expect(name).To(HaveLen(20))
		Expect(name).To(HavePrefix("a-very-long-re-"))
	})

	It("should never exceed a maximum length too short for the prefix", func() {
		for maxLen := 1; maxLen <= 7; maxLen++ {
			Expect(len(fixture.RandomSuffixName("pg13", maxLen))).To(BeNumerically("<=", maxLen))
		}

		Expect(fixture.RandomSuffixName("pg13", 3)).To(HaveLen(3))
		Expect(fixture.RandomSuffixName("pg13", 0)).To(BeEmpty())
	})

	It("should normalize the prefix", func() {
		Expect(fixture.RandomSuffixName("Aurora.MySQL", 32)).To(HavePrefix("aurora-mysql-"))
	})
})
