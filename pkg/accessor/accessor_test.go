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

package accessor_test

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/accessor/fake"
	"github.com/submariner-io/rds-e2e/pkg/tags"
)

var _ = Describe("ToRecord", func() {
	It("should key the record by API field name", func() {
		r, err := accessor.ToRecord(rdstypes.DBParameterGroup{
			DBParameterGroupName:   aws.String("pg13-test"),
			DBParameterGroupFamily: aws.String("postgres13"),
			Description:            aws.String("Parameters for PostgreSQL 13"),
		})
		Expect(err).To(Succeed())
		Expect(r.String("DBParameterGroupName")).To(Equal("pg13-test"))
		Expect(r.String("Description")).To(Equal("Parameters for PostgreSQL 13"))
		Expect(r).ToNot(HaveKey("DBParameterGroupArn"))
	})

	It("should keep nested structures", func() {
		r, err := accessor.ToRecord(rdstypes.DBInstance{
			DBInstanceStatus: aws.String("available"),
			Endpoint:         &rdstypes.Endpoint{Address: aws.String("db.example.com"), Port: aws.Int32(5432)},
		})
		Expect(err).To(Succeed())
		Expect(r["Endpoint"]).To(HaveKeyWithValue("Address", "db.example.com"))
	})

	It("should return nil for nil input", func() {
		r, err := accessor.ToRecord(nil)
		Expect(err).To(Succeed())
		Expect(r).To(BeNil())
	})
})

var _ = Describe("Status", func() {
	It("should read the accessor's status field", func() {
		a := fake.NewAccessor("DBInstance", "DBInstanceStatus", "deleting")

		s, ok := accessor.Status(a, accessor.Record{"DBInstanceStatus": "creating"})
		Expect(ok).To(BeTrue())
		Expect(s).To(Equal("creating"))

		_, ok = accessor.Status(a, nil)
		Expect(ok).To(BeFalse())
	})

	It("should report no status for kinds without a status field", func() {
		a := fake.NewAccessor("DBParameterGroup", "", "")

		_, ok := accessor.Status(a, accessor.Record{"Status": "available"})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("StatusEquals", func() {
	It("should match on the accessor's status field", func() {
		m := accessor.StatusEquals(fake.NewAccessor("DBInstance", "DBInstanceStatus", "deleting"), "available")
		Expect(m.Matches(map[string]interface{}{"DBInstanceStatus": "available"})).To(BeTrue())
		Expect(m.Matches(map[string]interface{}{"Status": "available"})).To(BeFalse())
	})
})

var _ = Describe("Timing", func() {
	It("should use the accessor's defaults when provided", func() {
		a := fake.NewAccessor("DBInstance", "DBInstanceStatus", "deleting")
		a.SetTiming(accessor.Timing{Timeout: time.Minute, Interval: time.Second})

		Expect(accessor.WaitTimingFor(a)).To(Equal(accessor.Timing{Timeout: time.Minute, Interval: time.Second}))
		Expect(accessor.DeleteTimingFor(a).Timeout).To(Equal(time.Minute))
	})

	It("should fall back to the package default", func() {
		Expect(accessor.WaitTimingFor(&bare{})).To(Equal(accessor.DefaultTiming))
	})
})

var _ = Describe("Fake accessor Get", func() {
	It("should be idempotent when the resource doesn't change", func() {
		a := fake.NewAccessor("DBParameterGroup", "", "")
		a.Set("pg13-test", accessor.Record{"Description": "Parameters for PostgreSQL 13"})

		r1, err := a.Get(context.TODO(), "pg13-test")
		Expect(err).To(Succeed())
		r2, err := a.Get(context.TODO(), "pg13-test")
		Expect(err).To(Succeed())
		Expect(r1).To(Equal(r2))
		Expect(a.GetCalls("pg13-test")).To(Equal(2))
	})
})

type bare struct{}

func (b *bare) Kind() string {
	return "Bare"
}

func (b *bare) Get(_ context.Context, _ string) (accessor.Record, error) {
	return nil, nil
}

func (b *bare) GetTags(_ context.Context, _ string) ([]tags.Tag, error) {
	return nil, nil
}
