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

//go:build e2e

package rds

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/accessor/rds"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	. "github.com/submariner-io/rds-e2e/pkg/gomega"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"github.com/submariner-io/rds-e2e/pkg/tags"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
)

const pg13Description = "Parameters for PostgreSQL 13"

var _ = Describe("DBParameterGroup", Label(framework.CanaryLabel), Ordered, func() {
	var (
		f      *framework.Framework
		a      *rds.Accessor
		handle *fixture.Handle
		name   string
		arn    string
	)

	BeforeAll(func(ctx context.Context) {
		f = framework.Get()
		a = f.Accessor(rds.DBParameterGroup)
		name = fixture.RandomSuffixName("pg13-standard", 24)

		var err error

		handle, err = f.Fixtures.Register().Acquire(ctx, f.FixtureSpec(rds.DBParameterGroup,
			"db_parameter_group_postgres13_standard", name, template.Replacements{
				"DB_PARAMETER_GROUP_NAME": name,
				"DB_PARAMETER_GROUP_DESC": pg13Description,
			}))
		Expect(err).To(Succeed())
	})

	It("should create the parameter group in RDS", func(ctx context.Context) {
		Expect(f.Resources.Exists(ctx, handle.Reference)).To(BeTrue())

		record, err := poll.WaitUntil(ctx, a, name, matcher.Equals("Description", pg13Description), f.WaitOptions(a)...)
		Expect(err).To(Succeed())

		arn = a.ARN(record)
		Expect(arn).NotTo(BeEmpty())

		expectSynced(ctx, f, handle.Reference)
	})

	It("should apply the parameter overrides", func(ctx context.Context) {
		params, err := f.RDS.GetParameters(ctx, name)
		Expect(err).To(Succeed())
		Expect(rds.UserParameterValues(params)).To(And(
			HaveKeyWithValue("array_nulls", "1"),
			HaveKeyWithValue("authentication_timeout", "50")))
	})

	It("should apply the tags", func(ctx context.Context) {
		Expect(a.GetTags(ctx, arn)).To(HaveTags(tags.Tag{Key: "environment", Value: "dev"}))
	})

	When("the tags and overrides are updated", func() {
		BeforeAll(func(ctx context.Context) {
			_, err := f.Resources.Patch(ctx, handle.Reference, map[string]interface{}{
				"spec": map[string]interface{}{
					"tags": tags.ToSpec([]tags.Tag{{Key: "environment", Value: "prod"}}),
					"parameterOverrides": map[string]interface{}{
						"array_nulls":            "1",
						"authentication_timeout": "60",
					},
				},
			})
			Expect(err).To(Succeed())
		})

		It("should update the tags in RDS", func(ctx context.Context) {
			Eventually(func(ctx context.Context) ([]tags.Tag, error) {
				return a.GetTags(ctx, arn)
			}).WithContext(ctx).WithTimeout(tagTimeout).WithPolling(tagInterval).
				Should(HaveTags(tags.Tag{Key: "environment", Value: "prod"}))
		})

		It("should update the parameters in RDS", func(ctx context.Context) {
			Eventually(func(ctx context.Context) (map[string]string, error) {
				params, err := f.RDS.GetParameters(ctx, name)
				return rds.UserParameterValues(params), err
			}).WithContext(ctx).WithTimeout(tagTimeout).WithPolling(tagInterval).
				Should(HaveKeyWithValue("authentication_timeout", "60"))
		})
	})

	It("should leave no parameter group behind once released", func(ctx context.Context) {
		Expect(f.Fixtures.Release(ctx, handle)).To(Succeed())
		Expect(a.Get(ctx, name)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})
