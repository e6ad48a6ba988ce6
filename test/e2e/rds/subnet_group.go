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
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
)

var _ = Describe("DBSubnetGroup", Label(framework.CanaryLabel), func() {
	It("should create and delete a subnet group spanning two zones", func(ctx context.Context) {
		f := framework.Get()
		a := f.Accessor(rds.DBSubnetGroup)
		name := fixture.RandomSuffixName("my-db-subnet-group", 32)

		spec := f.FixtureSpec(rds.DBSubnetGroup, "db_subnet_group_2az", name, template.Replacements{
			"DB_SUBNET_GROUP_NAME": name,
			"DB_SUBNET_GROUP_DESC": name + " description",
		})

		Expect(f.Fixtures.WithFixture(ctx, spec, func(h *fixture.Handle) error {
			Expect(f.Resources.Exists(ctx, h.Reference)).To(BeTrue())

			record, err := poll.WaitUntil(ctx, a, name, matcher.Equals("SubnetGroupStatus", "Complete"), f.WaitOptions(a)...)
			Expect(err).To(Succeed())
			Expect(record).To(HaveRecordField("VpcId", f.Bootstrap.VPCID))
			Expect(record["Subnets"]).To(HaveLen(2))

			return nil
		})).To(Succeed())

		Expect(a.Get(ctx, name)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})
