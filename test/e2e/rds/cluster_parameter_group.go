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

const auroraMySQLDescription = "Parameters for Aurora MySQL 5.7-compatible"

var _ = Describe("DBClusterParameterGroup", Label(framework.CanaryLabel), func() {
	It("should create and delete an Aurora MySQL 5.7 cluster parameter group", func(ctx context.Context) {
		f := framework.Get()
		a := f.Accessor(rds.DBClusterParameterGroup)
		name := fixture.RandomSuffixName("aurora-mysql-5-7", 32)

		spec := f.FixtureSpec(rds.DBClusterParameterGroup, "db_cluster_parameter_group_aurora_mysql5.7", name,
			template.Replacements{
				"DB_CLUSTER_PARAMETER_GROUP_NAME": name,
				"DB_CLUSTER_PARAMETER_GROUP_DESC": auroraMySQLDescription,
			})

		Expect(f.Fixtures.WithFixture(ctx, spec, func(h *fixture.Handle) error {
			_, err := poll.WaitUntil(ctx, a, name, matcher.Equals("Description", auroraMySQLDescription), f.WaitOptions(a)...)
			if err != nil {
				return err
			}

			Eventually(func(ctx context.Context) (map[string]string, error) {
				params, err := f.RDS.GetClusterParameters(ctx, name)
				return rds.UserParameterValues(params), err
			}).WithContext(ctx).WithTimeout(tagTimeout).WithPolling(tagInterval).
				Should(HaveKeyWithValue("aurora_binlog_read_buffer_size", "8192"))

			expectSynced(ctx, f, h.Reference)

			return nil
		})).To(Succeed())

		Expect(a.Get(ctx, name)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})
