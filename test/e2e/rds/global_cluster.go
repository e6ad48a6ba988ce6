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
	"github.com/submariner-io/rds-e2e/pkg/condition"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	. "github.com/submariner-io/rds-e2e/pkg/gomega"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
)

var _ = Describe("GlobalCluster", Label(framework.CanaryLabel), func() {
	It("should create an Aurora PostgreSQL global cluster that is immediately available", func(ctx context.Context) {
		f := framework.Get()
		a := f.Accessor(rds.GlobalCluster)
		name := fixture.RandomSuffixName("my-test-global-cluster", 32)

		spec := f.FixtureSpec(rds.GlobalCluster, "global_cluster", name, template.Replacements{
			"GLOBAL_CLUSTER_NAME":    name,
			"GLOBAL_CLUSTER_ENGINE":  "aurora-postgresql",
			"GLOBAL_CLUSTER_DB_NAME": "testdb",
		})

		Expect(f.Fixtures.WithFixture(ctx, spec, func(h *fixture.Handle) error {
			Expect(crStatus(h.Initial, "status")).To(Equal("available"))

			expectSynced(ctx, f, h.Reference)
			Expect(condition.AssertSynced(ctx, f.Resources, h.Reference)).To(Succeed())

			record, err := a.Get(ctx, name)
			if err != nil {
				return err
			}

			Expect(a.ARN(record)).NotTo(BeEmpty())

			return nil
		})).To(Succeed())

		Expect(a.Get(ctx, name)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})
