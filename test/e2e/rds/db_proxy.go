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
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/accessor/rds"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	. "github.com/submariner-io/rds-e2e/pkg/gomega"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
)

var _ = Describe("DBProxy", Label(framework.CanaryLabel, framework.SlowLabel), func() {
	It("should create a PostgreSQL proxy that becomes available and synced", func(ctx context.Context) {
		framework.SkipUnlessSlow()

		f := framework.Get()
		secretARN := framework.TestContext.Config.ProxySecretARN

		if f.Bootstrap.ProxyRoleARN == "" || secretARN == "" {
			Skip("DB proxy specs need a proxy IAM role in the bootstrap file and RDS_E2E_PROXY_SECRET_ARN")
		}

		a := f.Accessor(rds.DBProxy)
		name := fixture.RandomSuffixName("my-test-proxy", 20)

		spec := f.FixtureSpec(rds.DBProxy, "db_proxy", name, template.Replacements{
			"DB_PROXY_NAME":          name,
			"DB_PROXY_ENGINE_FAMILY": "POSTGRESQL",
			"SECRET_ARN":             secretARN,
			"DESCRIPTION":            "proxy created by ack",
		})

		Expect(f.Fixtures.WithFixture(ctx, spec, func(h *fixture.Handle) error {
			Expect(crStatus(h.Initial, "status")).To(BeElementOf("creating", "available"))

			record, err := poll.WaitUntil(ctx, a, name, accessor.StatusEquals(a, "available"), f.WaitOptions(a)...)
			if err != nil {
				return err
			}

			Expect(a.ARN(record)).NotTo(BeEmpty())

			expectSynced(ctx, f, h.Reference)

			return nil
		})).To(Succeed())

		Expect(a.Get(ctx, name)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})
