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
	"github.com/submariner-io/rds-e2e/pkg/secret"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

var _ = Describe("DBInstance", Label(framework.CanaryLabel, framework.SlowLabel), Ordered, func() {
	var (
		f      *framework.Framework
		a      *rds.Accessor
		handle *fixture.Handle
		id     string
	)

	BeforeAll(func(ctx context.Context) {
		framework.SkipUnlessSlow()

		f = framework.Get()
		a = f.Accessor(rds.DBInstance)
		id = fixture.RandomSuffixName("pg13-t3-micro", 32)

		password, err := f.Secrets.Create(ctx, framework.TestContext.Config.Namespace, "dbinstancesecrets",
			"master_user_password", "secretpass123456")
		Expect(err).To(Succeed())

		handle, err = f.Fixtures.Register().Acquire(ctx, f.FixtureSpec(rds.DBInstance, "db_instance_postgres13_t3_micro", id,
			passwordReplacements(password, template.Replacements{
				"DB_INSTANCE_ID":        id,
				"COPY_TAGS_TO_SNAPSHOT": "false",
			})))
		Expect(err).To(Succeed())
	})

	It("should report the creating status", func() {
		Expect(crStatus(handle.Initial, "dbInstanceStatus")).To(Equal("creating"))
	})

	It("should become available in RDS", func(ctx context.Context) {
		record, err := poll.WaitUntil(ctx, a, id, accessor.StatusEquals(a, "available"), f.WaitOptions(a)...)
		Expect(err).To(Succeed())
		Expect(record).To(HaveRecordField("CopyTagsToSnapshot", false))
	})

	It("should reflect the RDS status in the custom resource", func(ctx context.Context) {
		_, err := f.Resources.WaitFor(ctx, handle.Reference, matcher.Custom("dbInstanceStatus is not creating",
			func(obj map[string]interface{}) bool {
				status, _, _ := unstructured.NestedString(obj, "status", "dbInstanceStatus")
				return status != "" && status != "creating"
			}), syncTimeout, syncInterval)
		Expect(err).To(Succeed())
	})

	It("should update copyTagsToSnapshot", func(ctx context.Context) {
		_, err := f.Resources.Patch(ctx, handle.Reference, map[string]interface{}{
			"spec": map[string]interface{}{"copyTagsToSnapshot": true},
		})
		Expect(err).To(Succeed())

		_, err = poll.WaitUntil(ctx, a, id, matcher.Equals("CopyTagsToSnapshot", true), f.WaitOptions(a)...)
		Expect(err).To(Succeed())
	})

	It("should be deleted from RDS once released", func(ctx context.Context) {
		Expect(f.Fixtures.Release(ctx, handle)).To(Succeed())
		Expect(a.Get(ctx, id)).To(SatisfyRecordMatcher(matcher.Absent()))
	})
})

func passwordReplacements(ref secret.Ref, extra template.Replacements) template.Replacements {
	return template.Merge(template.Replacements{
		"MASTER_USER_PASS_SECRET_NAMESPACE": ref.Namespace,
		"MASTER_USER_PASS_SECRET_NAME":      ref.Name,
		"MASTER_USER_PASS_SECRET_KEY":       ref.Key,
	}, extra)
}
