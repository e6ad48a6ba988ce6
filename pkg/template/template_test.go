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

package template_test

import (
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
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
  tags:
    - key: environment
      value: dev
`

var _ = Describe("Renderer", func() {
	var renderer *template.Renderer

	BeforeEach(func() {
		renderer = &template.Renderer{
			FS: fstest.MapFS{
				"resources/db_parameter_group_postgres13_standard.yaml": &fstest.MapFile{Data: []byte(paramGroupTemplate)},
			},
			Dir: "resources",
		}
	})

	It("should substitute every placeholder and parse the document", func() {
		obj, err := renderer.Render("db_parameter_group_postgres13_standard", template.Replacements{
			"DB_PARAMETER_GROUP_NAME": "pg13-test",
			"DB_PARAMETER_GROUP_DESC": "Parameters for PostgreSQL 13",
		})
		Expect(err).To(Succeed())
		Expect(obj.GetName()).To(Equal("pg13-test"))
		Expect(obj.GetKind()).To(Equal("DBParameterGroup"))

		desc, _, _ := unstructured.NestedString(obj.Object, "spec", "description")
		Expect(desc).To(Equal("Parameters for PostgreSQL 13"))

		overrides, _, _ := unstructured.NestedStringMap(obj.Object, "spec", "parameterOverrides")
		Expect(overrides).To(Equal(map[string]string{"array_nulls": "1"}))
	})

	It("should be deterministic", func() {
		r := template.Replacements{"DB_PARAMETER_GROUP_NAME": "a", "DB_PARAMETER_GROUP_DESC": "b"}

		obj1, err := renderer.Render("db_parameter_group_postgres13_standard", r)
		Expect(err).To(Succeed())

		obj2, err := renderer.Render("db_parameter_group_postgres13_standard", r)
		Expect(err).To(Succeed())

		Expect(obj1).To(Equal(obj2))
	})

	It("should list every missing replacement", func() {
		_, err := renderer.Render("db_parameter_group_postgres13_standard", template.Replacements{})
		Expect(template.IsMissingReplacement(err)).To(BeTrue())

		missing := &template.MissingReplacementError{}
		Expect(err).To(BeAssignableToTypeOf(missing))
		Expect(err.(*template.MissingReplacementError).Missing).To(Equal([]string{
			"DB_PARAMETER_GROUP_DESC", "DB_PARAMETER_GROUP_NAME",
		}))
	})

	It("should fail for an unknown template", func() {
		_, err := renderer.Render("missing", template.Replacements{})
		Expect(err).To(HaveOccurred())
		Expect(template.IsMissingReplacement(err)).To(BeFalse())
	})
})

var _ = Describe("Substitute", func() {
	It("should replace longer tokens without touching shorter prefixes", func() {
		out, err := template.Substitute("t", "$NAME-$NAME_SUFFIX $$ $lower", template.Replacements{
			"NAME":        "a",
			"NAME_SUFFIX": "b",
		})
		Expect(err).To(Succeed())
		Expect(out).To(Equal("a-b $$ $lower"))
	})
})

var _ = Describe("RenderString", func() {
	It("should reject malformed YAML", func() {
		_, err := template.RenderString("bad", "kind: [unterminated", template.Replacements{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Merge", func() {
	It("should not modify the base", func() {
		base := template.Replacements{"PUBLIC_SUBNET_1": "subnet-1"}
		merged := template.Merge(base, template.Replacements{"DB_INSTANCE_ID": "db-1"}, template.Replacements{"PUBLIC_SUBNET_1": "x"})

		Expect(base).To(Equal(template.Replacements{"PUBLIC_SUBNET_1": "subnet-1"}))
		Expect(merged).To(Equal(template.Replacements{"PUBLIC_SUBNET_1": "x", "DB_INSTANCE_ID": "db-1"}))
	})
})
