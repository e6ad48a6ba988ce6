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

// Package rds holds the e2e specs exercising the RDS controller.
package rds

import (
	"context"
	"time"

	. "github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/condition"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	"github.com/submariner-io/rds-e2e/test/e2e/framework"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const (
	syncTimeout  = 5 * time.Minute
	syncInterval = 5 * time.Second

	// Tag updates can take minutes to show up in the RDS API due to caching.
	tagTimeout  = 5 * time.Minute
	tagInterval = 15 * time.Second
)

func expectSynced(ctx context.Context, f *framework.Framework, ref resource.Reference) {
	Expect(condition.WaitForSynced(ctx, f.Resources, ref, syncTimeout, syncInterval)).To(Succeed())
}

func crStatus(obj *unstructured.Unstructured, field string) string {
	v, _, _ := unstructured.NestedString(obj.Object, "status", field)
	return v
}
