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

// Package tags converts between the tag shapes used by custom resources and by the RDS API.
package tags

import (
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// SystemPrefix marks tags the controller adds to every resource it manages.
const SystemPrefix = "services.k8s.aws/"

// Tag is a tag as echoed back by the cloud API.
type Tag struct {
	Key   string
	Value string
}

func FromRDS(in []rdstypes.Tag) []Tag {
	out := make([]Tag, 0, len(in))

	for i := range in {
		out = append(out, Tag{Key: aws.ToString(in[i].Key), Value: aws.ToString(in[i].Value)})
	}

	return out
}

// FromSpec converts the lowercase key/value list found in a resource's spec.tags.
func FromSpec(in []interface{}) []Tag {
	out := make([]Tag, 0, len(in))

	for _, raw := range in {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		k, _ := m["key"].(string)
		v, _ := m["value"].(string)
		out = append(out, Tag{Key: k, Value: v})
	}

	return out
}

// ToSpec is the inverse of FromSpec, producing a value suitable for a merge patch.
func ToSpec(in []Tag) []interface{} {
	out := make([]interface{}, 0, len(in))

	for _, t := range in {
		out = append(out, map[string]interface{}{"key": t.Key, "value": t.Value})
	}

	return out
}

// Clean strips system tags and sorts the remainder by key.
func Clean(in []Tag) []Tag {
	out := make([]Tag, 0, len(in))

	for _, t := range in {
		if strings.HasPrefix(t.Key, SystemPrefix) {
			continue
		}

		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})

	return out
}
