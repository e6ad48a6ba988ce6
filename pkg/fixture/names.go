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

package fixture

import (
	"strings"

	"github.com/submariner-io/rds-e2e/pkg/resource"
	utilrand "k8s.io/apimachinery/pkg/util/rand"
)

const minSuffixLen = 5

// RandomSuffixName returns prefix followed by a dash and a random lowercase alphanumeric suffix, at most
// maxLen characters long in total. The prefix is normalized to a valid resource name and shortened if needed
// to keep at least a five character suffix. If maxLen leaves no room for the prefix, the name is only the
// suffix, maxLen characters long.
func RandomSuffixName(prefix string, maxLen int) string {
	prefix = resource.EnsureValidName(prefix)

	if maxLen <= minSuffixLen {
		return utilrand.String(max(maxLen, 0))
	}

	suffixLen := maxLen - len(prefix) - 1
	if suffixLen < minSuffixLen {
		suffixLen = minSuffixLen

		keep := maxLen - suffixLen - 1
		if keep < 0 {
			keep = 0
		}

		prefix = strings.TrimRight(prefix[:keep], "-")
	}

	if prefix == "" {
		return utilrand.String(suffixLen)
	}

	return prefix + "-" + utilrand.String(suffixLen)
}
