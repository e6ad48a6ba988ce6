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

package resource

import (
	"strings"
	"unicode"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

func ToMeta(obj runtime.Object) metav1.Object {
	objMeta, err := meta.Accessor(obj)
	if err != nil {
		panic(err)
	}

	return objMeta
}

// EnsureValidName converts the string to a valid resource name. RDS identifiers follow the same rules
// except that they don't permit '.', which is also converted.
func EnsureValidName(name string) string {
	name = strings.Map(func(c rune) rune {
		c = unicode.ToLower(c)
		if (c < 'a' || c > 'z') && !unicode.IsDigit(c) {
			return '-'
		}

		return c
	}, name)

	return strings.Trim(name, "-")
}
