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
	"fmt"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Reference identifies a custom resource in the control system. It stays the same for the lifetime of the
// resource.
type Reference struct {
	Group     string
	Version   string
	Resource  string
	Name      string
	Namespace string
}

func (r Reference) GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: r.Group, Version: r.Version, Resource: r.Resource}
}

// WithName returns a copy of the reference for another resource of the same type.
func (r Reference) WithName(name string) Reference {
	r.Name = name
	return r
}

func (r Reference) String() string {
	gr := r.GroupVersionResource().GroupResource().String()
	if r.Namespace == "" {
		return fmt.Sprintf("%s %s", gr, r.Name)
	}

	return fmt.Sprintf("%s %s/%s", gr, r.Namespace, r.Name)
}
