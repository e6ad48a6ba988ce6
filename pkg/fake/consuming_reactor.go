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

package fake

import (
	"sync"

	"github.com/submariner-io/rds-e2e/pkg/resource"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/uuid"
	"k8s.io/client-go/testing"
)

// ConsumingReactor mimics a controller picking up newly created custom resources: before the object is
// stored it is assigned a UID and its status is populated.
type ConsumingReactor struct {
	mutex   sync.Mutex
	status  map[string]interface{}
	enabled bool
}

func AddConsumingReactor(f *testing.Fake, resourceType string, status map[string]interface{}) *ConsumingReactor {
	r := &ConsumingReactor{status: status, enabled: true}

	f.Lock()
	defer f.Unlock()

	f.PrependReactor("create", resourceType, r.react)

	return r
}

// SetEnabled controls whether created resources get a status, to simulate an absent controller.
func (r *ConsumingReactor) SetEnabled(v bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.enabled = v
}

func (r *ConsumingReactor) react(a testing.Action) (bool, runtime.Object, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	obj, ok := a.(testing.CreateAction).GetObject().(*unstructured.Unstructured)
	if !ok {
		return false, nil, nil
	}

	target := resource.ToMeta(obj)
	target.SetUID(uuid.NewUUID())

	if r.enabled && r.status != nil {
		_ = unstructured.SetNestedMap(obj.Object, runtime.DeepCopyJSON(r.status), "status")
	}

	// Let the remaining reactors store the modified object.
	return false, nil, nil
}
