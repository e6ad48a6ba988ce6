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

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/testing"
)

// FailingReactor fails selected verbs on a fake client with configurable errors.
type FailingReactor struct {
	mutex          sync.Mutex
	fail           map[string]error
	resetOnFailure bool
}

func NewFailingReactor(f *testing.Fake) *FailingReactor {
	return NewFailingReactorForResource(f, "*")
}

func NewFailingReactorForResource(f *testing.Fake, resource string) *FailingReactor {
	r := &FailingReactor{fail: map[string]error{}}

	f.Lock()
	defer f.Unlock()

	f.PrependReactor("*", resource, r.react)

	return r
}

func (f *FailingReactor) react(action testing.Action) (bool, runtime.Object, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	err := f.fail[action.GetVerb()]
	if err == nil {
		return false, nil, nil
	}

	if f.resetOnFailure {
		delete(f.fail, action.GetVerb())
	}

	return true, nil, err
}

// SetResetOnFailure makes each configured error fire only once.
func (f *FailingReactor) SetResetOnFailure(v bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.resetOnFailure = v
}

func (f *FailingReactor) setFailOn(verb string, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.fail[verb] = err
}

func (f *FailingReactor) SetFailOnCreate(err error) {
	f.setFailOn("create", err)
}

func (f *FailingReactor) SetFailOnGet(err error) {
	f.setFailOn("get", err)
}

func (f *FailingReactor) SetFailOnPatch(err error) {
	f.setFailOn("patch", err)
}

func (f *FailingReactor) SetFailOnDelete(err error) {
	f.setFailOn("delete", err)
}
