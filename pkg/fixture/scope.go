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
	"context"
	"sync"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/onsi/ginkgo/v2"
)

// Scope releases every fixture acquired through it, most recent first.
type Scope struct {
	mutex   sync.Mutex
	manager *Manager
	handles *arraystack.Stack
}

func (m *Manager) NewScope() *Scope {
	return &Scope{manager: m, handles: arraystack.New()}
}

// Acquire acquires a fixture and tracks it for release by the scope.
func (s *Scope) Acquire(ctx context.Context, spec Spec) (*Handle, error) {
	h, err := s.manager.Acquire(ctx, spec)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.handles.Push(h)

	return h, nil
}

// Len returns the number of fixtures not yet released.
func (s *Scope) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.handles.Size()
}

// Release releases every tracked fixture in reverse acquisition order, continuing past failures.
func (s *Scope) Release(ctx context.Context) error {
	var errs []error

	for {
		s.mutex.Lock()
		v, ok := s.handles.Pop()
		s.mutex.Unlock()

		if !ok {
			break
		}

		if err := s.manager.Release(ctx, v.(*Handle)); err != nil {
			errs = append(errs, err)
		}
	}

	return combine(errs...)
}

// Register creates a scope released when the current ginkgo container or spec completes. Called from
// BeforeAll, the fixtures live for the whole ordered container; from BeforeEach or It, for a single spec.
func (m *Manager) Register() *Scope {
	s := m.NewScope()

	ginkgo.DeferCleanup(func(ctx context.Context) error {
		return s.Release(ctx)
	})

	return s
}
