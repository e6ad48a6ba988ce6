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

// Package fixture manages the lifecycle of custom resources created for a test: render, create, wait for the
// controller, and on release delete and confirm the cloud resource is gone.
package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

const DefaultConsumeTimeout = resource.DefaultConsumeTimeout

// Spec describes a fixture to acquire.
type Spec struct {
	// Template is the name of the template to render, without the .yaml extension.
	Template     string
	Replacements template.Replacements
	Reference    resource.Reference
	// Accessor reads the cloud resource backing the custom resource. If nil, release doesn't wait for the
	// cloud resource to disappear.
	Accessor accessor.Interface
	// ID identifies the cloud resource; defaults to the reference's name.
	ID string
	// DeleteOptions customize the wait for the cloud resource's deletion.
	DeleteOptions []poll.Option
}

// Handle is an acquired fixture.
type Handle struct {
	Reference resource.Reference
	// Initial is the custom resource as first observed after the controller consumed it.
	Initial *unstructured.Unstructured
	ID      string

	spec       Spec
	once       sync.Once
	releaseErr error
}

type Manager struct {
	Renderer  *template.Renderer
	Resources *resource.Client
	Logger    log.Logger
	// ConsumeTimeout bounds the wait for the controller to populate a created resource's status.
	ConsumeTimeout time.Duration
}

func NewManager(renderer *template.Renderer, resources *resource.Client) *Manager {
	return &Manager{
		Renderer:       renderer,
		Resources:      resources,
		Logger:         log.Logger{Logger: logf.Log.WithName("Fixture")},
		ConsumeTimeout: DefaultConsumeTimeout,
	}
}

// Acquire renders the template, creates the custom resource and waits for the controller to consume it. If
// the controller never does, the resource is released before returning the error.
func (m *Manager) Acquire(ctx context.Context, spec Spec) (*Handle, error) {
	if spec.ID == "" {
		spec.ID = spec.Reference.Name
	}

	doc, err := m.Renderer.Render(spec.Template, spec.Replacements)
	if err != nil {
		return nil, err //nolint:wrapcheck // Carries the template name.
	}

	m.Logger.V(log.TRACE).Info("Rendered document", "template", spec.Template, "document", doc.Object)

	_, err = m.Resources.Create(ctx, spec.Reference, doc)
	if err != nil {
		return nil, err //nolint:wrapcheck // Carries the reference.
	}

	h := &Handle{
		Reference: spec.Reference,
		ID:        spec.ID,
		spec:      spec,
	}

	timeout := m.ConsumeTimeout
	if timeout == 0 {
		timeout = DefaultConsumeTimeout
	}

	h.Initial, err = m.Resources.WaitConsumed(ctx, spec.Reference, timeout)
	if err != nil {
		err = errors.WithMessagef(err, "%s was not consumed by the controller", spec.Reference)
		return nil, combine(err, m.Release(ctx, h))
	}

	m.Logger.Infof("Acquired %s", spec.Reference)

	return h, nil
}

// Release deletes the custom resource and waits for the cloud resource to be deleted. It runs at most once
// per handle; later calls return the first call's result. Errors deleting the custom resource are logged and
// ignored; a cloud resource that doesn't go away is returned as an error.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}

	h.once.Do(func() {
		h.releaseErr = m.release(ctx, h)
	})

	return h.releaseErr
}

func (m *Manager) release(ctx context.Context, h *Handle) error {
	err := m.Resources.Delete(ctx, h.Reference)

	switch {
	case err == nil:
		m.Logger.Infof("Deleted %s", h.Reference)
	case resource.IsNotFoundErr(err):
		m.Logger.Infof("%s was already deleted", h.Reference)
	default:
		m.Logger.Warningf("Error deleting %s: %v", h.Reference, err)
	}

	if h.spec.Accessor == nil {
		return nil
	}

	err = poll.WaitUntilDeleted(ctx, h.spec.Accessor, h.ID, h.spec.DeleteOptions...)

	return errors.WithMessagef(err, "%s %q was not deleted", h.spec.Accessor.Kind(), h.ID)
}

// WithFixture acquires a fixture, runs body with it and releases it on every exit path, including a panic in
// body.
func (m *Manager) WithFixture(ctx context.Context, spec Spec, body func(*Handle) error) (err error) {
	h, err := m.Acquire(ctx, spec)
	if err != nil {
		return err
	}

	defer func() {
		r := recover()

		releaseErr := m.Release(ctx, h)
		if r != nil {
			panic(r)
		}

		err = combine(err, releaseErr)
	}()

	return body(h)
}

// combine returns the only non-nil error as is so it can still be classified, or an aggregate of several.
func combine(errs ...error) error {
	var nonNil []error

	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	if len(nonNil) == 1 {
		return nonNil[0]
	}

	return utilerrors.NewAggregate(nonNil)
}
