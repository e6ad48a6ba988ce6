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
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/utils/clock"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var logger = log.Logger{Logger: logf.Log.WithName("Resource")}

const (
	DefaultConsumeTimeout  = 45 * time.Second
	DefaultConsumeInterval = 3 * time.Second
)

// Client reads and writes custom resources through the dynamic client.
type Client struct {
	dynamic dynamic.Interface
	clock   clock.Clock
}

func NewClient(d dynamic.Interface) *Client {
	return &Client{dynamic: d, clock: clock.RealClock{}}
}

// WithClock returns a copy of the client that waits using the given clock.
func (c *Client) WithClock(clk clock.Clock) *Client {
	return &Client{dynamic: c.dynamic, clock: clk}
}

func (c *Client) resourceFor(ref Reference) dynamic.ResourceInterface {
	ri := c.dynamic.Resource(ref.GroupVersionResource())
	if ref.Namespace == "" {
		return ri
	}

	return ri.Namespace(ref.Namespace)
}

// Create submits the document under the reference's name and namespace.
func (c *Client) Create(ctx context.Context, ref Reference, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	obj = obj.DeepCopy()
	obj.SetName(ref.Name)

	if ref.Namespace != "" {
		obj.SetNamespace(ref.Namespace)
	}

	created, err := c.resourceFor(ref).Create(ctx, obj, metav1.CreateOptions{})
	if IsMissingNamespaceErr(err) {
		return nil, errors.Wrapf(err, "namespace %q for %s does not exist", ExtractMissingNamespaceFromErr(err), ref)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "error creating %s", ref)
	}

	logger.Infof("Created %s", ref)

	return created, nil
}

// Get returns nil and no error if the resource does not exist.
func (c *Client) Get(ctx context.Context, ref Reference) (*unstructured.Unstructured, error) {
	obj, err := c.resourceFor(ref).Get(ctx, ref.Name, metav1.GetOptions{})
	if IsNotFoundErr(err) {
		return nil, nil
	}

	return obj, errors.Wrapf(err, "error retrieving %s", ref)
}

func (c *Client) Exists(ctx context.Context, ref Reference) (bool, error) {
	obj, err := c.Get(ctx, ref)
	return obj != nil, err
}

// Patch applies patch to the resource as a JSON merge patch.
func (c *Client) Patch(ctx context.Context, ref Reference, patch map[string]interface{}) (*unstructured.Unstructured, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling merge patch")
	}

	patched, err := c.resourceFor(ref).Patch(ctx, ref.Name, types.MergePatchType, data, metav1.PatchOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "error patching %s", ref)
	}

	logger.V(log.TRACE).Info("Patched resource", "resource", ref.String(), "patch", string(data))

	return patched, nil
}

// Delete deletes the resource. The error is returned as is so callers can check IsNotFoundErr.
func (c *Client) Delete(ctx context.Context, ref Reference) error {
	//nolint:wrapcheck // Callers classify the API error.
	return c.resourceFor(ref).Delete(ctx, ref.Name, metav1.DeleteOptions{})
}

// WaitConsumed waits until the controller has populated the resource's status.
func (c *Client) WaitConsumed(ctx context.Context, ref Reference, timeout time.Duration) (*unstructured.Unstructured, error) {
	return c.WaitFor(ctx, ref, matcher.Custom("status is populated", func(o map[string]interface{}) bool {
		status, found, _ := unstructured.NestedMap(o, "status")
		return found && len(status) > 0
	}), timeout, DefaultConsumeInterval)
}

// WaitFor waits until the resource satisfies the matcher. The matcher sees the whole object, or nil while
// the resource does not exist.
func (c *Client) WaitFor(ctx context.Context, ref Reference, m matcher.Matcher, timeout, interval time.Duration,
) (*unstructured.Unstructured, error) {
	record, err := poll.Poll(ctx, poll.Options{
		Kind:     ref.GroupVersionResource().GroupResource().String(),
		ID:       ref.Name,
		Timeout:  timeout,
		Interval: interval,
		Clock:    c.clock,
	}, func(ctx context.Context) (accessor.Record, error) {
		obj, err := c.Get(ctx, ref)
		if obj == nil {
			return nil, err
		}

		return obj.Object, nil
	}, m)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already carries the reference.
	}

	return &unstructured.Unstructured{Object: record}, nil
}
