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

// Package rds implements accessors for the RDS resource kinds managed by the controller.
package rds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/tags"
	"golang.org/x/time/rate"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var logger = log.Logger{Logger: logf.Log.WithName("RDSAccessor")}

const (
	DefaultQPS   = 5
	DefaultBurst = 10
)

// Client creates accessors sharing one RDS API client and one request rate limit.
type Client struct {
	api     API
	limiter *rate.Limiter
}

type Option func(*Client)

// WithRateLimit limits describe requests made through the client. A non-positive qps disables the limit.
func WithRateLimit(qps float64, burst int) Option {
	return func(c *Client) {
		if qps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}

		c.limiter = rate.NewLimiter(rate.Limit(qps), burst)
	}
}

func NewClient(api API, opts ...Option) *Client {
	c := &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(DefaultQPS), DefaultBurst),
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// NewClientFromConfig creates a Client backed by an RDS SDK client built from cfg.
func NewClientFromConfig(cfg aws.Config, opts ...Option) *Client {
	return NewClient(awsrds.NewFromConfig(cfg), opts...)
}

func (c *Client) wait(ctx context.Context) error {
	return errors.Wrap(c.limiter.Wait(ctx), "error waiting for the RDS request rate limiter")
}

// Accessor returns the accessor for the named kind.
func (c *Client) Accessor(kind string) (*Accessor, error) {
	k, ok := Kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported RDS kind %q", kind)
	}

	return &Accessor{client: c, kind: k}, nil
}

// MustAccessor is like Accessor but panics for an unsupported kind.
func (c *Client) MustAccessor(kind string) *Accessor {
	a, err := c.Accessor(kind)
	if err != nil {
		panic(err)
	}

	return a
}

// Accessor reads one RDS kind.
type Accessor struct {
	client *Client
	kind   *Kind
}

var (
	_ accessor.Interface       = &Accessor{}
	_ accessor.StatusReporter  = &Accessor{}
	_ accessor.TimingDefaulter = &Accessor{}
)

func (a *Accessor) Kind() string {
	return a.kind.Name
}

func (a *Accessor) Get(ctx context.Context, id string) (accessor.Record, error) {
	if err := a.client.wait(ctx); err != nil {
		return nil, err
	}

	found, err := a.kind.describe(ctx, a.client.api, id)
	if a.kind.notFound(err) {
		logger.V(log.LIBTRACE).Info("Resource not found", "kind", a.kind.Name, "id", id)
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "error describing %s %q", a.kind.Name, id)
	}

	r, err := accessor.ToRecord(found)
	if err != nil {
		return nil, err
	}

	logger.V(log.LIBTRACE).Info("Described resource", "kind", a.kind.Name, "id", id, "record", r)

	return r, nil
}

func (a *Accessor) GetTags(ctx context.Context, arn string) ([]tags.Tag, error) {
	if err := a.client.wait(ctx); err != nil {
		return nil, err
	}

	out, err := a.client.api.ListTagsForResource(ctx, &awsrds.ListTagsForResourceInput{ResourceName: aws.String(arn)})
	if a.kind.notFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "error listing tags for %s %q", a.kind.Name, arn)
	}

	return tags.FromRDS(out.TagList), nil
}

// ARN returns the resource's ARN from a record of this kind.
func (a *Accessor) ARN(r accessor.Record) string {
	return r.String(a.kind.ARNField)
}

func (a *Accessor) StatusField() string {
	return a.kind.StatusField
}

func (a *Accessor) TransitionalStatus() string {
	if a.kind.StatusField == "" {
		return ""
	}

	return StatusDeleting
}

func (a *Accessor) WaitTiming() accessor.Timing {
	return a.kind.Wait
}

func (a *Accessor) DeleteTiming() accessor.Timing {
	return a.kind.Delete
}
