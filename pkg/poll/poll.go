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

// Package poll waits for cloud resources to reach a desired state.
package poll

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/matcher"
	"github.com/submariner-io/rds-e2e/pkg/metrics"
	"k8s.io/utils/clock"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var logger = log.Logger{Logger: logf.Log.WithName("Poll")}

// DefaultDeleteGracePeriod is how long WaitUntilDeleted gives the controller to start deleting the resource
// before a status other than the transitional one is treated as a failure.
const DefaultDeleteGracePeriod = 30 * time.Second

type Options struct {
	Kind     string
	ID       string
	Timeout  time.Duration
	Interval time.Duration
	Clock    clock.Clock
	// Guard, if set, is called with every record that doesn't match. A non-nil error ends the poll.
	Guard func(accessor.Record) error
	// GracePeriod only applies to WaitUntilDeleted.
	GracePeriod time.Duration
}

type FetchFunc func(ctx context.Context) (accessor.Record, error)

type Option func(*Options)

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithInterval(d time.Duration) Option {
	return func(o *Options) {
		o.Interval = d
	}
}

func WithGracePeriod(d time.Duration) Option {
	return func(o *Options) {
		o.GracePeriod = d
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// Poll fetches the record until the matcher is satisfied, the timeout elapses or the context is done.
// The first attempt is made immediately. Errors returned by fetch end the poll; they are not retried.
func Poll(ctx context.Context, opts Options, fetch FetchFunc, m matcher.Matcher) (accessor.Record, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	start := clk.Now()
	deadline := start.Add(opts.Timeout)

	finish := func(outcome string) {
		metrics.RecordOutcome(opts.Kind, outcome, clk.Since(start))
	}

	for {
		metrics.RecordAttempt(opts.Kind)

		record, err := fetch(ctx)
		if err != nil {
			finish(metrics.OutcomeError)
			return nil, errors.WithMessagef(err, "error reading %s %q", opts.Kind, opts.ID)
		}

		logger.V(log.DEBUG).Info("Polled resource", "kind", opts.Kind, "id", opts.ID, "matcher", m.String(),
			"present", record != nil)

		if m.Matches(record) {
			finish(metrics.OutcomeSuccess)
			return record, nil
		}

		if opts.Guard != nil {
			if err := opts.Guard(record); err != nil {
				finish(metrics.OutcomeUnexpected)
				return record, err
			}
		}

		if !clk.Now().Before(deadline) {
			finish(metrics.OutcomeTimeout)

			return record, &TimeoutError{
				Kind:     opts.Kind,
				ID:       opts.ID,
				Elapsed:  clk.Since(start),
				Expected: m.String(),
				Last:     record,
			}
		}

		select {
		case <-ctx.Done():
			finish(metrics.OutcomeCanceled)
			return record, errors.Wrapf(ctx.Err(), "stopped waiting for %s %q", opts.Kind, opts.ID)
		case <-clk.After(opts.Interval):
		}
	}
}

// WaitUntil waits for the resource identified by id to satisfy the matcher, using the accessor's default
// timing unless overridden.
func WaitUntil(ctx context.Context, a accessor.Interface, id string, m matcher.Matcher, opts ...Option,
) (accessor.Record, error) {
	return Poll(ctx, options(a, id, accessor.WaitTimingFor(a), opts), fetcher(a, id), m)
}

// WaitUntilDeleted waits for the resource identified by id to be absent. For kinds with a lifecycle status, a
// status other than the transitional one fails immediately with an UnexpectedStateError once the transitional
// status has been observed or the grace period has elapsed, whichever comes first. Until then the controller
// may not have started deleting the resource yet.
func WaitUntilDeleted(ctx context.Context, a accessor.Interface, id string, opts ...Option) error {
	o := options(a, id, accessor.DeleteTimingFor(a), append([]Option{WithGracePeriod(DefaultDeleteGracePeriod)}, opts...))

	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}

	if sr, ok := a.(accessor.StatusReporter); ok && sr.StatusField() != "" && sr.TransitionalStatus() != "" {
		start := o.Clock.Now()
		deleting := false

		o.Guard = func(r accessor.Record) error {
			status, ok := accessor.Status(a, r)
			if !ok {
				return nil
			}

			if status == sr.TransitionalStatus() {
				deleting = true
				return nil
			}

			if !deleting && o.Clock.Since(start) < o.GracePeriod {
				logger.V(log.DEBUG).Info("Deletion not started yet", "kind", a.Kind(), "id", id, "status", status)
				return nil
			}

			return &UnexpectedStateError{
				Kind:     a.Kind(),
				ID:       id,
				Observed: status,
				Expected: sr.TransitionalStatus(),
			}
		}
	}

	_, err := Poll(ctx, o, fetcher(a, id), matcher.Absent())

	return err
}

func options(a accessor.Interface, id string, t accessor.Timing, opts []Option) Options {
	o := Options{
		Kind:     a.Kind(),
		ID:       id,
		Timeout:  t.Timeout,
		Interval: t.Interval,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func fetcher(a accessor.Interface, id string) FetchFunc {
	return func(ctx context.Context) (accessor.Record, error) {
		return a.Get(ctx, id)
	}
}
