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

// Package metrics exposes Prometheus metrics describing how resources converge during a test run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess    = "success"
	OutcomeTimeout    = "timeout"
	OutcomeUnexpected = "unexpected_state"
	OutcomeError      = "error"
	OutcomeCanceled   = "canceled"
)

var (
	PollAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rds_e2e_poll_attempts_total",
		Help: "Number of times a cloud resource was read while waiting for it to converge",
	}, []string{"kind"})

	PollOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rds_e2e_poll_outcomes_total",
		Help: "Number of completed waits by outcome",
	}, []string{"kind", "outcome"})

	ConvergenceSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rds_e2e_convergence_seconds",
		Help:    "Time taken for a wait to complete",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
	}, []string{"kind", "outcome"})
)

func init() {
	prometheus.MustRegister(PollAttempts, PollOutcomes, ConvergenceSeconds)
}

func RecordAttempt(kind string) {
	PollAttempts.WithLabelValues(kind).Inc()
}

func RecordOutcome(kind, outcome string, elapsed time.Duration) {
	PollOutcomes.WithLabelValues(kind, outcome).Inc()
	ConvergenceSeconds.WithLabelValues(kind, outcome).Observe(elapsed.Seconds())
}
