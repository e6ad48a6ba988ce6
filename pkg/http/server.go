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

// Package http serves the poll metrics and profiling endpoints while a suite runs.
package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/submariner-io/rds-e2e/pkg/log"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var logger = log.Logger{Logger: logf.Log.WithName("HTTP")}

type EndpointType int

const (
	Metrics EndpointType = 1 << iota
	Profile
	all = Metrics | Profile
)

type StopFunc func()

// NewHandler returns a handler serving the requested endpoints: /metrics for Metrics and /debug/pprof/ for Profile.
func NewHandler(endpoints EndpointType) http.Handler {
	mux := http.NewServeMux()

	if endpoints&Metrics != 0 {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if endpoints&Profile != 0 {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return mux
}

// StartServer starts an HTTP server providing access to Prometheus metrics
// and/or profiling information.
// endpoints specifies the endpoints to provide; it can be Metrics, Profile, or both (ored).
// A port of 0 disables the server.
// The returned function should be called to shut down the server, typically from a suite's AfterSuite.
func StartServer(endpoints EndpointType, port int) StopFunc {
	if endpoints&all == 0 || port <= 0 {
		return func() {}
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: NewHandler(endpoints), ReadHeaderTimeout: 60 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "Error starting metrics/profile HTTP server")
		}
	}()

	logger.Infof("Serving metrics/profile endpoints on port %d", port)

	return func() {
		if err := srv.Shutdown(context.TODO()); err != nil {
			logger.Errorf(err, "Error shutting down metrics/profile HTTP server")
		}
	}
}
