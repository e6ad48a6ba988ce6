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

package http_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	admhttp "github.com/submariner-io/rds-e2e/pkg/http"
	"github.com/submariner-io/rds-e2e/pkg/metrics"
)

var _ = Describe("NewHandler", func() {
	get := func(h http.Handler, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

		return rec
	}

	It("should serve the poll metrics", func() {
		metrics.RecordAttempt("DBSubnetGroup")

		rec := get(admhttp.NewHandler(admhttp.Metrics), "/metrics")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`rds_e2e_poll_attempts_total{kind="DBSubnetGroup"}`))

		Expect(get(admhttp.NewHandler(admhttp.Metrics), "/debug/pprof/").Code).To(Equal(http.StatusNotFound))
	})

	It("should serve the profiling index", func() {
		h := admhttp.NewHandler(admhttp.Profile)
		Expect(get(h, "/debug/pprof/").Code).To(Equal(http.StatusOK))
		Expect(get(h, "/metrics").Code).To(Equal(http.StatusNotFound))
	})
})

var _ = Describe("StartServer", func() {
	It("should be a no-op without endpoints or a port", func() {
		admhttp.StartServer(0, 8080)()
		admhttp.StartServer(admhttp.Metrics, 0)()
	})
})
