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

package log

// Verbosity levels used with Logger.V.
//
// Progress of a test (resource created, resource synced, fixture released) is
// logged at the default level. Levels above it are reserved for output that
// would drown the suite report if always on.
const (
	// DEBUG : individual poll attempts and the records they observed.
	DEBUG = 2
	// LIBDEBUG : like DEBUG but for the convergence library packages.
	LIBDEBUG = 3
	// TRACE : full request/response dumps, e.g. describe output and rendered documents.
	TRACE = 4
	// LIBTRACE : like TRACE but for the convergence library packages.
	LIBTRACE = 5
)
