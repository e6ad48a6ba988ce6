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

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
)

const (
	// FatalKey is attached to log entries emitted by Fatal so sinks can render them at the fatal level.
	FatalKey = "FATAL"
	// WarningKey is attached to log entries emitted by Warning so sinks can render them at the warn level.
	WarningKey = "WARNING"
)

// Logger wraps a logr.Logger with printf-style and leveled helpers.
type Logger struct {
	logr.Logger
}

func (l Logger) Infof(format string, args ...interface{}) {
	l.Logger.Info(fmt.Sprintf(format, args...))
}

func (l Logger) Warning(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, append(keysAndValues, WarningKey, "true")...)
}

func (l Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l Logger) Errorf(err error, format string, args ...interface{}) {
	l.Logger.Error(err, fmt.Sprintf(format, args...))
}

// Fatal logs the message and exits the process.
func (l Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(nil, msg, append(keysAndValues, FatalKey, "true")...)
	os.Exit(255)
}

func (l Logger) Fatalf(format string, args ...interface{}) {
	l.Fatal(fmt.Sprintf(format, args...))
}

// FatalOnError calls Fatal with the error appended to the message if err is non-nil.
func (l Logger) FatalOnError(err error, msg string, keysAndValues ...interface{}) {
	if err == nil {
		return
	}

	l.Fatal(fmt.Sprintf("%s: %v", msg, err), keysAndValues...)
}

func (l Logger) V(level int) Logger {
	return Logger{Logger: l.Logger.V(level)}
}

func (l Logger) WithName(name string) Logger {
	return Logger{Logger: l.Logger.WithName(name)}
}

func (l Logger) WithValues(keysAndValues ...interface{}) Logger {
	return Logger{Logger: l.Logger.WithValues(keysAndValues...)}
}
