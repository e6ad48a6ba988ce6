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

package kzerolog

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/rs/zerolog"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"k8s.io/klog/v2"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	maxLenLogger = 20
	maxLenCaller = 25
)

var verbosityLevel = 0

// AddFlags registers command line options for zerolog-based logging. Should be called before InitK8sLogging.
func AddFlags(flagset *flag.FlagSet) {
	if flagset == nil {
		flagset = flag.CommandLine
	}

	flagset.IntVar(&verbosityLevel, "v", verbosityLevel,
		"number for the log level verbosity (higher is more verbose)")

	flagset.Bool("alsologtostderr", false, "unused - backwards compatibility for klog")
}

// InitK8sLogging installs a human friendly zerolog logger as the logr.Logger used by controller-runtime
// and by klog, so client-go output is rendered the same way as ours.
func InitK8sLogging() {
	InitK8sLoggingTo(os.Stderr)
}

// InitK8sLoggingTo is InitK8sLogging with an explicit destination.
func InitK8sLoggingTo(out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := NewLogger(out, verbosityLevel)

	logf.SetLogger(logger)
	klog.SetLogger(logger)
}

// NewLogger returns a logr.Logger backed by a zerolog console writer. Entries with a V level greater
// than maxVerbosity are dropped.
func NewLogger(out io.Writer, maxVerbosity int) logr.Logger {
	consoleWriter := &zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02T15:04:05.000Z07:00", NoColor: out != os.Stderr}
	consoleWriter.FormatCaller = formatCaller

	zLogger := zerolog.New(consoleWriter).With().Timestamp().Caller().Logger()

	return logr.New(&sink{
		zLogger:      &zLogger,
		maxVerbosity: maxVerbosity,
	})
}

func formatCaller(i interface{}) string {
	return truncate(i, maxLenCaller)
}

func truncate(i interface{}, maxLen int) string {
	s := fmt.Sprintf("%s", i)
	if len(s) > maxLen {
		s = ".." + s[len(s)-maxLen+2:]
	}

	padFmtStr := fmt.Sprintf("%%-%ds", maxLen)

	return fmt.Sprintf(padFmtStr, s)
}

type sink struct {
	zLogger      *zerolog.Logger
	prefix       string
	maxVerbosity int
	callDepth    int
}

var (
	_ logr.LogSink          = &sink{}
	_ logr.CallDepthLogSink = &sink{}
)

func (s *sink) clone() *sink {
	c := *s
	return &c
}

func (s *sink) Init(info logr.RuntimeInfo) {
	s.callDepth += info.CallDepth
}

func (s *sink) Enabled(level int) bool {
	return level <= s.maxVerbosity
}

func (s *sink) Info(level int, msg string, kvList ...interface{}) {
	var evt *zerolog.Event

	switch {
	case hasKey(kvList, log.FatalKey):
		evt = s.zLogger.WithLevel(zerolog.FatalLevel)
		kvList = removeKey(kvList, log.FatalKey)
	case hasKey(kvList, log.WarningKey):
		evt = s.zLogger.Warn()
		kvList = removeKey(kvList, log.WarningKey)
	case level >= log.DEBUG:
		evt = s.zLogger.Debug()
	default:
		evt = s.zLogger.Info()
	}

	s.logEvent(evt, msg, kvList)
}

func (s *sink) Error(err error, msg string, kvList ...interface{}) {
	var evt *zerolog.Event

	if hasKey(kvList, log.FatalKey) {
		evt = s.zLogger.WithLevel(zerolog.FatalLevel)
		kvList = removeKey(kvList, log.FatalKey)

		if err != nil {
			evt = evt.Err(err)
		}
	} else {
		evt = s.zLogger.Err(err)
	}

	s.logEvent(evt, msg, kvList)
}

func (s *sink) logEvent(evt *zerolog.Event, msg string, kvList []interface{}) {
	msg = truncate(s.prefix, maxLenLogger) + " " + msg
	evt.Fields(kvList).CallerSkipFrame(s.callDepth + 2).Msg(msg)
}

func (s *sink) WithName(name string) logr.LogSink {
	c := s.clone()
	if c.prefix != "" {
		c.prefix += "/"
	}

	c.prefix += name

	return c
}

func (s *sink) WithValues(kvList ...interface{}) logr.LogSink {
	c := s.clone()
	zLogger := s.zLogger.With().Fields(kvList).Logger()
	c.zLogger = &zLogger

	return c
}

func (s *sink) WithCallDepth(depth int) logr.LogSink {
	c := s.clone()
	c.callDepth += depth

	return c
}

func hasKey(kvList []interface{}, key string) bool {
	for i := 0; i < len(kvList); i += 2 {
		if kvList[i] == key {
			return true
		}
	}

	return false
}

func removeKey(kvList []interface{}, key string) []interface{} {
	out := make([]interface{}, 0, len(kvList))

	for i := 0; i < len(kvList); i += 2 {
		if kvList[i] == key {
			continue
		}

		out = append(out, kvList[i])
		if i+1 < len(kvList) {
			out = append(out, kvList[i+1])
		}
	}

	return out
}
