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

package framework

import (
	"flag"
	"os"

	"github.com/submariner-io/rds-e2e/pkg/config"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/log/kzerolog"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

type TestContextType struct {
	KubeConfig    string
	KubeContext   string
	BootstrapFile string
	RunSlow       bool
	Config        *config.Spec
}

var TestContext = &TestContextType{}

var logger = log.Logger{Logger: logf.Log.WithName("Framework")}

// RegisterFlags registers the suite flags; call it from an init function so the test binary parses them.
func RegisterFlags() {
	registerFlags(TestContext)
}

func registerFlags(t *TestContextType) {
	flag.StringVar(&t.KubeConfig, "kubeconfig", os.Getenv("KUBECONFIG"),
		"Path to kubeconfig containing embedded authinfo.")
	flag.StringVar(&t.KubeContext, "context", "", "kubeconfig context of the cluster running the RDS controller.")
	flag.StringVar(&t.BootstrapFile, "bootstrap-file", "",
		"Path to the bootstrap resources file; overrides RDS_E2E_BOOTSTRAP_FILE.")
	flag.BoolVar(&t.RunSlow, "run-slow", false, "If true, specs labelled slow are run.")
	kzerolog.AddFlags(nil)
}

func validateFlags(t *TestContextType) {
	spec, err := config.Load()
	logger.FatalOnError(err, "Error loading the configuration")

	t.Config = spec

	if t.BootstrapFile == "" {
		t.BootstrapFile = spec.BootstrapFile
	}

	if t.KubeConfig == "" {
		logger.Warning("No kubeconfig provided - using the in-cluster configuration")
	}
}

// Initialize sets up logging and loads the environment configuration once the flags are parsed.
func Initialize() {
	if !flag.Parsed() {
		flag.Parse()
	}

	kzerolog.InitK8sLogging()
	validateFlags(TestContext)
}
