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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/submariner-io/rds-e2e/pkg/bootstrap"
	"github.com/submariner-io/rds-e2e/pkg/config"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/log/kzerolog"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
)

var (
	bootstrapFile string
	proxyRoleARN  string
	logger        = log.Logger{Logger: logf.Log.WithName("rds-e2e-bootstrap")}
)

func init() {
	flag.StringVar(&bootstrapFile, "bootstrap-file", "", "Path of the bootstrap resources file; overrides RDS_E2E_BOOTSTRAP_FILE.")
	flag.StringVar(&proxyRoleARN, "proxy-role-arn", "", "IAM role DB proxies assume, recorded in the bootstrap file.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] up|down\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	kzerolog.AddFlags(nil)
	flag.Parse()
	kzerolog.InitK8sLogging()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	spec, err := config.Load()
	logger.FatalOnError(err, "Error loading the configuration")

	if bootstrapFile == "" {
		bootstrapFile = spec.BootstrapFile
	}

	ctx := signals.SetupSignalHandler()

	awsConfig, err := spec.AWSConfig(ctx)
	logger.FatalOnError(err, "Error loading the AWS configuration")

	b := bootstrap.New(ec2.NewFromConfig(awsConfig), awsrds.NewFromConfig(awsConfig), spec.Region)

	switch flag.Arg(0) {
	case "up":
		up(ctx, b)
	case "down":
		down(ctx, b)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func up(ctx context.Context, b *bootstrap.Bootstrapper) {
	logger.Infof("Bootstrapping test resources in %s", b.Region)

	r, err := b.Up(ctx)
	if err != nil {
		logger.Errorf(err, "Error bootstrapping - cleaning up")

		if downErr := b.Down(context.Background(), r); downErr != nil {
			logger.Errorf(downErr, "Error cleaning up")
		}

		os.Exit(1)
	}

	r.ProxyRoleARN = proxyRoleARN

	logger.FatalOnError(r.Save(bootstrapFile), "Error saving the bootstrap file")
	logger.Infof("Wrote bootstrap resources to %s", bootstrapFile)
}

func down(ctx context.Context, b *bootstrap.Bootstrapper) {
	r, err := bootstrap.Load(bootstrapFile)
	logger.FatalOnError(err, "Error loading the bootstrap file")

	logger.Infof("Cleaning up test resources in VPC %s", r.VPCID)

	if err := b.Down(ctx, r); err != nil {
		logger.Fatal(err.Error())
	}

	logger.FatalOnError(os.Remove(bootstrapFile), "Error removing the bootstrap file")
}
