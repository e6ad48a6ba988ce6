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

// Package config reads the suite's runtime settings from RDS_E2E_* environment variables.
package config

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/accessor/rds"
	"github.com/submariner-io/rds-e2e/pkg/resource"
)

const Prefix = "rds_e2e"

type Spec struct {
	Region         string        `default:"us-west-2"`
	Namespace      string        `default:"default"`
	BootstrapFile  string        `split_words:"true" default:"bootstrap.yaml"`
	ConsumeTimeout time.Duration `split_words:"true"`
	WaitTimeout    time.Duration `split_words:"true"`
	WaitInterval   time.Duration `split_words:"true"`
	DeleteTimeout  time.Duration `split_words:"true"`
	DeleteInterval time.Duration `split_words:"true"`
	MetricsPort    int           `split_words:"true"`
	DescribeQPS    float64       `envconfig:"DESCRIBE_QPS" default:"5"`
	DescribeBurst  int           `split_words:"true" default:"10"`
	// ProxySecretARN is the Secrets Manager secret a DB proxy authenticates with; proxy specs are skipped without it.
	ProxySecretARN string `envconfig:"PROXY_SECRET_ARN"`

	// Static credentials, mainly for local stacks; the default AWS chain is used when empty.
	AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `split_words:"true"`
	Endpoint        string
}

// Load processes the RDS_E2E_* environment into a Spec.
func Load() (*Spec, error) {
	spec := &Spec{}

	err := envconfig.Process(Prefix, spec)
	if err != nil {
		return nil, errors.Wrap(err, "error processing environment configuration")
	}

	return spec, nil
}

// EffectiveConsumeTimeout returns the configured consume timeout or the default.
func (s *Spec) EffectiveConsumeTimeout() time.Duration {
	if s.ConsumeTimeout > 0 {
		return s.ConsumeTimeout
	}

	return resource.DefaultConsumeTimeout
}

// WaitOverride returns the configured wait timing with unset values taken from def.
func (s *Spec) WaitOverride(def accessor.Timing) accessor.Timing {
	return override(def, s.WaitTimeout, s.WaitInterval)
}

// DeleteOverride returns the configured delete timing with unset values taken from def.
func (s *Spec) DeleteOverride(def accessor.Timing) accessor.Timing {
	return override(def, s.DeleteTimeout, s.DeleteInterval)
}

func override(def accessor.Timing, timeout, interval time.Duration) accessor.Timing {
	if timeout > 0 {
		def.Timeout = timeout
	}

	if interval > 0 {
		def.Interval = interval
	}

	return def
}

// AWSConfig loads the shared AWS configuration for the configured region.
func (s *Spec) AWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.Region)}

	if s.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "error loading AWS configuration")
	}

	if s.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(s.Endpoint)
	}

	return cfg, nil
}

// RDSClient builds the rate-limited RDS accessor client.
func (s *Spec) RDSClient(cfg aws.Config) *rds.Client {
	return rds.NewClientFromConfig(cfg, rds.WithRateLimit(s.DescribeQPS, s.DescribeBurst))
}
