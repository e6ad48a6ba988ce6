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

// Package framework wires the convergence packages to a live cluster and AWS account for the e2e specs.
package framework

import (
	"context"
	"sync"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
	"github.com/submariner-io/rds-e2e/pkg/accessor/rds"
	"github.com/submariner-io/rds-e2e/pkg/bootstrap"
	"github.com/submariner-io/rds-e2e/pkg/fixture"
	admhttp "github.com/submariner-io/rds-e2e/pkg/http"
	"github.com/submariner-io/rds-e2e/pkg/poll"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	"github.com/submariner-io/rds-e2e/pkg/secret"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"github.com/submariner-io/rds-e2e/test/e2e/resources"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	Group   = "rds.services.k8s.aws"
	Version = "v1alpha1"

	SlowLabel   = "slow"
	CanaryLabel = "canary"
)

// Plural resource names served for each kind.
var plurals = map[string]string{
	rds.DBInstance:              "dbinstances",
	rds.DBCluster:               "dbclusters",
	rds.DBParameterGroup:        "dbparametergroups",
	rds.DBClusterParameterGroup: "dbclusterparametergroups",
	rds.DBSubnetGroup:           "dbsubnetgroups",
	rds.DBSnapshot:              "dbsnapshots",
	rds.DBClusterSnapshot:       "dbclustersnapshots",
	rds.DBProxy:                 "dbproxies",
	rds.GlobalCluster:           "globalclusters",
	rds.OptionGroup:             "optiongroups",
	rds.DBClusterEndpoint:       "dbclusterendpoints",
}

// Framework holds the clients shared by all specs. Build it once with Setup from a BeforeSuite.
type Framework struct {
	Bootstrap  *bootstrap.Resources
	Resources  *resource.Client
	Kube       client.Client
	RESTMapper meta.RESTMapper
	RDS        *rds.Client
	Fixtures   *fixture.Manager
	Secrets    *secret.Store

	stopServer admhttp.StopFunc
}

var (
	shared    *Framework
	setupOnce sync.Once
)

// Setup builds the shared Framework from TestContext. Subsequent calls return the same instance.
func Setup(ctx context.Context) *Framework {
	setupOnce.Do(func() {
		shared = newFramework(ctx)
	})

	return shared
}

// Get returns the Framework built by Setup.
func Get() *Framework {
	gomega.Expect(shared).NotTo(gomega.BeNil(), "framework.Setup was not called")
	return shared
}

func newFramework(ctx context.Context) *Framework {
	cfg := TestContext.Config

	restConfig, err := restConfig()
	gomega.Expect(err).To(gomega.Succeed(), "error building the REST config")

	dynClient, err := dynamic.NewForConfig(restConfig)
	gomega.Expect(err).To(gomega.Succeed(), "error creating the dynamic client")

	kubeClient, err := client.New(restConfig, client.Options{Scheme: scheme.Scheme})
	gomega.Expect(err).To(gomega.Succeed(), "error creating the controller-runtime client")

	restMapper, err := resource.BuildRestMapper(restConfig)
	gomega.Expect(err).To(gomega.Succeed())

	awsConfig, err := cfg.AWSConfig(ctx)
	gomega.Expect(err).To(gomega.Succeed())

	boot, err := bootstrap.Load(TestContext.BootstrapFile)
	gomega.Expect(err).To(gomega.Succeed())

	f := &Framework{
		Bootstrap:  boot,
		Resources:  resource.NewClient(dynClient),
		Kube:       kubeClient,
		RESTMapper: restMapper,
		RDS:        cfg.RDSClient(awsConfig),
		stopServer: admhttp.StartServer(admhttp.Metrics|admhttp.Profile, cfg.MetricsPort),
	}

	f.Secrets = secret.NewStore(kubeClient)
	f.Fixtures = fixture.NewManager(&template.Renderer{FS: resources.FS}, f.Resources)
	f.Fixtures.ConsumeTimeout = cfg.EffectiveConsumeTimeout()

	served, err := resource.IsServed(f.Reference(rds.DBParameterGroup, ""), restMapper)
	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(served).To(gomega.BeTrue(), "the RDS controller CRDs are not installed")

	logger.Infof("Using namespace %q, region %q and bootstrap VPC %q", cfg.Namespace, cfg.Region, boot.VPCID)

	return f
}

func restConfig() (*rest.Config, error) {
	if TestContext.KubeConfig == "" {
		return rest.InClusterConfig()
	}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: TestContext.KubeConfig},
		&clientcmd.ConfigOverrides{CurrentContext: TestContext.KubeContext}).ClientConfig()
}

// Teardown deletes the suite's secrets and stops the metrics server.
func Teardown(ctx context.Context) {
	if shared == nil {
		return
	}

	if err := shared.Secrets.Cleanup(ctx); err != nil {
		logger.Errorf(err, "Error cleaning up secrets")
	}

	shared.stopServer()
}

// Reference returns the reference to a custom resource of the given kind in the configured namespace.
func (f *Framework) Reference(kind, name string) resource.Reference {
	return resource.Reference{
		Group:     Group,
		Version:   Version,
		Resource:  plurals[kind],
		Name:      name,
		Namespace: TestContext.Config.Namespace,
	}
}

func (f *Framework) Accessor(kind string) *rds.Accessor {
	return f.RDS.MustAccessor(kind)
}

// Replacements returns the bootstrap replacement values merged with extra.
func (f *Framework) Replacements(extra template.Replacements) template.Replacements {
	return template.Merge(f.Bootstrap.ReplacementValues(), extra)
}

// WaitOptions applies the configured wait overrides to the accessor's timing.
func (f *Framework) WaitOptions(a accessor.Interface) []poll.Option {
	t := TestContext.Config.WaitOverride(accessor.WaitTimingFor(a))
	return []poll.Option{poll.WithTimeout(t.Timeout), poll.WithInterval(t.Interval)}
}

// DeleteOptions applies the configured delete overrides to the accessor's timing.
func (f *Framework) DeleteOptions(a accessor.Interface) []poll.Option {
	t := TestContext.Config.DeleteOverride(accessor.DeleteTimingFor(a))
	return []poll.Option{poll.WithTimeout(t.Timeout), poll.WithInterval(t.Interval)}
}

// FixtureSpec builds a fixture for a kind whose cloud resource is identified by name.
func (f *Framework) FixtureSpec(kind, tmpl, name string, extra template.Replacements) fixture.Spec {
	a := f.Accessor(kind)

	return fixture.Spec{
		Template:      tmpl,
		Replacements:  f.Replacements(extra),
		Reference:     f.Reference(kind, name),
		Accessor:      a,
		DeleteOptions: f.DeleteOptions(a),
	}
}

// SkipUnlessSlow skips the current spec unless -run-slow was given.
func SkipUnlessSlow() {
	if !TestContext.RunSlow {
		ginkgo.Skip("slow specs are disabled; pass -run-slow to run them")
	}
}
