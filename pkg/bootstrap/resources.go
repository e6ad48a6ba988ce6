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

// Package bootstrap creates and tears down the cloud resources shared by the e2e suite.
package bootstrap

import (
	"os"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/template"
	"sigs.k8s.io/yaml"
)

// Resources are the bootstrapped identifiers, persisted in a YAML file between bootstrap and test runs.
type Resources struct {
	Region          string `json:"region,omitempty"`
	VPCID           string `json:"vpcID"`
	PublicSubnet1   string `json:"publicSubnet1"`
	PublicSubnet2   string `json:"publicSubnet2"`
	SubnetGroupName string `json:"dbSubnetGroupName,omitempty"`
	ProxyRoleARN    string `json:"proxyRoleARN,omitempty"`
}

// Load reads the bootstrap file once per caller; a missing file is an error.
func Load(path string) (*Resources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading bootstrap file %q", path)
	}

	r := &Resources{}

	err = yaml.UnmarshalStrict(data, r)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing bootstrap file %q", path)
	}

	return r, nil
}

func (r *Resources) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "error marshalling bootstrap resources")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0o600), "error writing bootstrap file %q", path)
}

// ReplacementValues returns the template replacements every resource template may reference.
func (r *Resources) ReplacementValues() template.Replacements {
	values := template.Replacements{
		"PUBLIC_SUBNET_1": r.PublicSubnet1,
		"PUBLIC_SUBNET_2": r.PublicSubnet2,
	}

	if r.SubnetGroupName != "" {
		values["DB_SUBNET_GROUP_NAME"] = r.SubnetGroupName
	}

	if r.ProxyRoleARN != "" {
		values["IAM_ROLE_ARN"] = r.ProxyRoleARN
	}

	return values
}
