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

package resource

import (
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
)

func BuildRestMapper(restConfig *rest.Config) (meta.RESTMapper, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, errors.Wrap(err, "error creating discovery client")
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving API group resources")
	}

	return restmapper.NewDiscoveryRESTMapper(groupResources), nil
}

// ReferenceFor maps a rendered object's kind to the resource it is served under.
func ReferenceFor(obj *unstructured.Unstructured, restMapper meta.RESTMapper) (Reference, error) {
	gvk := obj.GroupVersionKind()

	mapping, err := restMapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return Reference{}, errors.WithMessagef(err, "error getting REST mapping for %#v", gvk)
	}

	logger.V(log.DEBUG).Infof("Found %#v", mapping.Resource)

	return Reference{
		Group:     mapping.Resource.Group,
		Version:   mapping.Resource.Version,
		Resource:  mapping.Resource.Resource,
		Name:      obj.GetName(),
		Namespace: obj.GetNamespace(),
	}, nil
}

// IsServed returns whether the API server knows the reference's resource, e.g. whether a CRD is installed.
func IsServed(ref Reference, restMapper meta.RESTMapper) (bool, error) {
	_, err := restMapper.KindFor(ref.GroupVersionResource())
	if IsNotFoundErr(err) {
		return false, nil
	}

	return err == nil, err
}
