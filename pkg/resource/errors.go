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
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
)

// IsNotFoundErr returns true if the resource, or its type, does not exist. Wrapped errors are unwrapped.
func IsNotFoundErr(err error) bool {
	if err == nil {
		return false
	}

	if apierrors.IsNotFound(err) || meta.IsNoMatchError(err) {
		return true
	}

	var errGDF *discovery.ErrGroupDiscoveryFailed
	if errors.As(err, &errGDF) {
		for _, groupErr := range errGDF.Groups {
			if IsNotFoundErr(groupErr) {
				return true
			}
		}
	}

	return false
}

// IsAlreadyExistsErr returns true if a create conflicted with an existing resource.
func IsAlreadyExistsErr(err error) bool {
	return err != nil && apierrors.IsAlreadyExists(err)
}

// IsMissingNamespaceErr returns true if a create failed because the target namespace does not exist.
func IsMissingNamespaceErr(err error) bool {
	d := notFoundDetails(err)
	return d != nil && d.Kind == "namespaces" && d.Group == ""
}

// ExtractMissingNamespaceFromErr returns the missing namespace's name, or an empty string if err isn't a
// missing namespace error.
func ExtractMissingNamespaceFromErr(err error) string {
	if !IsMissingNamespaceErr(err) {
		return ""
	}

	return notFoundDetails(err).Name
}

func notFoundDetails(err error) *metav1.StatusDetails {
	if err == nil || !apierrors.IsNotFound(err) {
		return nil
	}

	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		return nil
	}

	return status.Status().Details
}
