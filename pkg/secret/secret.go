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

// Package secret manages the Kubernetes secrets that custom resources reference, e.g. a DB master password.
package secret

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/log"
	"github.com/submariner-io/rds-e2e/pkg/resource"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var logger = log.Logger{Logger: logf.Log.WithName("Secret")}

// Ref is the secret key reference shape used in custom resource specs.
type Ref struct {
	Namespace string
	Name      string
	Key       string
}

// CreateOpaque creates an opaque secret holding a single key.
func CreateOpaque(ctx context.Context, c client.Client, namespace, name, key, value string) (Ref, error) {
	s := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{key: value},
	}

	err := c.Create(ctx, s)
	if err != nil {
		return Ref{}, errors.Wrapf(err, "error creating secret %s/%s", namespace, name)
	}

	logger.Infof("Created secret %s/%s", namespace, name)

	return Ref{Namespace: namespace, Name: name, Key: key}, nil
}

// Delete deletes the secret; a missing secret is not an error.
func Delete(ctx context.Context, c client.Client, namespace, name string) error {
	s := &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace}}

	err := c.Delete(ctx, s)
	if resource.IsNotFoundErr(err) {
		return nil
	}

	return errors.Wrapf(err, "error deleting secret %s/%s", namespace, name)
}

// Get returns the value of a key in a secret.
func Get(ctx context.Context, c client.Client, ref Ref) (string, error) {
	s := &corev1.Secret{}

	err := c.Get(ctx, types.NamespacedName{Namespace: ref.Namespace, Name: ref.Name}, s)
	if err != nil {
		return "", errors.Wrapf(err, "error retrieving secret %s/%s", ref.Namespace, ref.Name)
	}

	if v, ok := s.Data[ref.Key]; ok {
		return string(v), nil
	}

	return s.StringData[ref.Key], nil
}

// Store creates secrets and deletes them all on Cleanup.
type Store struct {
	mutex   sync.Mutex
	client  client.Client
	created []Ref
}

func NewStore(c client.Client) *Store {
	return &Store{client: c}
}

// Create creates an opaque secret, replacing any leftover secret of the same name.
func (s *Store) Create(ctx context.Context, namespace, name, key, value string) (Ref, error) {
	ref, err := CreateOpaque(ctx, s.client, namespace, name, key, value)
	if resource.IsAlreadyExistsErr(err) {
		logger.Warningf("Secret %s/%s already exists - replacing it", namespace, name)

		if err = Delete(ctx, s.client, namespace, name); err != nil {
			return Ref{}, err
		}

		ref, err = CreateOpaque(ctx, s.client, namespace, name, key, value)
	}

	if err != nil {
		return Ref{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.created = append(s.created, ref)

	return ref, nil
}

// Cleanup deletes every secret the store created, continuing past failures.
func (s *Store) Cleanup(ctx context.Context) error {
	s.mutex.Lock()
	created := s.created
	s.created = nil
	s.mutex.Unlock()

	var firstErr error

	for _, ref := range created {
		if err := Delete(ctx, s.client, ref.Namespace, ref.Name); err != nil {
			logger.Errorf(err, "Error deleting secret %s/%s", ref.Namespace, ref.Name)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
