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

// Package template renders desired-state documents from YAML templates containing $PLACEHOLDER tokens.
package template

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

var tokenPattern = regexp.MustCompile(`\$([A-Z][A-Z0-9_]*)`)

// Replacements maps placeholder names, without the leading '$', to their values.
type Replacements map[string]string

// MissingReplacementError lists every placeholder in a template that has no replacement.
type MissingReplacementError struct {
	Template string
	Missing  []string
}

func (e *MissingReplacementError) Error() string {
	return fmt.Sprintf("template %q has no replacement for %s", e.Template, strings.Join(e.Missing, ", "))
}

// Renderer loads templates named <name>.yaml from Dir within FS.
type Renderer struct {
	FS  fs.FS
	Dir string
}

// Render loads the named template, substitutes every placeholder and parses the result.
func (r *Renderer) Render(name string, replacements Replacements) (*unstructured.Unstructured, error) {
	raw, err := fs.ReadFile(r.FS, path.Join(r.Dir, name+".yaml"))
	if err != nil {
		return nil, errors.Wrapf(err, "error reading template %q", name)
	}

	return RenderString(name, string(raw), replacements)
}

// RenderString is Render for template text already in memory; name is only used in errors.
func RenderString(name, text string, replacements Replacements) (*unstructured.Unstructured, error) {
	substituted, err := Substitute(name, text, replacements)
	if err != nil {
		return nil, err
	}

	data, err := yaml.YAMLToJSON([]byte(substituted))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing rendered template %q", name)
	}

	obj := &unstructured.Unstructured{}

	err = obj.UnmarshalJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding rendered template %q", name)
	}

	return obj, nil
}

// Substitute replaces every placeholder literally. Nothing is substituted unless all placeholders have a
// replacement.
func Substitute(name, text string, replacements Replacements) (string, error) {
	missing := map[string]bool{}

	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := replacements[m[1]]; !ok {
			missing[m[1]] = true
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for n := range missing {
			names = append(names, n)
		}

		sort.Strings(names)

		return "", &MissingReplacementError{Template: name, Missing: names}
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		return replacements[token[1:]]
	}), nil
}

// Merge returns a new Replacements holding base overlaid with each of extra in order.
func Merge(base Replacements, extra ...Replacements) Replacements {
	out := make(Replacements, len(base))

	for k, v := range base {
		out[k] = v
	}

	for _, e := range extra {
		for k, v := range e {
			out[k] = v
		}
	}

	return out
}

func IsMissingReplacement(err error) bool {
	var m *MissingReplacementError
	return errors.As(err, &m)
}
