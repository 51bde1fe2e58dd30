/*
 * Copyright 2026 the doppel authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package doppel

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Matcher is the capability consulted in place of structural equality when a
// pattern argument provides it. Any matching framework whose values expose
// Matches can be used directly; see the matchers and gomegamatch packages.
// Matchers are evaluated outside the registry lock, so a Matches
// implementation may itself call a double or inspect the registry.
type Matcher interface {
	Matches(actual any) bool
}

// matchArgs compares a stubbed argument pattern against an actual argument
// list. Both lists are first back-filled from the declared defaults for the
// method, so omitted trailing arguments compare as their defaults. Positions
// are a conjunction, traversed last to first.
func matchArgs(defaults map[int]any, pattern, actual []any) bool {
	pattern = backfill(pattern, defaults)
	actual = backfill(actual, defaults)
	if len(pattern) != len(actual) {
		return false
	}
	for i := len(pattern) - 1; i >= 0; i-- {
		if m, ok := pattern[i].(Matcher); ok {
			if !m.Matches(actual[i]) {
				return false
			}
			continue
		}
		if !structurallyEqual(pattern[i], actual[i]) {
			return false
		}
	}
	return true
}

// backfill extends args with declared defaults. Defaults only fill a
// contiguous trailing run: a position without a declared default ends the
// extension.
func backfill(args []any, defaults map[int]any) []any {
	if _, ok := defaults[len(args)]; !ok {
		return args
	}
	out := append(make([]any, 0, len(args)+len(defaults)), args...)
	for {
		v, ok := defaults[len(out)]
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// structurallyEqual is deep value equality, not identity. The exporter
// option lets cmp descend into unexported fields, which recorded arguments
// regularly carry.
func structurallyEqual(x, y any) bool {
	return cmp.Equal(x, y, cmp.Exporter(func(reflect.Type) bool { return true }))
}
