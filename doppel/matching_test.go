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
	"testing"

	"pgregory.net/rapid"
)

func TestMatchArgs_DefaultBackfillIsSymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		def := rapid.String().Draw(rt, "default")
		id := rapid.Int().Draw(rt, "id")
		defaults := map[int]any{1: def}

		// a pattern omitting the defaulted position matches a call passing
		// it explicitly, and vice versa
		if !matchArgs(defaults, []any{id}, []any{id, def}) {
			rt.Fatalf("omitted pattern did not match explicit call")
		}
		if !matchArgs(defaults, []any{id, def}, []any{id}) {
			rt.Fatalf("explicit pattern did not match omitted call")
		}
	})
}

func TestMatchArgs_DefaultsFillOnlyContiguousTrailingRun(t *testing.T) {
	defaults := map[int]any{1: "b", 3: "d"}

	// position 2 has no default, so position 3 is unreachable
	if !matchArgs(defaults, []any{"a"}, []any{"a", "b"}) {
		t.Errorf("expected position 1 to back-fill")
	}
	if matchArgs(defaults, []any{"a"}, []any{"a", "b", "c", "d"}) {
		t.Errorf("expected the gap at position 2 to end the extension")
	}
}

func TestMatchArgs_LengthMismatchFails(t *testing.T) {
	if matchArgs(nil, []any{1}, []any{1, 2}) {
		t.Errorf("expected differing lengths not to match")
	}
}

func TestMatchArgs_DelegatesToMatchers(t *testing.T) {
	even := matcherFunc(func(actual any) bool {
		n, ok := actual.(int)
		return ok && n%2 == 0
	})

	if !matchArgs(nil, []any{even}, []any{4}) {
		t.Errorf("expected the matcher to accept 4")
	}
	if matchArgs(nil, []any{even}, []any{3}) {
		t.Errorf("expected the matcher to reject 3")
	}
}

func TestMatchArgs_MatchersMayUseTheRegistry(t *testing.T) {
	reg := NewRegistry(t)
	d := newAPIMock(t, reg)

	// a matcher that inspects the registry while it is being consulted; the
	// call under resolution is already at the head of the log
	sawOwnCall := matcherFunc(func(actual any) bool {
		calls := reg.Calls()
		return len(calls) > 0 && calls[0].Method == "Fetch"
	})
	When(d.Double).Call("Fetch", sawOwnCall).ThenReturn("seen")

	if r := d.Fetch(1); r != "seen" {
		t.Errorf("expected the registry-inspecting matcher to match, got %q", r)
	}
	reg.Verify(d.Double, 1).Call("Fetch", sawOwnCall)
}

func TestStructurallyEqual_DescendsIntoUnexportedFields(t *testing.T) {
	type hidden struct {
		visible int
		secret  string
	}

	if !structurallyEqual(hidden{1, "a"}, hidden{1, "a"}) {
		t.Errorf("expected equal values with unexported fields to match")
	}
	if structurallyEqual(hidden{1, "a"}, hidden{1, "b"}) {
		t.Errorf("expected differing unexported fields not to match")
	}

	// deep value equality, not identity
	a, b := &hidden{2, "x"}, &hidden{2, "x"}
	if !structurallyEqual(a, b) {
		t.Errorf("expected distinct pointers to equal values to match")
	}
}

type matcherFunc func(actual any) bool

func (f matcherFunc) Matches(actual any) bool { return f(actual) }
