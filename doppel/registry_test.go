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

func TestRegistry_LogIsMostRecentFirst(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := NewRegistry(t)
		d := newAPIMock(t, reg)

		ids := rapid.SliceOfN(rapid.IntRange(0, 99), 0, 20).Draw(rt, "ids")
		for _, id := range ids {
			d.Fetch(id)
		}

		log := reg.Calls()
		if len(log) != len(ids) {
			rt.Fatalf("expected %d records, got %d", len(ids), len(log))
		}
		for i, c := range log {
			want := ids[len(ids)-1-i]
			if c.Args[0] != want {
				rt.Fatalf("record %d: expected args[0]=%d, got %v", i, want, c.Args[0])
			}
		}
	})
}

func TestRegistry_CallsToFiltersByInstanceAndMethod(t *testing.T) {
	reg := NewRegistry(t)
	d1 := newAPIMock(t, reg)
	d2 := newAPIMock(t, reg)

	d1.Fetch(1)
	d2.Fetch(2)
	d1.Ping()
	d1.Fetch(3)

	calls := reg.CallsTo(d1.Double, "Fetch")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].Args[0] != 3 || calls[1].Args[0] != 1 {
		t.Errorf("expected most-recent-first [3 1], got %v then %v", calls[0].Args, calls[1].Args)
	}
	if calls[0].Class != "api" || calls[0].Instance != d1.Instance() {
		t.Errorf("unexpected record identity %+v", calls[0])
	}
}

func TestRegistry_ResetClearsLogAndStubs(t *testing.T) {
	reg := NewRegistry(t)
	d := newAPIMock(t, reg, WithDefaultArg("Tagged", 1, "all"))
	When(d.Double).Call("Fetch", 1).ThenReturn("first")
	d.Fetch(1)

	reg.Reset()

	if len(reg.Calls()) != 0 {
		t.Errorf("expected an empty log after Reset")
	}
	if r := d.Fetch(1); r != "" {
		t.Errorf("expected stubs cleared after Reset, got %q", r)
	}

	// declared defaults survive a reset
	When(d.Double).Call("Tagged", 9).ThenReturn(1)
	if r := d.Tagged(9, "all"); r != 1 {
		t.Errorf("expected the default to still back-fill, got %d", r)
	}
}

func TestRegistry_ResetInstanceIsolates(t *testing.T) {
	reg := NewRegistry(t)
	d1 := newAPIMock(t, reg)
	d2 := newAPIMock(t, reg)
	When(d1.Double).Call("Fetch", 1).ThenReturn("one")

	d1.Fetch(1)
	d2.Fetch(1)

	reg.ResetInstance(d1.Double)

	reg.Verify(d1.Double, Never()).Call("Fetch", anyArg{})
	reg.Verify(d2.Double, Once()).Call("Fetch", 1)
	if r := d1.Fetch(1); r != "" {
		t.Errorf("expected d1 stubs cleared, got %q", r)
	}
}

func TestRegistry_ResetMethodScopes(t *testing.T) {
	reg := NewRegistry(t)
	d := newAPIMock(t, reg)
	When(d.Double).Call("Fetch", 1).ThenReturn("one")
	When(d.Double).Call("Count").ThenReturn(int64(5))

	d.Fetch(1)
	d.Count()

	reg.ResetMethod(d.Double, "Fetch")

	reg.Verify(d.Double, Never()).Call("Fetch", anyArg{})
	reg.Verify(d.Double, Once()).Call("Count")
	if r := d.Fetch(1); r != "" {
		t.Errorf("expected the Fetch stub cleared, got %q", r)
	}
	if r := d.Count(); r != 5 {
		t.Errorf("expected the Count stub kept, got %d", r)
	}
}

func TestCallRecord_String(t *testing.T) {
	c := CallRecord{Class: "api", Instance: "api#1", Method: "Combine", Args: []any{1, "x"}}
	if got := c.String(); got != "api#1.Combine(1, x)" {
		t.Errorf("unexpected rendering %q", got)
	}
}
