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
	"fmt"
	"strconv"
	"strings"
)

// An Expectation verifies a call count against an expected value.
type Expectation interface {
	Met(count int) bool
	String() string
}

type calledExactly int

func (n calledExactly) Met(count int) bool { return count == int(n) }
func (n calledExactly) String() string     { return fmt.Sprintf("exactly %d times", int(n)) }

type calledAtLeast int

func (n calledAtLeast) Met(count int) bool { return count >= int(n) }
func (n calledAtLeast) String() string     { return fmt.Sprintf("at least %d times", int(n)) }

// Exactly expects precisely n matching calls.
func Exactly(n int) Expectation { return calledExactly(n) }

// AtLeast expects n or more matching calls.
func AtLeast(n int) Expectation { return calledAtLeast(n) }

// Once is shorthand for Exactly(1).
func Once() Expectation { return Exactly(1) }

// Never is shorthand for Exactly(0).
func Never() Expectation { return Exactly(0) }

func parseTimes(t T, times any) Expectation {
	t.Helper()
	switch v := times.(type) {
	case Expectation:
		return v
	case int:
		if v < 0 {
			t.Fatalf("%v: negative expected count %d", ErrInvalidUsage, v)
			return nil
		}
		return Exactly(v)
	case string:
		if before, ok := strings.CutSuffix(v, "+"); ok {
			if n, err := strconv.Atoi(before); err == nil && n >= 0 {
				return AtLeast(n)
			}
		} else if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return Exactly(n)
		}
		t.Fatalf("%v: cannot parse expected count %q", ErrInvalidUsage, v)
	default:
		t.Fatalf("%v: expected count must be an int, an \"N+\" string or an Expectation, have %T", ErrInvalidUsage, times)
	}
	return nil
}

// A Verification counts recorded calls matching a pattern against an
// expectation.
type Verification struct {
	t      T
	reg    *Registry
	d      *Double
	expect Expectation
	report func(error)
}

/*
Verify begins a verification of calls on d:

	reg.Verify(d, 2).Call("Fetch", 1)     // exactly 2
	reg.Verify(d, "1+").Call("Fetch", 1)  // at least 1
	reg.Verify(d, Never()).Call("Close")

times is an exact int count, a string "N+" for at-least semantics, or an
Expectation.
*/
func (r *Registry) Verify(d *Double, times any) *Verification {
	r.t.Helper()
	if d == nil || d.reg != r {
		r.t.Fatalf("%v: double was not created against this registry", ErrInvalidUsage)
		return &Verification{t: r.t, reg: r}
	}
	return &Verification{t: r.t, reg: r, d: d, expect: parseTimes(r.t, times)}
}

// WithReporter routes a failure to report instead of T.Errorf, so a richer
// assertion surface can raise it.
func (v *Verification) WithReporter(report func(error)) *Verification {
	v.report = report
	return v
}

// Call checks the recorded calls to method whose arguments match args
// (values or Matchers, default back-fill applied) against the expectation.
// On failure it raises a VerificationError listing every recorded call for
// that (instance, method).
func (v *Verification) Call(method string, args ...any) {
	v.t.Helper()
	if v.d == nil || v.expect == nil {
		return
	}
	count, recorded := v.reg.countMatching(v.d, method, args)
	if v.expect.Met(count) {
		return
	}
	err := &VerificationError{
		Expected:    fmt.Sprintf("%s.%s(%s)", v.d.id, method, formatArgs(args)),
		Expectation: v.expect.String(),
		Count:       count,
		Recorded:    recorded,
	}
	if v.report != nil {
		v.report(err)
		return
	}
	v.t.Errorf("verification failed: %v", err)
}
