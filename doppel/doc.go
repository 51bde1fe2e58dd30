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

/*
Package doppel is a when/verify test-double framework for Go.

Given an interface, doppel synthesizes a substitute type whose every method
call is intercepted, recorded in a registry, and answered with either a
pre-programmed response or a type-appropriate zero value. Tests program
responses up front ("when") and assert on call history afterwards ("verify").

Doubles

A double is built from a nil interface pointer and a registry. Typed wrappers
are generated with the doppelgen tool (or written by hand) and funnel every
method through Invoke:

	reg := NewRegistry(t)
	d := NewAPIMock(t, reg) // generated: embeds API and *doppel.Double

A Mock never delegates; unmatched calls return zero values. A Spy wraps a
real implementation and delegates to it when no stubbed response matches:

	s := NewAPISpy(t, reg, realClient)

Stubbing

When programs an ordered response sequence for a method and argument
pattern. Steps are consumed one per matching call; the last step repeats:

	When(d).Call("Fetch", 1).
		ThenReturn("first").
		ThenReturn("second").
		ThenPanic(errGone)

Alternatively make the pattern call first and bind to it; the call is
consumed from the log so verification never sees it:

	d.Fetch(1)
	reg.WhenLastCall().ThenReturn("first")

Pattern arguments are literal values (compared structurally) or anything
exposing Matches(actual any) bool, such as the bundled matchers package or
gomega matchers via gomegamatch.

Return payloads are validated against the method's declared return types at
declaration time: arity must match, nil is only accepted for nilable types,
and numeric payloads may widen losslessly.

Verification

Verify counts matching recorded calls after the exercise phase:

	reg.Verify(d, 2).Call("Fetch", 1)
	reg.Verify(d, "1+").Call("Fetch", matchers.Anything())
	reg.Verify(d, Never()).Call("Close")

Failures report the expected call, the actual count and every recorded call
for that method.

The registry owns all mutable state (call log, stubs, defaults) and supports
Reset, ResetInstance and ResetMethod for inter-test isolation.
*/
package doppel
