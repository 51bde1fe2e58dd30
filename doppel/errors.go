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
	"errors"
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// Failure taxonomy. Usage errors are raised fatally at the call site via
// T.Fatalf; verification failures are reported via T.Errorf so a test can
// accumulate several of them.
var (
	// ErrUnknownType means the double target does not resolve to any
	// interface type.
	ErrUnknownType = errors.New("unknown type")

	// ErrUnmockableType means the target resolves but cannot be substituted.
	// Concrete Go types are sealed for substitution purposes; only
	// interfaces can be doubled.
	ErrUnmockableType = errors.New("unmockable type")

	// ErrUnmockableMethod means a strict double intercepted a call to a
	// method name its source type does not declare.
	ErrUnmockableMethod = errors.New("unmockable method")

	// ErrInvalidUsage means a builder was misused: an action on an unbound
	// stubbing, Then before any action, a malformed expected count, or a
	// double from a foreign registry.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrReturnTypeMismatch means a stubbed return payload is incompatible
	// with the method's declared return types. Raised at stub-declaration
	// time, before any call is made.
	ErrReturnTypeMismatch = errors.New("return type mismatch")

	// ErrUnknownResponseAction is an internal invariant violation and should
	// be unreachable in correct builds.
	ErrUnknownResponseAction = errors.New("unknown response action")
)

// A VerificationError reports a call-count mismatch with the full diagnostic
// context: the expected call, the expectation, the actual matching count and
// every call recorded for that (instance, method).
type VerificationError struct {
	Expected    string
	Expectation string
	Count       int
	Recorded    []CallRecord
}

func (e *VerificationError) Error() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "expected %s to be called %s, actually called %d times", e.Expected, e.Expectation, e.Count)
	if len(e.Recorded) == 0 {
		return sb.String()
	}
	sb.WriteString("\nrecorded calls (most recent first):")
	for _, c := range e.Recorded {
		fmt.Fprintf(sb, "\n  %s", c)
	}
	if diff := textdiff.Unified("expected call", "most recent call", e.Expected+"\n", e.Recorded[0].String()+"\n"); diff != "" {
		fmt.Fprintf(sb, "\n%s", diff)
	}
	return sb.String()
}
