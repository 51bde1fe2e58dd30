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
	"reflect"
	"testing"
)

func TestResponsePattern_NextStep(t *testing.T) {
	empty := &responsePattern{}
	if empty.nextStep() != nil {
		t.Errorf("expected nil from a pattern with no steps")
	}

	a := &responseStep{kind: actionReturn, payload: []any{"a"}}
	b := &responseStep{kind: actionReturn, payload: []any{"b"}}
	p := &responsePattern{steps: []*responseStep{a, b}}

	for i, want := range []*responseStep{a, b, b, b} {
		if got := p.nextStep(); got != want {
			t.Errorf("step %d: expected %v, got %v", i, want.payload, got.payload)
		}
	}
}

func TestPerform_PanicInstantiatesStoredType(t *testing.T) {
	type timeout struct{ Op string }

	defer func() {
		e := recover()
		if _, ok := e.(*timeout); !ok {
			t.Errorf("expected a freshly instantiated *timeout, got %T", e)
		}
	}()
	perform(&responseStep{kind: actionPanic, payload: []any{reflect.TypeOf(timeout{})}}, nil)
}

func TestPerform_UnknownActionPanics(t *testing.T) {
	defer func() {
		e := recover()
		err, ok := e.(error)
		if !ok || !errors.Is(err, ErrUnknownResponseAction) {
			t.Errorf("expected ErrUnknownResponseAction, got %v", e)
		}
	}()
	perform(&responseStep{kind: actionKind(99)}, nil)
}

func TestCallFunc_SubstitutesTypedZerosForNil(t *testing.T) {
	fn := func(err error, s string) string {
		if err != nil {
			return "err"
		}
		return "nil:" + s
	}
	out := callFunc(fn, []any{nil, "x"})
	if len(out) != 1 || out[0] != "nil:x" {
		t.Errorf("expected the nil argument boxed as a typed zero, got %v", out)
	}
}

func TestCallFunc_VariadicTail(t *testing.T) {
	fn := func(prefix string, tags ...string) int { return len(prefix) + len(tags) }
	out := callFunc(fn, []any{"ab", "x", "y", "z"})
	if len(out) != 1 || out[0] != 5 {
		t.Errorf("expected 5, got %v", out)
	}
}

func TestActionKind_String(t *testing.T) {
	for kind, want := range map[actionKind]string{
		actionReturn:   "return",
		actionPanic:    "panic",
		actionCallback: "callback",
		actionKind(7):  "action(7)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
