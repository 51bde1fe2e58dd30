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

import "reflect"

/*
A Stubbing programs an ordered sequence of responses for one
(instance, method, argument pattern) triple.

Mode A binds to the call just made, consuming it from the log:

	d.Fetch(1)
	reg.WhenLastCall().ThenReturn("first")

Mode B binds explicitly:

	When(d).Call("Fetch", 1).ThenReturn("first").ThenPanic(errGone)

Patterns for the same (instance, method) accumulate in declaration order and
are tried in that order on every call, first match wins. Within a pattern,
steps run in order on successive matching calls and the final step repeats
indefinitely.
*/
type Stubbing struct {
	t       T
	reg     *Registry
	d       *Double
	bound   bool
	method  string
	sig     *Signature
	pattern *responsePattern
	last    actionKind
	stepped bool
}

// When starts an unbound stubbing for d. The next Call binds it to a method
// and argument pattern.
func When(d *Double) *Stubbing {
	d.t.Helper()
	return &Stubbing{t: d.t, reg: d.reg, d: d}
}

// WhenLastCall consumes the most recent recorded call and binds a stubbing
// to its (instance, method, arguments). The consumed call is removed from
// the log, so the pattern call itself is never counted by verification.
func (r *Registry) WhenLastCall() *Stubbing {
	r.t.Helper()
	s := &Stubbing{t: r.t, reg: r}
	rec, ok := r.popLastCall()
	if !ok {
		r.t.Fatalf("%v: WhenLastCall with no recorded calls", ErrInvalidUsage)
		return s
	}
	d := r.doubleFor(rec.Instance)
	if d == nil {
		r.t.Fatalf("%v: last call %s was not made on a double of this registry", ErrInvalidUsage, rec)
		return s
	}
	s.d = d
	s.bind(rec.Method, rec.Args)
	return s
}

// Call binds an unbound stubbing to method with the given argument pattern.
// Pattern arguments are literal values or Matchers.
func (s *Stubbing) Call(method string, args ...any) *Stubbing {
	s.t.Helper()
	if s.bound {
		s.t.Fatalf("%v: Call on a stubbing already bound to %s", ErrInvalidUsage, s.method)
		return s
	}
	if s.d == nil {
		return s
	}
	if s.d.strict && s.d.desc.Method(method) == nil {
		s.t.Fatalf("%v: %v does not declare method %s", ErrUnmockableMethod, s.d.desc.source, method)
		return s
	}
	s.bind(method, args)
	return s
}

func (s *Stubbing) bind(method string, args []any) {
	s.bound = true
	s.method = method
	s.sig = s.d.desc.Method(method)
	s.pattern = &responsePattern{args: args}
	s.reg.addPattern(s.d.id, method, s.pattern)
}

// ThenReturn appends a step yielding values as the call's results. The
// payload is validated against the method's declared return types here, at
// declaration time, so a misconfigured stub fails before any call is made. A
// void method takes an empty payload.
func (s *Stubbing) ThenReturn(values ...any) *Stubbing {
	s.t.Helper()
	return s.addStep(actionReturn, values)
}

// ThenPanic appends a step that panics with err on a matching call. err may
// be any non-nil value, or a reflect.Type to instantiate at call time.
func (s *Stubbing) ThenPanic(err any) *Stubbing {
	s.t.Helper()
	return s.addStep(actionPanic, []any{err})
}

// ThenCallback appends a step invoking fn with the actual call arguments and
// yielding its results.
func (s *Stubbing) ThenCallback(fn any) *Stubbing {
	s.t.Helper()
	return s.addStep(actionCallback, []any{fn})
}

// Then repeats the previous action kind with a new payload. It fails with
// ErrInvalidUsage before any action.
func (s *Stubbing) Then(payload ...any) *Stubbing {
	s.t.Helper()
	if !s.stepped {
		s.t.Fatalf("%v: Then before any action", ErrInvalidUsage)
		return s
	}
	if s.last != actionReturn && len(payload) != 1 {
		s.t.Fatalf("%v: a %s step takes exactly one payload value, have %d", ErrInvalidUsage, s.last, len(payload))
		return s
	}
	return s.addStep(s.last, payload)
}

func (s *Stubbing) addStep(kind actionKind, payload []any) *Stubbing {
	s.t.Helper()
	if !s.bound {
		s.t.Fatalf("%v: %s on an unbound stubbing (bind with Call first)", ErrInvalidUsage, kind)
		return s
	}
	switch kind {
	case actionReturn:
		payload = s.validateReturns(payload)
	case actionPanic:
		if payload[0] == nil {
			s.t.Fatalf("%v: cannot panic with nil", ErrInvalidUsage)
			return s
		}
	case actionCallback:
		s.validateCallback(payload[0])
	}
	s.reg.appendStep(s.pattern, &responseStep{kind: kind, payload: payload})
	s.last = kind
	s.stepped = true
	return s
}

func (s *Stubbing) validateCallback(fn any) {
	s.t.Helper()
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		s.t.Fatalf("%v: callback payload must be a func, have %T", ErrInvalidUsage, fn)
		return
	}
	if s.sig != nil && fv.Type().NumOut() != len(s.sig.Returns) {
		s.t.Fatalf("%v: %s returns %d values, callback returns %d",
			ErrReturnTypeMismatch, s.method, len(s.sig.Returns), fv.Type().NumOut())
	}
}

// validateReturns checks a return payload against the declared return types
// and stores numeric payloads already widened to the declared type.
func (s *Stubbing) validateReturns(values []any) []any {
	s.t.Helper()
	if s.sig == nil {
		// catch-all stub for an undeclared method, nothing to check against
		return values
	}
	if len(values) != len(s.sig.Returns) {
		s.t.Fatalf("%v: %s returns %d values, stub supplies %d",
			ErrReturnTypeMismatch, s.method, len(s.sig.Returns), len(values))
		return values
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = s.coerceReturn(i, v)
	}
	return out
}

func (s *Stubbing) coerceReturn(i int, v any) any {
	s.t.Helper()
	rt := s.sig.Returns[i]
	if v == nil {
		if !nilable(rt) {
			s.t.Fatalf("%v: %s return %d is %v, nil not allowed", ErrReturnTypeMismatch, s.method, i, rt)
		}
		return nil
	}
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(rt) {
		return v
	}
	if widened, ok := widen(v, rt); ok {
		return widened
	}
	s.t.Fatalf("%v: %s return %d expects %v, have %T", ErrReturnTypeMismatch, s.method, i, rt, v)
	return v
}
