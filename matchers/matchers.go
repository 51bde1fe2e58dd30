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
Package matchers is a small general-purpose matcher library.

A Matcher tests arbitrary values for a condition and can describe itself for
failure messages. Matchers satisfy the Matches capability consulted by
doppel's argument matching, so they can stand in for literal arguments in
stub patterns and verifications:

	When(d).Call("Fetch", matchers.Anything()).ThenReturn("x")
	reg.Verify(d, "1+").Call("Store", matchers.TypeOf(Record{}))
*/
package matchers

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// A Matcher decides whether a candidate value satisfies a condition and
// describes itself for failure messages.
type Matcher interface {
	Matches(actual any) bool
	DescribeTo(d *Description)
}

type equalTo struct {
	expected any
}

// EqualTo matches values structurally equal to expected (deep value
// equality, not identity).
func EqualTo(expected any) Matcher { return &equalTo{expected} }

func (m *equalTo) Matches(actual any) bool {
	return cmp.Equal(m.expected, actual, cmp.Exporter(func(reflect.Type) bool { return true }))
}

func (m *equalTo) DescribeTo(d *Description) {
	d.AppendText("EqualTo(").AppendValue(m.expected).AppendText(")")
}

func (m *equalTo) String() string { return describe(m) }

type anything struct{}

// Anything matches any value, including nil.
func Anything() Matcher { return anything{} }

func (anything) Matches(any) bool          { return true }
func (anything) DescribeTo(d *Description) { d.AppendText("Anything") }
func (m anything) String() string          { return describe(m) }

type nilValue struct{}

// NilValue matches nil and nil-valued channels, funcs, interfaces, maps,
// pointers and slices.
func NilValue() Matcher { return nilValue{} }

func (nilValue) Matches(actual any) bool {
	if actual == nil {
		return true
	}
	v := reflect.ValueOf(actual)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func (nilValue) DescribeTo(d *Description) { d.AppendText("NilValue") }
func (m nilValue) String() string          { return describe(m) }

type notMatcher struct {
	m Matcher
}

// Not negates a matcher.
func Not(m Matcher) Matcher { return &notMatcher{m} }

func (n *notMatcher) Matches(actual any) bool { return !n.m.Matches(actual) }

func (n *notMatcher) DescribeTo(d *Description) {
	d.AppendText("Not(")
	n.m.DescribeTo(d)
	d.AppendText(")")
}

func (n *notMatcher) String() string { return describe(n) }

type allOf struct {
	ms []Matcher
}

// AllOf matches when every member matches. With no members it matches
// everything.
func AllOf(ms ...Matcher) Matcher { return &allOf{ms} }

func (a *allOf) Matches(actual any) bool {
	for _, m := range a.ms {
		if !m.Matches(actual) {
			return false
		}
	}
	return true
}

func (a *allOf) DescribeTo(d *Description) {
	d.AppendText("AllOf").AppendList("{", ", ", "}", a.ms)
}

func (a *allOf) String() string { return describe(a) }

type anyOf struct {
	ms []Matcher
}

// AnyOf matches when at least one member matches. With no members it matches
// nothing.
func AnyOf(ms ...Matcher) Matcher { return &anyOf{ms} }

func (a *anyOf) Matches(actual any) bool {
	for _, m := range a.ms {
		if m.Matches(actual) {
			return true
		}
	}
	return false
}

func (a *anyOf) DescribeTo(d *Description) {
	d.AppendText("AnyOf").AppendList("{", ", ", "}", a.ms)
}

func (a *anyOf) String() string { return describe(a) }

type hasLen struct {
	inner Matcher
}

// HasLen matches arrays, chans, maps, slices and strings whose length
// satisfies v, which may be an int or a Matcher over ints.
func HasLen(v any) Matcher {
	if m, ok := v.(Matcher); ok {
		return &hasLen{m}
	}
	return &hasLen{EqualTo(v)}
}

func (h *hasLen) Matches(actual any) bool {
	v := reflect.ValueOf(actual)
	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return h.inner.Matches(v.Len())
	}
	return false
}

func (h *hasLen) DescribeTo(d *Description) {
	d.AppendText("HasLen(")
	h.inner.DescribeTo(d)
	d.AppendText(")")
}

func (h *hasLen) String() string { return describe(h) }

type typeOf struct {
	t reflect.Type
}

// TypeOf matches values assignable to the type of example (or to example
// itself when it is a reflect.Type). Interface types are named by a nil
// interface pointer, eg TypeOf((*error)(nil)).
func TypeOf(example any) Matcher {
	t, ok := example.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(example)
	}
	if t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	return &typeOf{t}
}

func (m *typeOf) Matches(actual any) bool {
	at := reflect.TypeOf(actual)
	if at == nil {
		return false
	}
	if m.t.Kind() == reflect.Interface {
		return at.Implements(m.t)
	}
	return at.AssignableTo(m.t)
}

func (m *typeOf) DescribeTo(d *Description) {
	d.AppendText("TypeOf(").AppendValue(m.t).AppendText(")")
}

func (m *typeOf) String() string { return describe(m) }

type predicate[V any] struct {
	fn   func(V) bool
	text string
}

// Predicate matches values of type V satisfying fn. Values of another type
// do not match. Custom matchers are generally a wrapper around Predicate.
func Predicate[V any](fn func(V) bool, text string) Matcher {
	return &predicate[V]{fn, text}
}

func (p *predicate[V]) Matches(actual any) bool {
	v, ok := actual.(V)
	return ok && p.fn(v)
}

func (p *predicate[V]) DescribeTo(d *Description) {
	if p.text != "" {
		d.AppendText(p.text)
		return
	}
	d.AppendText(fmt.Sprintf("Predicate[%T]", *new(V)))
}

func (p *predicate[V]) String() string { return describe(p) }

type sliceOf struct {
	ms []Matcher
}

// SliceOf matches a slice or array whose leading elements satisfy the given
// matchers position by position. Extra trailing elements are accepted.
func SliceOf(ms ...Matcher) Matcher { return &sliceOf{ms} }

func (s *sliceOf) Matches(actual any) bool {
	v := reflect.ValueOf(actual)
	switch v.Kind() {
	case reflect.Array, reflect.Slice:
		if v.Len() < len(s.ms) {
			return false
		}
		for i, m := range s.ms {
			if !m.Matches(v.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return false
}

func (s *sliceOf) DescribeTo(d *Description) {
	d.AppendText("SliceOf").AppendList("[", ", ", "]", s.ms)
}

func (s *sliceOf) String() string { return describe(s) }
