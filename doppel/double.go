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
	"reflect"
	"sync"
)

// T is compatible with builtin testing.T
type T interface {
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Helper()
}

// Variant selects how a double behaves when no stubbed response matches a
// call.
type Variant int

const (
	// Mock never delegates to a real implementation; unmatched calls yield
	// zero values for the method's return types.
	Mock Variant = iota

	// Spy delegates unmatched calls to a real implementation supplied at
	// construction.
	Spy
)

func (v Variant) String() string {
	switch v {
	case Mock:
		return "Mock"
	case Spy:
		return "Spy"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// A Descriptor identifies a synthesized double type: the source interface,
// the variant, a generated type name and the reconstructed method table.
// Descriptors are immutable and cached for the process lifetime.
type Descriptor struct {
	source  reflect.Type
	variant Variant
	name    string
	methods map[string]*Signature
}

func (d *Descriptor) Source() reflect.Type { return d.source }
func (d *Descriptor) Variant() Variant     { return d.variant }

// Name is the synthesized type name, eg "MockOfAPI".
func (d *Descriptor) Name() string { return d.name }

// Method returns the signature for a declared method, or nil for names the
// source type does not declare.
func (d *Descriptor) Method(name string) *Signature { return d.methods[name] }

type descriptorKey struct {
	source  reflect.Type
	variant Variant
}

var (
	descriptorMu    sync.Mutex
	descriptorCache = map[descriptorKey]*Descriptor{}
)

// Synthesize builds the Descriptor for the interface that source points at.
// source is expected to be a nil interface pointer, eg (*API)(nil).
//
// Synthesizing the same (type, variant) pair twice returns the cached
// descriptor; the registrar hook is notified only on first synthesis. There
// is no partial failure: a descriptor is either fully built and cached, or
// nothing is.
func Synthesize(source any, variant Variant) (*Descriptor, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: nil source", ErrUnknownType)
	}
	st := reflect.TypeOf(source)
	if st.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("%w: %T is not a pointer to a nil interface", ErrUnknownType, source)
	}
	st = st.Elem()
	if st.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %v is not an interface and cannot be extended", ErrUnmockableType, st)
	}

	key := descriptorKey{st, variant}
	descriptorMu.Lock()
	defer descriptorMu.Unlock()
	if d, ok := descriptorCache[key]; ok {
		return d, nil
	}

	d := &Descriptor{
		source:  st,
		variant: variant,
		name:    variant.String() + "Of" + typeName(st),
		methods: make(map[string]*Signature, st.NumMethod()),
	}
	for i := 0; i < st.NumMethod(); i++ {
		m := st.Method(i)
		d.methods[m.Name] = newSignature(m)
	}
	descriptorCache[key] = d
	notifyRegistrar(d)
	return d, nil
}

/*
A Double is one substitute instance of a synthesized type.

Every method call on a double funnels through Invoke, usually via a generated
wrapper (see the doppelgen package):

	type APIDouble struct {
		API
		*doppel.Double
	}

	func (a *APIDouble) Fetch(id int) string {
		a.T().Helper()
		r0, _ := a.Invoke("Fetch", id)[0].(string)
		return r0
	}

Invoke records the call in the registry, resolves the first matching stubbed
response, and otherwise falls back to the spy delegate or to zero values.
*/
type Double struct {
	t        T
	reg      *Registry
	desc     *Descriptor
	id       string
	delegate reflect.Value
	strict   bool
	trace    bool
}

// Option configures a Double at construction.
type Option func(*Double)

// WithDefaultArg declares the default value for parameter position pos of
// method. Defaults back-fill omitted trailing arguments during matching, so a
// pattern for foo() matches a call foo(defaultValue) and vice versa.
func WithDefaultArg(method string, pos int, value any) Option {
	return func(d *Double) {
		d.reg.setDefault(d.class(), method, pos, value)
	}
}

// WithStrictMethods makes calls to undeclared method names fail with
// ErrUnmockableMethod. The default is lenient: unknown names route through
// the same record-and-resolve path as declared ones.
func WithStrictMethods() Option {
	return func(d *Double) { d.strict = true }
}

// WithTrace logs every intercepted call via T.Logf.
func WithTrace() Option {
	return func(d *Double) { d.trace = true }
}

// NewMock returns a Double for the interface source points at that never
// delegates to a real implementation.
func NewMock(t T, reg *Registry, source any, opts ...Option) *Double {
	t.Helper()
	return newDouble(t, reg, source, Mock, reflect.Value{}, false, opts)
}

// NewSpy returns a partial Double that delegates to real whenever no stubbed
// response matches. real must implement the source interface.
func NewSpy(t T, reg *Registry, source any, real any, opts ...Option) *Double {
	t.Helper()
	d := newDouble(t, reg, source, Spy, reflect.Value{}, false, nil)
	rv := reflect.ValueOf(real)
	if !rv.IsValid() || !rv.Type().Implements(d.desc.source) {
		t.Fatalf("spy delegate %T does not implement %v", real, d.desc.source)
		return d
	}
	d.delegate = rv
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewStatic returns a Double addressing class-level calls on the source
// type. All static doubles of one type share the identity "<Type>::static",
// so their stubs and call history join.
func NewStatic(t T, reg *Registry, source any, opts ...Option) *Double {
	t.Helper()
	return newDouble(t, reg, source, Mock, reflect.Value{}, true, opts)
}

func newDouble(t T, reg *Registry, source any, variant Variant, delegate reflect.Value, static bool, opts []Option) *Double {
	t.Helper()
	desc, err := Synthesize(source, variant)
	if err != nil {
		t.Fatalf("cannot double %T: %v", source, err)
		return nil
	}
	d := &Double{t: t, reg: reg, desc: desc, delegate: delegate}
	if static {
		d.id = d.class() + "::static"
	} else {
		d.id = reg.nextInstance(d.class())
	}
	reg.registerDouble(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Double) T() T                   { return d.t }
func (d *Double) Registry() *Registry    { return d.reg }
func (d *Double) Descriptor() *Descriptor { return d.desc }

// Instance is the identity joining this double's calls and stubs in the
// registry, eg "API#3".
func (d *Double) Instance() string { return d.id }

func (d *Double) String() string { return d.id }

func (d *Double) class() string { return typeName(d.desc.source) }

// Invoke records a call to method and resolves its response: the first
// matching stubbed step if any, otherwise the spy delegate's result,
// otherwise zero values for the method's declared return types.
//
// A trailing variadic slice argument is flattened so the record holds the
// arguments as supplied at the call site. Calls to undeclared method names
// take the same path unless the double is strict.
func (d *Double) Invoke(method string, args ...any) []any {
	d.t.Helper()
	sig := d.desc.Method(method)
	if sig == nil && d.strict {
		d.t.Fatalf("%v: %v does not declare method %s", ErrUnmockableMethod, d.desc.source, method)
		return nil
	}
	if sig != nil {
		args = sig.flatten(args)
	}

	if d.trace {
		// a stubbed panic should still be traced
		defer func() {
			if e := recover(); e != nil {
				d.t.Logf("%s.%s(%s) => panic: %v", d.id, method, formatArgs(args), e)
				panic(e)
			}
		}()
	}

	returns := d.resolve(sig, method, args)
	if d.trace {
		d.t.Logf("%s.%s(%s) => %v", d.id, method, formatArgs(args), returns)
	}
	return returns
}

func (d *Double) resolve(sig *Signature, method string, args []any) []any {
	if step := d.reg.record(d.class(), d.id, method, args); step != nil {
		return perform(step, args)
	}
	if d.delegate.IsValid() {
		if out, ok := d.delegateCall(method, args); ok {
			return out
		}
	}
	if sig == nil {
		return nil
	}
	return sig.zeroReturns()
}

func (d *Double) delegateCall(method string, args []any) ([]any, bool) {
	m := d.delegate.MethodByName(method)
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = argValue(mt, i, a)
	}
	out := m.Call(in)
	if len(out) == 0 {
		return nil, true
	}
	returns := make([]any, len(out))
	for i, v := range out {
		returns[i] = v.Interface()
	}
	return returns, true
}
