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

// A Param describes one parameter of a doubled method.
type Param struct {
	// Type is the declared parameter type. For a variadic parameter this is
	// the element type, not the slice type.
	Type reflect.Type

	// ByRef marks pointer parameters: the callee observes writes made
	// through the recorded argument.
	ByRef bool

	// Variadic marks the trailing ...T parameter.
	Variadic bool
}

// A Signature is the reconstructed shape of one method. It is the single
// model shared by the invoke path (argument flattening, zero-value fallback)
// and by the stub builder's return-type guard.
type Signature struct {
	Name    string
	Params  []Param
	Returns []reflect.Type
}

func newSignature(m reflect.Method) *Signature {
	mt := m.Type
	s := &Signature{Name: m.Name}
	for i := 0; i < mt.NumIn(); i++ {
		p := Param{Type: mt.In(i)}
		p.ByRef = p.Type.Kind() == reflect.Ptr
		if mt.IsVariadic() && i == mt.NumIn()-1 {
			p.Variadic = true
			p.Type = p.Type.Elem()
		}
		s.Params = append(s.Params, p)
	}
	for i := 0; i < mt.NumOut(); i++ {
		s.Returns = append(s.Returns, mt.Out(i))
	}
	return s
}

// Variadic reports whether the final parameter is variadic.
func (s *Signature) Variadic() bool {
	return len(s.Params) > 0 && s.Params[len(s.Params)-1].Variadic
}

// flatten expands a trailing variadic slice so the recorded argument list
// holds the arguments exactly as supplied at the call site.
func (s *Signature) flatten(args []any) []any {
	if !s.Variadic() || len(args) != len(s.Params) {
		return args
	}
	last := reflect.ValueOf(args[len(args)-1])
	if !last.IsValid() || last.Kind() != reflect.Slice || last.Type().Elem() != s.Params[len(s.Params)-1].Type {
		return args
	}
	flat := append([]any{}, args[:len(args)-1]...)
	for i := 0; i < last.Len(); i++ {
		flat = append(flat, last.Index(i).Interface())
	}
	return flat
}

// zeroReturns is the type-appropriate fallback when no response is stubbed:
// false for booleans, 0 for numerics, "" for strings, nil elsewhere.
func (s *Signature) zeroReturns() []any {
	if len(s.Returns) == 0 {
		return nil
	}
	out := make([]any, len(s.Returns))
	for i, rt := range s.Returns {
		out[i] = reflect.Zero(rt).Interface()
	}
	return out
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}

func typeName(t reflect.Type) string {
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}
