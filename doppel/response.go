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
)

type actionKind int

const (
	actionReturn actionKind = iota
	actionPanic
	actionCallback
)

func (k actionKind) String() string {
	switch k {
	case actionReturn:
		return "return"
	case actionPanic:
		return "panic"
	case actionCallback:
		return "callback"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// A responseStep is one programmed reaction to a matching call. For a return
// step the payload is the full return tuple; for panic and callback steps it
// is a single value.
type responseStep struct {
	kind    actionKind
	payload []any
}

// A responsePattern is the ordered step list programmed by one When chain,
// bound to one (instance, method, argument pattern) triple. Steps are
// consumed one per matching call; the final step, once reached, repeats for
// all subsequent matching calls.
type responsePattern struct {
	args  []any
	steps []*responseStep
	next  int
}

func (p *responsePattern) nextStep() *responseStep {
	if len(p.steps) == 0 {
		return nil
	}
	step := p.steps[p.next]
	if p.next < len(p.steps)-1 {
		p.next++
	}
	return step
}

// perform executes a resolved step: return yields the stored tuple, panic
// raises the stored error (instantiating a stored reflect.Type first),
// callback invokes the stored func with the actual call arguments and yields
// its results.
func perform(step *responseStep, args []any) []any {
	switch step.kind {
	case actionReturn:
		return step.payload
	case actionPanic:
		panic(panicValue(step.payload[0]))
	case actionCallback:
		return callFunc(step.payload[0], args)
	default:
		panic(fmt.Errorf("%w: %v", ErrUnknownResponseAction, step.kind))
	}
}

func panicValue(v any) any {
	if t, ok := v.(reflect.Type); ok {
		return reflect.New(t).Interface()
	}
	return v
}

func callFunc(fn any, args []any) []any {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = argValue(ft, i, a)
	}
	out := fv.Call(in)
	if len(out) == 0 {
		return nil
	}
	returns := make([]any, len(out))
	for i, v := range out {
		returns[i] = v.Interface()
	}
	return returns
}

// argValue boxes one recorded argument for a reflective call, substituting a
// typed zero for nil.
func argValue(ft reflect.Type, i int, a any) reflect.Value {
	if a != nil {
		return reflect.ValueOf(a)
	}
	var pt reflect.Type
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		pt = ft.In(ft.NumIn() - 1).Elem()
	} else {
		pt = ft.In(i)
	}
	return reflect.Zero(pt)
}
