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
	"reflect"

	"fortio.org/safecast"
)

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// widen converts a numeric payload to the declared numeric return type when
// the conversion is lossless; lossy conversions are a type mismatch, not a
// silent truncation.
func widen(v any, rt reflect.Type) (any, bool) {
	vv := reflect.ValueOf(v)
	if !isNumeric(vv.Kind()) || !isNumeric(rt.Kind()) {
		return nil, false
	}

	var out any
	var err error
	switch rt.Kind() {
	case reflect.Int:
		out, err = convNum[int](vv)
	case reflect.Int8:
		out, err = convNum[int8](vv)
	case reflect.Int16:
		out, err = convNum[int16](vv)
	case reflect.Int32:
		out, err = convNum[int32](vv)
	case reflect.Int64:
		out, err = convNum[int64](vv)
	case reflect.Uint:
		out, err = convNum[uint](vv)
	case reflect.Uint8:
		out, err = convNum[uint8](vv)
	case reflect.Uint16:
		out, err = convNum[uint16](vv)
	case reflect.Uint32:
		out, err = convNum[uint32](vv)
	case reflect.Uint64:
		out, err = convNum[uint64](vv)
	case reflect.Uintptr:
		out, err = convNum[uintptr](vv)
	case reflect.Float32:
		out, err = convNum[float32](vv)
	case reflect.Float64:
		out, err = convNum[float64](vv)
	default:
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	// a named numeric return type needs a final representation change
	if reflect.TypeOf(out) != rt {
		out = reflect.ValueOf(out).Convert(rt).Interface()
	}
	return out, true
}

// convNum funnels the payload through its widest carrier and lets safecast
// reject any conversion that would not round-trip.
func convNum[O number](vv reflect.Value) (O, error) {
	switch vv.Kind() {
	case reflect.Float32, reflect.Float64:
		return safecast.Convert[O](vv.Float())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return safecast.Convert[O](vv.Uint())
	default:
		return safecast.Convert[O](vv.Int())
	}
}

func isNumeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}
