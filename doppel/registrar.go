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
	"sync"
)

// A Registrar is notified after each first successful synthesis of a
// (type, variant) pair, so external tooling can recognize generated doubles
// of the original type.
type Registrar func(generated string, source reflect.Type, isInterface bool)

var (
	registrarMu sync.Mutex
	registrar   Registrar
)

// SetRegistrar installs the process-wide registrar hook. Nil disables
// notification.
func SetRegistrar(fn Registrar) {
	registrarMu.Lock()
	defer registrarMu.Unlock()
	registrar = fn
}

func notifyRegistrar(d *Descriptor) {
	registrarMu.Lock()
	fn := registrar
	registrarMu.Unlock()
	if fn != nil {
		fn(d.name, d.source, d.source.Kind() == reflect.Interface)
	}
}
