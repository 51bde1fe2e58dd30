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
Package gomegamatch integrates the gomega matcher ecosystem with doppel.

Adapt wraps any gomega matcher in the Matches capability doppel's argument
matching consults, so the full gomega vocabulary works in stub patterns and
verifications:

	When(d).Call("Store", gomegamatch.Adapt(gomega.BeNumerically(">", 0))).
		ThenReturn(nil)
*/
package gomegamatch

import (
	"fmt"

	"github.com/onsi/gomega/types"
)

// An Adapted exposes a gomega matcher through Matches. A match error is
// treated as a non-match; gomega reserves errors for actuals the matcher
// does not support.
type Adapted struct {
	m types.GomegaMatcher
}

// Adapt wraps m for use as a doppel pattern argument.
func Adapt(m types.GomegaMatcher) *Adapted {
	return &Adapted{m: m}
}

func (a *Adapted) Matches(actual any) bool {
	ok, err := a.m.Match(actual)
	return err == nil && ok
}

func (a *Adapted) String() string {
	return fmt.Sprintf("gomega(%T)", a.m)
}
