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

package gomegamatch

import (
	"strings"
	"testing"

	"github.com/onsi/gomega"

	"doppel/doppel"
)

func TestAdapt_DelegatesToGomega(t *testing.T) {
	positive := Adapt(gomega.BeNumerically(">", 0))

	if !positive.Matches(3) {
		t.Errorf("expected 3 to match >0")
	}
	if positive.Matches(-3) {
		t.Errorf("expected -3 not to match >0")
	}
}

func TestAdapt_MatchErrorIsANonMatch(t *testing.T) {
	// BeNumerically against a non-number errors rather than returning false
	if Adapt(gomega.BeNumerically(">", 0)).Matches("not a number") {
		t.Errorf("expected a gomega match error to read as a non-match")
	}
}

func TestAdapt_UsableAsPatternArgument(t *testing.T) {
	type store interface {
		Put(n int) bool
	}

	reg := doppel.NewRegistry(t)
	d := doppel.NewMock(t, reg, (*store)(nil))

	doppel.When(d).Call("Put", Adapt(gomega.BeNumerically(">=", 10))).ThenReturn(true)

	if ok, _ := d.Invoke("Put", 12)[0].(bool); !ok {
		t.Errorf("expected the gomega pattern to match 12")
	}
	if ok, _ := d.Invoke("Put", 3)[0].(bool); ok {
		t.Errorf("expected the gomega pattern to reject 3")
	}

	reg.Verify(d, 1).Call("Put", Adapt(gomega.BeNumerically("<", 10)))
}

func TestAdapted_String(t *testing.T) {
	s := Adapt(gomega.BeNil()).String()
	if !strings.HasPrefix(s, "gomega(") {
		t.Errorf("unexpected rendering %q", s)
	}
}
