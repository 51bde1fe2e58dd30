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
	"strings"
	"sync"
)

// A CallRecord is one intercepted invocation. Records are immutable; the
// registry log lists them most-recent-first.
type CallRecord struct {
	Class    string
	Instance string
	Method   string
	Args     []any
}

func (c CallRecord) String() string {
	return fmt.Sprintf("%s.%s(%s)", c.Instance, c.Method, formatArgs(c.Args))
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return strings.Join(parts, ", ")
}

/*
A Registry owns all mutable double state for a test run: the call log, the
stubbed response table, the default-argument table and the instance counter.

Construct one per test case (or share one across sequential cases and Reset
between them) and pass it to every double and builder. The registry is
mutex-guarded so parallel tests may each own one, or share one.
*/
type Registry struct {
	t  T
	mu sync.Mutex

	log      []CallRecord
	stubs    map[string]map[string][]*responsePattern // instance -> method -> patterns, declaration order
	defaults map[string]map[string]map[int]any        // class -> method -> position -> default value
	doubles  map[string]*Double                       // instance -> double
	counter  uint64
}

func NewRegistry(t T) *Registry {
	return &Registry{
		t:        t,
		stubs:    map[string]map[string][]*responsePattern{},
		defaults: map[string]map[string]map[int]any{},
		doubles:  map[string]*Double{},
	}
}

func (r *Registry) nextInstance(class string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return fmt.Sprintf("%s#%d", class, r.counter)
}

func (r *Registry) registerDouble(d *Double) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doubles[d.id] = d
}

func (r *Registry) doubleFor(instance string) *Double {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doubles[instance]
}

func (r *Registry) setDefault(class, method string, pos int, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMethod := r.defaults[class]
	if byMethod == nil {
		byMethod = map[string]map[int]any{}
		r.defaults[class] = byMethod
	}
	byPos := byMethod[method]
	if byPos == nil {
		byPos = map[int]any{}
		byMethod[method] = byPos
	}
	byPos[pos] = value
}

// record prepends a call to the log and resolves it: patterns for the call's
// (instance, method) are tried in declaration order, and the first whose
// argument pattern matches yields its next unconsumed step (the final step
// repeats). No match yields nil and the caller applies its fallback.
//
// Patterns are snapshotted and matched outside the lock, so user-supplied
// matchers are free to use the registry.
func (r *Registry) record(class, instance, method string, args []any) *responseStep {
	r.mu.Lock()
	r.log = append([]CallRecord{{Class: class, Instance: instance, Method: method, Args: args}}, r.log...)
	patterns := append([]*responsePattern{}, r.stubs[instance][method]...)
	defaults := r.defaults[class][method]
	r.mu.Unlock()

	for _, p := range patterns {
		if matchArgs(defaults, p.args, args) {
			return r.consumeStep(p)
		}
	}
	return nil
}

func (r *Registry) consumeStep(p *responsePattern) *responseStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return p.nextStep()
}

func (r *Registry) addPattern(instance, method string, p *responsePattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMethod := r.stubs[instance]
	if byMethod == nil {
		byMethod = map[string][]*responsePattern{}
		r.stubs[instance] = byMethod
	}
	byMethod[method] = append(byMethod[method], p)
}

func (r *Registry) appendStep(p *responsePattern, step *responseStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.steps = append(p.steps, step)
}

// popLastCall removes and returns the head of the log, ie the call most
// recently made. Mode-A stubbing consumes it so the pattern call itself is
// never verified.
func (r *Registry) popLastCall() (CallRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.log) == 0 {
		return CallRecord{}, false
	}
	head := r.log[0]
	r.log = r.log[1:]
	return head, true
}

// Calls returns a snapshot of the call log, most recent first.
func (r *Registry) Calls() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CallRecord{}, r.log...)
}

// CallsTo returns the snapshot filtered to one double and method.
func (r *Registry) CallsTo(d *Double, method string) []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []CallRecord
	for _, c := range r.log {
		if c.Instance == d.id && c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) countMatching(d *Double, method string, pattern []any) (int, []CallRecord) {
	r.mu.Lock()
	var recorded []CallRecord
	for _, c := range r.log {
		if c.Instance == d.id && c.Method == method {
			recorded = append(recorded, c)
		}
	}
	defaults := r.defaults[d.class()][method]
	r.mu.Unlock()

	count := 0
	for _, c := range recorded {
		if matchArgs(defaults, pattern, c.Args) {
			count++
		}
	}
	return count, recorded
}

// Reset clears every stub and every recorded call. Declared defaults are
// synthesis-scoped configuration and survive.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
	r.stubs = map[string]map[string][]*responsePattern{}
}

// ResetInstance removes d's stubbed responses and strips its calls from the
// log, isolating subsequent test cases from it.
func (r *Registry) ResetInstance(d *Double) {
	r.reset(d.id, "")
}

// ResetMethod scopes ResetInstance to a single method.
func (r *Registry) ResetMethod(d *Double, method string) {
	r.reset(d.id, method)
}

func (r *Registry) reset(instance, method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if method == "" {
		delete(r.stubs, instance)
	} else if byMethod := r.stubs[instance]; byMethod != nil {
		delete(byMethod, method)
	}
	var kept []CallRecord
	for _, c := range r.log {
		if c.Instance == instance && (method == "" || c.Method == method) {
			continue
		}
		kept = append(kept, c)
	}
	r.log = kept
}
