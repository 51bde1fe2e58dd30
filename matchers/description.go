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

package matchers

import (
	"fmt"
	"strings"
)

// A Description accumulates the self-describing text matchers render into
// failure messages.
type Description struct {
	sb strings.Builder
}

// AppendText appends literal text.
func (d *Description) AppendText(text string) *Description {
	d.sb.WriteString(text)
	return d
}

// AppendValue appends a formatted value.
func (d *Description) AppendValue(v any) *Description {
	fmt.Fprintf(&d.sb, "%v", v)
	return d
}

// AppendList appends each matcher's description, delimited.
func (d *Description) AppendList(start, sep, end string, items []Matcher) *Description {
	d.sb.WriteString(start)
	for i, m := range items {
		if i > 0 {
			d.sb.WriteString(sep)
		}
		m.DescribeTo(d)
	}
	d.sb.WriteString(end)
	return d
}

func (d *Description) String() string { return d.sb.String() }

func describe(m Matcher) string {
	d := &Description{}
	m.DescribeTo(d)
	return d.String()
}
