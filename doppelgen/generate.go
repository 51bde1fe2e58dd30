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

package doppelgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
)

// Generate renders a wrapper type for iface: a struct embedding the source
// interface and a *doppel.Double, with one funnel method per interface method
// and Mock/Spy constructors. Output is gofmt-formatted.
func Generate(iface *InterfaceInfo, cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults(iface.Package)

	data := fileData{
		Package:      cfg.Package,
		DoppelImport: cfg.DoppelImport,
		Imports:      usedImports(iface),
		Source:       iface.Name,
		Type:         iface.Name + cfg.Suffix,
	}
	for _, m := range iface.Methods {
		data.Methods = append(data.Methods, newMethodData(m))
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", data.Type, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", data.Type, err)
	}
	return src, nil
}

type fileData struct {
	Package      string
	DoppelImport string
	Imports      []ImportInfo
	Source       string
	Type         string
	Methods      []methodData
}

type methodData struct {
	Name       string
	ParamDecl  string
	FixedArgs  []string
	Variadic   string
	Results    []resultData
	ResultDecl string
}

type resultData struct {
	Index int
	Var   string
	Type  string
}

// InvokeArgs renders the argument list for non-variadic methods, eg
// `"Fetch", id`.
func (m methodData) InvokeArgs() string {
	parts := append([]string{fmt.Sprintf("%q", m.Name)}, m.FixedArgs...)
	return strings.Join(parts, ", ")
}

// ReturnExpr renders the return statement's value list, eg `r0, r1`.
func (m methodData) ReturnExpr() string {
	vars := make([]string, len(m.Results))
	for i, r := range m.Results {
		vars[i] = r.Var
	}
	return strings.Join(vars, ", ")
}

func newMethodData(m MethodInfo) methodData {
	md := methodData{Name: m.Name}

	var decls []string
	for _, p := range m.Params {
		if p.Variadic {
			decls = append(decls, p.Name+" ..."+p.Type)
			md.Variadic = p.Name
			continue
		}
		decls = append(decls, p.Name+" "+p.Type)
		md.FixedArgs = append(md.FixedArgs, p.Name)
	}
	md.ParamDecl = strings.Join(decls, ", ")

	for i, r := range m.Results {
		md.Results = append(md.Results, resultData{Index: i, Var: fmt.Sprintf("r%d", i), Type: r})
	}
	switch len(m.Results) {
	case 0:
	case 1:
		md.ResultDecl = " " + m.Results[0]
	default:
		md.ResultDecl = " (" + strings.Join(m.Results, ", ") + ")"
	}
	return md
}

// usedImports filters the source file's imports down to the qualifiers the
// interface's signatures actually mention.
func usedImports(iface *InterfaceInfo) []ImportInfo {
	var used []ImportInfo
	for _, imp := range iface.Imports {
		q := imp.Qualifier() + "."
		for _, m := range iface.Methods {
			if mentionsQualifier(m, q) {
				used = append(used, imp)
				break
			}
		}
	}
	return used
}

func mentionsQualifier(m MethodInfo, q string) bool {
	for _, p := range m.Params {
		if strings.Contains(p.Type, q) {
			return true
		}
	}
	for _, r := range m.Results {
		if strings.Contains(r, q) {
			return true
		}
	}
	return false
}

var fileTemplate = template.Must(template.New("double").Parse(`// Code generated by doppelgen. DO NOT EDIT.

package {{.Package}}

import (
	doppel "{{.DoppelImport}}"
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Type}} substitutes for {{.Source}} in tests. Calls funnel through the
// embedded Double, which records them and resolves stubbed responses.
type {{.Type}} struct {
	{{.Source}}
	*doppel.Double
}

// New{{.Source}}Mock returns a {{.Type}} whose unstubbed calls yield zero
// values.
func New{{.Source}}Mock(t doppel.T, reg *doppel.Registry, opts ...doppel.Option) *{{.Type}} {
	t.Helper()
	return &{{.Type}}{Double: doppel.NewMock(t, reg, (*{{.Source}})(nil), opts...)}
}

// New{{.Source}}Spy returns a {{.Type}} whose unstubbed calls delegate to
// real.
func New{{.Source}}Spy(t doppel.T, reg *doppel.Registry, real {{.Source}}, opts ...doppel.Option) *{{.Type}} {
	t.Helper()
	return &{{.Type}}{Double: doppel.NewSpy(t, reg, (*{{.Source}})(nil), real, opts...)}
}
{{range .Methods}}
func (d *{{$.Type}}) {{.Name}}({{.ParamDecl}}){{.ResultDecl}} {
	d.T().Helper()
{{- if .Variadic}}
	args := []any{ {{- range $i, $a := .FixedArgs}}{{if $i}}, {{end}}{{$a}}{{end -}} }
	for _, v := range {{.Variadic}} {
		args = append(args, v)
	}
{{- if .Results}}
	returns := d.Invoke({{printf "%q" .Name}}, args...)
{{- else}}
	d.Invoke({{printf "%q" .Name}}, args...)
{{- end}}
{{- else}}
{{- if .Results}}
	returns := d.Invoke({{.InvokeArgs}})
{{- else}}
	d.Invoke({{.InvokeArgs}})
{{- end}}
{{- end}}
{{- range .Results}}
	{{.Var}}, _ := returns[{{.Index}}].({{.Type}})
{{- end}}
{{- if .Results}}
	return {{.ReturnExpr}}
{{- end}}
}
{{end}}`))
