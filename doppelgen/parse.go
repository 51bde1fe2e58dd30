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
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

var (
	// ErrInterfaceNotFound means the named interface is not declared in the
	// source file.
	ErrInterfaceNotFound = errors.New("interface not found")

	// ErrUnsupported means the interface uses a construct the generator
	// does not handle (external embedded interfaces, type parameters).
	ErrUnsupported = errors.New("unsupported interface")
)

// An ImportInfo is one import of the source file, carried through so the
// generated file can re-import the qualifiers its signatures mention.
type ImportInfo struct {
	Name string
	Path string
}

// A ParamInfo is one parameter of an interface method, as source text.
type ParamInfo struct {
	Name     string
	Type     string
	Variadic bool
}

// A MethodInfo is one method of the parsed interface.
type MethodInfo struct {
	Name    string
	Params  []ParamInfo
	Results []string
}

// An InterfaceInfo is the method set extracted from one interface
// declaration.
type InterfaceInfo struct {
	Package string
	Name    string
	Imports []ImportInfo
	Methods []MethodInfo
}

// Parse extracts the method set of the named interface from Go source. Local
// embedded interfaces declared in the same source are resolved; embedded
// interfaces from other packages are not supported.
func Parse(src []byte, ifaceName string) (*InterfaceInfo, error) {
	file, err := decorator.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	decls := interfaceDecls(file)
	it, ok := decls[ifaceName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInterfaceNotFound, ifaceName)
	}

	info := &InterfaceInfo{Package: file.Name.Name, Name: ifaceName, Imports: imports(file)}
	if err := collectMethods(info, it, decls); err != nil {
		return nil, err
	}
	return info, nil
}

func imports(file *dst.File) []ImportInfo {
	var out []ImportInfo
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		out = append(out, ImportInfo{Name: name, Path: path})
	}
	return out
}

// Qualifier is the identifier the import binds in source: the explicit name
// if present, otherwise the final path segment.
func (i ImportInfo) Qualifier() string {
	if i.Name != "" {
		return i.Name
	}
	if idx := strings.LastIndex(i.Path, "/"); idx >= 0 {
		return i.Path[idx+1:]
	}
	return i.Path
}

func interfaceDecls(file *dst.File) map[string]*dst.InterfaceType {
	decls := map[string]*dst.InterfaceType{}
	for _, decl := range file.Decls {
		gd, ok := decl.(*dst.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*dst.TypeSpec)
			if !ok {
				continue
			}
			if it, ok := ts.Type.(*dst.InterfaceType); ok {
				decls[ts.Name.Name] = it
			}
		}
	}
	return decls
}

func collectMethods(info *InterfaceInfo, it *dst.InterfaceType, decls map[string]*dst.InterfaceType) error {
	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			if err := collectEmbedded(info, field.Type, decls); err != nil {
				return err
			}
			continue
		}
		ft, ok := field.Type.(*dst.FuncType)
		if !ok {
			return fmt.Errorf("%w: %s is not a method", ErrUnsupported, field.Names[0].Name)
		}
		info.Methods = append(info.Methods, newMethodInfo(field.Names[0].Name, ft))
	}
	return nil
}

func collectEmbedded(info *InterfaceInfo, expr dst.Expr, decls map[string]*dst.InterfaceType) error {
	ident, ok := expr.(*dst.Ident)
	if !ok || ident.Path != "" {
		return fmt.Errorf("%w: embedded interface %s is not declared in this source", ErrUnsupported, typeString(expr))
	}
	embedded, ok := decls[ident.Name]
	if !ok {
		return fmt.Errorf("%w: embedded interface %s is not declared in this source", ErrUnsupported, ident.Name)
	}
	return collectMethods(info, embedded, decls)
}

func newMethodInfo(name string, ft *dst.FuncType) MethodInfo {
	m := MethodInfo{Name: name}
	if ft.Params != nil {
		for _, field := range ft.Params.List {
			m.Params = append(m.Params, paramInfos(field, len(m.Params))...)
		}
	}
	if ft.Results != nil {
		for _, field := range ft.Results.List {
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				m.Results = append(m.Results, typeString(field.Type))
			}
		}
	}
	return m
}

func paramInfos(field *dst.Field, offset int) []ParamInfo {
	variadic := false
	typ := field.Type
	if ell, ok := typ.(*dst.Ellipsis); ok {
		variadic = true
		typ = ell.Elt
	}
	text := typeString(typ)

	if len(field.Names) == 0 {
		return []ParamInfo{{Name: fmt.Sprintf("a%d", offset), Type: text, Variadic: variadic}}
	}
	params := make([]ParamInfo, 0, len(field.Names))
	for _, n := range field.Names {
		name := n.Name
		if name == "_" {
			name = fmt.Sprintf("a%d", offset+len(params))
		}
		params = append(params, ParamInfo{Name: name, Type: text, Variadic: variadic})
	}
	return params
}

// typeString renders a type expression back to source text. It covers the
// shapes interface methods commonly carry.
func typeString(e dst.Expr) string {
	switch t := e.(type) {
	case *dst.Ident:
		if t.Path != "" {
			return t.Path + "." + t.Name
		}
		return t.Name
	case *dst.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *dst.StarExpr:
		return "*" + typeString(t.X)
	case *dst.ArrayType:
		if t.Len != nil {
			return "[" + typeString(t.Len) + "]" + typeString(t.Elt)
		}
		return "[]" + typeString(t.Elt)
	case *dst.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	case *dst.Ellipsis:
		return "..." + typeString(t.Elt)
	case *dst.ChanType:
		switch t.Dir {
		case dst.RECV:
			return "<-chan " + typeString(t.Value)
		case dst.SEND:
			return "chan<- " + typeString(t.Value)
		}
		return "chan " + typeString(t.Value)
	case *dst.FuncType:
		return funcTypeString(t)
	case *dst.InterfaceType:
		if len(t.Methods.List) == 0 {
			return "any"
		}
	case *dst.BasicLit:
		return t.Value
	}
	return "any"
}

func funcTypeString(t *dst.FuncType) string {
	s := "func("
	if t.Params != nil {
		for i, f := range t.Params.List {
			if i > 0 {
				s += ", "
			}
			s += typeString(f.Type)
		}
	}
	s += ")"
	if t.Results == nil || len(t.Results.List) == 0 {
		return s
	}
	if len(t.Results.List) == 1 && len(t.Results.List[0].Names) == 0 {
		return s + " " + typeString(t.Results.List[0].Type)
	}
	s += " ("
	for i, f := range t.Results.List {
		if i > 0 {
			s += ", "
		}
		s += typeString(f.Type)
	}
	return s + ")"
}
