/*
Copyright 2024 The Inkrun Authors All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package decoder turns compiled story JSON into a runtime graph. The
// wire format is sigil-driven: bare strings encode opcodes, operators,
// glue, and text; objects dispatch on the first recognised key; arrays
// are containers with an optional trailing descriptor.
package decoder

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"

	"k8s.io/klog/v2"

	"github.com/inkworks/inkrun/pkg/path"
	"github.com/inkworks/inkrun/pkg/runtime"
)

const (
	minInkVersion = 17
	maxInkVersion = 21
)

// FromString decodes a compiled story from a JSON string.
func FromString(s string) (*runtime.Graph, error) {
	return FromBytes([]byte(s))
}

// FromReader decodes a compiled story from a streaming reader. The
// input is buffered so syntax errors still carry line and column.
func FromReader(r io.Reader) (*runtime.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes decodes a compiled story from a JSON byte slice.
func FromBytes(data []byte) (*runtime.Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, syntaxError(data, err)
	}

	top, ok := doc.(map[string]interface{})
	if !ok {
		return nil, &SchemaError{Field: "(document)", Message: "expected a JSON object"}
	}

	version, err := decodeVersion(top)
	if err != nil {
		return nil, err
	}

	if err := decodeListDefs(top); err != nil {
		return nil, err
	}

	rawRoot, ok := top["root"]
	if !ok {
		return nil, &SchemaError{Field: "root", Message: "missing required key"}
	}
	rootObj, err := decodeObject(rawRoot)
	if err != nil {
		return nil, err
	}
	root, ok := rootObj.(*runtime.Container)
	if !ok {
		return nil, &SchemaError{Field: "root", Message: "root is not a container"}
	}

	klog.V(4).InfoS("Decoded story graph", "inkVersion", version, "rootContent", len(root.Content))
	return runtime.NewGraph(version, root), nil
}

func syntaxError(data []byte, err error) error {
	if jsonErr, ok := err.(*json.SyntaxError); ok {
		line, column := offsetPosition(data, jsonErr.Offset)
		return &SyntaxError{Line: line, Column: column, Message: jsonErr.Error()}
	}
	return &SyntaxError{Message: err.Error()}
}

func offsetPosition(data []byte, offset int64) (line, column int) {
	line, column = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

func decodeVersion(top map[string]interface{}) (uint32, error) {
	raw, ok := top["inkVersion"]
	if !ok {
		return 0, &SchemaError{Field: "inkVersion", Message: "missing required key"}
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, &SchemaError{Field: "inkVersion", Message: "expected an integer"}
	}
	v, err := num.Int64()
	if err != nil || v < 0 || v > math.MaxUint32 {
		return 0, &SchemaError{Field: "inkVersion", Message: "expected an unsigned integer"}
	}
	if v < minInkVersion || v > maxInkVersion {
		return 0, &UnsupportedVersionError{Version: uint32(v)}
	}
	return uint32(v), nil
}

func decodeListDefs(top map[string]interface{}) error {
	raw, ok := top["listDefs"]
	if !ok {
		return &SchemaError{Field: "listDefs", Message: "missing required key"}
	}
	defs, ok := raw.(map[string]interface{})
	if !ok {
		return &SchemaError{Field: "listDefs", Message: "expected an object"}
	}
	// List definitions are reserved; only the empty stub is accepted.
	if len(defs) > 0 {
		return &SchemaError{Field: "listDefs", Message: "list definitions are not supported"}
	}
	return nil
}

func decodeObject(raw interface{}) (runtime.Object, error) {
	switch v := raw.(type) {
	case nil:
		return runtime.Null{}, nil
	case json.Number:
		return decodeNumber(v)
	case string:
		return decodeString(v)
	case []interface{}:
		return decodeContainer(v)
	case map[string]interface{}:
		return decodeMap(v)
	default:
		return nil, &SchemaError{Field: "(content)", Message: "unexpected JSON value"}
	}
}

func decodeNumber(num json.Number) (runtime.Object, error) {
	s := num.String()
	if strings.ContainsAny(s, ".eE") {
		f, err := num.Float64()
		if err != nil {
			return nil, &SchemaError{Field: "(number)", Message: err.Error()}
		}
		return runtime.Float(f), nil
	}
	i, err := num.Int64()
	if err != nil {
		return nil, &SchemaError{Field: "(number)", Message: err.Error()}
	}
	return runtime.Int(i), nil
}

func decodeString(s string) (runtime.Object, error) {
	if s == "\n" {
		return runtime.String("\n"), nil
	}
	if strings.HasPrefix(s, "^") {
		return runtime.String(s[1:]), nil
	}

	switch s {
	case "<>":
		return runtime.GlueBidirectional, nil
	case "G<":
		return runtime.GlueLeft, nil
	case "G>":
		return runtime.GlueRight, nil
	case "void":
		return runtime.Void{}, nil
	}

	if cmd, ok := runtime.ControlCommandByName(s); ok {
		return cmd, nil
	}
	if fn, ok := runtime.NativeFunctionByName(s); ok {
		return fn, nil
	}

	return nil, &UnknownSigilError{Key: s}
}

// decodeContainer decodes the array form. The final element is a
// descriptor when it is null or an object carrying no sigil key; any
// other final element is ordinary content.
func decodeContainer(arr []interface{}) (runtime.Object, error) {
	c := runtime.NewContainer()
	n := len(arr)

	for i, raw := range arr {
		if i == n-1 {
			if raw == nil {
				break
			}
			if m, ok := raw.(map[string]interface{}); ok && firstSigil(m) == "" {
				if err := applyDescriptor(c, m); err != nil {
					return nil, err
				}
				break
			}
		}
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, err
		}
		c.Content = append(c.Content, obj)
	}

	return c, nil
}

// applyDescriptor fills in the container's name, count flags, and named
// sub-elements from the trailing descriptor object. A sub-container
// without a name of its own takes its key as name; this is the only
// place a container is named by its parent.
func applyDescriptor(c *runtime.Container, m map[string]interface{}) error {
	for key, raw := range m {
		switch key {
		case "#n":
			name, ok := raw.(string)
			if !ok {
				return &SchemaError{Field: "#n", Message: "expected a string"}
			}
			c.Name = name
		case "#f":
			flags, err := flagsField(raw, "#f")
			if err != nil {
				return err
			}
			c.SetCountFlags(flags)
		default:
			obj, err := decodeObject(raw)
			if err != nil {
				return err
			}
			if sub, ok := obj.(*runtime.Container); ok && sub.Name == "" {
				sub.Name = key
			}
			c.Named[key] = obj
		}
	}
	return nil
}

// sigils in dispatch priority order. The wire serialiser may emit
// object keys in any order, so the decoder scans for the first
// recognised sigil rather than trusting key position.
var sigilOrder = []string{
	"^->", "^var", "->", "f()", "->t->", "x()", "*",
	"VAR?", "CNT?", "VAR=", "temp=", "#", "list",
}

func firstSigil(m map[string]interface{}) string {
	for _, sigil := range sigilOrder {
		if _, ok := m[sigil]; ok {
			return sigil
		}
	}
	return ""
}

func decodeMap(m map[string]interface{}) (runtime.Object, error) {
	sigil := firstSigil(m)
	switch sigil {
	case "^->":
		target, err := pathField(m, "^->")
		if err != nil {
			return nil, err
		}
		return runtime.DivertTarget{Target: target}, nil

	case "^var":
		name, err := stringField(m, "^var")
		if err != nil {
			return nil, err
		}
		contextIndex := int32(-1)
		if raw, ok := m["ci"]; ok {
			ci, err := intField(raw, "ci")
			if err != nil {
				return nil, err
			}
			contextIndex = int32(ci)
		}
		return runtime.VariablePointer{Name: name, ContextIndex: contextIndex}, nil

	case "->":
		name, err := stringField(m, "->")
		if err != nil {
			return nil, err
		}
		var divert *runtime.Divert
		if boolKey(m, "var") {
			divert = runtime.NewDivert(runtime.VarTarget(name))
		} else {
			target, err := parseTargetPath(name)
			if err != nil {
				return nil, err
			}
			divert = runtime.NewDivert(runtime.PathTarget(target))
		}
		divert.IsConditional = boolKey(m, "c")
		return divert, nil

	case "f()":
		target, err := pathField(m, "f()")
		if err != nil {
			return nil, err
		}
		divert := runtime.NewFunctionDivert(runtime.PathTarget(target))
		divert.IsConditional = boolKey(m, "c")
		return divert, nil

	case "->t->":
		target, err := pathField(m, "->t->")
		if err != nil {
			return nil, err
		}
		divert := runtime.NewTunnelDivert(runtime.PathTarget(target))
		divert.IsConditional = boolKey(m, "c")
		return divert, nil

	case "x()":
		name, err := stringField(m, "x()")
		if err != nil {
			return nil, err
		}
		args := uint32(0)
		if raw, ok := m["exArgs"]; ok {
			n, err := intField(raw, "exArgs")
			if err != nil || n < 0 {
				return nil, &SchemaError{Field: "exArgs", Message: "expected an unsigned integer"}
			}
			args = uint32(n)
		}
		divert := runtime.NewExternalDivert(name, args)
		divert.IsConditional = boolKey(m, "c")
		return divert, nil

	case "*":
		target, err := pathField(m, "*")
		if err != nil {
			return nil, err
		}
		flags := uint8(0)
		if raw, ok := m["flg"]; ok {
			flags, err = flagsField(raw, "flg")
			if err != nil {
				return nil, err
			}
		}
		return runtime.NewChoicePoint(target, flags), nil

	case "VAR?":
		name, err := stringField(m, "VAR?")
		if err != nil {
			return nil, err
		}
		return &runtime.VariableReference{Name: name}, nil

	case "CNT?":
		target, err := pathField(m, "CNT?")
		if err != nil {
			return nil, err
		}
		return &runtime.ReadCount{Target: target}, nil

	case "VAR=":
		name, err := stringField(m, "VAR=")
		if err != nil {
			return nil, err
		}
		return runtime.NewVariableAssignment(name, !boolKey(m, "re"), true), nil

	case "temp=":
		name, err := stringField(m, "temp=")
		if err != nil {
			return nil, err
		}
		return runtime.NewVariableAssignment(name, !boolKey(m, "re"), false), nil

	case "#":
		text, err := stringField(m, "#")
		if err != nil {
			return nil, err
		}
		return &runtime.Tag{Text: text}, nil

	case "list":
		return nil, &SchemaError{Field: "list", Message: "list values are not supported"}
	}

	// No sigil: the object is itself a container carrying only a
	// descriptor (name, flags, named sub-elements).
	c := runtime.NewContainer()
	if err := applyDescriptor(c, m); err != nil {
		return nil, err
	}
	return c, nil
}

func stringField(m map[string]interface{}, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", &SchemaError{Field: key, Message: "expected a string"}
	}
	return s, nil
}

func pathField(m map[string]interface{}, key string) (path.Path, error) {
	s, err := stringField(m, key)
	if err != nil {
		return path.Path{}, err
	}
	return parseTargetPath(s)
}

func parseTargetPath(s string) (path.Path, error) {
	p, err := path.Parse(s)
	if err != nil {
		return path.Path{}, &InvalidPathError{Text: s, Err: err}
	}
	return p, nil
}

func intField(raw interface{}, key string) (int64, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, &SchemaError{Field: key, Message: "expected an integer"}
	}
	v, err := num.Int64()
	if err != nil {
		return 0, &SchemaError{Field: key, Message: "expected an integer"}
	}
	return v, nil
}

func flagsField(raw interface{}, key string) (uint8, error) {
	v, err := intField(raw, key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 255 {
		return 0, &SchemaError{Field: key, Message: "flags out of range"}
	}
	return uint8(v), nil
}

func boolKey(m map[string]interface{}, key string) bool {
	b, ok := m[key].(bool)
	return ok && b
}
