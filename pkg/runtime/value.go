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

package runtime

import (
	"strconv"

	"github.com/inkworks/inkrun/pkg/path"
)

// Value is the subset of objects that can live on the evaluation
// stack: tagged literals and address values.
type Value interface {
	Object
	isValue()
}

// Int is a 32-bit integer literal.
type Int int32

func (Int) isObject() {}
func (Int) isValue()  {}

// Float is a 32-bit floating point literal.
type Float float32

func (Float) isObject() {}
func (Float) isValue()  {}

// String is a text literal. The wire form carries a leading caret
// ("^hello"), stripped by the decoder; a bare "\n" stays as-is.
type String string

func (String) isObject() {}
func (String) isValue()  {}

// DivertTarget is a first-class address value, pushed by "^->" wire
// objects and consumed by variable diverts and count commands.
type DivertTarget struct {
	Target path.Path
}

func (DivertTarget) isObject() {}
func (DivertTarget) isValue()  {}

// VariablePointer refers to a variable by name. ContextIndex −1 means
// the pointer has not been resolved to a call-stack context yet.
type VariablePointer struct {
	Name         string
	ContextIndex int32
}

func (VariablePointer) isObject() {}
func (VariablePointer) isValue()  {}

// ValueText coerces a value to its output text form.
func ValueText(v Value) string {
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case String:
		return string(val)
	case DivertTarget:
		return val.Target.String()
	case VariablePointer:
		return val.Name
	default:
		return ""
	}
}
