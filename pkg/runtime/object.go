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

// Package runtime defines the in-memory object model of a compiled
// story graph: literal values, control commands, diverts, choice
// points, variable operations, tags, glue markers, and the containers
// that hold them. The decoder produces this model; the engine walks it.
package runtime

// Object is the discriminated union of every node kind that can appear
// in a container's content. Implementations are small value types; the
// interface is sealed to this package.
type Object interface {
	isObject()
}

// Void is pushed where an operation produces no value, for example a
// function that returns nothing.
type Void struct{}

func (Void) isObject() {}

// Void can sit on the evaluation stack, for example as the result of a
// function that returns nothing.
func (Void) isValue() {}

// Null is the decoded form of a JSON null inside container content.
type Null struct{}

func (Null) isObject() {}

// Kind returns a short stable label for an object's variant, used for
// logging and metrics.
func Kind(obj Object) string {
	switch obj.(type) {
	case Int, Float, String, DivertTarget, VariablePointer:
		return "value"
	case Glue:
		return "glue"
	case ControlCommand:
		return "control"
	case NativeFunctionCall:
		return "native"
	case *Divert:
		return "divert"
	case *ChoicePoint:
		return "choice"
	case *VariableAssignment:
		return "assign"
	case *VariableReference:
		return "varref"
	case *ReadCount:
		return "readcount"
	case *Tag:
		return "tag"
	case *Container:
		return "container"
	case Void:
		return "void"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}
