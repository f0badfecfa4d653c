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

import "github.com/inkworks/inkrun/pkg/path"

// VariableAssignment stores the top of the evaluation stack into a
// global or temporary variable. A re-assignment on the wire ("re":true)
// clears IsNewDeclaration.
type VariableAssignment struct {
	Name             string
	IsNewDeclaration bool
	IsGlobal         bool
}

func (*VariableAssignment) isObject() {}

// NewVariableAssignment builds an assignment node.
func NewVariableAssignment(name string, isNewDeclaration, isGlobal bool) *VariableAssignment {
	return &VariableAssignment{Name: name, IsNewDeclaration: isNewDeclaration, IsGlobal: isGlobal}
}

// VariableReference pushes a variable's current value onto the
// evaluation stack.
type VariableReference struct {
	Name string
}

func (*VariableReference) isObject() {}

// ReadCount pushes the visit count of the container at Target.
type ReadCount struct {
	Target path.Path
}

func (*ReadCount) isObject() {}
