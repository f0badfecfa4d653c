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

package story

import "github.com/inkworks/inkrun/pkg/runtime"

// currentTemps returns the temporary scope of the innermost call
// frame, or the flow-level scope outside any call.
func (s *Story) currentTemps() map[string]runtime.Value {
	if len(s.callStack) > 0 {
		return s.callStack[len(s.callStack)-1].temps
	}
	return s.baseTemps
}

// lookup reads a variable, checking the temporary scope before
// globals and following chains of variable pointers up to 16 deep; a
// longer chain is reported as a pointer cycle.
func (s *Story) lookup(name string) (runtime.Value, error) {
	const maxPointerDepth = 16

	for depth := 0; depth < maxPointerDepth; depth++ {
		value, ok := s.currentTemps()[name]
		if !ok {
			value, ok = s.globals[name]
		}
		if !ok {
			return nil, runtimeErrorf(ErrUnknownVariable, "%q", name)
		}
		ptr, isPtr := value.(runtime.VariablePointer)
		if !isPtr {
			return value, nil
		}
		name = ptr.Name
	}
	return nil, runtimeErrorf(ErrUnknownVariable, "pointer cycle at %q", name)
}

func (s *Story) assign(va *runtime.VariableAssignment, value runtime.Value) error {
	scope := s.currentTemps()
	if va.IsGlobal {
		scope = s.globals
	}
	if !va.IsNewDeclaration {
		if _, exists := scope[va.Name]; !exists {
			return runtimeErrorf(ErrUnknownVariable, "rebinding undeclared %q", va.Name)
		}
	}
	scope[va.Name] = value
	return nil
}
