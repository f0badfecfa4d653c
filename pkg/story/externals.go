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

// ExternalFunc is a host callback invoked by an external divert. The
// arguments arrive in source order. A nil result pushes void.
type ExternalFunc func(args []runtime.Value) runtime.Value

// BindExternal registers a host function under the name external
// diverts refer to. Binding a name again replaces the previous
// function.
func (s *Story) BindExternal(name string, fn ExternalFunc) {
	s.externals[name] = fn
}

// invokeExternal pops the divert's declared argument count off the
// evaluation stack, restoring source order, and pushes the result.
func (s *Story) invokeExternal(d *runtime.Divert) (bool, error) {
	fn, ok := s.externals[d.Target.Name]
	if !ok {
		return false, runtimeErrorf(ErrUnknownExternal, "%q", d.Target.Name)
	}

	argc := int(d.ExternalArgs)
	if len(s.evalStack) < argc {
		return false, runtimeErrorf(ErrArityMismatch, "external %q needs %d args, stack has %d", d.Target.Name, argc, len(s.evalStack))
	}
	args := make([]runtime.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i], _ = s.pop()
	}

	result := fn(args)
	if result == nil {
		result = runtime.Void{}
	}
	s.push(result)
	return true, nil
}
