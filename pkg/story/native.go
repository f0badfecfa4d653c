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

import (
	"math"

	"github.com/inkworks/inkrun/pkg/runtime"
)

// applyNative pops the operator's operands and evaluates it. Operands
// mix ints and floats; an operation with any float operand is carried
// out in floats.
func (s *Story) applyNative(fn runtime.NativeFunctionCall) (runtime.Value, error) {
	arity := fn.Arity()
	if len(s.evalStack) < arity {
		return nil, runtimeErrorf(ErrArityMismatch, "%s needs %d operands, stack has %d", fn, arity, len(s.evalStack))
	}

	if arity == 1 {
		operand, _ := s.pop()
		return applyUnary(fn, operand)
	}

	right, _ := s.pop()
	left, _ := s.pop()
	return applyBinary(fn, left, right)
}

func applyUnary(fn runtime.NativeFunctionCall, operand runtime.Value) (runtime.Value, error) {
	switch fn {
	case runtime.Negate:
		switch v := operand.(type) {
		case runtime.Int:
			return -v, nil
		case runtime.Float:
			return -v, nil
		}
		return nil, runtimeErrorf(ErrTypeMismatch, "cannot negate %T", operand)
	case runtime.Not:
		if truthy(operand) {
			return runtime.Int(0), nil
		}
		return runtime.Int(1), nil
	}
	return nil, runtimeErrorf(ErrArityMismatch, "%s is not unary", fn)
}

func applyBinary(fn runtime.NativeFunctionCall, left, right runtime.Value) (runtime.Value, error) {
	switch fn {
	case runtime.And:
		return boolValue(truthy(left) && truthy(right)), nil
	case runtime.Or:
		return boolValue(truthy(left) || truthy(right)), nil
	}

	if ls, lok := left.(runtime.String); lok {
		if rs, rok := right.(runtime.String); rok {
			return applyStrings(fn, ls, rs)
		}
	}

	li, lInt := asInt(left)
	ri, rInt := asInt(right)
	if lInt && rInt {
		return applyInts(fn, li, ri)
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, runtimeErrorf(ErrTypeMismatch, "%s on %T and %T", fn, left, right)
	}
	return applyFloats(fn, lf, rf)
}

func applyStrings(fn runtime.NativeFunctionCall, left, right runtime.String) (runtime.Value, error) {
	switch fn {
	case runtime.Add:
		return left + right, nil
	case runtime.Equal:
		return boolValue(left == right), nil
	case runtime.NotEqual:
		return boolValue(left != right), nil
	default:
		return nil, runtimeErrorf(ErrTypeMismatch, "%s on strings", fn)
	}
}

func applyInts(fn runtime.NativeFunctionCall, left, right runtime.Int) (runtime.Value, error) {
	switch fn {
	case runtime.Add:
		return left + right, nil
	case runtime.Subtract:
		return left - right, nil
	case runtime.Multiply:
		return left * right, nil
	case runtime.Divide:
		if right == 0 {
			return nil, runtimeErrorf(ErrDivisionByZero, "integer division by zero")
		}
		return left / right, nil
	case runtime.Modulo:
		if right == 0 {
			return nil, runtimeErrorf(ErrDivisionByZero, "modulo by zero")
		}
		return left % right, nil
	case runtime.Equal:
		return boolValue(left == right), nil
	case runtime.NotEqual:
		return boolValue(left != right), nil
	case runtime.Greater:
		return boolValue(left > right), nil
	case runtime.Less:
		return boolValue(left < right), nil
	case runtime.GreaterOrEqual:
		return boolValue(left >= right), nil
	case runtime.LessOrEqual:
		return boolValue(left <= right), nil
	case runtime.Min:
		if left < right {
			return left, nil
		}
		return right, nil
	case runtime.Max:
		if left > right {
			return left, nil
		}
		return right, nil
	default:
		return nil, runtimeErrorf(ErrTypeMismatch, "%s on ints", fn)
	}
}

func applyFloats(fn runtime.NativeFunctionCall, left, right runtime.Float) (runtime.Value, error) {
	switch fn {
	case runtime.Add:
		return left + right, nil
	case runtime.Subtract:
		return left - right, nil
	case runtime.Multiply:
		return left * right, nil
	case runtime.Divide:
		if right == 0 {
			return nil, runtimeErrorf(ErrDivisionByZero, "division by zero")
		}
		return left / right, nil
	case runtime.Modulo:
		if right == 0 {
			return nil, runtimeErrorf(ErrDivisionByZero, "modulo by zero")
		}
		return runtime.Float(math.Mod(float64(left), float64(right))), nil
	case runtime.Equal:
		return boolValue(left == right), nil
	case runtime.NotEqual:
		return boolValue(left != right), nil
	case runtime.Greater:
		return boolValue(left > right), nil
	case runtime.Less:
		return boolValue(left < right), nil
	case runtime.GreaterOrEqual:
		return boolValue(left >= right), nil
	case runtime.LessOrEqual:
		return boolValue(left <= right), nil
	case runtime.Min:
		return runtime.Float(math.Min(float64(left), float64(right))), nil
	case runtime.Max:
		return runtime.Float(math.Max(float64(left), float64(right))), nil
	default:
		return nil, runtimeErrorf(ErrTypeMismatch, "%s on floats", fn)
	}
}

func asInt(v runtime.Value) (runtime.Int, bool) {
	i, ok := v.(runtime.Int)
	return i, ok
}

func asFloat(v runtime.Value) (runtime.Float, bool) {
	switch n := v.(type) {
	case runtime.Int:
		return runtime.Float(n), true
	case runtime.Float:
		return n, true
	default:
		return 0, false
	}
}

func boolValue(b bool) runtime.Int {
	if b {
		return 1
	}
	return 0
}

// truthy follows the story format's conditions: non-zero numbers,
// non-empty strings, and addresses are true; void is false.
func truthy(v runtime.Value) bool {
	switch value := v.(type) {
	case runtime.Int:
		return value != 0
	case runtime.Float:
		return value != 0
	case runtime.String:
		return value != ""
	case runtime.DivertTarget, runtime.VariablePointer:
		return true
	default:
		return false
	}
}
