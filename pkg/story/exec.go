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
	"math/rand"
	"strings"

	"github.com/inkworks/inkrun/pkg/runtime"
)

// execute runs one object. It reports whether the cursor should move
// to the next sibling; jumps and frame restores manage the cursor
// themselves.
func (s *Story) execute(obj runtime.Object) (bool, error) {
	switch v := obj.(type) {
	case runtime.String:
		if s.stringMode {
			s.stringBuf.WriteString(string(v))
		} else if s.evalDepth > 0 {
			s.push(v)
		} else {
			s.outputText(string(v))
		}
		return true, nil

	case runtime.Int, runtime.Float, runtime.DivertTarget, runtime.VariablePointer:
		value := v.(runtime.Value)
		if s.evalDepth > 0 {
			s.push(value)
		} else {
			s.outputText(runtime.ValueText(value))
		}
		return true, nil

	case runtime.Glue:
		if v == runtime.GlueBidirectional {
			s.glue = true
			s.pendingNewline = false
		}
		return true, nil

	case runtime.ControlCommand:
		return s.executeCommand(v)

	case runtime.NativeFunctionCall:
		result, err := s.applyNative(v)
		if err != nil {
			return false, err
		}
		s.push(result)
		return true, nil

	case *runtime.Divert:
		return s.executeDivert(v)

	case *runtime.ChoicePoint:
		return true, s.executeChoicePoint(v)

	case *runtime.VariableAssignment:
		value, err := s.pop()
		if err != nil {
			return false, err
		}
		return true, s.assign(v, value)

	case *runtime.VariableReference:
		value, err := s.lookup(v.Name)
		if err != nil {
			return false, err
		}
		s.push(value)
		return true, nil

	case *runtime.ReadCount:
		container, _, err := s.resolvePath(v.Target)
		if err != nil {
			return false, err
		}
		s.push(runtime.Int(s.visitCounts[container.Address()]))
		return true, nil

	case *runtime.Tag:
		s.tags = append(s.tags, v.Text)
		return true, nil

	case *runtime.Container:
		s.countVisit(v, 0)
		s.cursors = append(s.cursors, cursor{container: v})
		return false, nil

	case runtime.Void, runtime.Null:
		return true, nil

	default:
		return false, runtimeErrorf(ErrTypeMismatch, "unexpected object %T", obj)
	}
}

func (s *Story) executeCommand(cmd runtime.ControlCommand) (bool, error) {
	switch cmd {
	case runtime.EvalStart:
		s.evalDepth++
		return true, nil

	case runtime.EvalEnd:
		if s.evalDepth == 0 {
			return false, runtimeErrorf(ErrEvalStackUnderflow, "unbalanced /ev")
		}
		s.evalDepth--
		return true, nil

	case runtime.EvalOutput:
		value, err := s.pop()
		if err != nil {
			return false, err
		}
		s.outputText(runtime.ValueText(value))
		return true, nil

	case runtime.Duplicate:
		if len(s.evalStack) == 0 {
			return false, runtimeErrorf(ErrEvalStackUnderflow, "nothing to duplicate")
		}
		s.push(s.evalStack[len(s.evalStack)-1])
		return true, nil

	case runtime.PopEvaluatedValue:
		_, err := s.pop()
		return err == nil, err

	case runtime.PopFunction:
		return s.popFrame(runtime.PushFunction)

	case runtime.PopTunnel:
		return s.popFrame(runtime.PushTunnel)

	case runtime.BeginString:
		s.stringMode = true
		s.stringBuf.Reset()
		return true, nil

	case runtime.EndString:
		s.stringMode = false
		s.push(runtime.String(s.stringBuf.String()))
		s.stringBuf.Reset()
		return true, nil

	case runtime.NoOp:
		return true, nil

	case runtime.ChoiceCount:
		s.push(runtime.Int(len(s.choices)))
		return true, nil

	case runtime.TurnsSince:
		container, err := s.popTargetContainer()
		if err != nil {
			return false, err
		}
		if turn, visited := s.turnVisits[container.Address()]; visited {
			s.push(runtime.Int(s.turnIndex - turn))
		} else {
			s.push(runtime.Int(-1))
		}
		return true, nil

	case runtime.ReadCountCommand:
		container, err := s.popTargetContainer()
		if err != nil {
			return false, err
		}
		s.push(runtime.Int(s.visitCounts[container.Address()]))
		return true, nil

	case runtime.Random:
		maxVal, err := s.popInt()
		if err != nil {
			return false, err
		}
		minVal, err := s.popInt()
		if err != nil {
			return false, err
		}
		if maxVal < minVal {
			return false, runtimeErrorf(ErrTypeMismatch, "rnd range %d..%d is inverted", minVal, maxVal)
		}
		s.push(runtime.Int(minVal + runtime.Int(s.rng.Intn(int(maxVal-minVal)+1))))
		return true, nil

	case runtime.SeedRandom:
		seed, err := s.popInt()
		if err != nil {
			return false, err
		}
		s.seed = int64(seed)
		s.rng = rand.New(rand.NewSource(int64(seed)))
		s.push(runtime.Void{})
		return true, nil

	case runtime.VisitIndex:
		count := s.visitCounts[s.currentContainer().Address()]
		s.push(runtime.Int(count - 1))
		return true, nil

	case runtime.SequenceShuffleIndex:
		return s.executeSequenceShuffle()

	case runtime.StartThread:
		s.threads = append(s.threads, s.cloneAdvanced(2))
		return true, nil

	case runtime.Done:
		if len(s.threads) > 0 {
			s.cursors = s.threads[0]
			s.threads = s.threads[1:]
		} else {
			s.cursors = nil
		}
		return false, nil

	case runtime.End:
		s.terminate()
		return false, nil

	case runtime.ListFromInt, runtime.ListRange:
		return false, runtimeErrorf(ErrListsUnsupported, "%s", cmd)

	default:
		return false, runtimeErrorf(ErrTypeMismatch, "unknown control command %d", cmd)
	}
}

// executeSequenceShuffle picks a stable shuffled element for a shuffle
// sequence. The stack carries the element count on top of the running
// sequence count; the permutation is derived from the story seed so a
// given seed replays identically.
func (s *Story) executeSequenceShuffle() (bool, error) {
	elementCount, err := s.popInt()
	if err != nil {
		return false, err
	}
	sequenceCount, err := s.popInt()
	if err != nil {
		return false, err
	}
	if elementCount <= 0 {
		return false, runtimeErrorf(ErrTypeMismatch, "seq with %d elements", elementCount)
	}

	iteration := sequenceCount / elementCount
	loopIndex := int(sequenceCount % elementCount)

	shuffleRand := rand.New(rand.NewSource(s.seed + int64(iteration)))
	unpicked := make([]int, elementCount)
	for i := range unpicked {
		unpicked[i] = i
	}
	for i := 0; ; i++ {
		next := shuffleRand.Intn(len(unpicked))
		chosen := unpicked[next]
		if i == loopIndex {
			s.push(runtime.Int(chosen))
			return true, nil
		}
		unpicked = append(unpicked[:next], unpicked[next+1:]...)
	}
}

func (s *Story) executeDivert(d *runtime.Divert) (bool, error) {
	if d.IsConditional {
		condition, err := s.pop()
		if err != nil {
			return false, err
		}
		if !truthy(condition) {
			return true, nil
		}
	}

	if d.IsExternal {
		return s.invokeExternal(d)
	}

	target := d.Target.Path
	if d.Target.Kind == runtime.TargetVarName {
		value, err := s.lookup(d.Target.Name)
		if err != nil {
			return false, err
		}
		divertTarget, ok := value.(runtime.DivertTarget)
		if !ok {
			return false, runtimeErrorf(ErrTypeMismatch, "variable %q does not hold a divert target", d.Target.Name)
		}
		target = divertTarget.Target
	}

	if d.PushesToStack {
		s.callStack = append(s.callStack, frame{
			pushKind: d.PushKind,
			saved:    s.cloneAdvanced(1),
			temps:    map[string]runtime.Value{},
		})
	}

	container, index, err := s.resolvePath(target)
	if err != nil {
		return false, err
	}
	s.countVisit(container, index)
	s.cursors = cursorsTo(container, index)
	return false, nil
}

func (s *Story) popFrame(kind runtime.PushPopType) (bool, error) {
	if len(s.callStack) == 0 {
		return false, runtimeErrorf(ErrTypeMismatch, "%s pop with empty call stack", kind)
	}
	top := s.callStack[len(s.callStack)-1]
	if top.pushKind != kind {
		return false, runtimeErrorf(ErrTypeMismatch, "%s pop against %s frame", kind, top.pushKind)
	}
	s.callStack = s.callStack[:len(s.callStack)-1]
	s.cursors = top.saved
	return false, nil
}

func (s *Story) executeChoicePoint(cp *runtime.ChoicePoint) error {
	choiceOnlyText := ""
	if cp.HasChoiceOnlyContent {
		value, err := s.pop()
		if err != nil {
			return err
		}
		choiceOnlyText = runtime.ValueText(value)
	}

	startText := ""
	if cp.HasStartContent {
		value, err := s.pop()
		if err != nil {
			return err
		}
		startText = runtime.ValueText(value)
	}

	if cp.HasCondition {
		condition, err := s.pop()
		if err != nil {
			return err
		}
		if !truthy(condition) {
			return nil
		}
	}

	target, _, err := s.resolvePath(cp.ChoiceTargetPath)
	if err != nil {
		return err
	}
	if cp.OnceOnly && s.visitCounts[target.Address()] > 0 {
		return nil
	}

	s.choices = append(s.choices, Choice{
		Index:              len(s.choices),
		Text:               strings.TrimSpace(startText + choiceOnlyText),
		IsInvisibleDefault: cp.IsInvisibleDefault,
		target:             target,
		startText:          startText,
	})
	return nil
}

func (s *Story) popTargetContainer() (*runtime.Container, error) {
	value, err := s.pop()
	if err != nil {
		return nil, err
	}
	target, ok := value.(runtime.DivertTarget)
	if !ok {
		return nil, runtimeErrorf(ErrTypeMismatch, "expected a divert target, got %T", value)
	}
	container, _, err := s.resolvePath(target.Target)
	return container, err
}

func (s *Story) popInt() (runtime.Int, error) {
	value, err := s.pop()
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case runtime.Int:
		return v, nil
	case runtime.Float:
		return runtime.Int(v), nil
	default:
		return 0, runtimeErrorf(ErrTypeMismatch, "expected an int, got %T", value)
	}
}
