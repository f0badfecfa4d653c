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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkworks/inkrun/pkg/runtime"
)

func mustStory(t *testing.T, doc string) *Story {
	t.Helper()
	s, err := FromJSON(doc, nil)
	require.NoError(t, err)
	return s
}

func doc(rootContent string) string {
	return `{"inkVersion":21,"root":` + rootContent + `,"listDefs":{}}`
}

func TestHelloWorldEndToEnd(t *testing.T) {
	s := mustStory(t, doc(`[["^Hello, world!","\n","^Hello?","\n","^Hello, are you there?","\n",["end",{"#f":5,"#n":"g-0"}],null],"done",{"#f":1}]`))

	result := s.Continue()
	assert.Equal(t, StepEnded, result.Kind)
	assert.Equal(t, "Hello, world!\nHello?\nHello, are you there?\n", s.Output())
	assert.True(t, s.Ended())
}

func TestCursorWalksSiblings(t *testing.T) {
	s := mustStory(t, doc(`["^1","^2","^3",null]`))

	for i := 0; i < 3; i++ {
		result := s.Step()
		require.Equal(t, StepRan, result.Kind, "step %d", i)
	}
	result := s.Step()
	assert.Equal(t, StepEnded, result.Kind)
	assert.Equal(t, "123", s.Output())
}

func TestStepAfterEnd(t *testing.T) {
	s := mustStory(t, doc(`["end",null]`))
	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, StepEnded, s.Step().Kind)
}

func TestGlueSuppressesParagraphBreak(t *testing.T) {
	s := mustStory(t, doc(`["^Hello","\n","<>","^world","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "Helloworld\n", s.Output())
}

func TestLegacyGlueIsNoOp(t *testing.T) {
	s := mustStory(t, doc(`["^a","\n","G<","^b","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "a\nb\n", s.Output())
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		Desc   string
		Root   string
		Wanted string
	}{
		{
			Desc:   "addition",
			Root:   `["ev",2,3,"+","out","/ev","\n","end",null]`,
			Wanted: "5\n",
		},
		{
			Desc:   "unary minus",
			Root:   `["ev",7,"_","out","/ev","\n","end",null]`,
			Wanted: "-7\n",
		},
		{
			Desc:   "comparison is an int",
			Root:   `["ev",2,3,"<","out","/ev","\n","end",null]`,
			Wanted: "1\n",
		},
		{
			Desc:   "logical not",
			Root:   `["ev",0,"!","out","/ev","\n","end",null]`,
			Wanted: "1\n",
		},
		{
			Desc:   "min and max",
			Root:   `["ev",4,9,"MIN","out",4,9,"MAX","out","/ev","\n","end",null]`,
			Wanted: "49\n",
		},
		{
			Desc:   "mixed int and float",
			Root:   `["ev",1,0.5,"+","out","/ev","\n","end",null]`,
			Wanted: "1.5\n",
		},
	}

	for _, test := range tests {
		s := mustStory(t, doc(test.Root))
		result := s.Continue()
		if result.Kind != StepEnded {
			t.Errorf("Test error for Desc: %s. Continue ended with %v: %v", test.Desc, result.Kind, result.Err)
			continue
		}
		if got := s.Output(); got != test.Wanted {
			t.Errorf("Test error for Desc: %s. Want: %q. Got: %q", test.Desc, test.Wanted, got)
		}
	}
}

func TestStringEvaluation(t *testing.T) {
	s := mustStory(t, doc(`["ev","str","^three ","^words ","^here","/str","out","/ev","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "three words here\n", s.Output())
}

func TestGlobalVariables(t *testing.T) {
	s := mustStory(t, doc(`["ev",5,{"VAR=":"money"},10,{"VAR=":"money","re":true},{"VAR?":"money"},"out","/ev","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "10\n", s.Output())
}

func TestTemporaryVariables(t *testing.T) {
	s := mustStory(t, doc(`["ev",3,{"temp=":"x"},{"VAR?":"x"},"out","/ev","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "3\n", s.Output())
}

func TestConditionalDivert(t *testing.T) {
	tests := []struct {
		Desc      string
		Condition string
		Wanted    string
	}{
		{
			Desc:      "true condition jumps",
			Condition: "1",
			Wanted:    "skipped\n",
		},
		{
			Desc:      "false condition falls through",
			Condition: "0",
			Wanted:    "not skipped\n",
		},
	}

	for _, test := range tests {
		s := mustStory(t, doc(`["ev",`+test.Condition+`,"/ev",{"->":"skip","c":true},"^not skipped","\n","end",{"skip":["^skipped","\n","end",null]}]`))
		result := s.Continue()
		if result.Kind != StepEnded {
			t.Errorf("Test error for Desc: %s. Continue ended with %v: %v", test.Desc, result.Kind, result.Err)
			continue
		}
		if got := s.Output(); got != test.Wanted {
			t.Errorf("Test error for Desc: %s. Want: %q. Got: %q", test.Desc, test.Wanted, got)
		}
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	s := mustStory(t, doc(`["ev",{"f()":"fn"},"out","/ev","\n","end",{"fn":["ev",40,2,"+","/ev","~ret",null]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "42\n", s.Output())
}

func TestTunnelCallAndReturn(t *testing.T) {
	s := mustStory(t, doc(`[{"->t->":"tun"},"^after","\n","end",{"tun":["^in tunnel","\n","->->",null]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "in tunnel\nafter\n", s.Output())
}

func TestMismatchedPopKind(t *testing.T) {
	s := mustStory(t, doc(`[{"->t->":"tun"},"end",{"tun":["~ret",null]}]`))

	result := s.Continue()
	require.Equal(t, StepError, result.Kind)
	var rtErr *RuntimeError
	require.True(t, errors.As(result.Err, &rtErr))
	assert.Equal(t, ErrTypeMismatch, rtErr.Kind)
}

func TestVariableDivert(t *testing.T) {
	s := mustStory(t, doc(`["ev",{"^->":"knot"},{"VAR=":"target"},"/ev",{"->":"target","var":true},{"knot":["^arrived","\n","end",null]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "arrived\n", s.Output())
}

func TestChoicesAndChoose(t *testing.T) {
	s := mustStory(t, doc(`["^Intro","\n","ev","str","^Option A","/str","/ev",{"*":".^.c-0","flg":4},"ev","str","^Option B","/str","/ev",{"*":".^.c-1","flg":4},{"c-0":["^Chose A","\n","end",null],"c-1":["^Chose B","\n","end",null]}]`))

	result := s.Continue()
	require.Equal(t, StepChoices, result.Kind)
	require.Equal(t, 2, result.Choices)

	choices := s.CurrentChoices()
	require.Len(t, choices, 2)
	assert.Equal(t, "Option A", choices[0].Text)
	assert.Equal(t, "Option B", choices[1].Text)

	require.NoError(t, s.Choose(1))
	assert.Empty(t, s.CurrentChoices())

	result = s.Continue()
	require.Equal(t, StepEnded, result.Kind)
	assert.Equal(t, "Intro\nChose B\n", s.Output())
}

func TestChooseValidatesIndex(t *testing.T) {
	s := mustStory(t, doc(`["ev","str","^Only","/str","/ev",{"*":".^.c-0","flg":4},{"c-0":["end",null]}]`))

	require.Equal(t, StepChoices, s.Continue().Kind)

	err := s.Choose(5)
	var rtErr *RuntimeError
	require.True(t, errors.As(err, &rtErr))
	assert.Equal(t, ErrInvalidChoice, rtErr.Kind)

	require.NoError(t, s.Choose(0))
}

func TestChoiceConditionFiltering(t *testing.T) {
	s := mustStory(t, doc(`["ev",0,"/ev","ev","str","^Hidden","/str","/ev",{"*":".^.c-0","flg":5},"ev",1,"/ev","ev","str","^Shown","/str","/ev",{"*":".^.c-1","flg":5},{"c-0":["end",null],"c-1":["end",null]}]`))

	result := s.Continue()
	require.Equal(t, StepChoices, result.Kind)
	choices := s.CurrentChoices()
	require.Len(t, choices, 1)
	assert.Equal(t, "Shown", choices[0].Text)
}

func TestChoiceStartContentEmittedWhenChosen(t *testing.T) {
	s := mustStory(t, doc(`["ev","str","^Take the road","/str","/ev",{"*":".^.c-0","flg":2},{"c-0":["^ north.","\n","end",null]}]`))

	require.Equal(t, StepChoices, s.Continue().Kind)
	require.NoError(t, s.Choose(0))
	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "Take the road north.\n", s.Output())
}

func TestReadCount(t *testing.T) {
	s := mustStory(t, doc(`[{"->":"knot"},{"knot":["^Hi","\n","ev",{"CNT?":"knot"},"out","/ev","\n","end",{"#f":1}]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "Hi\n1\n", s.Output())
}

func TestReadCountCommand(t *testing.T) {
	s := mustStory(t, doc(`[{"->":"knot"},{"knot":["ev",{"^->":"knot"},"readc","out","/ev","\n","end",{"#f":1}]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "1\n", s.Output())
}

func TestTurnsSinceNeverVisited(t *testing.T) {
	s := mustStory(t, doc(`["ev",{"^->":"knot"},"turns","out","/ev","\n","end",{"knot":["end",{"#f":2}]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "-1\n", s.Output())
}

func TestChoiceCountCommand(t *testing.T) {
	s := mustStory(t, doc(`["ev","str","^A","/str","/ev",{"*":".^.c-0","flg":4},"ev","choiceCnt","out","/ev","\n","end",{"c-0":["end",null]}]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "1\n", s.Output())
}

func TestExternalFunction(t *testing.T) {
	s := mustStory(t, doc(`["ev",1,2,{"x()":"sum","exArgs":2},"out","/ev","\n","end",null]`))
	s.BindExternal("sum", func(args []runtime.Value) runtime.Value {
		require.Len(t, args, 2)
		return args[0].(runtime.Int) + args[1].(runtime.Int)
	})

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "3\n", s.Output())
}

func TestExternalFunctionWithoutResultPushesVoid(t *testing.T) {
	called := false
	s := mustStory(t, doc(`["ev",{"x()":"notify"},"pop","/ev","^done","\n","end",null]`))
	s.BindExternal("notify", func(args []runtime.Value) runtime.Value {
		called = true
		return nil
	})

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.True(t, called)
	assert.Equal(t, "done\n", s.Output())
}

func TestUnknownExternal(t *testing.T) {
	s := mustStory(t, doc(`["ev",{"x()":"missing"},"/ev","end",null]`))

	result := s.Continue()
	require.Equal(t, StepError, result.Kind)
	var rtErr *RuntimeError
	require.True(t, errors.As(result.Err, &rtErr))
	assert.Equal(t, ErrUnknownExternal, rtErr.Kind)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		Desc   string
		Root   string
		Wanted ErrorKind
	}{
		{
			Desc:   "division by zero",
			Root:   `["ev",1,0,"/","/ev","end",null]`,
			Wanted: ErrDivisionByZero,
		},
		{
			Desc:   "modulo by zero",
			Root:   `["ev",1,0,"%","/ev","end",null]`,
			Wanted: ErrDivisionByZero,
		},
		{
			Desc:   "unknown variable",
			Root:   `["ev",{"VAR?":"nope"},"/ev","end",null]`,
			Wanted: ErrUnknownVariable,
		},
		{
			Desc:   "rebind of undeclared variable",
			Root:   `["ev",1,{"VAR=":"ghost","re":true},"/ev","end",null]`,
			Wanted: ErrUnknownVariable,
		},
		{
			Desc:   "eval output underflow",
			Root:   `["out","end",null]`,
			Wanted: ErrEvalStackUnderflow,
		},
		{
			Desc:   "unresolved divert target",
			Root:   `[{"->":"nowhere"},"end",null]`,
			Wanted: ErrUnresolvedTarget,
		},
		{
			Desc:   "list opcode",
			Root:   `["ev",1,"listInt","/ev","end",null]`,
			Wanted: ErrListsUnsupported,
		},
	}

	for _, test := range tests {
		s := mustStory(t, doc(test.Root))
		result := s.Continue()
		if result.Kind != StepError {
			t.Errorf("Test error for Desc: %s. Wanted a runtime error, got %v", test.Desc, result.Kind)
			continue
		}
		var rtErr *RuntimeError
		if !errors.As(result.Err, &rtErr) {
			t.Errorf("Test error for Desc: %s. Wanted RuntimeError, got %T", test.Desc, result.Err)
			continue
		}
		if rtErr.Kind != test.Wanted {
			t.Errorf("Test error for Desc: %s. Want: %s. Got: %s", test.Desc, test.Wanted, rtErr.Kind)
		}
	}
}

func TestTags(t *testing.T) {
	s := mustStory(t, doc(`["^A line",{"#":"mood: tense"},{"#":"music: low"},"end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, []string{"mood: tense", "music: low"}, s.CurrentTags())
	assert.Equal(t, "A line", s.Output())
}

func TestSeededRandomIsReproducible(t *testing.T) {
	root := `["ev",10,"srnd","pop",1,6,"rnd","out",1,6,"rnd","out","/ev","\n","end",null]`

	first := mustStory(t, doc(root))
	require.Equal(t, StepEnded, first.Continue().Kind)

	second := mustStory(t, doc(root))
	require.Equal(t, StepEnded, second.Continue().Kind)

	assert.Equal(t, first.Output(), second.Output())
}

func TestRandomRange(t *testing.T) {
	s := mustStory(t, doc(`["ev",3,3,"rnd","out","/ev","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "3\n", s.Output())
}

func TestDeterministicWithoutRandomOps(t *testing.T) {
	root := `[["^Hello, world!","\n","^Hello?","\n","^Hello, are you there?","\n",["end",{"#f":5,"#n":"g-0"}],null],"done",{"#f":1}]`

	outputs := map[string]struct{}{}
	for i := 0; i < 3; i++ {
		s := mustStory(t, doc(root))
		require.Equal(t, StepEnded, s.Continue().Kind)
		outputs[s.Output()] = struct{}{}
	}
	assert.Len(t, outputs, 1)
}

func TestGraphSharedAcrossStories(t *testing.T) {
	graph, err := FromJSON(doc(`["^shared","\n","end",null]`), nil)
	require.NoError(t, err)

	first := New(graph.Graph(), nil)
	second := New(graph.Graph(), nil)

	require.Equal(t, StepEnded, first.Continue().Kind)
	require.Equal(t, StepEnded, second.Continue().Kind)
	assert.Equal(t, first.Output(), second.Output())
}

func TestVoidProducesNoOutput(t *testing.T) {
	s := mustStory(t, doc(`["void","^text","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "text\n", s.Output())
}

func TestThreadForkAndDone(t *testing.T) {
	s := mustStory(t, doc(`["thread",{"->":"side"},"^main","\n","done",{"side":["ev","str","^Side option","/str","/ev",{"*":".^.c-0","flg":4},"done",{"c-0":["^took it","\n","end",null]}]}]`))

	result := s.Continue()
	require.Equal(t, StepChoices, result.Kind)
	assert.Equal(t, "main\n", s.Output())
	choices := s.CurrentChoices()
	require.Len(t, choices, 1)
	assert.Equal(t, "Side option", choices[0].Text)

	require.NoError(t, s.Choose(0))
	require.Equal(t, StepEnded, s.Continue().Kind)
	assert.Equal(t, "main\ntook it\n", s.Output())
}

func TestSequenceShuffleIndexInRange(t *testing.T) {
	s := mustStory(t, doc(`["ev",0,3,"seq","out","/ev","\n","end",null]`))

	require.Equal(t, StepEnded, s.Continue().Kind)
	out := s.Output()
	require.Len(t, out, 2)
	assert.Contains(t, []byte{'0', '1', '2'}, out[0])
}
