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

// ControlCommand is one of the fixed engine opcodes encoded as bare
// strings on the wire.
type ControlCommand int

const (
	// EvalStart ("ev") switches the engine into evaluation mode.
	EvalStart ControlCommand = iota
	// EvalOutput ("out") pops the evaluation stack and emits the value.
	EvalOutput
	// EvalEnd ("/ev") leaves evaluation mode.
	EvalEnd
	// Duplicate ("du") duplicates the top of the evaluation stack.
	Duplicate
	// PopEvaluatedValue ("pop") discards the top of the evaluation stack.
	PopEvaluatedValue
	// PopFunction ("~ret") unwinds the innermost function frame.
	PopFunction
	// PopTunnel ("->->") unwinds the innermost tunnel frame.
	PopTunnel
	// BeginString ("str") redirects output into a string buffer.
	BeginString
	// EndString ("/str") pushes the buffered string onto the stack.
	EndString
	// NoOp ("nop") does nothing.
	NoOp
	// ChoiceCount ("choiceCnt") pushes the number of pending choices.
	ChoiceCount
	// TurnsSince ("turns") pushes the turns since a target was visited.
	TurnsSince
	// ReadCountCommand ("readc") pushes the visit count of a target.
	ReadCountCommand
	// Random ("rnd") pushes a random integer within a popped range.
	Random
	// SeedRandom ("srnd") reseeds the story's random source.
	SeedRandom
	// VisitIndex ("visit") pushes the current container's visit index.
	VisitIndex
	// SequenceShuffleIndex ("seq") pushes a shuffled sequence index.
	SequenceShuffleIndex
	// StartThread ("thread") forks the cursor stack.
	StartThread
	// Done ("done") marks the current thread complete.
	Done
	// End ("end") terminates the story.
	End
	// ListFromInt ("listInt") converts an integer to a list value.
	ListFromInt
	// ListRange ("range") builds a list from a range.
	ListRange
)

func (ControlCommand) isObject() {}

var controlCommandNames = map[ControlCommand]string{
	EvalStart:            "ev",
	EvalOutput:           "out",
	EvalEnd:              "/ev",
	Duplicate:            "du",
	PopEvaluatedValue:    "pop",
	PopFunction:          "~ret",
	PopTunnel:            "->->",
	BeginString:          "str",
	EndString:            "/str",
	NoOp:                 "nop",
	ChoiceCount:          "choiceCnt",
	TurnsSince:           "turns",
	ReadCountCommand:     "readc",
	Random:               "rnd",
	SeedRandom:           "srnd",
	VisitIndex:           "visit",
	SequenceShuffleIndex: "seq",
	StartThread:          "thread",
	Done:                 "done",
	End:                  "end",
	ListFromInt:          "listInt",
	ListRange:            "range",
}

var controlCommandsByName = func() map[string]ControlCommand {
	m := make(map[string]ControlCommand, len(controlCommandNames))
	for cmd, name := range controlCommandNames {
		m[name] = cmd
	}
	return m
}()

// ControlCommandByName looks up the opcode for a wire string.
func ControlCommandByName(name string) (ControlCommand, bool) {
	cmd, ok := controlCommandsByName[name]
	return cmd, ok
}

func (c ControlCommand) String() string {
	if name, ok := controlCommandNames[c]; ok {
		return name
	}
	return "unknown"
}
