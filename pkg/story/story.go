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

// Package story implements the execution engine. A Story borrows a
// decoded graph and walks it with an explicit cursor stack, emitting
// output text, surfacing choices to the host, and resuming after the
// host selects one. One step executes one runtime object; the host
// drives stepping in a loop until a choice, the end, or an error.
package story

import (
	"io"
	"math/rand"
	"strings"

	"k8s.io/klog/v2"

	"github.com/inkworks/inkrun/pkg/decoder"
	"github.com/inkworks/inkrun/pkg/path"
	"github.com/inkworks/inkrun/pkg/runtime"
)

// StepKind is the outcome of a single step.
type StepKind int

const (
	// StepRan means one object executed and stepping may continue.
	StepRan StepKind = iota
	// StepChoices means execution paused with choices for the host.
	StepChoices
	// StepEnded means the story terminated.
	StepEnded
	// StepError means a runtime error occurred.
	StepError
)

// StepResult reports what a step did.
type StepResult struct {
	Kind    StepKind
	Choices int
	Err     error
}

// Choice is an option currently offered to the host.
type Choice struct {
	Index              int
	Text               string
	IsInvisibleDefault bool

	target    *runtime.Container
	startText string
}

// cursor names the next object to execute: a container and an index
// into its content.
type cursor struct {
	container *runtime.Container
	index     int
}

// frame is a call-stack entry pushed by function and tunnel diverts.
type frame struct {
	pushKind runtime.PushPopType
	saved    []cursor
	temps    map[string]runtime.Value
}

const defaultSeed = 42

// Story is the mutable execution state over an immutable graph. A
// graph may back any number of stories; each story is single-flow and
// not safe for concurrent use.
type Story struct {
	graph *runtime.Graph
	sink  io.Writer

	out            strings.Builder
	pendingNewline bool
	glue           bool
	tags           []string

	cursors []cursor
	threads [][]cursor

	evalStack  []runtime.Value
	evalDepth  int
	stringMode bool
	stringBuf  strings.Builder

	callStack []frame
	baseTemps map[string]runtime.Value
	globals   map[string]runtime.Value

	visitCounts map[string]int
	turnVisits  map[string]int
	turnIndex   int

	choices   []Choice
	externals map[string]ExternalFunc

	seed int64
	rng  *rand.Rand

	recorder Recorder
	ended    bool
}

// New builds a story over a decoded graph. Output is appended to an
// internal transcript and, when sink is non-nil, streamed to it as it
// is produced.
func New(graph *runtime.Graph, sink io.Writer) *Story {
	s := &Story{
		graph:       graph,
		sink:        sink,
		cursors:     []cursor{{container: graph.Root()}},
		baseTemps:   map[string]runtime.Value{},
		globals:     map[string]runtime.Value{},
		visitCounts: map[string]int{},
		turnVisits:  map[string]int{},
		externals:   map[string]ExternalFunc{},
		seed:        defaultSeed,
		rng:         rand.New(rand.NewSource(defaultSeed)),
		recorder:    NopRecorder,
	}
	s.countVisit(graph.Root(), 0)
	return s
}

// FromJSON decodes a compiled story and builds an engine over it.
func FromJSON(text string, sink io.Writer) (*Story, error) {
	graph, err := decoder.FromString(text)
	if err != nil {
		return nil, err
	}
	return New(graph, sink), nil
}

// WithRecorder routes execution events to r.
func (s *Story) WithRecorder(r Recorder) *Story {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithSeed fixes the random source, like an up-front "srnd".
func (s *Story) WithSeed(seed int64) *Story {
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// Graph returns the shared graph the story executes.
func (s *Story) Graph() *runtime.Graph {
	return s.graph
}

// Output returns the transcript produced so far.
func (s *Story) Output() string {
	return s.out.String()
}

// CurrentTags returns the tags attached to the output paragraph
// currently being assembled.
func (s *Story) CurrentTags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// CurrentChoices returns the choices awaiting selection.
func (s *Story) CurrentChoices() []Choice {
	out := make([]Choice, len(s.choices))
	copy(out, s.choices)
	return out
}

// Ended reports whether the story has terminated.
func (s *Story) Ended() bool {
	return s.ended
}

// Step executes the next runtime object.
func (s *Story) Step() StepResult {
	if s.ended {
		return StepResult{Kind: StepEnded}
	}

	obj, ok := s.peek()
	if !ok {
		return s.finishFlow()
	}

	s.recorder.ObjectExecuted(runtime.Kind(obj))
	klog.V(6).InfoS("Executing object", "kind", runtime.Kind(obj))

	advance, err := s.execute(obj)
	if err != nil {
		kind := "unknown"
		if rtErr, ok := err.(*RuntimeError); ok {
			kind = rtErr.Kind.String()
		}
		s.recorder.RuntimeErrorOccurred(kind)
		return StepResult{Kind: StepError, Err: err}
	}
	if advance {
		s.advance()
	}
	s.recorder.StepTaken()

	if s.ended {
		return StepResult{Kind: StepEnded}
	}
	return StepResult{Kind: StepRan}
}

// Continue steps until the next output boundary: choices, the end, or
// an error.
func (s *Story) Continue() StepResult {
	for {
		result := s.Step()
		if result.Kind != StepRan {
			return result
		}
	}
}

// Choose selects one of the current choices and resumes the flow at
// its target.
func (s *Story) Choose(index int) error {
	if index < 0 || index >= len(s.choices) {
		return runtimeErrorf(ErrInvalidChoice, "choice %d of %d", index, len(s.choices))
	}
	chosen := s.choices[index]
	s.choices = nil
	s.threads = nil
	s.turnIndex++
	s.recorder.ChoiceTaken()

	if chosen.startText != "" {
		s.outputText(chosen.startText)
	}

	// The target was resolved when the choice point executed, while the
	// relative base was still in scope.
	s.countVisit(chosen.target, 0)
	s.cursors = cursorsTo(chosen.target, 0)
	return nil
}

// finishFlow decides what an exhausted cursor stack means: resume a
// queued thread, surface pending choices, or end the story.
func (s *Story) finishFlow() StepResult {
	if len(s.threads) > 0 {
		s.cursors = s.threads[0]
		s.threads = s.threads[1:]
		return StepResult{Kind: StepRan}
	}
	if len(s.choices) > 0 {
		s.flushPendingNewline()
		s.recorder.ChoicesOffered(len(s.choices))
		return StepResult{Kind: StepChoices, Choices: len(s.choices)}
	}
	s.terminate()
	return StepResult{Kind: StepEnded}
}

func (s *Story) terminate() {
	s.flushPendingNewline()
	s.ended = true
}

// peek returns the next object to execute, popping exhausted frames.
func (s *Story) peek() (runtime.Object, bool) {
	if !s.normalize() {
		return nil, false
	}
	top := s.cursors[len(s.cursors)-1]
	return top.container.Content[top.index], true
}

// normalize pops exhausted frames, advancing each parent past the
// child container it was parked on. It reports whether a valid cursor
// remains.
func (s *Story) normalize() bool {
	for len(s.cursors) > 0 {
		top := &s.cursors[len(s.cursors)-1]
		if top.index < len(top.container.Content) {
			return true
		}
		s.cursors = s.cursors[:len(s.cursors)-1]
		if len(s.cursors) > 0 {
			s.cursors[len(s.cursors)-1].index++
		}
	}
	return false
}

func (s *Story) advance() {
	if len(s.cursors) > 0 {
		s.cursors[len(s.cursors)-1].index++
	}
}

// cloneAdvanced snapshots the cursor stack with the top frame moved
// past the object currently executing, for return frames and thread
// forks.
func (s *Story) cloneAdvanced(extra int) []cursor {
	saved := make([]cursor, len(s.cursors))
	copy(saved, s.cursors)
	if len(saved) > 0 {
		saved[len(saved)-1].index += extra
	}
	return saved
}

// cursorsTo builds the cursor stack addressing (container, index),
// with a frame for every ancestor so the flow ascends naturally when
// content runs out. Ancestry stops at a container reachable only as a
// named sub-element.
func cursorsTo(container *runtime.Container, index int) []cursor {
	var chain []cursor
	for current := container; ; {
		parent := current.Parent()
		if parent == nil {
			break
		}
		childIndex := parent.IndexOfChild(current)
		if childIndex < 0 {
			break
		}
		chain = append(chain, cursor{container: parent, index: childIndex})
		current = parent
	}
	// chain was collected bottom-up; reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return append(chain, cursor{container: container, index: index})
}

// resolvePath walks a path to a cursor position. Relative paths
// resolve against the container currently executing.
func (s *Story) resolvePath(p path.Path) (*runtime.Container, int, error) {
	start := s.graph.Root()
	first := 0
	if p.IsRelative() {
		if len(s.cursors) == 0 {
			return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "relative path %q with no active cursor", p)
		}
		start = s.cursors[len(s.cursors)-1].container
		// A relative path is anchored at the object holding it; its
		// leading parent marker steps from the object to the container
		// we already start from.
		if p.Len() > 0 && p.Component(0).Kind() == path.KindParent {
			first = 1
		}
	}

	current := start
	for i := first; i < p.Len(); i++ {
		component := p.Component(i)
		last := i == p.Len()-1

		switch component.Kind() {
		case path.KindParent:
			parent := current.Parent()
			if parent == nil {
				return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "%q ascends past the root", p)
			}
			current = parent

		case path.KindIndex:
			idx := component.IndexValue()
			if idx >= len(current.Content) {
				return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "%q: index %d out of range", p, idx)
			}
			if sub, ok := current.Content[idx].(*runtime.Container); ok {
				current = sub
				continue
			}
			if last {
				return current, idx, nil
			}
			return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "%q: component %d is not a container", p, i)

		case path.KindName:
			child, ok := current.ChildNamed(component.NameValue())
			if !ok {
				return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "%q: no child named %q", p, component.NameValue())
			}
			sub, ok := child.(*runtime.Container)
			if !ok {
				return nil, 0, runtimeErrorf(ErrUnresolvedTarget, "%q: %q is not a container", p, component.NameValue())
			}
			current = sub
		}
	}
	return current, 0, nil
}

// countVisit records a container entry in the visit and turn counters.
func (s *Story) countVisit(c *runtime.Container, enterIndex int) {
	if c.CountAtStartOnly && enterIndex > 0 {
		return
	}
	if c.VisitsShouldBeCounted {
		s.visitCounts[c.Address()]++
	}
	if c.TurnIndexShouldBeCounted {
		s.turnVisits[c.Address()] = s.turnIndex
	}
}

func (s *Story) currentContainer() *runtime.Container {
	if len(s.cursors) == 0 {
		return s.graph.Root()
	}
	return s.cursors[len(s.cursors)-1].container
}

func (s *Story) push(v runtime.Value) {
	s.evalStack = append(s.evalStack, v)
}

func (s *Story) pop() (runtime.Value, error) {
	if len(s.evalStack) == 0 {
		return nil, runtimeErrorf(ErrEvalStackUnderflow, "evaluation stack is empty")
	}
	v := s.evalStack[len(s.evalStack)-1]
	s.evalStack = s.evalStack[:len(s.evalStack)-1]
	return v, nil
}
