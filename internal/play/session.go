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

// Package play drives a story in a terminal: it runs the engine to
// each boundary, prints choices, and feeds selections back, either
// from a scripted list or by prompting on the input stream.
package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/inkworks/inkrun/pkg/story"
)

// Session owns one playthrough of one story.
type Session struct {
	story  *story.Story
	in     *bufio.Scanner
	out    io.Writer
	script []int
}

// NewSession builds a session. Scripted choices are consumed first;
// when the script runs out, selections are read from in.
func NewSession(s *story.Story, in io.Reader, out io.Writer, script []int) *Session {
	return &Session{
		story:  s,
		in:     bufio.NewScanner(in),
		out:    out,
		script: append([]int(nil), script...),
	}
}

// Run plays the story to its end. The story's own output streams
// through its sink; the session only writes choice lists, prompts, and
// tag annotations.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := s.story.Continue()
		switch result.Kind {
		case story.StepEnded:
			klog.V(2).InfoS("Story ended")
			return nil

		case story.StepError:
			return result.Err

		case story.StepChoices:
			for _, tag := range s.story.CurrentTags() {
				fmt.Fprintf(s.out, "# %s\n", tag)
			}
			if err := s.selectChoice(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *Session) selectChoice(ctx context.Context) error {
	choices := s.story.CurrentChoices()
	fmt.Fprintln(s.out)
	for _, choice := range choices {
		fmt.Fprintf(s.out, "%d: %s\n", choice.Index+1, choice.Text)
	}

	if len(s.script) > 0 {
		index := s.script[0]
		s.script = s.script[1:]
		fmt.Fprintf(s.out, "?> %d\n", index+1)
		return s.story.Choose(index)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, "?> ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return err
			}
			return fmt.Errorf("input closed with %d choices pending", len(choices))
		}
		token := strings.TrimSpace(s.in.Text())
		number, err := strconv.Atoi(token)
		if err != nil || number < 1 || number > len(choices) {
			fmt.Fprintf(s.out, "enter a number between 1 and %d\n", len(choices))
			continue
		}
		return s.story.Choose(number - 1)
	}
}
