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

import "strings"

// outputText appends text to the story output. Paragraph newlines are
// buffered so a glue marker can retract them before the next text
// lands; glue also absorbs the leading whitespace of the text that
// follows it.
func (s *Story) outputText(text string) {
	if s.stringMode {
		s.stringBuf.WriteString(text)
		return
	}

	if s.glue {
		trimmed := strings.TrimLeft(text, " \t\n")
		if trimmed == "" {
			return
		}
		s.pendingNewline = false
		s.glue = false
		s.write(trimmed)
		return
	}

	if text == "\n" {
		if s.out.Len() > 0 || s.pendingNewline {
			s.pendingNewline = true
		}
		return
	}

	if s.pendingNewline {
		s.write("\n")
		s.pendingNewline = false
		s.tags = nil
	}
	s.write(text)
}

func (s *Story) flushPendingNewline() {
	if s.pendingNewline {
		s.write("\n")
		s.pendingNewline = false
		s.tags = nil
	}
}

func (s *Story) write(text string) {
	s.out.WriteString(text)
	if s.sink != nil {
		// The sink is advisory; transcript accumulation is the source
		// of truth, so write errors are not fatal to the story.
		_, _ = s.sink.Write([]byte(text))
	}
}
