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

package play

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkworks/inkrun/pkg/story"
)

const choiceStory = `{"inkVersion":21,"root":["^Intro","\n","ev","str","^Option A","/str","/ev",{"*":".^.c-0","flg":4},"ev","str","^Option B","/str","/ev",{"*":".^.c-1","flg":4},{"c-0":["^Chose A","\n","end",null],"c-1":["^Chose B","\n","end",null]}],"listDefs":{}}`

func TestScriptedSession(t *testing.T) {
	var screen strings.Builder
	s, err := story.FromJSON(choiceStory, &screen)
	require.NoError(t, err)

	session := NewSession(s, strings.NewReader(""), &screen, []int{1})
	require.NoError(t, session.Run(context.Background()))

	assert.Contains(t, screen.String(), "1: Option A")
	assert.Contains(t, screen.String(), "2: Option B")
	assert.Contains(t, screen.String(), "Chose B")
	assert.Equal(t, "Intro\nChose B\n", s.Output())
}

func TestInteractiveSession(t *testing.T) {
	var screen strings.Builder
	s, err := story.FromJSON(choiceStory, &screen)
	require.NoError(t, err)

	// The first two inputs are invalid and should be re-prompted.
	session := NewSession(s, strings.NewReader("zero\n9\n1\n"), &screen, nil)
	require.NoError(t, session.Run(context.Background()))

	assert.Contains(t, screen.String(), "enter a number between 1 and 2")
	assert.Equal(t, "Intro\nChose A\n", s.Output())
}

func TestSessionReportsRuntimeError(t *testing.T) {
	var screen strings.Builder
	s, err := story.FromJSON(`{"inkVersion":21,"root":[{"->":"nowhere"},null],"listDefs":{}}`, &screen)
	require.NoError(t, err)

	session := NewSession(s, strings.NewReader(""), &screen, nil)
	err = session.Run(context.Background())
	require.Error(t, err)
	var rtErr *story.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, story.ErrUnresolvedTarget, rtErr.Kind)
}

func TestSessionHonoursContext(t *testing.T) {
	var screen strings.Builder
	s, err := story.FromJSON(choiceStory, &screen)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := NewSession(s, strings.NewReader(""), &screen, nil)
	assert.ErrorIs(t, session.Run(ctx), context.Canceled)
}
