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

// Recorder receives execution events. The engine reports through this
// interface so the library carries no metrics registry of its own; the
// metrics package provides a prometheus-backed implementation.
type Recorder interface {
	StepTaken()
	ObjectExecuted(kind string)
	ChoicesOffered(count int)
	ChoiceTaken()
	RuntimeErrorOccurred(kind string)
}

type nopRecorder struct{}

func (nopRecorder) StepTaken()                  {}
func (nopRecorder) ObjectExecuted(string)       {}
func (nopRecorder) ChoicesOffered(int)          {}
func (nopRecorder) ChoiceTaken()                {}
func (nopRecorder) RuntimeErrorOccurred(string) {}

// NopRecorder discards all events.
var NopRecorder Recorder = nopRecorder{}
