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

// Package metrics exposes inkrun's self metrics: decode and execution
// counters backing the engine's Recorder interface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements story.Recorder on a prometheus registry.
type Recorder struct {
	steps          prometheus.Counter
	objects        *prometheus.CounterVec
	choicesOffered prometheus.Counter
	choicesTaken   prometheus.Counter
	runtimeErrors  *prometheus.CounterVec
	storiesDecoded prometheus.Counter
	decodeDuration prometheus.Histogram
}

// NewRecorder registers the engine's self metrics with the registry.
func NewRecorder(registry prometheus.Registerer) *Recorder {
	factory := promauto.With(registry)
	return &Recorder{
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkrun_story_steps_total",
			Help: "Number of engine steps executed.",
		}),
		objects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inkrun_objects_executed_total",
			Help: "Number of runtime objects executed, by object kind.",
		}, []string{"kind"}),
		choicesOffered: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkrun_choices_offered_total",
			Help: "Number of choices surfaced to the host.",
		}),
		choicesTaken: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkrun_choices_taken_total",
			Help: "Number of choices selected by the host.",
		}),
		runtimeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inkrun_runtime_errors_total",
			Help: "Number of runtime errors surfaced by the engine, by error kind.",
		}, []string{"kind"}),
		storiesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "inkrun_stories_decoded_total",
			Help: "Number of compiled stories decoded into graphs.",
		}),
		decodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "inkrun_story_decode_duration_seconds",
			Help:    "Time spent decoding compiled stories.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// StepTaken counts one engine step.
func (r *Recorder) StepTaken() {
	r.steps.Inc()
}

// ObjectExecuted counts one executed object by kind.
func (r *Recorder) ObjectExecuted(kind string) {
	r.objects.WithLabelValues(kind).Inc()
}

// ChoicesOffered counts choices surfaced at a pause.
func (r *Recorder) ChoicesOffered(count int) {
	r.choicesOffered.Add(float64(count))
}

// ChoiceTaken counts a selection.
func (r *Recorder) ChoiceTaken() {
	r.choicesTaken.Inc()
}

// RuntimeErrorOccurred counts a surfaced runtime error by kind.
func (r *Recorder) RuntimeErrorOccurred(kind string) {
	r.runtimeErrors.WithLabelValues(kind).Inc()
}

// StoryDecoded records one successful decode and its duration.
func (r *Recorder) StoryDecoded(elapsed time.Duration) {
	r.storiesDecoded.Inc()
	r.decodeDuration.Observe(elapsed.Seconds())
}
