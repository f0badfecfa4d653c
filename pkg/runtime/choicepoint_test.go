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

import (
	"testing"

	"github.com/inkworks/inkrun/pkg/path"
)

func TestChoicePointFlagsRoundTrip(t *testing.T) {
	target := path.New(path.Name("c"))
	for flags := uint8(0); flags < 32; flags++ {
		choice := NewChoicePoint(target, flags)
		if got := choice.Flags(); got != flags {
			t.Errorf("NewChoicePoint(_, %d).Flags() = %d", flags, got)
		}
	}
}

func TestChoicePointFlagDecomposition(t *testing.T) {
	tests := []struct {
		Desc   string
		Flags  uint8
		Wanted ChoicePoint
	}{
		{
			Desc:  "start content and once only",
			Flags: 18,
			Wanted: ChoicePoint{
				HasStartContent: true,
				OnceOnly:        true,
			},
		},
		{
			Desc:  "condition only",
			Flags: 1,
			Wanted: ChoicePoint{
				HasCondition: true,
			},
		},
		{
			Desc:  "invisible default with choice-only content",
			Flags: 12,
			Wanted: ChoicePoint{
				HasChoiceOnlyContent: true,
				IsInvisibleDefault:   true,
			},
		},
	}

	for _, test := range tests {
		got := NewChoicePoint(path.Path{}, test.Flags)
		if got.HasCondition != test.Wanted.HasCondition ||
			got.HasStartContent != test.Wanted.HasStartContent ||
			got.HasChoiceOnlyContent != test.Wanted.HasChoiceOnlyContent ||
			got.IsInvisibleDefault != test.Wanted.IsInvisibleDefault ||
			got.OnceOnly != test.Wanted.OnceOnly {
			t.Errorf("Test error for Desc: %s. Want: %+v. Got: %+v", test.Desc, test.Wanted, *got)
		}
	}
}
