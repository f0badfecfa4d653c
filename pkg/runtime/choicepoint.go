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

import "github.com/inkworks/inkrun/pkg/path"

// ChoicePoint offers a choice to the player. The wire flags byte is
// decomposed into five booleans; Flags reassembles the exact byte.
type ChoicePoint struct {
	ChoiceTargetPath     path.Path
	HasCondition         bool
	HasStartContent      bool
	HasChoiceOnlyContent bool
	IsInvisibleDefault   bool
	OnceOnly             bool
}

func (*ChoicePoint) isObject() {}

// NewChoicePoint builds a choice point from a target path and the wire
// flags byte.
func NewChoicePoint(target path.Path, flags uint8) *ChoicePoint {
	return &ChoicePoint{
		ChoiceTargetPath:     target,
		HasCondition:         flags&0x1 > 0,
		HasStartContent:      flags&0x2 > 0,
		HasChoiceOnlyContent: flags&0x4 > 0,
		IsInvisibleDefault:   flags&0x8 > 0,
		OnceOnly:             flags&0x10 > 0,
	}
}

// Flags packs the booleans back into the wire byte.
func (c *ChoicePoint) Flags() uint8 {
	var flags uint8
	if c.HasCondition {
		flags |= 0x1
	}
	if c.HasStartContent {
		flags |= 0x2
	}
	if c.HasChoiceOnlyContent {
		flags |= 0x4
	}
	if c.IsInvisibleDefault {
		flags |= 0x8
	}
	if c.OnceOnly {
		flags |= 0x10
	}
	return flags
}
