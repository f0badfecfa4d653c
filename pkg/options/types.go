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

package options

import (
	"fmt"
	"strconv"
	"strings"
)

// ChoiceScript is an ordered list of choice indexes used to replay a
// story non-interactively. It implements the pflag Value interface.
type ChoiceScript []int

func (c *ChoiceScript) String() string {
	parts := make([]string, len(*c))
	for i, choice := range *c {
		parts[i] = strconv.Itoa(choice)
	}
	return strings.Join(parts, ",")
}

// Set parses a comma-separated list of zero-based choice indexes and
// appends them to the script.
func (c *ChoiceScript) Set(value string) error {
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if len(token) == 0 {
			continue
		}
		choice, err := strconv.Atoi(token)
		if err != nil {
			return fmt.Errorf("choice %q is not an integer", token)
		}
		if choice < 0 {
			return fmt.Errorf("choice %d is negative", choice)
		}
		*c = append(*c, choice)
	}
	return nil
}

// Type returns a descriptive string about the ChoiceScript type.
func (c *ChoiceScript) Type() string {
	return "string"
}

// AsSlice returns the script in the form of a plain int slice.
func (c ChoiceScript) AsSlice() []int {
	out := make([]int, len(c))
	copy(out, c)
	return out
}
