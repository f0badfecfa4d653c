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

package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var cmpPaths = cmp.AllowUnexported(Path{}, Component{})

func TestParse(t *testing.T) {
	tests := []struct {
		Desc        string
		Value       string
		Wanted      Path
		WantedError bool
	}{
		{
			Desc:   "empty path is the root",
			Value:  "",
			Wanted: Path{},
		},
		{
			Desc:   "single index",
			Value:  "0",
			Wanted: New(Index(0)),
		},
		{
			Desc:   "indexes and generated names",
			Value:  "0.g-0.2",
			Wanted: New(Index(0), Name("g-0"), Index(2)),
		},
		{
			Desc:   "dollar name",
			Value:  "0.g-0.2.$r1",
			Wanted: New(Index(0), Name("g-0"), Index(2), Name("$r1")),
		},
		{
			Desc:   "relative with parent marker",
			Value:  ".^.s",
			Wanted: NewRelative(Parent(), Name("s")),
		},
		{
			Desc:   "named knot and stitch",
			Value:  "the_hall.light_switch",
			Wanted: New(Name("the_hall"), Name("light_switch")),
		},
		{
			Desc:        "consecutive dots",
			Value:       "a..b",
			WantedError: true,
		},
		{
			Desc:        "trailing dot",
			Value:       "a.b.",
			WantedError: true,
		},
		{
			Desc:        "lone dot",
			Value:       ".",
			WantedError: true,
		},
		{
			Desc:        "illegal character",
			Value:       "a.b c",
			WantedError: true,
		},
	}

	for _, test := range tests {
		got, err := Parse(test.Value)
		if test.WantedError {
			if err == nil {
				t.Errorf("Test error for Desc: %s. Wanted an error, got path %q", test.Desc, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Test error for Desc: %s. Unexpected error: %v", test.Desc, err)
			continue
		}
		if diff := cmp.Diff(test.Wanted, got, cmpPaths); diff != "" {
			t.Errorf("Test error for Desc: %s. Unexpected path (-want +got):\n%s", test.Desc, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	values := []string{
		"",
		"0",
		"0.g-0.2",
		"0.g-0.2.$r1",
		".^.s",
		".^.^.c",
		"the_hall.light_switch",
		"0.g-0.2.c.12.0.c.11.g-0.2.c.$r2",
	}

	for _, value := range values {
		p, err := Parse(value)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", value, err)
			continue
		}
		if got := p.String(); got != value {
			t.Errorf("Parse(%q).String() = %q", value, got)
		}
		again, err := Parse(p.String())
		if err != nil {
			t.Errorf("reparse of %q returned error: %v", p.String(), err)
			continue
		}
		if !again.Equal(p) {
			t.Errorf("round trip of %q not equal: %v != %v", value, again, p)
		}
	}
}

func TestEqual(t *testing.T) {
	a := New(Index(0), Name("g-0"))
	b := New(Index(0), Name("g-0"))
	c := NewRelative(Index(0), Name("g-0"))

	if !a.Equal(b) {
		t.Errorf("identical paths not equal")
	}
	if a.Equal(c) {
		t.Errorf("absolute path equal to relative path")
	}
	if a.Equal(New(Index(0))) {
		t.Errorf("paths of different length equal")
	}
}
