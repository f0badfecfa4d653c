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

package decoder

import "fmt"

// SyntaxError reports malformed JSON, with the line and column of the
// failure when they could be derived from the input.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// SchemaError reports structurally valid JSON that violates the wire
// format, naming the offending field.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %q: %s", e.Field, e.Message)
}

// UnknownSigilError reports a bare string that is not text and matches
// no known opcode, operator, or glue marker. Objects carrying no known
// sigil key do not raise it; they decode as containers.
type UnknownSigilError struct {
	Key string
}

func (e *UnknownSigilError) Error() string {
	return fmt.Sprintf("unknown sigil %q", e.Key)
}

// InvalidPathError reports a target address that failed to parse.
type InvalidPathError struct {
	Text string
	Err  error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %v", e.Text, e.Err)
}

func (e *InvalidPathError) Unwrap() error {
	return e.Err
}

// UnsupportedVersionError reports a wire-format version outside the
// supported range.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported inkVersion %d (supported: %d-%d)", e.Version, minInkVersion, maxInkVersion)
}
