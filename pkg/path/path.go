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

// Package path implements dotted addresses into a compiled story graph,
// such as "0.g-0.2" or ".^.s". A leading dot marks a relative path.
package path

import (
	"fmt"
	"strings"
)

// ComponentKind discriminates the three kinds of path components.
type ComponentKind int

const (
	// KindIndex addresses the n-th element of a container's content.
	KindIndex ComponentKind = iota
	// KindName addresses a named child of a container.
	KindName
	// KindParent steps up to the enclosing container.
	KindParent
)

// Component is a single segment of a Path. Components are immutable
// values; the zero value is Index(0).
type Component struct {
	kind  ComponentKind
	index int
	name  string
}

// Index returns an index component.
func Index(i int) Component {
	return Component{kind: KindIndex, index: i}
}

// Name returns a named component.
func Name(s string) Component {
	return Component{kind: KindName, name: s}
}

// Parent returns the parent marker component.
func Parent() Component {
	return Component{kind: KindParent}
}

// Kind returns the component kind.
func (c Component) Kind() ComponentKind { return c.kind }

// IndexValue returns the index of an index component. It is only
// meaningful when Kind() == KindIndex.
func (c Component) IndexValue() int { return c.index }

// NameValue returns the identifier of a named component. It is only
// meaningful when Kind() == KindName.
func (c Component) NameValue() string { return c.name }

func (c Component) String() string {
	switch c.kind {
	case KindIndex:
		return fmt.Sprintf("%d", c.index)
	case KindParent:
		return "^"
	default:
		return c.name
	}
}

// Path is an ordered sequence of components addressing an object in the
// story graph. Paths are immutable and value-equal. The empty absolute
// path denotes the root.
type Path struct {
	relative   bool
	components []Component
}

// New builds an absolute path from components.
func New(components ...Component) Path {
	return Path{components: components}
}

// NewRelative builds a relative path from components.
func NewRelative(components ...Component) Path {
	return Path{relative: true, components: components}
}

// ParseError reports a path string that could not be parsed.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Text, e.Reason)
}

// Parse splits a dotted address into a Path. The empty string is the
// root path. A single leading dot marks the path as relative; each
// remaining token is the parent marker "^", a non-negative index, or a
// name. Consecutive dots and trailing dots are rejected.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}

	relative := false
	rest := s
	if strings.HasPrefix(rest, ".") {
		relative = true
		rest = rest[1:]
		if rest == "" {
			return Path{}, &ParseError{Text: s, Reason: "empty relative path"}
		}
	}

	tokens := strings.Split(rest, ".")
	components := make([]Component, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			return Path{}, &ParseError{Text: s, Reason: "empty component"}
		}
		component, err := parseComponent(token)
		if err != nil {
			return Path{}, &ParseError{Text: s, Reason: err.Error()}
		}
		components = append(components, component)
	}

	return Path{relative: relative, components: components}, nil
}

func parseComponent(token string) (Component, error) {
	if token == "^" {
		return Parent(), nil
	}
	if isIndex(token) {
		index := 0
		for _, r := range token {
			index = index*10 + int(r-'0')
		}
		return Index(index), nil
	}
	for _, r := range token {
		if !isNameRune(r) {
			return Component{}, fmt.Errorf("illegal character %q in component %q", r, token)
		}
	}
	return Name(token), nil
}

func isIndex(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(token) > 0
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '$' || r == '_':
		return true
	}
	return false
}

// String renders the path in its dotted form. For every path returned
// by Parse, Parse(p.String()) reproduces p; a relative path with no
// components renders as ".", which Parse rejects.
func (p Path) String() string {
	var b strings.Builder
	if p.relative {
		b.WriteByte('.')
	}
	for i, c := range p.components {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// IsRelative reports whether the path is resolved against the current
// container rather than the root.
func (p Path) IsRelative() bool { return p.relative }

// IsEmpty reports whether the path has no components.
func (p Path) IsEmpty() bool { return len(p.components) == 0 }

// Len returns the number of components.
func (p Path) Len() int { return len(p.components) }

// Component returns the i-th component.
func (p Path) Component(i int) Component { return p.components[i] }

// Components returns a copy of the component sequence.
func (p Path) Components() []Component {
	out := make([]Component, len(p.components))
	copy(out, p.components)
	return out
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if p.relative != other.relative || len(p.components) != len(other.components) {
		return false
	}
	for i := range p.components {
		if p.components[i] != other.components[i] {
			return false
		}
	}
	return true
}
