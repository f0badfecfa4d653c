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
	"strconv"
	"strings"
)

// Container is an ordered sequence of runtime objects with an optional
// name, named sub-elements, and count flags. Containers are built by
// the decoder, sealed once the graph is complete, and shared read-only
// by every cursor frame that walks them.
type Container struct {
	Content []Object
	Named   map[string]Object
	Name    string

	VisitsShouldBeCounted    bool
	TurnIndexShouldBeCounted bool
	CountAtStartOnly         bool

	parent  *Container
	address string
}

func (*Container) isObject() {}

// NewContainer returns an empty, unnamed container.
func NewContainer() *Container {
	return &Container{Named: map[string]Object{}}
}

// CountFlags packs the three count booleans into the wire byte
// (bits 0, 1, 2).
func (c *Container) CountFlags() uint8 {
	var flags uint8
	if c.VisitsShouldBeCounted {
		flags |= 0x1
	}
	if c.TurnIndexShouldBeCounted {
		flags |= 0x2
	}
	if c.CountAtStartOnly {
		flags |= 0x4
	}
	return flags
}

// SetCountFlags unpacks the wire byte into the count booleans.
func (c *Container) SetCountFlags(flags uint8) {
	c.VisitsShouldBeCounted = flags&0x1 > 0
	c.TurnIndexShouldBeCounted = flags&0x2 > 0
	c.CountAtStartOnly = flags&0x4 > 0
}

// ChildNamed resolves a named component against this container: first
// the named sub-elements, then named containers in content.
func (c *Container) ChildNamed(name string) (Object, bool) {
	if obj, ok := c.Named[name]; ok {
		return obj, true
	}
	for _, obj := range c.Content {
		if sub, ok := obj.(*Container); ok && sub.Name == name {
			return sub, true
		}
	}
	return nil, false
}

// Parent returns the enclosing container, or nil for the root. Parent
// links are assigned when the graph is sealed.
func (c *Container) Parent() *Container {
	return c.parent
}

// Address returns the container's dotted address from the root,
// assigned when the graph is sealed. The root's address is "".
func (c *Container) Address() string {
	return c.address
}

// IndexOfChild returns the content position of a direct child
// container, or -1 when the child only exists as a named sub-element.
func (c *Container) IndexOfChild(child *Container) int {
	for i, obj := range c.Content {
		if sub, ok := obj.(*Container); ok && sub == child {
			return i
		}
	}
	return -1
}

// Seal walks the container tree assigning parent links and addresses.
// It is called exactly once by the decoder; the tree is read-only
// afterwards.
func (c *Container) Seal() {
	c.seal(nil, "")
}

func (c *Container) seal(parent *Container, address string) {
	c.parent = parent
	c.address = address

	for i, obj := range c.Content {
		if sub, ok := obj.(*Container); ok {
			sub.seal(c, childAddress(address, contentSegment(sub, i)))
		}
	}
	for name, obj := range c.Named {
		if sub, ok := obj.(*Container); ok {
			sub.seal(c, childAddress(address, name))
		}
	}
}

func contentSegment(sub *Container, index int) string {
	if sub.Name != "" {
		return sub.Name
	}
	return strconv.Itoa(index)
}

func childAddress(parent, segment string) string {
	if parent == "" {
		return segment
	}
	var b strings.Builder
	b.WriteString(parent)
	b.WriteByte('.')
	b.WriteString(segment)
	return b.String()
}
