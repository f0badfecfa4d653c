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

// Graph is a decoded story: the root container plus the wire-format
// version it was compiled with. It is read-only after construction and
// safe to share between stories.
type Graph struct {
	root       *Container
	inkVersion uint32
}

// NewGraph seals the root container and wraps it with its version.
func NewGraph(inkVersion uint32, root *Container) *Graph {
	root.Seal()
	return &Graph{root: root, inkVersion: inkVersion}
}

// Root returns the root container.
func (g *Graph) Root() *Container {
	return g.root
}

// Version returns the wire-format version the story was compiled with.
func (g *Graph) Version() uint32 {
	return g.inkVersion
}
