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
	"fmt"

	"github.com/inkworks/inkrun/pkg/path"
)

// PushPopType classifies the call frame a divert pushes and the frame a
// pop command unwinds.
type PushPopType int

const (
	// PushNone marks a plain goto.
	PushNone PushPopType = iota
	// PushFunction marks a function call frame.
	PushFunction
	// PushTunnel marks a tunnel frame.
	PushTunnel
)

func (p PushPopType) String() string {
	switch p {
	case PushFunction:
		return "function"
	case PushTunnel:
		return "tunnel"
	default:
		return "none"
	}
}

// TargetKind discriminates the three divert target forms.
type TargetKind int

const (
	// TargetPath diverts to a fixed graph address.
	TargetPath TargetKind = iota
	// TargetVarName diverts to the address held by a variable.
	TargetVarName
	// TargetExternalName invokes a host-registered function.
	TargetExternalName
)

// Target is the destination of a divert.
type Target struct {
	Kind TargetKind
	Path path.Path
	Name string
}

func (t Target) String() string {
	switch t.Kind {
	case TargetVarName:
		return "var:" + t.Name
	case TargetExternalName:
		return "external:" + t.Name
	default:
		return t.Path.String()
	}
}

// PathTarget returns a fixed-address target.
func PathTarget(p path.Path) Target {
	return Target{Kind: TargetPath, Path: p}
}

// VarTarget returns a variable-held target.
func VarTarget(name string) Target {
	return Target{Kind: TargetVarName, Name: name}
}

// ExternalTarget returns a host-function target.
func ExternalTarget(name string) Target {
	return Target{Kind: TargetExternalName, Name: name}
}

// Divert is a jump. Depending on construction it is a plain goto, a
// function call, a tunnel call, or an external host-function
// invocation. External diverts carry an argument count and never push a
// return frame themselves.
type Divert struct {
	Target        Target
	PushKind      PushPopType
	PushesToStack bool
	ExternalArgs  uint32
	IsExternal    bool
	IsConditional bool
}

func (*Divert) isObject() {}

// NewDivert returns a standard divert: no push, no external call.
func NewDivert(target Target) *Divert {
	return &Divert{Target: target}
}

// NewFunctionDivert returns a function-call divert that pushes a
// return frame.
func NewFunctionDivert(target Target) *Divert {
	return &Divert{Target: target, PushKind: PushFunction, PushesToStack: true}
}

// NewTunnelDivert returns a tunnel divert that pushes a return frame.
func NewTunnelDivert(target Target) *Divert {
	return &Divert{Target: target, PushKind: PushTunnel, PushesToStack: true}
}

// NewExternalDivert returns an external-function divert. It is marked
// as a function call but does not push a frame; the host callback
// returns directly.
func NewExternalDivert(name string, args uint32) *Divert {
	return &Divert{
		Target:       ExternalTarget(name),
		PushKind:     PushFunction,
		ExternalArgs: args,
		IsExternal:   true,
	}
}

func (d *Divert) String() string {
	return fmt.Sprintf("divert(%s, push=%s)", d.Target, d.PushKind)
}
