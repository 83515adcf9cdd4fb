// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import "github.com/pkg/errors"

// And returns the three-valued conjunction of a and b: True if both are True,
// False if either is False, Floating otherwise.
//
func And(a, b Signal) Signal {
	switch {
	case a == True && b == True:
		return True
	case a == False || b == False:
		return False
	}
	return Floating
}

// Not returns the three-valued negation of a. Not(Floating) is Floating.
//
func Not(a Signal) Signal {
	switch a {
	case True:
		return False
	case False:
		return True
	}
	return Floating
}

func andFunc(in Signals, _ *Memory, _ Path) (Signals, error) {
	return Signals{And(in[0], in[1])}, nil
}

func notFunc(in Signals, _ *Memory, _ Path) (Signals, error) {
	return Signals{Not(in[0])}, nil
}

// NewAnd returns a new AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = And(a, b)
//
func NewAnd(pos Point) *Component {
	c := newComponent(Gate, NameAnd, pos, 2, 1)
	c.fn = andFunc
	return c
}

// NewNot returns a new NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = Not(in)
//
func NewNot(pos Point) *Component {
	c := newComponent(Gate, NameNot, pos, 1, 1)
	c.fn = notFunc
	return c
}

// newCustom returns a gate wrapping blueprint bp. Its arity is the interface of
// bp at the time of the call. It is kept in sync by Blueprint.changed once the
// gate is added to a blueprint.
//
func newCustom(bp *Blueprint, pos Point) *Component {
	c := newComponent(Gate, bp.name, pos, bp.NumInputs(), bp.NumOutputs())
	c.master = bp
	c.fn = c.customFunc
	return c
}

func (c *Component) customFunc(in Signals, mem *Memory, path Path) (Signals, error) {
	if len(in) != c.master.NumInputs() {
		return nil, errors.WithStack(&ArityMismatchError{Name: c.name, Want: c.master.NumInputs(), Got: len(in)})
	}
	return c.master.Resolve(mem, in, path)
}
