// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of standard blueprints built from the
// trisim primitives.
//
// Every blueprint is built from the b_and and b_not primitives or from other
// blueprints of this package, the root of everything being "nand".
//
package hwlib

import (
	"sort"

	"github.com/db47h/trisim"
	"github.com/pkg/errors"
)

// Blueprint names.
//
const (
	Nand      = "nand"
	Not       = "not"
	And       = "and"
	Or        = "or"
	Nor       = "nor"
	Xor       = "xor"
	Xnor      = "xnor"
	Mux       = "mux"
	DMux      = "dmux"
	HalfAdder = "halfadder"
	FullAdder = "fulladder"
	SRLatch   = "srlatch"
)

type def struct {
	deps  []string
	build func(b *builder)
}

var defs = map[string]def{
	Nand:      {nil, buildNand},
	Not:       {[]string{Nand}, buildNot},
	And:       {[]string{Nand, Not}, buildAnd},
	Or:        {[]string{Nand}, buildOr},
	Nor:       {[]string{Or, Not}, buildNor},
	Xor:       {[]string{Nand}, buildXor},
	Xnor:      {[]string{Xor, Not}, buildXnor},
	Mux:       {[]string{Not, And, Or}, buildMux},
	DMux:      {[]string{Not, And}, buildDMux},
	HalfAdder: {[]string{Xor, And}, buildHalfAdder},
	FullAdder: {[]string{HalfAdder, Or}, buildFullAdder},
	SRLatch:   {[]string{Nand}, buildSRLatch},
}

// Names returns the names of all blueprints provided by the package.
//
func Names() []string {
	ns := make([]string, 0, len(defs))
	for n := range defs {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// Install adds the named blueprints and their dependencies to lib. If no name
// is given, all blueprints are installed. Blueprints already present in lib are
// left untouched.
//
func Install(lib *trisim.Library, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}
	for _, n := range names {
		if err := install(lib, n); err != nil {
			return err
		}
	}
	return nil
}

func install(lib *trisim.Library, name string) error {
	if _, err := lib.Lookup(name); err == nil {
		return nil
	}
	d, ok := defs[name]
	if !ok {
		return errors.Errorf("unknown blueprint %q", name)
	}
	for _, dep := range d.deps {
		if err := install(lib, dep); err != nil {
			return err
		}
	}
	_, err := build(lib, name, d)
	return err
}

func build(lib *trisim.Library, name string, d def) (*trisim.Blueprint, error) {
	bp, err := lib.New(name)
	if err != nil {
		return nil, err
	}
	b := &builder{lib: lib, bp: bp}
	d.build(b)
	if b.err != nil {
		// leave the library as we found it.
		_ = lib.Remove(name)
		return nil, errors.Wrap(b.err, "build "+name)
	}
	return bp, nil
}

// builder wraps a blueprint under construction. The first error is recorded
// and turns all subsequent calls into no-ops.
//
type builder struct {
	lib *trisim.Library
	bp  *trisim.Blueprint
	err error
	in  float64 // X position of the next input
	out float64 // X position of the next output
	x   float64 // X position of the next gate or buffer
}

func (b *builder) add(c *trisim.Component) bool {
	if b.err != nil {
		return false
	}
	_, b.err = b.bp.Add(c)
	return b.err == nil
}

// input adds a new input to the interface.
func (b *builder) input() trisim.Reference {
	c := trisim.NewInput(trisim.Point{X: b.in})
	b.in++
	if !b.add(c) {
		return trisim.Reference{}
	}
	return c.Ref(0)
}

// output adds a new output to the interface, fed by src.
func (b *builder) output(src trisim.Reference) {
	c := trisim.NewOutput(trisim.Point{X: b.out, Y: 200})
	b.out++
	if b.add(c) {
		b.err = b.bp.SetInput(c, 0, src)
	}
}

// gate adds a single output gate fed by srcs and returns its output.
func (b *builder) gate(name string, srcs ...trisim.Reference) trisim.Reference {
	return b.gateN(name, 1, srcs...)[0]
}

// gateN adds a gate with n outputs.
func (b *builder) gateN(name string, n int, srcs ...trisim.Reference) []trisim.Reference {
	outs := make([]trisim.Reference, n)
	if b.err != nil {
		return outs
	}
	var c *trisim.Component
	c, b.err = b.lib.NewGate(name, trisim.Point{X: b.x, Y: 100})
	b.x++
	if b.err != nil || !b.add(c) {
		return outs
	}
	if b.err = b.bp.SetInputs(c, srcs...); b.err != nil {
		return outs
	}
	if c.NumOutputs() != n {
		b.err = errors.Errorf("%s has %d outputs, expected %d", name, c.NumOutputs(), n)
		return outs
	}
	for i := range outs {
		outs[i] = c.Ref(i)
	}
	return outs
}

// junction adds an unconnected buffer.
func (b *builder) junction() *trisim.Buffer {
	bf := b.bp.Buffers().New(trisim.Point{X: b.x, Y: 150})
	b.x++
	return bf
}

// buffer adds a buffer linked to src and returns a reference to it.
func (b *builder) buffer(src trisim.Reference) trisim.Reference {
	bf := b.junction()
	b.link(bf, src)
	return bf.Ref()
}

func (b *builder) link(bf *trisim.Buffer, src trisim.Reference) {
	if b.err == nil {
		b.err = bf.AddReference(src)
	}
}
