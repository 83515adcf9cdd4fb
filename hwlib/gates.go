// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/trisim"

// nand is the bootstrap gate. The AND output goes through two linked buffers
// before reaching the NOT gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = Not(And(a, b))
//
func buildNand(b *builder) {
	x, y := b.input(), b.input()
	and := b.gate(trisim.NameAnd, x, y)
	b1 := b.junction()
	b.link(b1, and)
	b2 := b.buffer(b1.Ref())
	b.output(b.gate(trisim.NameNot, b2))
}

// not
//
//	Inputs: in
//	Outputs: out
//	Function: out = Not(in)
//
func buildNot(b *builder) {
	in := b.buffer(b.input())
	b.output(b.gate(Nand, in, in))
}

// and
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = And(a, b)
//
func buildAnd(b *builder) {
	x, y := b.input(), b.input()
	b.output(b.gate(Not, b.gate(Nand, x, y)))
}

// or
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func buildOr(b *builder) {
	x, y := b.input(), b.input()
	notA := b.gate(Nand, x, x)
	notB := b.gate(Nand, y, y)
	b.output(b.gate(Nand, notA, notB))
}

// nor
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
//
func buildNor(b *builder) {
	x, y := b.input(), b.input()
	b.output(b.gate(Not, b.gate(Or, x, y)))
}

// xor
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
//
func buildXor(b *builder) {
	x, y := b.input(), b.input()
	nandAB := b.buffer(b.gate(Nand, x, y))
	w0 := b.gate(Nand, x, nandAB)
	w1 := b.gate(Nand, y, nandAB)
	b.output(b.gate(Nand, w0, w1))
}

// xnor
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
//
func buildXnor(b *builder) {
	x, y := b.input(), b.input()
	b.output(b.gate(Not, b.gate(Xor, x, y)))
}
