// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// mux
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: If sel=0 then out=a else out=b.
//
func buildMux(b *builder) {
	x, y, sel := b.input(), b.input(), b.input()
	s := b.buffer(sel)
	notSel := b.gate(Not, s)
	b.output(b.gate(Or,
		b.gate(And, x, notSel),
		b.gate(And, y, s)))
}

// dmux
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: If sel=0 then {a=in, b=0} else {a=0, b=in}.
//
func buildDMux(b *builder) {
	in, sel := b.buffer(b.input()), b.buffer(b.input())
	notSel := b.gate(Not, sel)
	b.output(b.gate(And, in, notSel))
	b.output(b.gate(And, in, sel))
}
