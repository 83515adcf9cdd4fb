// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// halfadder
//
//	Inputs: a, b
//	Outputs: sum, carry
//	Function: sum = LSB of a + b, carry = MSB of a + b
//
func buildHalfAdder(b *builder) {
	x, y := b.buffer(b.input()), b.buffer(b.input())
	b.output(b.gate(Xor, x, y))
	b.output(b.gate(And, x, y))
}

// fulladder
//
//	Inputs: a, b, c
//	Outputs: sum, carry
//	Function: sum = LSB of a + b + c, carry = MSB of a + b + c
//
func buildFullAdder(b *builder) {
	x, y, c := b.input(), b.input(), b.input()
	h0 := b.gateN(HalfAdder, 2, x, y)
	h1 := b.gateN(HalfAdder, 2, h0[0], c)
	b.output(h1[0])
	b.output(b.gate(Or, h0[1], h1[1]))
}
