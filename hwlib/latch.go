// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// srlatch is a set/reset latch with active low inputs. Both outputs are fed
// back through buffers.
//
//	Inputs: s̅, r̅
//	Outputs: q, q̅
//	Function: s̅=0 sets q, r̅=0 resets q, s̅=r̅=1 holds the current state.
//
// The latch state lives in the memory of the blueprint it is resolved in. A
// latch nested in another custom gate may need a second pass to settle after a
// state change.
//
func buildSRLatch(b *builder) {
	sn, rn := b.input(), b.input()
	q, qn := b.junction(), b.junction()
	b.link(q, b.gate(Nand, sn, qn.Ref()))
	b.link(qn, b.gate(Nand, rn, q.Ref()))
	b.output(q.Ref())
	b.output(qn.Ref())
}
