// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import "github.com/pkg/errors"

// per-member state of a resolution pass.
type evalState struct {
	key    Path
	in     Signals // inputs received so far
	n      int     // number of inputs received
	target int     // number of connected input slots
	final  bool    // outputs accepted and propagated
}

// ResolveOutputs resolves bp using the current state of its Input members and
// returns the state of its Output members in interface order. Resolved values
// are kept in bp's memory and can be read back with StateOf.
//
func (bp *Blueprint) ResolveOutputs() (Signals, error) {
	ins := bp.InputComponents()
	v := make(Signals, len(ins))
	for i, c := range ins {
		v[i] = c.state[0]
	}
	return bp.Resolve(bp.mem, v, Path{})
}

// Resolve computes the outputs of bp for the given inputs, in interface order.
// path is the instantiation path of the custom gate being evaluated, or the
// empty path for a top level evaluation.
//
// Values are propagated from the Input members along input references. A gate
// is evaluated each time one of its inputs receives a value. Its outputs are
// accepted and propagated once all its connected inputs have been received, or
// earlier if the tentative outputs contain no Floating value. Outputs are
// propagated at most once per pass. Members that are not reached keep the value
// they had in mem, which is how feedback loops hold their state across passes.
//
// Note that early acceptance can, with unusual wiring, propagate a value that a
// later input would have changed.
//
func (bp *Blueprint) Resolve(mem *Memory, inputs Signals, path Path) (Signals, error) {
	ins := bp.InputComponents()
	if len(inputs) != len(ins) {
		return nil, errors.WithStack(&ArityMismatchError{Name: bp.name, Want: len(ins), Got: len(inputs)})
	}

	st := make(map[*Component]*evalState, len(bp.items))
	for _, c := range bp.items {
		s := &evalState{
			key: mem.Extend(path, c),
			in:  floating(len(c.inputs)),
		}
		for _, r := range c.inputs {
			if !r.IsNil() {
				s.target++
			}
		}
		mem.states(s.key)
		st[c] = s
	}

	queue := make([]*Component, 0, len(bp.items))
	for i, c := range ins {
		mem.Set(st[c].key, Signals{inputs[i]})
		queue = append(queue, c)
	}

	fo := bp.fanout()
	accept := func(c *Component, s *evalState, out Signals) {
		mem.Set(s.key, out)
		if !s.final {
			s.final = true
			queue = append(queue, c)
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		pk := st[p].key
		for k := 0; k < len(p.state); k++ {
			for _, cs := range fo[ComponentRef(p.id, k)] {
				c, s := cs.c, st[cs.c]
				s.in[cs.slot] = mem.states(pk)[k]
				s.n++
				switch c.kind {
				case Output:
					if s.n >= s.target {
						accept(c, s, Signals{s.in[0]})
					}
				case Gate:
					out, err := c.fn(s.in, mem, s.key)
					if err != nil {
						return nil, errors.Wrap(err, bp.name)
					}
					if s.n >= s.target {
						accept(c, s, out)
					} else if !s.final && !out.Floats() {
						accept(c, s, out)
					}
				}
			}
		}
	}

	outs := bp.OutputComponents()
	res := make(Signals, len(outs))
	for i, o := range outs {
		res[i] = mem.states(st[o].key)[0]
	}
	return res, nil
}
