// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

// a consumer is an input slot fed by some component output.
type consumer struct {
	c    *Component
	slot int
}

// fanout maps a component output to its consumers. Consumers wired directly to
// the output come first, in member order, followed by consumers wired to a
// buffer group driven by that output.
type fanout map[Reference][]consumer

type fanoutKey struct {
	bp  *Blueprint
	rev uint64
}

// fanout returns the fan-out index for the current revision of bp.
//
func (bp *Blueprint) fanout() fanout {
	k := fanoutKey{bp, bp.rev}
	if f, ok := bp.lib.fanouts.Get(k); ok {
		return f
	}
	f := bp.buildFanout()
	bp.lib.fanouts.Add(k, f)
	return f
}

func (bp *Blueprint) buildFanout() fanout {
	f := make(fanout)
	for _, c := range bp.items {
		for slot, r := range c.inputs {
			if r.Kind == RefComponent {
				f[r] = append(f[r], consumer{c, slot})
			}
		}
	}
	// drivers of each buffer group, shared by all buffers of the group.
	groups := make(map[int][]Reference)
	for _, c := range bp.items {
		for slot, r := range c.inputs {
			if r.Kind != RefBuffer {
				continue
			}
			ds, ok := groups[r.ID]
			if !ok {
				b, ok := bp.buffers.byID[r.ID]
				if !ok {
					continue
				}
				g := b.Connected()
				ds = drivers(g)
				for _, o := range g {
					groups[o.id] = ds
				}
			}
			for _, d := range ds {
				f[d] = append(f[d], consumer{c, slot})
			}
		}
	}
	return f
}
