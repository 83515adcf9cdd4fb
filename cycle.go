// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

// IsTransitiveDependency returns true if target is instantiated, directly or
// through other custom gates, by candidate.
//
func (l *Library) IsTransitiveDependency(candidate, target *Blueprint) bool {
	seen := make(map[string]bool)
	queue := append([]string(nil), candidate.deps...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if name == target.name {
			return true
		}
		if seen[name] || IsPrimitive(name) {
			continue
		}
		seen[name] = true
		if bp, ok := l.bps[name]; ok {
			queue = append(queue, bp.deps...)
		}
	}
	return false
}

// UpdateCycleStatus recomputes the cycle flag of c: c is in a cycle if it can
// be reached from its own inputs by following input references. Buffer
// references are followed through the drivers of their group.
//
// The flag is informational only: circuits with loops can still be resolved.
//
func (bp *Blueprint) UpdateCycleStatus(c *Component) bool {
	seen := make(map[*Component]bool)
	queue := bp.sources(c)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == c {
			c.inCycle = true
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		queue = append(queue, bp.sources(n)...)
	}
	c.inCycle = false
	return false
}

// UpdateCycles recomputes the cycle status of every member.
//
func (bp *Blueprint) UpdateCycles() {
	for _, c := range bp.items {
		bp.UpdateCycleStatus(c)
	}
}

// ContainsCycles returns true if any member of bp is flagged as being in a
// cycle.
//
func (bp *Blueprint) ContainsCycles() bool {
	for _, c := range bp.items {
		if c.inCycle {
			return true
		}
	}
	return false
}

// sources returns the members feeding the inputs of c.
//
func (bp *Blueprint) sources(c *Component) []*Component {
	var src []*Component
	add := func(r Reference) {
		if s, ok := bp.byID[r.ID]; ok {
			src = append(src, s)
		}
	}
	for _, r := range c.inputs {
		switch r.Kind {
		case RefComponent:
			add(r)
		case RefBuffer:
			b, ok := bp.buffers.byID[r.ID]
			if !ok {
				continue
			}
			for _, d := range drivers(b.Connected()) {
				add(d)
			}
		}
	}
	return src
}
