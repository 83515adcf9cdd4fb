// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import "strconv"

// A Path is an instantiation path: the chain of components leading from a top
// level blueprint, through nested custom gates, to a component. The zero Path
// is the empty path of a top level evaluation.
//
// Paths are interned by the Memory that created them: two equal paths from the
// same Memory share the same underlying node, so extending a path is a single
// map lookup and paths compare with ==.
//
type Path struct {
	n *pathNode
}

type pathNode struct {
	parent *pathNode
	c      *Component
	depth  int
	states Signals
}

type pathKey struct {
	parent *pathNode
	c      *Component
}

// Len returns the number of components in p.
//
func (p Path) Len() int {
	if p.n == nil {
		return 0
	}
	return p.n.depth
}

// Last returns the last component of p, nil if p is empty.
//
func (p Path) Last() *Component {
	if p.n == nil {
		return nil
	}
	return p.n.c
}

// Components returns the components of p, outermost first.
//
func (p Path) Components() []*Component {
	cs := make([]*Component, p.Len())
	for n := p.n; n != nil; n = n.parent {
		cs[n.depth-1] = n.c
	}
	return cs
}

func (p Path) String() string {
	var s string
	for i, c := range p.Components() {
		if i > 0 {
			s += "/"
		}
		s += c.name + "#" + strconv.Itoa(c.id)
	}
	return s
}

// Memory maps instantiation paths to the last known outputs of the component
// at the end of the path.
//
// A Memory persists across resolution passes: components that are not reached
// by a pass keep their previous value, which is how feedback loops hold state.
// A Memory is not safe for concurrent use.
//
type Memory struct {
	nodes map[pathKey]*pathNode
}

// NewMemory returns a new empty Memory.
//
func NewMemory() *Memory {
	return &Memory{nodes: make(map[pathKey]*pathNode)}
}

// Extend returns the path p followed by c.
//
func (m *Memory) Extend(p Path, c *Component) Path {
	k := pathKey{p.n, c}
	n, ok := m.nodes[k]
	if !ok {
		n = &pathNode{parent: p.n, c: c, depth: p.Len() + 1}
		m.nodes[k] = n
	}
	return Path{n}
}

// Get returns a copy of the outputs stored for path p. Entries are created on
// demand with all outputs Floating.
//
func (m *Memory) Get(p Path) Signals {
	return append(Signals(nil), m.states(p)...)
}

// Set stores the outputs of the component at the end of p.
//
func (m *Memory) Set(p Path, s Signals) {
	if p.n == nil {
		panic("empty instantiation path")
	}
	p.n.states = append(p.n.states[:0], s...)
}

// Len returns the number of paths known to m.
//
func (m *Memory) Len() int { return len(m.nodes) }

// Reset drops all entries.
//
func (m *Memory) Reset() {
	m.nodes = make(map[pathKey]*pathNode)
}

// Forget drops all entries whose path goes through c.
//
func (m *Memory) Forget(c *Component) {
	for k, n := range m.nodes {
		for t := n; t != nil; t = t.parent {
			if t.c == c {
				delete(m.nodes, k)
				break
			}
		}
	}
}

// states returns the stored outputs of p without copying. The vector is
// (re)initialized to Floating when first seen or when the component's output
// count no longer matches.
//
func (m *Memory) states(p Path) Signals {
	if p.n == nil {
		panic("empty instantiation path")
	}
	n := p.n
	if out := n.c.NumOutputs(); len(n.states) != out {
		n.states = floating(out)
	}
	return n.states
}
