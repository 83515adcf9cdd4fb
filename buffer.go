// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import "github.com/pkg/errors"

// A Buffer is a passive junction used to fan a signal out or to merge wire
// segments. Buffers linked to each other form an undirected graph; a maximal
// connected set of buffers is a buffer group and behaves as a single node
// driven by the component output referenced by one of its buffers.
//
type Buffer struct {
	id   int
	pos  Point
	refs []Reference
	net  *Buffers
}

// Buffers is the buffer network of a blueprint.
//
type Buffers struct {
	bp    *Blueprint
	items []*Buffer
	byID  map[int]*Buffer
	next  int
}

func newBuffers(bp *Blueprint) *Buffers {
	return &Buffers{bp: bp, byID: make(map[int]*Buffer)}
}

// Blueprint returns the blueprint owning n.
//
func (n *Buffers) Blueprint() *Blueprint { return n.bp }

// Items returns all buffers in creation order.
//
func (n *Buffers) Items() []*Buffer {
	return append([]*Buffer(nil), n.items...)
}

// Len returns the number of buffers.
//
func (n *Buffers) Len() int { return len(n.items) }

// Get returns the buffer with the given id.
//
func (n *Buffers) Get(id int) (*Buffer, error) {
	b, ok := n.byID[id]
	if !ok {
		return nil, notFound("buffer", id)
	}
	return b, nil
}

// New creates a new unconnected buffer. As with members, buffer ids are never
// reused, so the new id may be higher than the largest existing one plus one.
//
func (n *Buffers) New(pos Point) *Buffer {
	b := &Buffer{id: n.next, pos: pos, net: n}
	n.add(b)
	return b
}

// Restore creates a buffer with an explicit id and references. References are
// taken as is: links between buffers must already be present on both sides.
//
func (n *Buffers) Restore(id int, pos Point, refs []Reference) (*Buffer, error) {
	if id < 0 {
		return nil, errors.Errorf("invalid buffer id %d", id)
	}
	if _, ok := n.byID[id]; ok {
		return nil, errors.Errorf("%s: duplicate buffer id %d", n.bp.name, id)
	}
	b := &Buffer{id: id, pos: pos, net: n, refs: append([]Reference(nil), refs...)}
	n.add(b)
	return b, nil
}

func (n *Buffers) add(b *Buffer) {
	n.items = append(n.items, b)
	n.byID[b.id] = b
	if b.id >= n.next {
		n.next = b.id + 1
	}
	n.bp.touch()
}

// Delete removes b from the network. Links from other buffers and component
// inputs referencing b are cleared.
//
func (n *Buffers) Delete(b *Buffer) error {
	if b.net != n || n.byID[b.id] != b {
		return notFound("buffer", b.id)
	}
	for i, o := range n.items {
		if o == b {
			n.items = append(n.items[:i], n.items[i+1:]...)
			break
		}
	}
	delete(n.byID, b.id)
	n.bp.disconnect(b.Ref())
	n.bp.UpdateCycles()
	b.net = nil
	return nil
}

// ID returns the buffer id.
//
func (b *Buffer) ID() int { return b.id }

// Pos returns the buffer position.
//
func (b *Buffer) Pos() Point { return b.pos }

// Move moves the buffer by delta.
//
func (b *Buffer) Move(delta Point) { b.pos = b.pos.Add(delta) }

// Ref returns a reference to b.
//
func (b *Buffer) Ref() Reference { return BufferRef(b.id, b.net.bp.name) }

// References returns a copy of the references held by b.
//
func (b *Buffer) References() []Reference {
	return append([]Reference(nil), b.refs...)
}

// AddReference links b to ref. Links to other buffers are bidirectional: the
// referenced buffer gets a link back to b.
//
// A buffer is expected to reference at most one component output. This is not
// enforced.
//
func (b *Buffer) AddReference(ref Reference) error {
	if ref.IsNil() {
		return errors.New("nil buffer reference")
	}
	if ref == b.Ref() {
		return errors.New("buffer cannot reference itself")
	}
	bp := b.net.bp
	if err := bp.checkRef(ref); err != nil {
		return errors.Wrapf(err, "%s: buffer %d", bp.name, b.id)
	}
	b.refs = append(b.refs, ref)
	if ref.IsBuffer() {
		o := b.net.byID[ref.ID]
		o.refs = append(o.refs, b.Ref())
	}
	bp.touch()
	bp.UpdateCycles()
	return nil
}

// RemoveReference removes one occurrence of ref from b. For buffer links, the
// back link is removed as well.
//
func (b *Buffer) RemoveReference(ref Reference) {
	if !b.removeOne(ref) {
		return
	}
	if ref.IsBuffer() {
		if o, ok := b.net.byID[ref.ID]; ok {
			o.removeOne(b.Ref())
		}
	}
	b.net.bp.touch()
	b.net.bp.UpdateCycles()
}

func (b *Buffer) removeOne(ref Reference) bool {
	for i, r := range b.refs {
		if r == ref {
			b.refs = append(b.refs[:i], b.refs[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Buffer) removeAll(ref Reference) {
	refs := b.refs[:0]
	for _, r := range b.refs {
		if r != ref {
			refs = append(refs, r)
		}
	}
	b.refs = refs
}

// Connected returns the buffer group of b, starting with b itself, in
// breadth-first order.
//
func (b *Buffer) Connected() []*Buffer {
	seen := map[*Buffer]bool{b: true}
	group := []*Buffer{b}
	for i := 0; i < len(group); i++ {
		for _, r := range group[i].refs {
			if !r.IsBuffer() {
				continue
			}
			o, ok := b.net.byID[r.ID]
			if !ok || seen[o] {
				continue
			}
			seen[o] = true
			group = append(group, o)
		}
	}
	return group
}

// Driver returns the component output driving the group of b: the first
// component reference found by a breadth-first search of the group. The
// boolean is false if the group has no driver.
//
func (b *Buffer) Driver() (Reference, bool) {
	ds := drivers(b.Connected())
	if len(ds) == 0 {
		return Reference{}, false
	}
	return ds[0], true
}

// drivers returns the distinct component references held by a buffer group.
//
func drivers(group []*Buffer) []Reference {
	var ds []Reference
	for _, g := range group {
		for _, r := range g.refs {
			if r.Kind == RefComponent && !containsRef(ds, r) {
				ds = append(ds, r)
			}
		}
	}
	return ds
}

func containsRef(rs []Reference, r Reference) bool {
	for _, v := range rs {
		if v == r {
			return true
		}
	}
	return false
}
