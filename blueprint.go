// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// A Blueprint is a named circuit definition. It owns its components and its
// buffer network, and can be instantiated as a custom gate in other blueprints.
//
// The interface of a blueprint is made of its Input and Output members, ordered
// by ascending X position (ties are broken by insertion order). This order maps
// the positional input vector of Resolve to Input members and Output members to
// the result vector.
//
type Blueprint struct {
	name string
	lib  *Library

	items   []*Component
	byID    map[int]*Component
	inputs  []*Component
	outputs []*Component
	nextID  int

	// names of the blueprints instantiated as custom gates, in first use order.
	deps []string

	buffers *Buffers
	mem     *Memory

	// custom gates wrapping this blueprint, in any blueprint of the library.
	instances []*Component

	// structural revision, bumped on every edit that may change connectivity.
	rev uint64
}

// An Edge connects input Slot of component Component to Source.
//
type Edge struct {
	Component int
	Slot      int
	Source    Reference
}

func newBlueprint(l *Library, name string) *Blueprint {
	bp := &Blueprint{
		name: name,
		lib:  l,
		byID: make(map[int]*Component),
		mem:  NewMemory(),
	}
	bp.buffers = newBuffers(bp)
	return bp
}

// Name returns the blueprint name.
//
func (bp *Blueprint) Name() string { return bp.name }

// Library returns the library bp belongs to.
//
func (bp *Blueprint) Library() *Library { return bp.lib }

// Buffers returns the buffer network of bp.
//
func (bp *Blueprint) Buffers() *Buffers { return bp.buffers }

// Memory returns the memory used by top level evaluations of bp.
//
func (bp *Blueprint) Memory() *Memory { return bp.mem }

// Components returns the members of bp in insertion order.
//
func (bp *Blueprint) Components() []*Component {
	return append([]*Component(nil), bp.items...)
}

// Len returns the number of components in bp.
//
func (bp *Blueprint) Len() int { return len(bp.items) }

// Component returns the member with the given id.
//
func (bp *Blueprint) Component(id int) (*Component, error) {
	c, ok := bp.byID[id]
	if !ok {
		return nil, notFound("component", id)
	}
	return c, nil
}

// NumInputs returns the number of Input members.
//
func (bp *Blueprint) NumInputs() int { return len(bp.inputs) }

// NumOutputs returns the number of Output members.
//
func (bp *Blueprint) NumOutputs() int { return len(bp.outputs) }

// InputComponents returns the Input members in interface order.
//
func (bp *Blueprint) InputComponents() []*Component { return interfaceOrder(bp.inputs) }

// OutputComponents returns the Output members in interface order.
//
func (bp *Blueprint) OutputComponents() []*Component { return interfaceOrder(bp.outputs) }

func interfaceOrder(cs []*Component) []*Component {
	cs = append([]*Component(nil), cs...)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].pos.X < cs[j].pos.X })
	return cs
}

// Dependencies returns the names of the blueprints directly instantiated in bp.
//
func (bp *Blueprint) Dependencies() []string {
	return append([]string(nil), bp.deps...)
}

// Instances returns the custom gates wrapping bp.
//
func (bp *Blueprint) Instances() []*Component {
	return append([]*Component(nil), bp.instances...)
}

// StateOf returns the current outputs of member c as seen by the presentation
// layer: the values stored by the last top level resolution.
//
func (bp *Blueprint) StateOf(c *Component) Signals {
	return bp.mem.Get(bp.mem.Extend(Path{}, c))
}

// Edges returns all connected input slots.
//
func (bp *Blueprint) Edges() []Edge {
	var es []Edge
	for _, c := range bp.items {
		for i, r := range c.inputs {
			if !r.IsNil() {
				es = append(es, Edge{c.id, i, r})
			}
		}
	}
	return es
}

// Add adds c to bp and returns its new id. Ids are allocated from a counter
// that never goes back: the id of a deleted member is not reused, even if it
// was the highest one.
//
// If c is a custom gate wrapping blueprint X, the insertion is rejected with a
// *DependencyCycleError when bp is X or a transitive dependency of X. In that
// case bp is left unchanged.
//
func (bp *Blueprint) Add(c *Component) (int, error) {
	if err := bp.checkAdd(c); err != nil {
		return -1, err
	}
	bp.insert(c, bp.nextID)
	return c.id, nil
}

// Restore adds c to bp with an explicit id and prior state. It is meant for
// loading saved blueprints: input references are not validated since their
// targets may not be restored yet, and cycle status is not computed. Call
// UpdateCycles once all members and buffers are restored.
//
func (bp *Blueprint) Restore(c *Component, id int, inputs []Reference, outputs Signals) error {
	if id < 0 {
		return errors.Errorf("invalid component id %d", id)
	}
	if _, ok := bp.byID[id]; ok {
		return errors.Errorf("%s: duplicate component id %d", bp.name, id)
	}
	if len(inputs) != len(c.inputs) {
		return errors.WithStack(&ArityMismatchError{Name: c.name, Want: len(c.inputs), Got: len(inputs)})
	}
	if len(outputs) != len(c.state) {
		return errors.Errorf("%s: expected %d outputs, got %d", c.name, len(c.state), len(outputs))
	}
	if err := bp.checkAdd(c); err != nil {
		return err
	}
	copy(c.inputs, inputs)
	copy(c.state, outputs)
	bp.insert(c, id)
	bp.mem.Set(bp.mem.Extend(Path{}, c), outputs)
	return nil
}

// Validate checks that every input slot and buffer reference in bp points to
// an existing member output or buffer of bp. Use it after a bulk restore.
//
func (bp *Blueprint) Validate() error {
	for _, c := range bp.items {
		for i, r := range c.inputs {
			if err := bp.checkRef(r); err != nil {
				return errors.Wrapf(err, "%s: %s #%d input %d", bp.name, c.name, c.id, i)
			}
		}
	}
	for _, b := range bp.buffers.items {
		for _, r := range b.refs {
			if err := bp.checkRef(r); err != nil {
				return errors.Wrapf(err, "%s: buffer %d", bp.name, b.id)
			}
		}
	}
	return nil
}

func (bp *Blueprint) checkAdd(c *Component) error {
	if c.owner != nil {
		return errors.New(c.name + " already belongs to blueprint " + c.owner.name)
	}
	if c.master == nil {
		return nil
	}
	if c.master.lib != bp.lib {
		return errors.New(c.name + " is not defined in the same library as " + bp.name)
	}
	if c.master == bp || bp.lib.IsTransitiveDependency(c.master, bp) {
		bp.lib.log.Printf("%s: cannot add %s, this would create a dependency loop", bp.name, c.name)
		return errors.WithStack(&DependencyCycleError{Blueprint: bp.name, Gate: c.name})
	}
	return nil
}

func (bp *Blueprint) insert(c *Component, id int) {
	c.id = id
	c.owner = bp
	bp.items = append(bp.items, c)
	bp.byID[id] = c
	if id >= bp.nextID {
		bp.nextID = id + 1
	}
	if c.master != nil {
		if !contains(bp.deps, c.name) {
			bp.deps = append(bp.deps, c.name)
		}
		c.master.instances = append(c.master.instances, c)
	}
	bp.touch()
	switch c.kind {
	case Input:
		bp.inputs = append(bp.inputs, c)
		bp.changed()
	case Output:
		bp.outputs = append(bp.outputs, c)
		bp.changed()
	}
}

// Delete removes c from bp. Every reference to the outputs of c held by other
// members or buffers is cleared, as are the input slots of c: a deleted
// component can be added again, unconnected, and gets a new id.
//
func (bp *Blueprint) Delete(c *Component) error {
	if c.owner != bp {
		return notFound("component", c.id)
	}
	for k := range c.state {
		bp.disconnect(ComponentRef(c.id, k))
	}
	bp.items = remove(bp.items, c)
	delete(bp.byID, c.id)
	if c.master != nil {
		c.master.unsubscribe(c)
		bp.dropDependency(c.name)
	}
	for i := range c.inputs {
		c.inputs[i] = Reference{}
	}
	c.inCycle = false
	c.owner = nil
	bp.mem.Forget(c)
	bp.touch()
	switch c.kind {
	case Input:
		bp.inputs = remove(bp.inputs, c)
		bp.changed()
	case Output:
		bp.outputs = remove(bp.outputs, c)
		bp.changed()
	}
	bp.UpdateCycles()
	return nil
}

func (bp *Blueprint) dropDependency(name string) {
	for _, o := range bp.items {
		if o.name == name {
			return
		}
	}
	for i, d := range bp.deps {
		if d == name {
			bp.deps = append(bp.deps[:i], bp.deps[i+1:]...)
			return
		}
	}
}

// SetInput connects input slot of c to ref. A nil Reference disconnects the
// slot. The cycle flags of all members are updated.
//
// SetInput panics if slot is out of range.
//
func (bp *Blueprint) SetInput(c *Component, slot int, ref Reference) error {
	if c.owner != bp {
		return notFound("component", c.id)
	}
	c.checkSlot(slot)
	if err := bp.checkRef(ref); err != nil {
		return errors.Wrap(err, bp.name+": "+c.name+" input "+strconv.Itoa(slot))
	}
	c.inputs[slot] = ref
	bp.touch()
	bp.UpdateCycles()
	return nil
}

// SetInputs sets all input slots of c at once.
//
func (bp *Blueprint) SetInputs(c *Component, refs ...Reference) error {
	if len(refs) != len(c.inputs) {
		return errors.WithStack(&ArityMismatchError{Name: c.name, Want: len(c.inputs), Got: len(refs)})
	}
	for i, r := range refs {
		if err := bp.SetInput(c, i, r); err != nil {
			return err
		}
	}
	return nil
}

func (bp *Blueprint) checkRef(r Reference) error {
	switch r.Kind {
	case RefNone:
		return nil
	case RefComponent:
		src, err := bp.Component(r.ID)
		if err != nil {
			return err
		}
		if r.Index < 0 || r.Index >= len(src.state) {
			return errors.Errorf("output index %d out of range for %s", r.Index, src.name)
		}
		return nil
	case RefBuffer:
		if r.Blueprint != bp.name {
			return errors.Errorf("buffer reference %v does not belong to %s", r, bp.name)
		}
		_, err := bp.buffers.Get(r.ID)
		return err
	}
	return errors.Errorf("invalid reference kind %d", r.Kind)
}

// disconnect clears every reference to ref held by members and buffers.
// Cycle flags are left to the caller.
//
func (bp *Blueprint) disconnect(ref Reference) {
	for _, o := range bp.items {
		for i, r := range o.inputs {
			if r == ref {
				o.inputs[i] = Reference{}
			}
		}
	}
	for _, b := range bp.buffers.items {
		b.removeAll(ref)
	}
	bp.touch()
}

// changed propagates an interface change of bp to every custom gate wrapping
// it: the gate is disconnected from its consumers, reshaped to the new
// interface and its outputs reset to Floating.
//
func (bp *Blueprint) changed() {
	for _, c := range bp.instances {
		owner := c.owner
		for k := range c.state {
			owner.disconnect(ComponentRef(c.id, k))
		}
		c.reshape()
		owner.mem.Forget(c)
		owner.touch()
		owner.UpdateCycles()
		bp.lib.log.Printf("%s: interface of %s changed, gate #%d reset to %d inputs, %d outputs",
			owner.name, bp.name, c.id, len(c.inputs), len(c.state))
	}
}

func (bp *Blueprint) unsubscribe(c *Component) {
	bp.instances = remove(bp.instances, c)
}

func (bp *Blueprint) touch() { bp.rev++ }

func remove(cs []*Component, c *Component) []*Component {
	for i, o := range cs {
		if o == c {
			return append(cs[:i], cs[i+1:]...)
		}
	}
	return cs
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
