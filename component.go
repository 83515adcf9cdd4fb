// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

// Kind is the type tag of a component.
//
type Kind uint8

// Component kinds.
//
const (
	Input Kind = iota
	Output
	Gate
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Gate:
		return "gate"
	}
	return "unknown"
}

// Reserved primitive names. They can never be used as blueprint names.
//
const (
	NameInput  = "input"
	NameOutput = "output"
	NameAnd    = "b_and"
	NameNot    = "b_not"
	NameClock  = "clock"
)

var primitives = map[string]bool{
	NameInput:  true,
	NameOutput: true,
	NameAnd:    true,
	NameNot:    true,
	NameClock:  true,
}

// IsPrimitive returns true if name is one of the reserved primitive names.
//
func IsPrimitive(name string) bool { return primitives[name] }

// Point is a position in the editor plane. Only the X coordinate has a meaning
// for the engine: it orders the interface of a blueprint.
//
type Point struct {
	X, Y float64
}

// Add returns p+q.
//
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// A GateFunc computes the outputs of a gate given its inputs. mem and path are
// only used by gates wrapping a blueprint: path is the instantiation path of
// the gate itself.
//
type GateFunc func(in Signals, mem *Memory, path Path) (Signals, error)

// A Component is an Input, Output or Gate node of a blueprint.
//
// The input and output counts of a component are fixed when it is created.
// The only exception are custom gates whose blueprint interface changes: they
// are disconnected and reshaped to the new interface.
//
type Component struct {
	id     int
	kind   Kind
	name   string
	pos    Point
	inputs []Reference
	state  Signals

	fn     GateFunc
	master *Blueprint // blueprint implementing a custom gate
	owner  *Blueprint

	inCycle bool
	running bool // clocks only
}

func newComponent(kind Kind, name string, pos Point, in, out int) *Component {
	return &Component{
		id:     -1,
		kind:   kind,
		name:   name,
		pos:    pos,
		inputs: make([]Reference, in),
		state:  floating(out),
	}
}

// ID returns the component id in its blueprint, or -1 if the component has not
// been added to a blueprint yet.
//
func (c *Component) ID() int { return c.id }

// Kind returns the component kind.
//
func (c *Component) Kind() Kind { return c.kind }

// Name returns the name of the component: one of the primitive names or, for
// custom gates, the name of the blueprint defining the gate's behavior.
//
func (c *Component) Name() string { return c.name }

// Pos returns the component position.
//
func (c *Component) Pos() Point { return c.pos }

// Blueprint returns the blueprint owning c.
//
func (c *Component) Blueprint() *Blueprint { return c.owner }

// Master returns the blueprint wrapped by a custom gate, nil for primitives.
//
func (c *Component) Master() *Blueprint { return c.master }

// IsPrimitive returns true if c is not a custom gate.
//
func (c *Component) IsPrimitive() bool { return c.master == nil }

// NumInputs returns the number of input slots.
//
func (c *Component) NumInputs() int { return len(c.inputs) }

// NumOutputs returns the number of outputs.
//
func (c *Component) NumOutputs() int { return len(c.state) }

// Input returns the reference connected to input slot i.
//
func (c *Component) Input(i int) Reference {
	c.checkSlot(i)
	return c.inputs[i]
}

// Inputs returns a copy of the input slots.
//
func (c *Component) Inputs() []Reference {
	return append([]Reference(nil), c.inputs...)
}

// Ref returns a reference to output index of c.
//
func (c *Component) Ref(index int) Reference {
	if index < 0 || index >= len(c.state) {
		panic("output index out of range")
	}
	return ComponentRef(c.id, index)
}

// State returns a copy of the output vector stored in the component itself.
// For inputs, this is the value fed to the blueprint by ResolveOutputs. The
// resolved values of other components live in the blueprint's memory, see
// Blueprint.StateOf.
//
func (c *Component) State() Signals {
	return append(Signals(nil), c.state...)
}

// InCycle returns true if the output of c loops back to one of its inputs.
//
func (c *Component) InCycle() bool { return c.inCycle }

// Function evaluates the gate function of c.
//
func (c *Component) Function(in Signals, mem *Memory, path Path) (Signals, error) {
	if c.fn == nil {
		panic("component " + c.name + " has no gate function")
	}
	return c.fn(in, mem, path)
}

// Move moves the component by delta. Moving an Input or Output along the X axis
// may change the interface order of its blueprint.
//
func (c *Component) Move(delta Point) {
	c.pos = c.pos.Add(delta)
}

func (c *Component) checkSlot(i int) {
	if i < 0 || i >= len(c.inputs) {
		panic("input slot index out of range")
	}
}

func (c *Component) references(id int) bool {
	for _, r := range c.inputs {
		if r.Kind == RefComponent && r.ID == id {
			return true
		}
	}
	return false
}

// reshape resizes a custom gate to the current interface of its master and
// resets its outputs.
//
func (c *Component) reshape() {
	c.inputs = make([]Reference, c.master.NumInputs())
	c.state = floating(c.master.NumOutputs())
}
