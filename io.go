// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

// NewInput returns a new input. Its initial state is False.
//
//	Inputs: none
//	Outputs: 1
//
func NewInput(pos Point) *Component {
	c := newComponent(Input, NameInput, pos, 0, 1)
	c.state[0] = False
	return c
}

// NewOutput returns a new output.
//
//	Inputs: 1
//	Outputs: 1, mirrors the input once resolved
//
func NewOutput(pos Point) *Component {
	return newComponent(Output, NameOutput, pos, 1, 1)
}

// NewClock returns a new clock. A clock is an input whose state is toggled
// periodically while it is running (see package sim). Clocks start stopped.
//
func NewClock(pos Point) *Component {
	c := NewInput(pos)
	c.name = NameClock
	return c
}

// IsClock returns true if c is a clock.
//
func (c *Component) IsClock() bool { return c.name == NameClock }

// SetState sets the external value of an input.
//
func (c *Component) SetState(s Signal) {
	c.mustBeInput()
	c.state[0] = s
}

// Toggle toggles the state of an input. Floating inputs become True.
//
func (c *Component) Toggle() {
	c.mustBeInput()
	if c.state[0] == True {
		c.state[0] = False
	} else {
		c.state[0] = True
	}
}

// Running returns true if c is a running clock.
//
func (c *Component) Running() bool { return c.running }

// Start starts a clock and toggles its output.
//
func (c *Component) Start() {
	c.mustBeClock()
	if c.running {
		return
	}
	c.running = true
	c.Toggle()
}

// Stop stops a clock and forces its output to False.
//
func (c *Component) Stop() {
	c.mustBeClock()
	c.running = false
	c.state[0] = False
}

func (c *Component) mustBeInput() {
	if c.kind != Input {
		panic(c.name + " is not an input")
	}
}

func (c *Component) mustBeClock() {
	if !c.IsClock() {
		panic(c.name + " is not a clock")
	}
}
