// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim runs a trisim library in a single goroutine.
//
// A Simulator owns a library and its active blueprint. All edits and resolution
// passes happen in the goroutine running Simulator.Run: other goroutines post
// events (input toggles, commands) to its queue, and a running clock posts
// toggle events periodically. Each event is followed by a full resolution pass
// of the active blueprint.
//
package sim

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/db47h/trisim"
	"github.com/pkg/errors"
)

// DefaultClockPeriod is the default toggle period of clocks.
//
const DefaultClockPeriod = time.Second

// EventKind is the type of an Event.
//
type EventKind int

// Event kinds.
//
const (
	Toggle     EventKind = iota // toggle an input
	ClockTick                   // toggle all running clocks of the active blueprint
	Command                     // run a function in the simulator goroutine
	SetActive                   // change the active blueprint
)

func (k EventKind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case ClockTick:
		return "clock tick"
	case Command:
		return "command"
	case SetActive:
		return "set active"
	}
	return "unknown event"
}

// An Event is a stimulus processed by the simulator goroutine.
//
type Event struct {
	Kind EventKind
	// Input to toggle.
	Target *trisim.Component
	// Blueprint name for SetActive events.
	Name string
	// Command function.
	Fn func(s *Simulator) error

	done chan<- error
}

// ResolvedFunc is called after each resolution pass with the active blueprint,
// its outputs in interface order, and the resolution error if any.
//
type ResolvedFunc func(bp *trisim.Blueprint, out trisim.Signals, err error)

// Simulator is an event loop around a library.
//
type Simulator struct {
	lib        *trisim.Library
	active     *trisim.Blueprint
	events     chan Event
	period     time.Duration
	onResolved ResolvedFunc
	log        *log.Logger
	passes     uint64
}

// An Option configures a Simulator.
//
type Option func(*Simulator)

// WithClockPeriod sets the clock toggle period. Values <= 0 select
// DefaultClockPeriod.
//
func WithClockPeriod(d time.Duration) Option {
	return func(s *Simulator) {
		if d <= 0 {
			d = DefaultClockPeriod
		}
		s.period = d
	}
}

// WithLogger sets the logger used to report failed events.
//
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// OnResolved sets the function called after each resolution pass.
//
func OnResolved(fn ResolvedFunc) Option {
	return func(s *Simulator) { s.onResolved = fn }
}

// WithQueueSize sets the capacity of the event queue.
//
func WithQueueSize(n int) Option {
	return func(s *Simulator) {
		if n >= 0 {
			s.events = make(chan Event, n)
		}
	}
}

// New returns a new simulator for lib. The active blueprint is initially nil.
//
func New(lib *trisim.Library, opts ...Option) *Simulator {
	s := &Simulator{
		lib:    lib,
		events: make(chan Event, 64),
		period: DefaultClockPeriod,
		log:    log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Library returns the simulated library. It must only be used from the
// simulator goroutine, i.e. from command functions.
//
func (s *Simulator) Library() *trisim.Library { return s.lib }

// Active returns the active blueprint. It must only be used from the
// simulator goroutine.
//
func (s *Simulator) Active() *trisim.Blueprint { return s.active }

// Passes returns the number of resolution passes run so far. It must only be
// used from the simulator goroutine.
//
func (s *Simulator) Passes() uint64 { return s.passes }

// Activate makes the named blueprint the active one. It must only be used
// from the simulator goroutine.
//
func (s *Simulator) Activate(name string) error {
	bp, err := s.lib.Lookup(name)
	if err != nil {
		return err
	}
	s.active = bp
	return nil
}

// Post adds e to the event queue. It blocks if the queue is full and returns
// ctx.Err() if ctx is done first.
//
func (s *Simulator) Post(ctx context.Context, e Event) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn in the simulator goroutine and waits for its completion. The
// resolution pass following fn has completed when Do returns.
//
func (s *Simulator) Do(ctx context.Context, fn func(s *Simulator) error) error {
	return s.wait(ctx, Event{Kind: Command, Fn: fn})
}

// Toggle toggles input c of the active blueprint and waits for the next
// resolution pass.
//
func (s *Simulator) Toggle(ctx context.Context, c *trisim.Component) error {
	return s.wait(ctx, Event{Kind: Toggle, Target: c})
}

// SetActiveBlueprint changes the active blueprint.
//
func (s *Simulator) SetActiveBlueprint(ctx context.Context, name string) error {
	return s.wait(ctx, Event{Kind: SetActive, Name: name})
}

func (s *Simulator) wait(ctx context.Context, e Event) error {
	done := make(chan error, 1)
	e.done = done
	if err := s.Post(ctx, e); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is done. It always returns a non-nil error,
// ctx.Err() on normal termination.
//
func (s *Simulator) Run(ctx context.Context) error {
	clk := time.NewTicker(s.period)
	defer clk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-s.events:
			s.handle(e)
		case <-clk.C:
			if s.hasRunningClock() {
				s.handle(Event{Kind: ClockTick})
			}
		}
	}
}

func (s *Simulator) handle(e Event) {
	err := s.apply(e)
	if err != nil {
		s.log.Printf("%v event: %v", e.Kind, err)
	}
	if e.done != nil {
		e.done <- err
	}
}

func (s *Simulator) apply(e Event) error {
	switch e.Kind {
	case Toggle:
		if e.Target == nil || e.Target.Kind() != trisim.Input {
			return errors.New("toggle target is not an input")
		}
		if e.Target.Blueprint() != s.active {
			return errors.Errorf("%s #%d is not in the active blueprint", e.Target.Name(), e.Target.ID())
		}
		e.Target.Toggle()
	case ClockTick:
		if s.active == nil {
			return nil
		}
		for _, c := range s.active.InputComponents() {
			if c.Running() {
				c.Toggle()
			}
		}
	case Command:
		if e.Fn == nil {
			return errors.New("nil command")
		}
		if err := e.Fn(s); err != nil {
			return err
		}
	case SetActive:
		if err := s.Activate(e.Name); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown event kind %d", e.Kind)
	}
	return s.resolve()
}

func (s *Simulator) resolve() error {
	if s.active == nil {
		return nil
	}
	out, err := s.active.ResolveOutputs()
	s.passes++
	if s.onResolved != nil {
		s.onResolved(s.active, out, err)
	}
	return err
}

func (s *Simulator) hasRunningClock() bool {
	if s.active == nil {
		return false
	}
	for _, c := range s.active.InputComponents() {
		if c.Running() {
			return true
		}
	}
	return false
}
