// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import (
	"io"
	"log"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultFanoutCacheSize is the default number of fan-out indexes kept by a
// Library.
//
const DefaultFanoutCacheSize = 256

// A Library is the registry of blueprints. Blueprint names share a single
// namespace with the primitive names.
//
// A Library and everything it owns must be accessed by one goroutine at a time.
// See package sim for an event loop serializing edits and resolution passes.
//
type Library struct {
	bps     map[string]*Blueprint
	names   []string
	fanouts *lru.Cache[fanoutKey, fanout]
	log     *log.Logger
}

// An Option configures a Library.
//
type Option func(*Library)

// WithLogger sets the logger used to report rejected edits and interface
// changes. By default, nothing is logged.
//
func WithLogger(l *log.Logger) Option {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// WithFanoutCache sets the number of fan-out indexes cached by the library.
// Each blueprint being evaluated needs one entry per structural revision.
//
func WithFanoutCache(size int) Option {
	return func(lib *Library) {
		if size <= 0 {
			size = DefaultFanoutCacheSize
		}
		c, err := lru.New[fanoutKey, fanout](size)
		if err != nil {
			panic(err)
		}
		lib.fanouts = c
	}
}

// NewLibrary returns a new empty library.
//
func NewLibrary(opts ...Option) *Library {
	lib := &Library{
		bps: make(map[string]*Blueprint),
		log: log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(lib)
	}
	if lib.fanouts == nil {
		WithFanoutCache(DefaultFanoutCacheSize)(lib)
	}
	return lib
}

// IsNameFree returns true if name can be used for a new blueprint.
//
func (l *Library) IsNameFree(name string) bool {
	if IsPrimitive(name) {
		return false
	}
	_, ok := l.bps[name]
	return !ok
}

// New creates a new empty blueprint.
//
func (l *Library) New(name string) (*Blueprint, error) {
	if name == "" {
		return nil, errors.New("empty blueprint name")
	}
	if !l.IsNameFree(name) {
		return nil, errors.WithStack(&NameCollisionError{Name: name})
	}
	bp := newBlueprint(l, name)
	l.bps[name] = bp
	l.names = append(l.names, name)
	return bp, nil
}

// Lookup returns the blueprint with the given name.
//
func (l *Library) Lookup(name string) (*Blueprint, error) {
	bp, ok := l.bps[name]
	if !ok {
		return nil, errors.WithStack(&NotFoundError{What: "blueprint", Name: name})
	}
	return bp, nil
}

// Names returns the blueprint names in creation order.
//
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

// Blueprints returns all blueprints in creation order.
//
func (l *Library) Blueprints() []*Blueprint {
	bps := make([]*Blueprint, len(l.names))
	for i, n := range l.names {
		bps[i] = l.bps[n]
	}
	return bps
}

// Remove removes the named blueprint from the library. It fails if any other
// blueprint still uses it as a custom gate.
//
func (l *Library) Remove(name string) error {
	bp, err := l.Lookup(name)
	if err != nil {
		return err
	}
	if len(bp.instances) > 0 {
		users := make([]string, 0, len(bp.instances))
		for _, c := range bp.instances {
			users = append(users, c.owner.name)
		}
		sort.Strings(users)
		return errors.Errorf("blueprint %q is used by %v", name, users)
	}
	// drop our own instances so that their masters forget about them.
	for _, c := range bp.Components() {
		if c.master != nil {
			c.master.unsubscribe(c)
		}
	}
	delete(l.bps, name)
	for i, n := range l.names {
		if n == name {
			l.names = append(l.names[:i], l.names[i+1:]...)
			break
		}
	}
	return nil
}

// NewGate returns a new gate for the given name: one of the primitive gate
// names or the name of a blueprint in l.
//
func (l *Library) NewGate(name string, pos Point) (*Component, error) {
	switch name {
	case NameAnd:
		return NewAnd(pos), nil
	case NameNot:
		return NewNot(pos), nil
	case NameInput:
		return NewInput(pos), nil
	case NameOutput:
		return NewOutput(pos), nil
	case NameClock:
		return NewClock(pos), nil
	}
	bp, err := l.Lookup(name)
	if err != nil {
		return nil, err
	}
	return newCustom(bp, pos), nil
}

// DependencyTree returns the direct dependencies of every blueprint.
//
func (l *Library) DependencyTree() map[string][]string {
	t := make(map[string][]string, len(l.bps))
	for n, bp := range l.bps {
		t[n] = bp.Dependencies()
	}
	return t
}
