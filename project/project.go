// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package project saves and loads trisim libraries to and from a directory.
//
// Each blueprint is stored as a YAML document in its own file named after the
// blueprint with a ".gate.yaml" extension. The file "tree.yaml" maps every
// blueprint name to the names of the blueprints it instantiates and gives the
// load order.
//
package project

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/db47h/trisim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File names.
//
const (
	Ext      = ".gate.yaml"
	TreeFile = "tree.yaml"
)

type point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type reference struct {
	Buffer bool `yaml:"buffer,omitempty"`
	ID     int  `yaml:"id"`
	Index  int  `yaml:"index,omitempty"`
}

type component struct {
	ID      int          `yaml:"id"`
	Kind    string       `yaml:"kind"`
	Name    string       `yaml:"name"`
	Pos     point        `yaml:"pos,flow"`
	Inputs  []*reference `yaml:"inputs,omitempty,flow"`
	Outputs string       `yaml:"outputs"`
}

type buffer struct {
	ID   int          `yaml:"id"`
	Pos  point        `yaml:"pos,flow"`
	Refs []*reference `yaml:"refs,omitempty,flow"`
}

type blueprint struct {
	Name       string      `yaml:"name"`
	Components []component `yaml:"components"`
	Buffers    []buffer    `yaml:"buffers,omitempty"`
}

func filename(dir, name string) string {
	return filepath.Join(dir, name+Ext)
}

// Save writes all blueprints of lib and the dependency tree to dir. The
// directory is created if needed.
//
func Save(dir string, lib *trisim.Library) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "save project")
	}
	for _, bp := range lib.Blueprints() {
		if err := SaveBlueprint(dir, bp); err != nil {
			return err
		}
	}
	return writeYAML(filepath.Join(dir, TreeFile), lib.DependencyTree())
}

// SaveBlueprint writes bp to its file in dir.
//
func SaveBlueprint(dir string, bp *trisim.Blueprint) error {
	return writeYAML(filename(dir, bp.Name()), encode(bp))
}

func writeYAML(path string, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, path)
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "save project")
}

func encodeRef(r trisim.Reference) *reference {
	switch r.Kind {
	case trisim.RefComponent:
		return &reference{ID: r.ID, Index: r.Index}
	case trisim.RefBuffer:
		return &reference{Buffer: true, ID: r.ID}
	}
	return nil
}

func encode(bp *trisim.Blueprint) *blueprint {
	f := &blueprint{Name: bp.Name()}
	for _, c := range bp.Components() {
		fc := component{
			ID:      c.ID(),
			Kind:    c.Kind().String(),
			Name:    c.Name(),
			Pos:     point(c.Pos()),
			Outputs: bp.StateOf(c).String(),
		}
		if c.Kind() == trisim.Input {
			fc.Outputs = c.State().String()
		}
		for _, r := range c.Inputs() {
			fc.Inputs = append(fc.Inputs, encodeRef(r))
		}
		f.Components = append(f.Components, fc)
	}
	for _, b := range bp.Buffers().Items() {
		fb := buffer{ID: b.ID(), Pos: point(b.Pos())}
		for _, r := range b.References() {
			fb.Refs = append(fb.Refs, encodeRef(r))
		}
		f.Buffers = append(f.Buffers, fb)
	}
	return f
}

// Load loads the project in dir into lib. Blueprints are loaded in dependency
// order. Blueprints whose name is already taken in lib are not loaded: the
// existing ones are used instead.
//
func Load(dir string, lib *trisim.Library) error {
	b, err := os.ReadFile(filepath.Join(dir, TreeFile))
	if err != nil {
		return errors.Wrap(err, "load project")
	}
	var tree map[string][]string
	if err = yaml.Unmarshal(b, &tree); err != nil {
		return errors.Wrap(err, TreeFile)
	}
	order, err := loadOrder(tree, lib)
	if err != nil {
		return err
	}
	for _, name := range order {
		if _, err = LoadBlueprint(dir, name, lib); err != nil {
			return err
		}
	}
	return nil
}

// loadOrder sorts the blueprints of tree that are missing from lib so that
// every blueprint comes after its dependencies. Ties are broken by name.
//
func loadOrder(tree map[string][]string, lib *trisim.Library) ([]string, error) {
	pending := make(map[string][]string)
	for n, deps := range tree {
		if !lib.IsNameFree(n) {
			continue
		}
		var ds []string
		for _, d := range deps {
			if lib.IsNameFree(d) {
				ds = append(ds, d)
			}
		}
		pending[n] = ds
	}
	var order []string
	for len(pending) > 0 {
		var ready []string
		for n, deps := range pending {
			if len(deps) == 0 {
				ready = append(ready, n)
			}
		}
		if len(ready) == 0 {
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			sort.Strings(names)
			return nil, errors.Errorf("unresolved dependencies for %v", names)
		}
		sort.Strings(ready)
		for _, n := range ready {
			delete(pending, n)
		}
		for n, deps := range pending {
			ds := deps[:0]
			for _, d := range deps {
				if !contains(ready, d) {
					ds = append(ds, d)
				}
			}
			pending[n] = ds
		}
		order = append(order, ready...)
	}
	return order, nil
}

func contains(ss []string, s string) bool {
	i := sort.SearchStrings(ss, s)
	return i < len(ss) && ss[i] == s
}

// LoadBlueprint loads the named blueprint from dir into lib. All blueprints it
// depends on must already be in lib. On error, lib is left unchanged.
//
func LoadBlueprint(dir, name string, lib *trisim.Library) (*trisim.Blueprint, error) {
	b, err := os.ReadFile(filename(dir, name))
	if err != nil {
		return nil, errors.Wrap(err, "load blueprint")
	}
	var f blueprint
	if err = yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, filename(dir, name))
	}
	if f.Name != name {
		return nil, errors.Errorf("%s: blueprint name mismatch: %q", filename(dir, name), f.Name)
	}
	bp, err := lib.New(name)
	if err != nil {
		return nil, err
	}
	if err = decode(bp, &f); err != nil {
		_ = lib.Remove(name)
		return nil, errors.Wrap(err, filename(dir, name))
	}
	return bp, nil
}

func decodeRef(r *reference, bp string) trisim.Reference {
	switch {
	case r == nil:
		return trisim.Reference{}
	case r.Buffer:
		return trisim.BufferRef(r.ID, bp)
	}
	return trisim.ComponentRef(r.ID, r.Index)
}

func decodeRefs(rs []*reference, bp string) []trisim.Reference {
	refs := make([]trisim.Reference, len(rs))
	for i, r := range rs {
		refs[i] = decodeRef(r, bp)
	}
	return refs
}

func newComponent(lib *trisim.Library, fc *component) (*trisim.Component, error) {
	pos := trisim.Point(fc.Pos)
	switch fc.Kind {
	case trisim.Input.String():
		if fc.Name == trisim.NameClock {
			return trisim.NewClock(pos), nil
		}
		return trisim.NewInput(pos), nil
	case trisim.Output.String():
		return trisim.NewOutput(pos), nil
	case trisim.Gate.String():
		return lib.NewGate(fc.Name, pos)
	}
	return nil, errors.Errorf("component %d: invalid kind %q", fc.ID, fc.Kind)
}

func decode(bp *trisim.Blueprint, f *blueprint) error {
	for i := range f.Components {
		fc := &f.Components[i]
		c, err := newComponent(bp.Library(), fc)
		if err != nil {
			return err
		}
		var outs trisim.Signals
		for _, r := range fc.Outputs {
			s, err := trisim.ParseSignal(string(r))
			if err != nil {
				return errors.Wrapf(err, "component %d", fc.ID)
			}
			outs = append(outs, s)
		}
		// a blueprint used as a custom gate may have changed since.
		if c.NumOutputs() != len(outs) || c.NumInputs() != len(fc.Inputs) {
			fc.Inputs = make([]*reference, c.NumInputs())
			outs = make(trisim.Signals, c.NumOutputs())
			for k := range outs {
				outs[k] = trisim.Floating
			}
		}
		if err = bp.Restore(c, fc.ID, decodeRefs(fc.Inputs, bp.Name()), outs); err != nil {
			return err
		}
	}
	for _, fb := range f.Buffers {
		if _, err := bp.Buffers().Restore(fb.ID, trisim.Point(fb.Pos), decodeRefs(fb.Refs, bp.Name())); err != nil {
			return err
		}
	}
	if err := bp.Validate(); err != nil {
		return err
	}
	bp.UpdateCycles()
	return nil
}
