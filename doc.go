// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package trisim evaluates hierarchical digital logic circuits with three-valued
signals: False, True and Floating.

A Library holds named Blueprints. A blueprint is a graph of Components (Input,
Output and Gate members) connected by References to component outputs or to
Buffers. Buffers are passive junctions: a buffer and the buffers it is linked
to form a single electrical node that fans its driver out to every consumer.

Gates are either primitive (b_and, b_not) or custom gates that instantiate
another blueprint of the same library. Custom gates are expanded recursively
during resolution, and each instantiation path keeps its own state in a
Memory, so that feedback loops such as latches hold their value across
resolution passes:

	lib := trisim.NewLibrary()
	bp, _ := lib.New("nand")
	// add inputs, gates and outputs, wire them with SetInput...
	out, err := bp.ResolveOutputs()

Inserting a custom gate that would make a blueprint depend on itself is
rejected with a *DependencyCycleError. Wiring loops are allowed; members that
take part in one are flagged by UpdateCycleStatus and reported by InCycle.

The hwlib package builds a standard gate library from these primitives, sim
runs a blueprint with clocks in an event loop, and project saves and loads
libraries.

*/
package trisim
