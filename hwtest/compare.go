// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing blueprints.
//
package hwtest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/db47h/trisim"
)

// maximum number of inputs tested exhaustively.
const maxExhaustive = 12

// inputs returns the input vector for test case i. The first input is the most
// significant bit.
func inputs(n int, i uint64) trisim.Signals {
	in := make(trisim.Signals, n)
	for bit := range in {
		in[n-bit-1] = trisim.SignalOf(i&(1<<uint(bit)) != 0)
	}
	return in
}

// ParseSignals parses a string of '0', '1' and 'x' characters into a signal
// vector. Other characters are ignored, so that "01 1x" is a valid vector.
//
func ParseSignals(s string) trisim.Signals {
	var v trisim.Signals
	for _, r := range s {
		if sig, err := trisim.ParseSignal(string(r)); err == nil {
			v = append(v, sig)
		}
	}
	return v
}

// TruthTable resolves bp for every combination of its inputs, using a fresh
// memory for each combination, and checks the outputs against results.
//
// There must be one result string per output of bp, each holding one signal
// per input combination (see ParseSignals). Combinations are enumerated in
// ascending order, the first input being the most significant bit.
//
func TruthTable(t *testing.T, bp *trisim.Blueprint, results ...string) {
	t.Helper()
	n := bp.NumInputs()
	if n > maxExhaustive {
		t.Fatalf("%s: too many inputs for a truth table: %d", bp.Name(), n)
	}
	if len(results) != bp.NumOutputs() {
		t.Fatalf("%s: got %d result strings for %d outputs", bp.Name(), len(results), bp.NumOutputs())
	}
	exp := make([]trisim.Signals, len(results))
	for o, r := range results {
		exp[o] = ParseSignals(r)
		if len(exp[o]) != 1<<uint(n) {
			t.Fatalf("%s: result %d has %d entries, expected %d", bp.Name(), o, len(exp[o]), 1<<uint(n))
		}
	}
	for i := uint64(0); i < 1<<uint(n); i++ {
		in := inputs(n, i)
		out, err := bp.Resolve(trisim.NewMemory(), in, trisim.Path{})
		if err != nil {
			t.Fatalf("%s %v: %v", bp.Name(), in, err)
		}
		for o := range out {
			if out[o] != exp[o][i] {
				t.Errorf("%s %v: output %d = %v, got %v", bp.Name(), in, o, exp[o][i], out[o])
			}
		}
	}
}

// CompareBlueprints takes two blueprints and compares their outputs given the
// same inputs. Both blueprints must have the same number of inputs and outputs.
//
// Blueprints with up to 12 inputs are tested exhaustively, others with random
// inputs. Each blueprint keeps its own memory for the whole run.
//
func CompareBlueprints(t *testing.T, bp1, bp2 *trisim.Blueprint) {
	t.Helper()
	if bp1.NumInputs() != bp2.NumInputs() {
		t.Fatalf("%s has %d inputs, %s has %d", bp1.Name(), bp1.NumInputs(), bp2.Name(), bp2.NumInputs())
	}
	if bp1.NumOutputs() != bp2.NumOutputs() {
		t.Fatalf("%s has %d outputs, %s has %d", bp1.Name(), bp1.NumOutputs(), bp2.Name(), bp2.NumOutputs())
	}

	n := bp1.NumInputs()
	m1, m2 := trisim.NewMemory(), trisim.NewMemory()
	check := func(in trisim.Signals) {
		o1, err := bp1.Resolve(m1, in, trisim.Path{})
		if err != nil {
			t.Fatalf("%s %v: %v", bp1.Name(), in, err)
		}
		o2, err := bp2.Resolve(m2, in, trisim.Path{})
		if err != nil {
			t.Fatalf("%s %v: %v", bp2.Name(), in, err)
		}
		for o := range o1 {
			if o1[o] != o2[o] {
				t.Fatalf("\nInputs %v\nExpected output %d = %v\nGot %v", in, o, o1[o], o2[o])
			}
		}
	}

	start := time.Now()
	iter := uint64(1) << maxExhaustive
	if n <= maxExhaustive {
		iter = 1 << uint(n)
		for i := uint64(0); i < iter; i++ {
			check(inputs(n, i))
		}
	} else {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		in := make(trisim.Signals, n)
		for i := uint64(0); i < iter; i++ {
			for k := range in {
				in[k] = trisim.SignalOf(r.Int63()&(1<<62) != 0)
			}
			check(in)
		}
	}
	t.Logf("%s vs. %s: %d input vectors in %v", bp1.Name(), bp2.Name(), iter, time.Since(start))
}
