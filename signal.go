// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Signal is the state of a single wire.
//
type Signal uint8

// Signal values. Floating is both the value of wires that have not been
// resolved yet and the value of wires driven by absent or inconsistent sources.
//
const (
	False Signal = iota
	True
	Floating
)

// SignalOf converts a bool to a Signal.
//
func SignalOf(b bool) Signal {
	if b {
		return True
	}
	return False
}

func (s Signal) String() string {
	switch s {
	case False:
		return "0"
	case True:
		return "1"
	case Floating:
		return "x"
	}
	return "Signal(" + strconv.Itoa(int(s)) + ")"
}

// ParseSignal parses the textual form of a signal. Accepted values are
// 0/1/x, f/t and false/true/floating, case insensitive.
//
func ParseSignal(v string) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "f", "false":
		return False, nil
	case "1", "t", "true":
		return True, nil
	case "x", "z", "floating":
		return Floating, nil
	}
	return Floating, errors.Errorf("invalid signal value %q", v)
}

// Signals is a vector of signals.
//
type Signals []Signal

func (s Signals) String() string {
	var b strings.Builder
	for _, v := range s {
		b.WriteString(v.String())
	}
	return b.String()
}

// Floats reports whether any signal in s is Floating.
//
func (s Signals) Floats() bool {
	for _, v := range s {
		if v == Floating {
			return true
		}
	}
	return false
}

func floating(n int) Signals {
	s := make(Signals, n)
	for i := range s {
		s[i] = Floating
	}
	return s
}
