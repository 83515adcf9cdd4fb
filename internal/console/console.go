// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package console implements the interactive command language of trisim.
//
// Each command line is parsed and executed in the simulator goroutine. Members
// of the active blueprint are designated by their id, buffers by a "b" prefix
// followed by their id. A signal source is either "id.index" (an output of a
// member), "id" (output 0 of a member), "bN" (a buffer) or "-" (no source).
//
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/db47h/trisim"
	"github.com/db47h/trisim/project"
	"github.com/db47h/trisim/sim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Prompt is printed before reading each command.
//
const Prompt = "--> "

// A Console executes commands against a simulator.
//
type Console struct {
	sim *sim.Simulator
	out io.Writer
	dir string
}

// New returns a new console for s. Command output goes to out. dir is the
// default project directory for the save command.
//
func New(s *sim.Simulator, out io.Writer, dir string) *Console {
	return &Console{sim: s, out: out, dir: dir}
}

// Run reads commands from r until EOF, a "quit" command, or ctx is done.
// Command errors are printed and do not stop the console.
//
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(c.out, Prompt)
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := c.Exec(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(c.out, "error:", err)
		}
	}
}

// Exec executes a single command line.
//
func (c *Console) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	return c.sim.Do(ctx, func(s *sim.Simulator) error {
		root := c.commands(s)
		root.SetArgs(args)
		return root.Execute()
	})
}

// commands builds the command tree. It is rebuilt for every command line so
// that no flag value leaks from one command to the next.
//
func (c *Console) commands(s *sim.Simulator) *cobra.Command {
	root := &cobra.Command{
		Use:           "trisim",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.out)

	lib := s.Library()
	active := func() (*trisim.Blueprint, error) {
		if bp := s.Active(); bp != nil {
			return bp, nil
		}
		return nil, errors.New("no active blueprint")
	}
	pos := func(args []string) (trisim.Point, error) {
		p := trisim.Point{X: 100, Y: 100}
		var err error
		if len(args) > 0 {
			if p.X, err = strconv.ParseFloat(args[0], 64); err != nil {
				return p, err
			}
		}
		if len(args) > 1 {
			if p.Y, err = strconv.ParseFloat(args[1], 64); err != nil {
				return p, err
			}
		}
		return p, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "list blueprints",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names := lib.Names()
				for i, n := range names {
					if bp := s.Active(); bp != nil && bp.Name() == n {
						names[i] = "*" + n
					}
				}
				cmd.Println(strings.Join(names, ", "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "mk name",
			Short: "create a new blueprint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := lib.New(args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "cd name",
			Short: "change the active blueprint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.Activate(args[0])
			},
		},
		&cobra.Command{
			Use:   "add gate [x [y]]",
			Short: "add a component to the active blueprint",
			Args:  cobra.RangeArgs(1, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				p, err := pos(args[1:])
				if err != nil {
					return err
				}
				g, err := lib.NewGate(args[0], p)
				if err != nil {
					return err
				}
				id, err := bp.Add(g)
				if err != nil {
					return err
				}
				cmd.Printf("#%d\n", id)
				return nil
			},
			DisableFlagParsing: true,
		},
		&cobra.Command{
			Use:   "rm id",
			Short: "delete a component or buffer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				if strings.HasPrefix(args[0], "b") {
					b, err := buffer(bp, args[0])
					if err != nil {
						return err
					}
					return bp.Buffers().Delete(b)
				}
				m, err := member(bp, args[0])
				if err != nil {
					return err
				}
				return bp.Delete(m)
			},
		},
		&cobra.Command{
			Use:   "wire id slot source",
			Short: "connect an input slot",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				m, err := member(bp, args[0])
				if err != nil {
					return err
				}
				slot, err := strconv.Atoi(args[1])
				if err != nil {
					return err
				}
				if slot < 0 || slot >= m.NumInputs() {
					return errors.Errorf("%s #%d has no input %d", m.Name(), m.ID(), slot)
				}
				ref, err := source(bp, args[2])
				if err != nil {
					return err
				}
				return bp.SetInput(m, slot, ref)
			},
		},
		&cobra.Command{
			Use:   "buf [x [y]]",
			Short: "create a buffer",
			Args:  cobra.MaximumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				p, err := pos(args)
				if err != nil {
					return err
				}
				cmd.Printf("b%d\n", bp.Buffers().New(p).ID())
				return nil
			},
			DisableFlagParsing: true,
		},
		&cobra.Command{
			Use:   "link buffer source",
			Short: "link a buffer to a component output or another buffer",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				b, err := buffer(bp, args[0])
				if err != nil {
					return err
				}
				ref, err := source(bp, args[1])
				if err != nil {
					return err
				}
				return b.AddReference(ref)
			},
		},
		&cobra.Command{
			Use:   "unbuf buffer source",
			Short: "remove a buffer link",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				b, err := buffer(bp, args[0])
				if err != nil {
					return err
				}
				ref, err := source(bp, args[1])
				if err != nil {
					return err
				}
				b.RemoveReference(ref)
				return nil
			},
		},
		&cobra.Command{
			Use:   "move id dx dy",
			Short: "move a component or buffer",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				d, err := pos(args[1:])
				if err != nil {
					return err
				}
				if strings.HasPrefix(args[0], "b") {
					b, err := buffer(bp, args[0])
					if err != nil {
						return err
					}
					b.Move(d)
					return nil
				}
				m, err := member(bp, args[0])
				if err != nil {
					return err
				}
				m.Move(d)
				return nil
			},
			DisableFlagParsing: true,
		},
		&cobra.Command{
			Use:   "toggle id",
			Short: "toggle an input",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				m, err := input(bp, args[0])
				if err != nil {
					return err
				}
				m.Toggle()
				return nil
			},
		},
		&cobra.Command{
			Use:       "clock id start|stop",
			Short:     "start or stop a clock",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"start", "stop"},
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				m, err := input(bp, args[0])
				if err != nil {
					return err
				}
				if !m.IsClock() {
					return errors.Errorf("%s #%d is not a clock", m.Name(), m.ID())
				}
				switch args[1] {
				case "start":
					m.Start()
				case "stop":
					m.Stop()
				default:
					return errors.Errorf("invalid clock command %q", args[1])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "eval",
			Short: "resolve the active blueprint and print its outputs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				out, err := bp.ResolveOutputs()
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "show the members and buffers of the active blueprint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := active()
				if err != nil {
					return err
				}
				show(cmd.OutOrStdout(), bp)
				return nil
			},
		},
		&cobra.Command{
			Use:   "save [dir]",
			Short: "save the project",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir := c.dir
				if len(args) > 0 {
					dir = args[0]
				}
				if dir == "" {
					return errors.New("no project directory")
				}
				return project.Save(dir, lib)
			},
		},
	)
	return root
}

func member(bp *trisim.Blueprint, s string) (*trisim.Component, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return nil, errors.Errorf("invalid component id %q", s)
	}
	return bp.Component(id)
}

func input(bp *trisim.Blueprint, s string) (*trisim.Component, error) {
	m, err := member(bp, s)
	if err != nil {
		return nil, err
	}
	if m.Kind() != trisim.Input {
		return nil, errors.Errorf("%s #%d is not an input", m.Name(), m.ID())
	}
	return m, nil
}

func buffer(bp *trisim.Blueprint, s string) (*trisim.Buffer, error) {
	if !strings.HasPrefix(s, "b") {
		return nil, errors.Errorf("invalid buffer id %q", s)
	}
	id, err := strconv.Atoi(s[1:])
	if err != nil {
		return nil, errors.Errorf("invalid buffer id %q", s)
	}
	return bp.Buffers().Get(id)
}

// source parses a signal source.
func source(bp *trisim.Blueprint, s string) (trisim.Reference, error) {
	if s == "-" {
		return trisim.Reference{}, nil
	}
	if strings.HasPrefix(s, "b") {
		b, err := buffer(bp, s)
		if err != nil {
			return trisim.Reference{}, err
		}
		return b.Ref(), nil
	}
	id, index := s, "0"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		id, index = s[:i], s[i+1:]
	}
	m, err := member(bp, id)
	if err != nil {
		return trisim.Reference{}, err
	}
	k, err := strconv.Atoi(index)
	if err != nil || k < 0 || k >= m.NumOutputs() {
		return trisim.Reference{}, errors.Errorf("invalid output %q of %s #%d", index, m.Name(), m.ID())
	}
	return m.Ref(k), nil
}

func refString(r trisim.Reference) string {
	switch r.Kind {
	case trisim.RefComponent:
		return strconv.Itoa(r.ID) + "." + strconv.Itoa(r.Index)
	case trisim.RefBuffer:
		return "b" + strconv.Itoa(r.ID)
	}
	return "-"
}

func show(w io.Writer, bp *trisim.Blueprint) {
	fmt.Fprintf(w, "%s: %d inputs, %d outputs\n", bp.Name(), bp.NumInputs(), bp.NumOutputs())
	for _, m := range bp.Components() {
		var in []string
		for _, r := range m.Inputs() {
			in = append(in, refString(r))
		}
		var flags string
		if m.InCycle() {
			flags += " cycle"
		}
		if m.Running() {
			flags += " running"
		}
		fmt.Fprintf(w, "#%d %s (%g, %g) [%s] -> %v%s\n", m.ID(), m.Name(), m.Pos().X, m.Pos().Y,
			strings.Join(in, " "), bp.StateOf(m), flags)
	}
	for _, b := range bp.Buffers().Items() {
		var refs []string
		for _, r := range b.References() {
			refs = append(refs, refString(r))
		}
		fmt.Fprintf(w, "b%d (%g, %g) [%s]\n", b.ID(), b.Pos().X, b.Pos().Y, strings.Join(refs, " "))
	}
}
