// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command trisim is an interactive three-valued logic simulator.
//
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/db47h/trisim"
	"github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/internal/config"
	"github.com/db47h/trisim/internal/console"
	"github.com/db47h/trisim/project"
	"github.com/db47h/trisim/sim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// maxTableInputs bounds the size of printed truth tables.
const maxTableInputs = 12

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := newRootCmd(os.Stdin, os.Stdout, log.New(os.Stderr, "trisim: ", 0))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	in      io.Reader
	out     io.Writer
	log     *log.Logger
	cfgPath string
	cfg     *config.Config
}

func newRootCmd(in io.Reader, out io.Writer, l *log.Logger) *cobra.Command {
	a := &app{in: in, out: out, log: l}
	root := &cobra.Command{
		Use:           "trisim",
		Short:         "Three-valued digital logic simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.SetIn(in)
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to a YAML configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the interactive console",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.run(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List the blueprints of the project",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				lib, err := a.library()
				if err != nil {
					return err
				}
				for _, bp := range lib.Blueprints() {
					cmd.Printf("%s\t%d inputs, %d outputs\n", bp.Name(), bp.NumInputs(), bp.NumOutputs())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "eval blueprint [signals]",
			Short: "Resolve a blueprint once with the given inputs",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := a.blueprint(args[0])
				if err != nil {
					return err
				}
				var in trisim.Signals
				if len(args) > 1 {
					if in, err = parseSignals(args[1]); err != nil {
						return err
					}
				}
				out, err := bp.Resolve(trisim.NewMemory(), in, trisim.Path{})
				if err != nil {
					return err
				}
				cmd.Println(out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "table blueprint",
			Short: "Print the truth table of a blueprint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bp, err := a.blueprint(args[0])
				if err != nil {
					return err
				}
				return truthTable(cmd.OutOrStdout(), bp)
			},
		},
	)
	return root
}

// library builds the library described by the configuration.
func (a *app) library() (*trisim.Library, error) {
	lib := trisim.NewLibrary(trisim.WithLogger(a.log), trisim.WithFanoutCache(a.cfg.FanoutCache))
	if a.cfg.Project == "" {
		return lib, hwlib.Install(lib)
	}
	if _, err := os.Stat(a.cfg.Project); os.IsNotExist(err) {
		a.log.Printf("project %s does not exist, starting with the standard library", a.cfg.Project)
		return lib, hwlib.Install(lib)
	}
	return lib, project.Load(a.cfg.Project, lib)
}

func (a *app) blueprint(name string) (*trisim.Blueprint, error) {
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	return lib.Lookup(name)
}

func (a *app) run(ctx context.Context) error {
	lib, err := a.library()
	if err != nil {
		return err
	}
	s := sim.New(lib, sim.WithClockPeriod(a.cfg.ClockPeriod), sim.WithLogger(a.log))
	if err = s.Activate(a.cfg.Main); err != nil && !trisim.IsNotFound(err) {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	dir := a.cfg.Project
	if dir == "" {
		dir = "."
	}
	err = console.New(s, a.out, dir).Run(ctx, a.in)
	cancel()
	if serr := <-done; err == nil && serr != nil && errors.Cause(serr) != context.Canceled {
		err = serr
	}
	return err
}

func parseSignals(s string) (trisim.Signals, error) {
	v := make(trisim.Signals, 0, len(s))
	for _, r := range s {
		sg, err := trisim.ParseSignal(string(r))
		if err != nil {
			return nil, err
		}
		v = append(v, sg)
	}
	return v, nil
}

// truthTable prints one line per combination of the inputs of bp, the first
// input being the most significant bit. Every row is resolved from a fresh
// memory.
func truthTable(w io.Writer, bp *trisim.Blueprint) error {
	n := bp.NumInputs()
	if n > maxTableInputs {
		return errors.Errorf("%s: too many inputs for a truth table (%d)", bp.Name(), n)
	}
	in := make(trisim.Signals, n)
	for i := 0; i < 1<<uint(n); i++ {
		for k := range in {
			in[k] = trisim.SignalOf(i&(1<<uint(n-1-k)) != 0)
		}
		out, err := bp.Resolve(trisim.NewMemory(), in, trisim.Path{})
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintln(w, strings.TrimSpace(in.String()+" "+out.String())); err != nil {
			return err
		}
	}
	return nil
}
