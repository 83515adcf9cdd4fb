package sim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/db47h/trisim"
	"github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	out []string
}

func (r *recorder) resolved(bp *trisim.Blueprint, out trisim.Signals, err error) {
	r.mu.Lock()
	r.out = append(r.out, out.String())
	r.mu.Unlock()
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.out) == 0 {
		return ""
	}
	return r.out[len(r.out)-1]
}

func start(t *testing.T, opts ...sim.Option) (*sim.Simulator, context.Context) {
	t.Helper()
	lib := trisim.NewLibrary()
	require.NoError(t, hwlib.Install(lib, hwlib.Nand))
	s := sim.New(lib, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.Equal(t, context.Canceled, <-done)
	})
	return s, ctx
}

// mkMain creates a "main" blueprint with a nand gate fed by a and b.
func mkMain(s *sim.Simulator) (a, b *trisim.Component, err error) {
	lib := s.Library()
	bp, err := lib.New("main")
	if err != nil {
		return nil, nil, err
	}
	a, b = trisim.NewInput(trisim.Point{X: 0}), trisim.NewClock(trisim.Point{X: 1})
	g, err := lib.NewGate(hwlib.Nand, trisim.Point{})
	if err != nil {
		return nil, nil, err
	}
	o := trisim.NewOutput(trisim.Point{})
	for _, c := range []*trisim.Component{a, b, g, o} {
		if _, err = bp.Add(c); err != nil {
			return nil, nil, err
		}
	}
	if err = bp.SetInputs(g, a.Ref(0), b.Ref(0)); err != nil {
		return nil, nil, err
	}
	if err = bp.SetInput(o, 0, g.Ref(0)); err != nil {
		return nil, nil, err
	}
	return a, b, s.Activate("main")
}

func TestSimulator(t *testing.T) {
	var rec recorder
	s, ctx := start(t, sim.OnResolved(rec.resolved), sim.WithClockPeriod(time.Hour))

	var a, clk *trisim.Component
	require.NoError(t, s.Do(ctx, func(s *sim.Simulator) (err error) {
		a, clk, err = mkMain(s)
		return err
	}))
	assert.Equal(t, "1", rec.last())

	require.NoError(t, s.Toggle(ctx, a))
	assert.Equal(t, "1", rec.last())
	require.NoError(t, s.Toggle(ctx, clk))
	assert.Equal(t, "0", rec.last())

	var passes uint64
	require.NoError(t, s.Do(ctx, func(s *sim.Simulator) error {
		passes = s.Passes()
		return nil
	}))
	assert.Equal(t, uint64(3), passes)

	// errors are reported to the caller and do not stop the loop
	assert.Error(t, s.SetActiveBlueprint(ctx, "nope"))
	assert.Error(t, s.Toggle(ctx, trisim.NewInput(trisim.Point{})))
	require.NoError(t, s.SetActiveBlueprint(ctx, "main"))
}

func TestSimulator_clock(t *testing.T) {
	var rec recorder
	s, ctx := start(t, sim.OnResolved(rec.resolved), sim.WithClockPeriod(5*time.Millisecond))

	var a, clk *trisim.Component
	require.NoError(t, s.Do(ctx, func(s *sim.Simulator) (err error) {
		a, clk, err = mkMain(s)
		if err != nil {
			return err
		}
		a.SetState(trisim.True)
		clk.Start()
		return nil
	}))
	assert.Equal(t, "0", rec.last())

	// the clock toggles by itself
	require.Eventually(t, func() bool { return rec.last() == "1" }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return rec.last() == "0" }, time.Second, time.Millisecond)

	require.NoError(t, s.Do(ctx, func(s *sim.Simulator) error {
		clk.Stop()
		return nil
	}))
	assert.Equal(t, "1", rec.last())
}

func TestSimulator_canceled(t *testing.T) {
	s := sim.New(trisim.NewLibrary(), sim.WithQueueSize(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// nobody is running the loop
	err := s.Do(ctx, func(*sim.Simulator) error { return nil })
	assert.Equal(t, context.Canceled, err)
}
