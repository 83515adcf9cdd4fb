package hwlib_test

import (
	"testing"

	"github.com/db47h/trisim"
	hl "github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/hwtest"
	"github.com/stretchr/testify/require"
)

func newLib(t *testing.T) *trisim.Library {
	t.Helper()
	lib := trisim.NewLibrary()
	require.NoError(t, hl.Install(lib))
	return lib
}

func lookup(t *testing.T, lib *trisim.Library, name string) *trisim.Blueprint {
	t.Helper()
	bp, err := lib.Lookup(name)
	require.NoError(t, err)
	return bp
}

func Test_gates(t *testing.T) {
	lib := newLib(t)
	td := []struct {
		name   string
		result []string // a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{hl.Not, []string{"10"}},
		{hl.And, []string{"0001"}},
		{hl.Nand, []string{"1110"}},
		{hl.Or, []string{"0111"}},
		{hl.Nor, []string{"1000"}},
		{hl.Xor, []string{"0110"}},
		{hl.Xnor, []string{"1001"}},
		{hl.Mux, []string{"0001 1011"}},
		{hl.DMux, []string{"0010", "0001"}},
		{hl.HalfAdder, []string{"0110", "0001"}},
		{hl.FullAdder, []string{"0110 1001", "0001 0111"}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			hwtest.TruthTable(t, lookup(t, lib, d.name), d.result...)
		})
	}
}

func TestNand_floating(t *testing.T) {
	nand := lookup(t, newLib(t), hl.Nand)
	x, f, tr := trisim.Floating, trisim.False, trisim.True
	td := []struct {
		a, b, out trisim.Signal
	}{
		{x, x, x},
		{x, tr, x},
		{tr, x, x},
		{x, f, tr},
		{f, x, tr},
	}
	for _, d := range td {
		out, err := nand.Resolve(trisim.NewMemory(), trisim.Signals{d.a, d.b}, trisim.Path{})
		require.NoError(t, err)
		require.Equal(t, trisim.Signals{d.out}, out, "nand(%v, %v)", d.a, d.b)
	}
}

func TestInstall(t *testing.T) {
	lib := trisim.NewLibrary()
	require.NoError(t, hl.Install(lib, hl.Xnor))
	require.ElementsMatch(t, []string{hl.Nand, hl.Not, hl.Xor, hl.Xnor}, lib.Names())

	// already installed blueprints are left alone
	xor := lookup(t, lib, hl.Xor)
	require.NoError(t, hl.Install(lib, hl.Xor, hl.Or))
	require.Same(t, xor, lookup(t, lib, hl.Xor))

	err := hl.Install(lib, "bogus")
	require.Error(t, err)
	require.False(t, lib.IsNameFree(hl.Or))
	require.True(t, lib.IsNameFree("bogus"))
}

func TestNames(t *testing.T) {
	lib := newLib(t)
	require.ElementsMatch(t, hl.Names(), lib.Names())
	for _, bp := range lib.Blueprints() {
		require.Equal(t, bp.Name() == hl.SRLatch, bp.ContainsCycles(), bp.Name())
	}
}
