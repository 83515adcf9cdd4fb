package hwtest_test

import (
	"testing"

	"github.com/db47h/trisim"
	hl "github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/hwtest"
)

func TestCompareBlueprints(t *testing.T) {
	lib := trisim.NewLibrary()
	if err := hl.Install(lib, hl.Or); err != nil {
		t.Fatal(err)
	}
	or, err := lib.New("custom_or")
	if err != nil {
		t.Fatal(err)
	}
	a, b := trisim.NewInput(trisim.Point{X: 0}), trisim.NewInput(trisim.Point{X: 1})
	out := trisim.NewOutput(trisim.Point{})
	var nands [3]*trisim.Component
	for i := range nands {
		if nands[i], err = lib.NewGate(hl.Nand, trisim.Point{X: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range append([]*trisim.Component{a, b, out}, nands[:]...) {
		if _, err = or.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(or.SetInputs(nands[0], a.Ref(0), a.Ref(0)))
	must(or.SetInputs(nands[1], b.Ref(0), b.Ref(0)))
	must(or.SetInputs(nands[2], nands[0].Ref(0), nands[1].Ref(0)))
	must(or.SetInput(out, 0, nands[2].Ref(0)))

	ref, err := lib.Lookup(hl.Or)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CompareBlueprints(t, ref, or)
	hwtest.TruthTable(t, or, "0111")
}

func TestParseSignals(t *testing.T) {
	got := hwtest.ParseSignals("01 x,1")
	exp := trisim.Signals{trisim.False, trisim.True, trisim.Floating, trisim.True}
	if got.String() != exp.String() {
		t.Fatalf("expected %v, got %v", exp, got)
	}
}
