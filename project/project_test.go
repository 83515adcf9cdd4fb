package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/trisim"
	hl "github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/hwtest"
	"github.com/db47h/trisim/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkMain adds a blueprint "main" wrapping an srlatch and resolves it once with
// the latch set.
func mkMain(t *testing.T, lib *trisim.Library) *trisim.Blueprint {
	t.Helper()
	require.NoError(t, hl.Install(lib))
	bp, err := lib.New("main")
	require.NoError(t, err)
	add := func(c *trisim.Component) *trisim.Component {
		_, err := bp.Add(c)
		require.NoError(t, err)
		return c
	}
	sn := add(trisim.NewInput(trisim.Point{X: 0}))
	rn := add(trisim.NewInput(trisim.Point{X: 1}))
	clk := add(trisim.NewClock(trisim.Point{X: 2}))
	l, err := lib.NewGate(hl.SRLatch, trisim.Point{X: 50})
	require.NoError(t, err)
	add(l)
	bf := bp.Buffers().New(trisim.Point{X: 60})
	require.NoError(t, bf.AddReference(l.Ref(0)))
	q := add(trisim.NewOutput(trisim.Point{X: 0, Y: 100}))
	qn := add(trisim.NewOutput(trisim.Point{X: 1, Y: 100}))
	require.NoError(t, bp.SetInputs(l, sn.Ref(0), rn.Ref(0)))
	require.NoError(t, bp.SetInput(q, 0, bf.Ref()))
	require.NoError(t, bp.SetInput(qn, 0, l.Ref(1)))
	_ = clk

	rn.SetState(trisim.True)
	out, err := bp.ResolveOutputs()
	require.NoError(t, err)
	require.Equal(t, "10", out.String())
	return bp
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	lib := trisim.NewLibrary()
	main := mkMain(t, lib)
	require.NoError(t, project.Save(dir, lib))

	for _, n := range lib.Names() {
		assert.FileExists(t, filepath.Join(dir, n+project.Ext))
	}
	assert.FileExists(t, filepath.Join(dir, project.TreeFile))

	loaded := trisim.NewLibrary()
	require.NoError(t, project.Load(dir, loaded))
	assert.ElementsMatch(t, lib.Names(), loaded.Names())
	assert.Equal(t, lib.DependencyTree(), loaded.DependencyTree())

	for _, n := range hl.Names() {
		a, err := lib.Lookup(n)
		require.NoError(t, err)
		b, err := loaded.Lookup(n)
		require.NoError(t, err)
		hwtest.CompareBlueprints(t, a, b)
	}

	m, err := loaded.Lookup("main")
	require.NoError(t, err)
	assert.Equal(t, main.Len(), m.Len())
	assert.Equal(t, main.Edges(), m.Edges())
	for _, c := range main.Components() {
		lc, err := m.Component(c.ID())
		require.NoError(t, err)
		assert.Equal(t, c.Name(), lc.Name())
		assert.Equal(t, c.Pos(), lc.Pos())
		assert.Equal(t, main.StateOf(c), m.StateOf(lc), "component %d", c.ID())
	}
	assert.True(t, m.InputComponents()[2].IsClock())
	assert.Equal(t, "1", m.InputComponents()[1].State().String())

	// new ids continue after restored ones
	id, err := m.Add(trisim.NewAnd(trisim.Point{}))
	require.NoError(t, err)
	assert.Equal(t, main.Len(), id)
}

func TestLoad_existing(t *testing.T) {
	dir := t.TempDir()
	lib := trisim.NewLibrary()
	mkMain(t, lib)
	require.NoError(t, project.Save(dir, lib))

	loaded := trisim.NewLibrary()
	require.NoError(t, hl.Install(loaded, hl.Nand, hl.Not))
	nand, err := loaded.Lookup(hl.Nand)
	require.NoError(t, err)
	require.NoError(t, project.Load(dir, loaded))
	n, err := loaded.Lookup(hl.Nand)
	require.NoError(t, err)
	assert.Same(t, nand, n)
	assert.ElementsMatch(t, lib.Names(), loaded.Names())
}

func TestLoad_errors(t *testing.T) {
	dir := t.TempDir()
	lib := trisim.NewLibrary()
	assert.Error(t, project.Load(dir, lib), "no tree file")

	require.NoError(t, os.WriteFile(filepath.Join(dir, project.TreeFile), []byte("a: [b]\nb: [a]\n"), 0644))
	assert.Error(t, project.Load(dir, lib), "dependency loop")

	require.NoError(t, os.WriteFile(filepath.Join(dir, project.TreeFile), []byte("a: []\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"+project.Ext), []byte(`
name: a
components:
  - {id: 0, kind: output, name: output, pos: {x: 0, y: 0}, inputs: [{id: 3}], outputs: x}
`), 0644))
	assert.Error(t, project.Load(dir, lib), "dangling reference")
	assert.True(t, lib.IsNameFree("a"))
}
