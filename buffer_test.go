package trisim_test

import (
	"testing"

	"github.com/db47h/trisim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_links(t *testing.T) {
	lib := trisim.NewLibrary()
	bp, err := lib.New("bp")
	require.NoError(t, err)
	net := bp.Buffers()
	b0, b1, b2 := net.New(trisim.Point{}), net.New(trisim.Point{}), net.New(trisim.Point{})
	require.NoError(t, b0.AddReference(b1.Ref()))
	require.NoError(t, b1.AddReference(b2.Ref()))

	// links are symmetric
	assert.Contains(t, b1.References(), b0.Ref())
	assert.Contains(t, b2.References(), b1.Ref())
	assert.Equal(t, []*trisim.Buffer{b2, b1, b0}, b2.Connected())

	_, ok := b0.Driver()
	assert.False(t, ok)
	in := input(t, bp, 0)
	require.NoError(t, b2.AddReference(in.Ref(0)))
	d, ok := b0.Driver()
	assert.True(t, ok)
	assert.Equal(t, in.Ref(0), d)

	b1.RemoveReference(b0.Ref())
	assert.NotContains(t, b0.References(), b1.Ref())
	assert.Equal(t, []*trisim.Buffer{b0}, b0.Connected())

	assert.Error(t, b0.AddReference(b0.Ref()))
	assert.Error(t, b0.AddReference(trisim.Reference{}))
	assert.Error(t, b0.AddReference(trisim.BufferRef(42, "bp")))
	assert.Error(t, b0.AddReference(trisim.ComponentRef(42, 0)))
}

func TestBuffers_Delete(t *testing.T) {
	p := newNand(t, trisim.NewLibrary(), "nand")
	net := p.bp.Buffers()
	require.NoError(t, net.Delete(p.b1))
	assert.Empty(t, p.b2.References())
	assert.Equal(t, p.b2.Ref(), p.not.Input(0))
	require.NoError(t, net.Delete(p.b2))
	assert.True(t, p.not.Input(0).IsNil())
	assert.Equal(t, 0, net.Len())

	_, err := net.Get(p.b1.ID())
	assert.True(t, trisim.IsNotFound(err))

	// unconnected NOT gate
	out, err := p.bp.ResolveOutputs()
	require.NoError(t, err)
	assert.Equal(t, "x", out.String())

	b := net.New(trisim.Point{})
	assert.Equal(t, 2, b.ID(), "buffer ids are never reused")
}

func TestBuffers_Restore(t *testing.T) {
	lib := trisim.NewLibrary()
	bp, err := lib.New("bp")
	require.NoError(t, err)
	net := bp.Buffers()
	b3, err := net.Restore(3, trisim.Point{X: 1}, []trisim.Reference{trisim.BufferRef(5, "bp")})
	require.NoError(t, err)
	b5, err := net.Restore(5, trisim.Point{X: 2}, []trisim.Reference{trisim.BufferRef(3, "bp")})
	require.NoError(t, err)
	assert.Equal(t, []*trisim.Buffer{b3, b5}, b3.Connected())

	_, err = net.Restore(5, trisim.Point{}, nil)
	assert.Error(t, err)
	assert.Equal(t, 6, net.New(trisim.Point{}).ID())
}

// Two drivers in the same group both feed the group's consumers.
func TestBuffer_multipleDrivers(t *testing.T) {
	lib := trisim.NewLibrary()
	bp, err := lib.New("bp")
	require.NoError(t, err)
	a, b := input(t, bp, 0), input(t, bp, 1)
	bf := bp.Buffers().New(trisim.Point{})
	require.NoError(t, bf.AddReference(a.Ref(0)))
	require.NoError(t, bf.AddReference(b.Ref(0)))
	o := output(t, bp, 0, bf.Ref())

	d, ok := bf.Driver()
	require.True(t, ok)
	assert.Equal(t, a.Ref(0), d)

	// the output takes the last value received
	a.SetState(trisim.False)
	b.SetState(trisim.True)
	out, err := bp.ResolveOutputs()
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())
	assert.Equal(t, out, bp.StateOf(o))
}
