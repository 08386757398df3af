package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/blockmod/blocks"
	"github.com/notargets/blockmod/mesh"
	"github.com/notargets/blockmod/region"
)

// lineMesh places unit volume elements along the x axis.
type lineMesh struct {
	centers []r3.Vec
}

func newLineMesh(n int) lineMesh {
	m := lineMesh{centers: make([]r3.Vec, n)}
	for i := range m.centers {
		m.centers[i] = r3.Vec{X: float64(i)}
	}
	return m
}

func (m lineMesh) Geometry() mesh.ElementGeometry { return mesh.Tet }
func (m lineMesh) NumElements() int               { return len(m.centers) }
func (m lineMesh) Center(elem int) r3.Vec         { return m.centers[elem] }
func (m lineMesh) GravityCenter(elem int) r3.Vec  { return m.centers[elem] }
func (m lineMesh) Volume(elem int) float64        { return 1 }

// sixElementStore: the air block 0 holds element 0, free blocks 1 and 2 hold
// two elements each, free block 3 holds element 5.
func sixElementStore(t *testing.T, lastValue float64) *blocks.Store {
	t.Helper()
	s, err := blocks.New([]int{0, 1, 1, 2, 2, 3}, []blocks.Block{
		{Value: -1, Min: 1, Max: 1e4, Weight: 1, Type: blocks.FixedIsolated},
		{Value: 100, Min: 1, Max: 1e4, Weight: 2, Type: blocks.FreeConstrained},
		{Value: 100, Min: 1, Max: 1e4, Weight: 3, Type: blocks.FreeConstrained},
		{Value: lastValue, Min: 1, Max: 1e4, Weight: 4, Type: blocks.FreeIsolated},
	})
	require.NoError(t, err)
	return s
}

// alongX returns a filter selecting x in [x0, x1] on the axis.
func alongX(t *testing.T, x0, x1, minSel, maxSel float64) Filter {
	t.Helper()
	r, err := region.New(region.Cuboid, r3.Vec{X: (x1 - x0) / 2, Y: 1, Z: 1}, r3.Vec{X: (x0 + x1) / 2}, 0)
	require.NoError(t, err)
	return Filter{Region: r, MinSelect: minSel, MaxSelect: maxSel}
}

var replacement = Replacement{Value: 10, Min: 5, Max: 20}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Block")
	require.NoError(t, err)
	assert.Equal(t, BlockMode, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ElementMode, m)
	_, err = ParseMode("cells")
	assert.Error(t, err)
	assert.Equal(t, "element", ElementMode.String())
	assert.Equal(t, "Mode(4)", Mode(4).String())
}

func TestSelectElementsSkipsFixedAndOutOfRange(t *testing.T) {
	s := sixElementStore(t, 5000)
	got := SelectElements(s, newLineMesh(6), alongX(t, 0, 5, 1, 1000))
	assert.Equal(t, []int{1, 2, 3, 4}, got)

	// Range bounds are inclusive
	got = SelectElements(s, newLineMesh(6), alongX(t, 0, 5, 100, 100))
	assert.Equal(t, []int{1, 2, 3, 4}, got)

	assert.Empty(t, SelectElements(s, newLineMesh(6), alongX(t, 10, 20, 1, 1e4)))
}

func TestRunAbsorbsAndSplits(t *testing.T) {
	s := sixElementStore(t, 5000)
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDriver(zap.New(core))

	rep, err := d.Run(s, newLineMesh(6), alongX(t, 0, 3, 1, 1000), replacement)
	require.NoError(t, err)
	assert.Equal(t, Report{Mode: ElementMode, Selected: 3, Absorbed: 1, Created: 1, NumBlocks: 5}, rep)

	// Block 1 rewritten in place, element 3 moved out of block 2
	assert.Equal(t, blocks.Block{Value: 10, Min: 5, Max: 20, Weight: 2, Type: blocks.FixedIsolated}, s.Block(1))
	assert.Equal(t, blocks.Block{Value: 10, Min: 5, Max: 20, Weight: 3, Type: blocks.FixedIsolated}, s.Block(4))
	assert.Equal(t, []int{4}, s.Elements(2))
	assert.Equal(t, 4, s.BlockOf(3))
	assert.Equal(t, 100.0, s.Value(2))

	require.Equal(t, 1, logs.FilterMessage("Number of the selected elements").Len())

	// The selected elements are fixed now and a second run changes nothing
	rep, err = d.Run(s, newLineMesh(6), alongX(t, 0, 3, 1, 1000), replacement)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Selected)
	assert.Equal(t, 5, rep.NumBlocks)
}

func TestRunSizeMismatch(t *testing.T) {
	s := sixElementStore(t, 5000)
	_, err := NewDriver(nil).Run(s, newLineMesh(5), alongX(t, 0, 5, 1, 1000), replacement)
	assert.ErrorContains(t, err, "mesh has 5 elements, block model has 6")
	_, err = NewDriver(nil).RunBlocks(s, newLineMesh(7), alongX(t, 0, 5, 1, 1000), replacement)
	assert.ErrorContains(t, err, "mesh has 7 elements")
}

func TestRunBlocksUsesGravityCenters(t *testing.T) {
	s := sixElementStore(t, 5000)
	// Block centers: 0, 1.5, 3.5, 5
	rep, err := NewDriver(nil).RunBlocks(s, newLineMesh(6), alongX(t, 0, 3, 1, 1000), replacement)
	require.NoError(t, err)
	assert.Equal(t, Report{Mode: BlockMode, Selected: 1, Absorbed: 1, NumBlocks: 4}, rep)

	// Fixed flag set, isolation and weight kept
	assert.Equal(t, blocks.Block{Value: 10, Min: 5, Max: 20, Weight: 2, Type: blocks.FixedConstrained}, s.Block(1))
	assert.False(t, s.IsFixed(2))
	assert.Equal(t, []int{1, 2}, s.Elements(1))
}

func TestRunBlocksInsulatorResistivity(t *testing.T) {
	// A free insulating block compares as 1e20 Ohm-m
	s := sixElementStore(t, -1)
	f := alongX(t, 4.5, 5.5, 1e19, 1e21)
	rep, err := NewDriver(nil).RunBlocks(s, newLineMesh(6), f, replacement)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Selected)
	assert.Equal(t, blocks.FixedIsolated, s.Block(3).Type)
	assert.Equal(t, 10.0, s.Value(3))
}

func TestRunBlocksRequiresFixedAir(t *testing.T) {
	s, err := blocks.New([]int{0, 1}, []blocks.Block{
		{Value: 100, Weight: 1, Type: blocks.FreeConstrained},
		{Value: 100, Weight: 1, Type: blocks.FreeConstrained},
	})
	require.NoError(t, err)
	_, err = NewDriver(nil).RunBlocks(s, newLineMesh(2), alongX(t, 0, 1, 1, 1000), replacement)
	assert.True(t, errors.Is(err, blocks.ErrMalformed))
	assert.ErrorContains(t, err, "block 0 must be the air")
}
