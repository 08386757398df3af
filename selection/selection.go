// Package selection picks the part of a resistivity model lying inside a
// region and within a resistivity range, and overwrites it.
//
// Two workflows are supported. Element mode tests the center of every element
// and splits partially selected blocks so that only the selected elements
// change. Block mode tests the volume weighted center of every block and
// edits whole blocks.
package selection

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/notargets/blockmod/blocks"
	"github.com/notargets/blockmod/mesh"
	"github.com/notargets/blockmod/region"
)

// Mode selects the workflow.
type Mode int

const (
	ElementMode Mode = iota
	BlockMode
)

func (m Mode) String() string {
	switch m {
	case ElementMode:
		return "element"
	case BlockMode:
		return "block"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts "element" or "block".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "element", "":
		return ElementMode, nil
	case "block":
		return BlockMode, nil
	}
	return 0, fmt.Errorf("unknown selection mode %q, expected element or block", s)
}

// Filter decides which part of the model is selected.
type Filter struct {
	Region               *region.Region
	MinSelect, MaxSelect float64 // Inclusive resistivity range [Ohm-m]
}

func (f Filter) inRange(v float64) bool {
	return v >= f.MinSelect && v <= f.MaxSelect
}

// Replacement is written into every selected block.
type Replacement struct {
	Value, Min, Max float64
}

// Report summarizes a run.
type Report struct {
	Mode      Mode
	Selected  int // Elements in element mode, blocks in block mode
	Absorbed  int // Blocks rewritten in place
	Created   int // Blocks appended by splitting
	NumBlocks int // Block count after the run
}

// Driver runs the selection workflows.
type Driver struct {
	logger *zap.Logger
}

// NewDriver creates a driver logging to logger, which may be nil.
func NewDriver(logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{logger: logger}
}

// SelectElements returns, in increasing order, the elements of free blocks
// whose center lies in the region and whose block value is in range.
func SelectElements(store *blocks.Store, m mesh.Mesh, f Filter) []int {
	var selected []int
	for elem := 0; elem < store.NumElements(); elem++ {
		blk := store.BlockOf(elem)
		if store.IsFixed(blk) {
			continue
		}
		if f.Region.Contains(m.Center(elem)) && f.inRange(store.Value(blk)) {
			selected = append(selected, elem)
		}
	}
	return selected
}

// Run selects elements and applies the replacement to all of them at once.
func (d *Driver) Run(store *blocks.Store, m mesh.Mesh, f Filter, r Replacement) (Report, error) {
	if err := checkSizes(store, m.NumElements()); err != nil {
		return Report{}, err
	}
	d.logger.Debug("selecting elements", zap.Stringer("region", f.Region),
		zap.Float64("min", f.MinSelect), zap.Float64("max", f.MaxSelect))

	selected := SelectElements(store, m, f)
	res := store.ChangeResistivity(selected, r.Value, r.Min, r.Max)
	if err := store.Validate(); err != nil {
		return Report{}, err
	}
	rep := Report{
		Mode:      ElementMode,
		Selected:  res.Selected,
		Absorbed:  len(res.Absorbed),
		Created:   len(res.Created),
		NumBlocks: store.NumBlocks(),
	}
	d.logger.Debug("blocks changed", zap.Ints("absorbed", res.Absorbed), zap.Ints("created", res.Created))
	d.logger.Info("Number of the selected elements", zap.Int("count", rep.Selected),
		zap.Int("absorbed", rep.Absorbed), zap.Int("created", rep.Created),
		zap.Int("blocks", rep.NumBlocks))
	return rep, nil
}

// RunBlocks fixes every free block whose gravity center lies in the region and
// whose resistivity is in range. Insulating blocks count as 1e20 Ohm-m.
func (d *Driver) RunBlocks(store *blocks.Store, m blocks.VolumeSource, f Filter, r Replacement) (Report, error) {
	if err := checkSizes(store, m.NumElements()); err != nil {
		return Report{}, err
	}
	if err := store.ValidateLegacy(); err != nil {
		return Report{}, err
	}
	centers, err := store.GravityCenters(m)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Mode: BlockMode}
	for blk, c := range centers {
		if store.IsFixed(blk) || !f.Region.Contains(c) || !f.inRange(store.Resistivity(blk)) {
			continue
		}
		store.FixBlock(blk, r.Value, r.Min, r.Max)
		d.logger.Debug("block fixed", zap.Int("block", blk),
			zap.Float64s("center", []float64{c.X, c.Y, c.Z}))
		rep.Selected++
	}
	rep.Absorbed = rep.Selected
	rep.NumBlocks = store.NumBlocks()
	d.logger.Info("Number of the selected blocks", zap.Int("count", rep.Selected))
	return rep, nil
}

func checkSizes(store *blocks.Store, numElements int) error {
	if numElements != store.NumElements() {
		return fmt.Errorf("mesh has %d elements, block model has %d", numElements, store.NumElements())
	}
	return nil
}
