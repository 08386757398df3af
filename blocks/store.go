package blocks

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrMalformed is wrapped by every error caused by an inconsistent block model.
var ErrMalformed = errors.New("malformed resistivity block model")

// Store maps mesh elements to resistivity blocks and back.
//
// Element and block indices are both dense from zero. Blocks are only ever
// appended, an element always belongs to exactly one block, and the member
// list of block b holds exactly the elements e with EToB[e] == b, in
// increasing order.
type Store struct {
	eToB   []int   // Element k belongs to block eToB[k]
	bToE   [][]int // Sorted member elements of each block
	blocks []Block // Block parameters indexed by block
}

// New builds a store from the element to block mapping and the block records.
// Neither slice is retained.
func New(eToB []int, blocks []Block) (*Store, error) {
	s := &Store{
		eToB:   slices.Clone(eToB),
		blocks: slices.Clone(blocks),
		bToE:   make([][]int, len(blocks)),
	}
	for elem, blk := range s.eToB {
		if blk < 0 || blk >= len(s.blocks) {
			return nil, fmt.Errorf("%w: resistivity block index %d of element %d is improper",
				ErrMalformed, blk, elem)
		}
		// Elements arrive in increasing order so every list stays sorted
		s.bToE[blk] = append(s.bToE[blk], elem)
	}
	for blk, b := range s.blocks {
		if !b.Type.Valid() {
			return nil, fmt.Errorf("%w: type of resistivity block %d is unknown: %d",
				ErrMalformed, blk, int(b.Type))
		}
	}
	return s, nil
}

// NumElements returns the number of mesh elements.
func (s *Store) NumElements() int {
	return len(s.eToB)
}

// NumBlocks returns the total number of resistivity blocks.
func (s *Store) NumBlocks() int {
	return len(s.blocks)
}

// BlockOf returns the block containing element elem.
func (s *Store) BlockOf(elem int) int {
	if elem < 0 || elem >= len(s.eToB) {
		panic(fmt.Sprintf("element index %d out of range [0,%d)", elem, len(s.eToB)))
	}
	return s.eToB[elem]
}

// Block returns a copy of the parameters of block blk.
func (s *Store) Block(blk int) Block {
	s.checkBlock(blk)
	return s.blocks[blk]
}

// Value returns the stored resistivity of block blk. The insulator sentinel is
// returned as is, see Resistivity for the resolved value.
func (s *Store) Value(blk int) float64 {
	s.checkBlock(blk)
	return s.blocks[blk].Value
}

// Resistivity returns the resistivity of block blk with negative values read as
// InsulatorResistivity.
func (s *Store) Resistivity(blk int) float64 {
	s.checkBlock(blk)
	return s.blocks[blk].Resistivity()
}

// Conductivity returns the conductivity of block blk, 0 for an insulator.
func (s *Store) Conductivity(blk int) float64 {
	s.checkBlock(blk)
	return s.blocks[blk].Conductivity()
}

// IsFixed reports whether the resistivity of block blk is frozen.
func (s *Store) IsFixed(blk int) bool {
	s.checkBlock(blk)
	return s.blocks[blk].Type.Fixed()
}

// Elements returns a copy of the sorted member elements of block blk.
func (s *Store) Elements(blk int) []int {
	s.checkBlock(blk)
	return slices.Clone(s.bToE[blk])
}

func (s *Store) checkBlock(blk int) {
	if blk < 0 || blk >= len(s.blocks) {
		panic(fmt.Sprintf("resistivity block index %d out of range [0,%d)", blk, len(s.blocks)))
	}
}

// ChangeResult describes what ChangeResistivity did to the block structure.
type ChangeResult struct {
	Selected int   // Distinct elements selected
	Absorbed []int // Existing blocks rewritten in place
	Created  []int // Singleton blocks appended
}

// ChangeResistivity assigns value, minValue and maxValue to every element of
// selected and fixes them as isolated blocks.
//
// A block whose members are all selected is rewritten in place, its weighting
// constant untouched. A block without members counts as fully selected, even
// for an empty selection. Blocks are examined in increasing order against
// their membership before the call. Each remaining selected element, in
// increasing order, is moved into a new singleton block appended at the end,
// with the weighting constant of the block it left.
func (s *Store) ChangeResistivity(selected []int, value, minValue, maxValue float64) ChangeResult {
	picked := make([]bool, len(s.eToB))
	var res ChangeResult
	for _, elem := range selected {
		if elem < 0 || elem >= len(s.eToB) {
			panic(fmt.Sprintf("selected element index %d out of range [0,%d)", elem, len(s.eToB)))
		}
		if !picked[elem] {
			picked[elem] = true
			res.Selected++
		}
	}

	remaining := slices.Clone(picked)
	numBlocksOrg := len(s.blocks)
	for blk := 0; blk < numBlocksOrg; blk++ {
		members := s.bToE[blk]
		if !allPicked(members, picked) {
			continue
		}
		b := &s.blocks[blk]
		b.Value, b.Min, b.Max = value, minValue, maxValue
		b.Type = FixedIsolated
		for _, elem := range members {
			remaining[elem] = false
		}
		res.Absorbed = append(res.Absorbed, blk)
	}

	for elem, split := range remaining {
		if !split {
			continue
		}
		blkOrg := s.eToB[elem]
		blk := len(s.blocks)
		s.blocks = append(s.blocks, Block{
			Value:  value,
			Min:    minValue,
			Max:    maxValue,
			Weight: s.blocks[blkOrg].Weight,
			Type:   FixedIsolated,
		})
		s.bToE[blkOrg] = removeSorted(s.bToE[blkOrg], elem)
		s.bToE = append(s.bToE, []int{elem})
		s.eToB[elem] = blk
		res.Created = append(res.Created, blk)
	}
	return res
}

// FixBlock sets the parameters of block blk and marks it fixed, keeping its
// isolated flag. This is the block level edit of the gravity center selection.
func (s *Store) FixBlock(blk int, value, minValue, maxValue float64) {
	s.checkBlock(blk)
	b := &s.blocks[blk]
	b.Value, b.Min, b.Max = value, minValue, maxValue
	b.Type = TypeOf(true, b.Type.Isolated())
}

func allPicked(members []int, picked []bool) bool {
	for _, elem := range members {
		if !picked[elem] {
			return false
		}
	}
	return true
}

func removeSorted(list []int, v int) []int {
	i, found := slices.BinarySearch(list, v)
	if !found {
		panic(fmt.Sprintf("element %d missing from its block", v))
	}
	return slices.Delete(list, i, i+1)
}

// Validate checks that the forward and reverse mappings agree.
func (s *Store) Validate() error {
	if len(s.bToE) != len(s.blocks) {
		return fmt.Errorf("%w: %d member lists for %d blocks", ErrMalformed, len(s.bToE), len(s.blocks))
	}
	count := 0
	for blk, members := range s.bToE {
		for i, elem := range members {
			if i > 0 && members[i-1] >= elem {
				return fmt.Errorf("%w: member list of block %d is not strictly increasing", ErrMalformed, blk)
			}
			if elem < 0 || elem >= len(s.eToB) {
				return fmt.Errorf("%w: block %d lists element %d out of range", ErrMalformed, blk, elem)
			}
			if s.eToB[elem] != blk {
				return fmt.Errorf("%w: block %d lists element %d which maps to block %d",
					ErrMalformed, blk, elem, s.eToB[elem])
			}
		}
		count += len(members)
	}
	if count != len(s.eToB) {
		return fmt.Errorf("%w: blocks hold %d elements, mesh has %d", ErrMalformed, count, len(s.eToB))
	}
	return nil
}

// ValidateLegacy applies the checks of the block level workflow: block 0 is
// the air and must be fixed, and at least one block must remain free.
func (s *Store) ValidateLegacy() error {
	if len(s.blocks) == 0 || !s.blocks[0].Type.Fixed() {
		return fmt.Errorf("%w: resistivity block 0 must be the air and its resistivity must be fixed",
			ErrMalformed)
	}
	if s.Stats().NumFree <= 0 {
		return fmt.Errorf("%w: total number of modifiable resistivity values is zero", ErrMalformed)
	}
	return nil
}

// Stats summarizes the block structure
type Stats struct {
	NumElements int
	NumBlocks   int
	NumFree     int
	NumFixed    int
	NumIsolated int
	NumEmpty    int // Blocks left without members after splitting
	MinElements int // Smallest non-empty block
	MaxElements int
	AvgElements float64 // Over non-empty blocks
}

// Stats computes block membership statistics.
func (s *Store) Stats() Stats {
	st := Stats{
		NumElements: len(s.eToB),
		NumBlocks:   len(s.blocks),
		MinElements: math.MaxInt32,
	}
	for blk, b := range s.blocks {
		if b.Type.Fixed() {
			st.NumFixed++
		} else {
			st.NumFree++
		}
		if b.Type.Isolated() {
			st.NumIsolated++
		}
		n := len(s.bToE[blk])
		if n == 0 {
			st.NumEmpty++
			continue
		}
		if n < st.MinElements {
			st.MinElements = n
		}
		if n > st.MaxElements {
			st.MaxElements = n
		}
	}
	if occupied := st.NumBlocks - st.NumEmpty; occupied > 0 {
		st.AvgElements = float64(st.NumElements) / float64(occupied)
	} else {
		st.MinElements = 0
	}
	return st
}
