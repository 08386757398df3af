package blocks

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// VolumeSource provides the per element geometry needed for block centers.
type VolumeSource interface {
	NumElements() int
	GravityCenter(elem int) r3.Vec
	Volume(elem int) float64
}

// minBlockVolume is the smallest total volume accepted for a block.
const minBlockVolume = 1.0e-20

// GravityCenters returns the volume weighted center of every block.
func (s *Store) GravityCenters(m VolumeSource) ([]r3.Vec, error) {
	if m.NumElements() != len(s.eToB) {
		return nil, fmt.Errorf("mesh has %d elements, block model has %d", m.NumElements(), len(s.eToB))
	}
	centers := make([]r3.Vec, len(s.blocks))
	volumes := make([]float64, len(s.blocks))
	for elem, blk := range s.eToB {
		vol := m.Volume(elem)
		centers[blk] = r3.Add(centers[blk], r3.Scale(vol, m.GravityCenter(elem)))
		volumes[blk] += vol
	}
	for blk := range centers {
		if volumes[blk] <= minBlockVolume {
			return nil, fmt.Errorf("volume of the elements belonging to block %d is less than %g",
				blk, minBlockVolume)
		}
		centers[blk] = r3.Scale(1/volumes[blk], centers[blk])
	}
	return centers, nil
}
