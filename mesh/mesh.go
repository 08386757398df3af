// Package mesh reads the element geometry of the forward modelling mesh and
// exposes what the block editor needs from it: element count, element center
// and, for the block level workflow, element volume and gravity center.
package mesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnsupportedMesh is returned when a mesh file has an unknown type header.
var ErrUnsupportedMesh = errors.New("unsupported mesh type")

// ElementGeometry identifies the shape of the mesh elements
type ElementGeometry uint8

const (
	Tet ElementGeometry = iota // Tetrahedron
	Hex                        // Hexahedron, possibly non-conforming
)

// BinaryName is the element type name written into binary exports.
func (g ElementGeometry) BinaryName() string {
	switch g {
	case Tet:
		return "tetra4"
	case Hex:
		return "hexa8"
	}
	return fmt.Sprintf("ElementGeometry(%d)", uint8(g))
}

func (g ElementGeometry) String() string {
	switch g {
	case Tet:
		return "Tet"
	case Hex:
		return "Hex"
	}
	return fmt.Sprintf("ElementGeometry(%d)", uint8(g))
}

// Mesh is the element level view used for selecting elements.
type Mesh interface {
	Geometry() ElementGeometry
	NumElements() int
	// Center returns the mean of the element vertices.
	Center(elem int) r3.Vec
}

// VolumeMesh adds volume information, used to build block gravity centers.
type VolumeMesh interface {
	Mesh
	GravityCenter(elem int) r3.Vec
	Volume(elem int) float64
}

// elements holds vertex coordinates and element to vertex connectivity,
// shared by all mesh variants.
type elements struct {
	Vertices []r3.Vec
	EToV     [][]int // Vertex indices of each element
}

func (el *elements) NumElements() int {
	return len(el.EToV)
}

// Center returns the mean of the element vertices.
func (el *elements) Center(elem int) r3.Vec {
	var c r3.Vec
	verts := el.EToV[elem]
	for _, v := range verts {
		c = r3.Add(c, el.Vertices[v])
	}
	return r3.Scale(1/float64(len(verts)), c)
}

func (el *elements) corners(elem int) []r3.Vec {
	verts := el.EToV[elem]
	pts := make([]r3.Vec, len(verts))
	for i, v := range verts {
		pts[i] = el.Vertices[v]
	}
	return pts
}

func (el *elements) checkConnectivity() error {
	for elem, verts := range el.EToV {
		for _, v := range verts {
			if v < 0 || v >= len(el.Vertices) {
				return fmt.Errorf("element %d refers to node %d, mesh has %d nodes",
					elem, v, len(el.Vertices))
			}
		}
	}
	return nil
}
