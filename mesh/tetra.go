package mesh

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tetra is a mesh of linear tetrahedra
type Tetra struct {
	elements
	EToE [][]int // Neighbor element across each face, negative on the boundary
}

func (t *Tetra) Geometry() ElementGeometry { return Tet }

// GravityCenter of a tetrahedron is the mean of its vertices.
func (t *Tetra) GravityCenter(elem int) r3.Vec {
	return t.Center(elem)
}

// Volume returns the volume of element elem.
func (t *Tetra) Volume(elem int) float64 {
	p := t.corners(elem)
	return tetVolume(p[0], p[1], p[2], p[3])
}

// tetVolume returns |det[b-a; c-a; d-a]| / 6.
func tetVolume(a, b, c, d r3.Vec) float64 {
	e1, e2, e3 := r3.Sub(b, a), r3.Sub(c, a), r3.Sub(d, a)
	jac := mat.NewDense(3, 3, []float64{
		e1.X, e1.Y, e1.Z,
		e2.X, e2.Y, e2.Z,
		e3.X, e3.Y, e3.Z,
	})
	return math.Abs(mat.Det(jac)) / 6.0
}

// tetCentroid returns the mean of the four vertices.
func tetCentroid(a, b, c, d r3.Vec) r3.Vec {
	return r3.Scale(0.25, r3.Add(r3.Add(a, b), r3.Add(c, d)))
}
