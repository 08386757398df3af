package mesh

import "gonum.org/v1/gonum/spatial/r3"

// NonConformingHexa is a mesh of hexahedra where a face may border several
// smaller neighbors. Vertices 0-3 are the bottom face and 4-7 the top face,
// both in the same rotational order.
type NonConformingHexa struct {
	elements
}

func (h *NonConformingHexa) Geometry() ElementGeometry { return Hex }

// hexTets splits a hexahedron into six tetrahedra around the 0-6 diagonal.
var hexTets = [6][4]int{
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
	{0, 5, 1, 6},
}

// Volume returns the volume of element elem.
func (h *NonConformingHexa) Volume(elem int) float64 {
	p := h.corners(elem)
	var vol float64
	for _, tet := range hexTets {
		vol += tetVolume(p[tet[0]], p[tet[1]], p[tet[2]], p[tet[3]])
	}
	return vol
}

// GravityCenter returns the volume weighted center of the six sub tetrahedra.
// It equals Center for parallelepipeds.
func (h *NonConformingHexa) GravityCenter(elem int) r3.Vec {
	p := h.corners(elem)
	var (
		c   r3.Vec
		vol float64
	)
	for _, tet := range hexTets {
		a, b, cc, d := p[tet[0]], p[tet[1]], p[tet[2]], p[tet[3]]
		v := tetVolume(a, b, cc, d)
		c = r3.Add(c, r3.Scale(v, tetCentroid(a, b, cc, d)))
		vol += v
	}
	if vol == 0 {
		return h.Center(elem)
	}
	return r3.Scale(1/vol, c)
}
