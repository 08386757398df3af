package mesh

import (
	"fmt"

	gmesh "github.com/notargets/gocfd/DG3D/mesh"
	"github.com/notargets/gocfd/DG3D/mesh/readers"
	gutils "github.com/notargets/gocfd/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromGocfd reads a Gmsh or Gambit mesh through the gocfd readers. Only
// tetrahedral meshes are accepted; quadratic tetrahedra use their corner nodes.
func FromGocfd(path string) (*Tetra, error) {
	m, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, err
	}
	return fromMesh(m)
}

func fromMesh(m *gmesh.Mesh) (*Tetra, error) {
	t := &Tetra{
		elements: elements{
			Vertices: make([]r3.Vec, len(m.Vertices)),
			EToV:     make([][]int, m.NumElements),
		},
	}
	for i, v := range m.Vertices {
		t.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i := 0; i < m.NumElements; i++ {
		elemType := m.ElementTypes[i]
		if elemType != gutils.Tet && elemType != gutils.Tet10 {
			return nil, fmt.Errorf("%w: element %d is not tetrahedral (type=%v)",
				ErrUnsupportedMesh, i, elemType)
		}
		nodes := m.EtoV[i]
		if len(nodes) < 4 {
			return nil, fmt.Errorf("tetrahedral element %d has insufficient nodes", i)
		}
		t.EToV[i] = nodes[:4]
	}
	if err := t.checkConnectivity(); err != nil {
		return nil, err
	}
	return t, nil
}
