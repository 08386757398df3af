package mesh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/blockmod/utils"
)

// Open reads a mesh, using the gocfd readers for Gmsh (.msh) and Gambit (.neu)
// files and the native mesh.dat reader for anything else.
func Open(path string) (VolumeMesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msh", ".neu":
		t, err := FromGocfd(path)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return ReadFile(path)
}

// ReadFile reads a mesh.dat file.
func ReadFile(path string) (VolumeMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file open error: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses a mesh.dat stream. The type is taken from the first five
// characters of the first token: TETRA or DHEXA.
func Read(r io.Reader, name string) (VolumeMesh, error) {
	tr := utils.NewTokenReader(r, name)
	head, err := tr.Next()
	if err != nil {
		return nil, err
	}
	kind := head
	if len(kind) > 5 {
		kind = kind[:5]
	}
	var m VolumeMesh
	switch kind {
	case "TETRA":
		m, err = readTetra(tr)
	case "DHEXA":
		m, err = readHexa(tr)
	default:
		return nil, fmt.Errorf("%s: %w: %q", tr.Pos(), ErrUnsupportedMesh, head)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func readNodes(tr *utils.TokenReader) ([]r3.Vec, error) {
	n, err := tr.Int()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%s: negative node count %d", tr.Pos(), n)
	}
	nodes := make([]r3.Vec, n)
	for i := range nodes {
		id, err := tr.Int()
		if err != nil {
			return nil, err
		}
		if id != i {
			return nil, fmt.Errorf("%s: node index %d is wrong, expected %d", tr.Pos(), id, i)
		}
		xyz, err := tr.Floats(3)
		if err != nil {
			return nil, err
		}
		nodes[i] = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return nodes, nil
}

// readElements reads the element count followed by one record per element:
// its index, skip integers and nv vertex indices.
func readElements(tr *utils.TokenReader, skip, nv int) (eToV, extra [][]int, err error) {
	n, err := tr.Int()
	if err != nil {
		return nil, nil, err
	}
	if n < 0 {
		return nil, nil, fmt.Errorf("%s: negative element count %d", tr.Pos(), n)
	}
	eToV = make([][]int, n)
	extra = make([][]int, n)
	for i := 0; i < n; i++ {
		id, err := tr.Int()
		if err != nil {
			return nil, nil, err
		}
		if id != i {
			return nil, nil, fmt.Errorf("%s: element index %d is wrong, expected %d", tr.Pos(), id, i)
		}
		if extra[i], err = tr.Ints(skip); err != nil {
			return nil, nil, err
		}
		if eToV[i], err = tr.Ints(nv); err != nil {
			return nil, nil, err
		}
	}
	return eToV, extra, nil
}

// Boundary and other trailing sections are not needed and left unread.
func readTetra(tr *utils.TokenReader) (*Tetra, error) {
	nodes, err := readNodes(tr)
	if err != nil {
		return nil, err
	}
	eToV, eToE, err := readElements(tr, 4, 4)
	if err != nil {
		return nil, err
	}
	t := &Tetra{
		elements: elements{Vertices: nodes, EToV: eToV},
		EToE:     eToE,
	}
	if err = t.checkConnectivity(); err != nil {
		return nil, err
	}
	return t, nil
}

func readHexa(tr *utils.TokenReader) (*NonConformingHexa, error) {
	nodes, err := readNodes(tr)
	if err != nil {
		return nil, err
	}
	eToV, _, err := readElements(tr, 0, 8)
	if err != nil {
		return nil, err
	}
	h := &NonConformingHexa{
		elements: elements{Vertices: nodes, EToV: eToV},
	}
	if err = h.checkConnectivity(); err != nil {
		return nil, err
	}
	return h, nil
}
