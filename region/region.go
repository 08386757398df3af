// Package region classifies points against a rotated ellipsoid, cuboid or
// cylindroid used to pick the part of a resistivity model to overwrite.
package region

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownShape is returned for a region type code or name that is not defined.
var ErrUnknownShape = errors.New("region type is wrong")

// Shape identifies the solid of a region. The codes are the ones used in the
// parameter file.
type Shape int

const (
	Ellipsoid  Shape = iota // 0
	Cuboid                  // 1
	Cylindroid              // 2, elliptic in XY and bounded in Z
)

var shapeNames = []string{"Ellipsoid", "Cuboid", "Cylindroid"}

func (s Shape) String() string {
	if s < Ellipsoid || s > Cylindroid {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ShapeFromCode converts a parameter file region type code.
func ShapeFromCode(code int) (Shape, error) {
	s := Shape(code)
	if s < Ellipsoid || s > Cylindroid {
		return 0, fmt.Errorf("%w: %d", ErrUnknownShape, code)
	}
	return s, nil
}

// ParseShape converts a shape name, case insensitive.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Region is a solid positioned at Center, with half extents Half along its own
// axes, rotated by Angle about the vertical axis.
type Region struct {
	shape    Shape
	half     r3.Vec
	center   r3.Vec
	angle    float64 // [rad]
	cos, sin float64 // Of -angle
}

// New creates a region. Lengths are in the same unit as the points tested
// later. The angle is in radians, counter clockwise seen from +Z.
func New(shape Shape, half, center r3.Vec, angle float64) (*Region, error) {
	if _, err := ShapeFromCode(int(shape)); err != nil {
		return nil, err
	}
	return &Region{
		shape:  shape,
		half:   half,
		center: center,
		angle:  angle,
		cos:    math.Cos(-angle),
		sin:    math.Sin(-angle),
	}, nil
}

func (r *Region) Shape() Shape   { return r.shape }
func (r *Region) Half() r3.Vec   { return r.half }
func (r *Region) Center() r3.Vec { return r.center }
func (r *Region) Angle() float64 { return r.angle }

// Local returns p in the frame of the region: translated to the center and
// rotated back by the region angle.
func (r *Region) Local(p r3.Vec) r3.Vec {
	d := r3.Sub(p, r.center)
	return r3.Vec{
		X: d.X*r.cos - d.Y*r.sin,
		Y: d.X*r.sin + d.Y*r.cos,
		Z: d.Z,
	}
}

// Contains reports whether p lies inside the region. Points on the surface
// are inside.
func (r *Region) Contains(p r3.Vec) bool {
	q := r.Local(p)
	switch r.shape {
	case Ellipsoid:
		x, y, z := q.X/r.half.X, q.Y/r.half.Y, q.Z/r.half.Z
		return x*x+y*y+z*z <= 1.0
	case Cuboid:
		return math.Abs(q.X) <= r.half.X && math.Abs(q.Y) <= r.half.Y && math.Abs(q.Z) <= r.half.Z
	case Cylindroid:
		x, y := q.X/r.half.X, q.Y/r.half.Y
		return x*x+y*y <= 1.0 && math.Abs(q.Z) <= r.half.Z
	}
	panic(fmt.Sprintf("region shape %d is not defined", int(r.shape)))
}

func (r *Region) String() string {
	return fmt.Sprintf("%v half=(%g,%g,%g) center=(%g,%g,%g) angle=%g rad", r.shape,
		r.half.X, r.half.Y, r.half.Z, r.center.X, r.center.Y, r.center.Z, r.angle)
}
