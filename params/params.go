// Package params reads the run parameters of the block modifier: which
// iteration to edit, the region to select and the replacement resistivity.
//
// The classic format is a whitespace separated list in fixed order:
//
//	iteration
//	region type (0 ellipsoid, 1 cuboid, 2 cylindroid)
//	x, y, z length [km]
//	x, y, z of the center [km]
//	rotation angle about z [deg]
//	min, max resistivity for selecting [Ohm-m]
//	replacement resistivity, min, max [Ohm-m]
//
// The five resistivity values may be left out, the defaults are used then.
// Files ending in .yaml or .yml hold the same settings as a YAML document.
package params

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/blockmod/region"
	"github.com/notargets/blockmod/utils"
)

// ErrInvalid is returned for parameter values that cannot describe a run.
var ErrInvalid = errors.New("invalid parameter")

const (
	km2m    = 1000.0
	deg2rad = math.Pi / 180.0
)

// Params of one run. Lengths are in meters, the angle in radians.
type Params struct {
	Iteration int
	Shape     region.Shape
	Half      r3.Vec  // Half extents of the region [m]
	Center    r3.Vec  // [m]
	Angle     float64 // Counter clockwise about z [rad]

	MinSelect, MaxSelect float64 // Resistivity range of the cells to select [Ohm-m]

	Value, Min, Max float64 // Replacement resistivity and its bounds [Ohm-m]

	Mode string // Selection mode requested by the file, empty if not given
}

// Default returns the parameters used for the values a file leaves out.
func Default() Params {
	return Params{
		MinSelect: 0.1,
		MaxSelect: 1.0e4,
		Value:     -1.0,
		Min:       0.1,
		Max:       1.0e4,
	}
}

// ReadFile reads a parameter file, YAML if the extension says so.
func ReadFile(path string) (*Params, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readYAMLFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file open error: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses the fixed order text format.
func Read(r io.Reader, name string) (*Params, error) {
	tr := utils.NewTokenReader(r, name)
	p := Default()

	var err error
	if p.Iteration, err = tr.Int(); err != nil {
		return nil, err
	}
	code, err := tr.Int()
	if err != nil {
		return nil, err
	}
	if p.Shape, err = region.ShapeFromCode(code); err != nil {
		return nil, fmt.Errorf("%s: %w", tr.Pos(), err)
	}
	lengths, err := tr.Floats(3)
	if err != nil {
		return nil, err
	}
	center, err := tr.Floats(3)
	if err != nil {
		return nil, err
	}
	angle, err := tr.Float()
	if err != nil {
		return nil, err
	}
	p.setGeometry(lengths, center, angle)

	for _, v := range []*float64{&p.MinSelect, &p.MaxSelect, &p.Value, &p.Min, &p.Max} {
		val, err := tr.Float()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		*v = val
	}

	if err = p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &p, nil
}

// setGeometry converts full lengths and center in km and the angle in degrees.
func (p *Params) setGeometry(lengthKm, centerKm []float64, angleDeg float64) {
	p.Half = r3.Vec{
		X: lengthKm[0] * km2m * 0.5,
		Y: lengthKm[1] * km2m * 0.5,
		Z: lengthKm[2] * km2m * 0.5,
	}
	p.Center = r3.Vec{
		X: centerKm[0] * km2m,
		Y: centerKm[1] * km2m,
		Z: centerKm[2] * km2m,
	}
	p.Angle = angleDeg * deg2rad
}

// Validate rejects an iteration number no block file can carry.
func (p *Params) Validate() error {
	if p.Iteration < 0 {
		return fmt.Errorf("%w: iteration number %d is negative", ErrInvalid, p.Iteration)
	}
	return nil
}

// Warnings lists settings that are accepted but select little or nothing.
func (p *Params) Warnings() []string {
	var warns []string
	if !(p.Half.X > 0 && p.Half.Y > 0 && p.Half.Z > 0) {
		warns = append(warns, fmt.Sprintf("region lengths are not all positive: (%g,%g,%g) m",
			2*p.Half.X, 2*p.Half.Y, 2*p.Half.Z))
	}
	if p.MinSelect > p.MaxSelect {
		warns = append(warns, fmt.Sprintf("minimum resistivity for selecting %g exceeds maximum %g, nothing is selected",
			p.MinSelect, p.MaxSelect))
	}
	return warns
}

// Region builds the selection region.
func (p *Params) Region() (*region.Region, error) {
	return region.New(p.Shape, p.Half, p.Center, p.Angle)
}

// Log writes the parsed values at info level, in the units of the file, and
// the Warnings at warn level.
func (p *Params) Log(logger *zap.Logger) {
	if logger == nil {
		return
	}
	logger.Info("parameters",
		zap.Int("iteration", p.Iteration),
		zap.Stringer("region", p.Shape),
		zap.Float64s("length_km", []float64{2 * p.Half.X / km2m, 2 * p.Half.Y / km2m, 2 * p.Half.Z / km2m}),
		zap.Float64s("center_km", []float64{p.Center.X / km2m, p.Center.Y / km2m, p.Center.Z / km2m}),
		zap.Float64("angle_deg", p.Angle/deg2rad),
	)
	logger.Info("resistivity",
		zap.Float64("min_select", p.MinSelect),
		zap.Float64("max_select", p.MaxSelect),
		zap.Float64("value", p.Value),
		zap.Float64("min", p.Min),
		zap.Float64("max", p.Max),
	)
	if p.Mode != "" {
		logger.Info("mode", zap.String("mode", p.Mode))
	}
	for _, w := range p.Warnings() {
		logger.Warn(w)
	}
}
