package params

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/notargets/blockmod/region"
)

// fileConfig is the YAML form of Params, in the units of the text format.
type fileConfig struct {
	Iteration int           `yaml:"iteration"`
	Region    regionConfig  `yaml:"region"`
	Select    rangeConfig   `yaml:"select"`
	Replace   replaceConfig `yaml:"replace"`
	Mode      string        `yaml:"mode"` // element or block
}

type regionConfig struct {
	Shape    string    `yaml:"shape"` // ellipsoid, cuboid or cylindroid
	LengthKm []float64 `yaml:"length_km"`
	CenterKm []float64 `yaml:"center_km"`
	AngleDeg float64   `yaml:"angle_deg"`
}

type rangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type replaceConfig struct {
	Value float64 `yaml:"value"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

func readYAMLFile(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file open error: %w", err)
	}
	p, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func parseYAML(data []byte) (*Params, error) {
	def := Default()
	cfg := fileConfig{
		Select:  rangeConfig{Min: def.MinSelect, Max: def.MaxSelect},
		Replace: replaceConfig{Value: def.Value, Min: def.Min, Max: def.Max},
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}

	shape, err := region.ParseShape(cfg.Region.Shape)
	if err != nil {
		return nil, err
	}
	if len(cfg.Region.LengthKm) != 3 || len(cfg.Region.CenterKm) != 3 {
		return nil, fmt.Errorf("%w: region length_km and center_km need three values each", ErrInvalid)
	}
	switch cfg.Mode {
	case "", "element", "block":
	default:
		return nil, fmt.Errorf("%w: mode %q, expected element or block", ErrInvalid, cfg.Mode)
	}

	p := Params{
		Iteration: cfg.Iteration,
		Shape:     shape,
		MinSelect: cfg.Select.Min,
		MaxSelect: cfg.Select.Max,
		Value:     cfg.Replace.Value,
		Min:       cfg.Replace.Min,
		Max:       cfg.Replace.Max,
		Mode:      cfg.Mode,
	}
	p.setGeometry(cfg.Region.LengthKm, cfg.Region.CenterKm, cfg.Region.AngleDeg)
	if err = p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
