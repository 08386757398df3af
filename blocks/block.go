package blocks

import "fmt"

// Type combines the two independent flags of a resistivity block. Fixed blocks
// are excluded from the inversion, isolated blocks are excluded from the
// roughening matrix. The integer codes are the ones used in the block file.
type Type int

const (
	FreeConstrained  Type = iota // 0
	FixedIsolated                // 1
	FixedConstrained             // 2
	FreeIsolated                 // 3
)

// TypeOf encodes the fixed and isolated flags.
func TypeOf(fixed, isolated bool) Type {
	switch {
	case fixed && isolated:
		return FixedIsolated
	case fixed:
		return FixedConstrained
	case isolated:
		return FreeIsolated
	default:
		return FreeConstrained
	}
}

// Valid reports whether t is one of the four known codes.
func (t Type) Valid() bool {
	return t >= FreeConstrained && t <= FreeIsolated
}

// Fixed reports whether the resistivity of the block is frozen.
func (t Type) Fixed() bool {
	return t == FixedIsolated || t == FixedConstrained
}

// Isolated reports whether the block is left out of the smoothing constraint.
func (t Type) Isolated() bool {
	return t == FixedIsolated || t == FreeIsolated
}

func (t Type) String() string {
	switch t {
	case FreeConstrained:
		return "free+constrained"
	case FixedIsolated:
		return "fixed+isolated"
	case FixedConstrained:
		return "fixed+constrained"
	case FreeIsolated:
		return "free+isolated"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Block holds the parameters of one resistivity block
type Block struct {
	Value  float64 // Resistivity [Ohm-m], negative for an insulator
	Min    float64 // Lower bound used by the inversion
	Max    float64 // Upper bound used by the inversion
	Weight float64 // Weighting constant of the roughening term
	Type   Type
}

// InsulatorResistivity is the resistivity read for a negative block value.
const InsulatorResistivity = 1.0e+20

// Insulator reports whether the block carries the infinite resistivity sentinel.
func (b Block) Insulator() bool {
	return b.Value < 0
}

// Resistivity returns the block value with the insulator sentinel resolved.
func (b Block) Resistivity() float64 {
	if b.Insulator() {
		return InsulatorResistivity
	}
	return b.Value
}

// Conductivity returns 1/Resistivity, or 0 for an insulator.
func (b Block) Conductivity() float64 {
	if b.Insulator() {
		return 0
	}
	return 1.0 / b.Value
}
