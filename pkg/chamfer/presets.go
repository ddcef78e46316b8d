package chamfer

import (
	"errors"
	"fmt"
)

// ErrPresetNotFound reports a preset label that matches no known weight set.
var ErrPresetNotFound = errors.New("chamfer: preset not found")

// Preset is a named chamfer weight set carrying both its integer and
// floating weight arrays. The integer array is an exact fixed-point
// approximation of the floating one where the two differ (quasi-Euclidean).
type Preset struct {
	// Label is the user-facing name callers select a preset by, such as
	// "Borgefors (3,4)".
	Label string

	// Rank is the dimensionality the preset applies to, 2 or 3.
	Rank int

	// Weights holds the integer weights, ordered orthogonal, diagonal,
	// then cube-diagonal and knight where present.
	Weights []int

	// FloatWeights holds the floating weights in the same order.
	FloatWeights []float64
}

// The predefined weight sets. Labels and values are fixed; callers persist
// them in saved configurations.
var presets = []Preset{
	{Label: "Chessboard (1,1)", Rank: 2,
		Weights: []int{1, 1}, FloatWeights: []float64{1, 1}},
	{Label: "City-Block (1,2)", Rank: 2,
		Weights: []int{1, 2}, FloatWeights: []float64{1, 2}},
	{Label: "Quasi-Euclidean (1,1.41)", Rank: 2,
		Weights: []int{10, 14}, FloatWeights: []float64{1, Sqrt2}},
	{Label: "Borgefors (3,4)", Rank: 2,
		Weights: []int{3, 4}, FloatWeights: []float64{3, 4}},
	{Label: "Chessknight (5,7,11)", Rank: 2,
		Weights: []int{5, 7, 11}, FloatWeights: []float64{5, 7, 11}},

	{Label: "Chessboard (1,1,1)", Rank: 3,
		Weights: []int{1, 1, 1}, FloatWeights: []float64{1, 1, 1}},
	{Label: "City-Block (1,2,3)", Rank: 3,
		Weights: []int{1, 2, 3}, FloatWeights: []float64{1, 2, 3}},
	{Label: "Quasi-Euclidean (1,1.41,1.73)", Rank: 3,
		Weights: []int{10, 14, 17}, FloatWeights: []float64{1, Sqrt2, Sqrt3}},
	{Label: "Borgefors (3,4,5)", Rank: 3,
		Weights: []int{3, 4, 5}, FloatWeights: []float64{3, 4, 5}},
	{Label: "Svensson (3,4,5,7)", Rank: 3,
		Weights: []int{3, 4, 5, 7}, FloatWeights: []float64{3, 4, 5, 7}},
}

// Presets2D returns the predefined 2D weight sets.
func Presets2D() []Preset { return presetsOfRank(2) }

// Presets3D returns the predefined 3D weight sets.
func Presets3D() []Preset { return presetsOfRank(3) }

func presetsOfRank(rank int) []Preset {
	var out []Preset
	for _, p := range presets {
		if p.Rank == rank {
			out = append(out, p)
		}
	}
	return out
}

// FromPreset builds the mask for a predefined weight set.
func FromPreset(p Preset) *Mask {
	var m *Mask
	var err error
	switch p.Rank {
	case 2:
		m, err = New2D(p.Weights, p.FloatWeights)
	case 3:
		m, err = New3D(p.Weights, p.FloatWeights)
	default:
		err = fmt.Errorf("chamfer: preset %q has rank %d", p.Label, p.Rank)
	}
	if err != nil {
		// All predefined presets build; a hand-made Preset with a bad
		// weight count does not.
		panic(err)
	}
	m.label = p.Label
	return m
}

// PresetByLabel builds the mask for the preset with the given user-facing
// label, or fails with ErrPresetNotFound.
func PresetByLabel(label string) (*Mask, error) {
	for _, p := range presets {
		if p.Label == label {
			return FromPreset(p), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, label)
}
