// Package chamfer builds the neighborhood masks used by the chamfer distance
// transforms. A mask is an ordered table of (offset, weight) pairs for a 2D
// (3x3 or 5x5) or 3D (3x3x3, optionally extended by the (2,1,1)-type knight
// offsets) neighborhood, split into a forward half visited strictly before
// the current cell in raster order and a backward half that is its exact
// point-symmetric complement.
//
// Every mask carries both integer and floating weights. Integer weights feed
// the fixed-point transforms, floating weights the real-valued ones; both
// agree on the relative ordering of neighbor distances (orthogonal < diagonal
// < cube-diagonal < knight).
package chamfer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeightCount reports a weight array whose length is outside the
// supported range: 2-3 weights for 2D masks, 3-4 for 3D masks.
var ErrInvalidWeightCount = errors.New("chamfer: invalid weight count")

// Offset is a single neighbor displacement with its chamfer weights. Z is
// always 0 for 2D masks.
type Offset struct {
	X, Y, Z int

	// Weight is the integer weight of the displacement, FWeight its
	// floating counterpart.
	Weight  int
	FWeight float64
}

// Mask is an immutable chamfer neighborhood. The zero value is not usable;
// construct masks with New2D, New3D or FromPreset.
type Mask struct {
	rank     int
	label    string
	weights  []int
	fweights []float64
	forward  []Offset
}

// Rank returns the dimensionality of the mask, 2 or 3.
func (m *Mask) Rank() int { return m.rank }

// Label returns the user-facing name of the mask, such as
// "Borgefors (3,4,5)". Masks built from explicit weights carry a synthesized
// label.
func (m *Mask) Label() string { return m.label }

// Weights returns the base integer weight array the mask was built from.
// The first entry is the orthogonal weight used for normalization.
func (m *Mask) Weights() []int {
	return append([]int(nil), m.weights...)
}

// FloatWeights returns the base floating weight array the mask was built
// from. The first entry is the orthogonal weight used for normalization.
func (m *Mask) FloatWeights() []float64 {
	return append([]float64(nil), m.fweights...)
}

// ForwardOffsets returns the offsets visited strictly before the current
// cell in raster order (row-major, z-major for 3D).
func (m *Mask) ForwardOffsets() []Offset {
	return append([]Offset(nil), m.forward...)
}

// BackwardOffsets returns the point-symmetric complement of the forward
// offsets: same weights, negated displacements.
func (m *Mask) BackwardOffsets() []Offset {
	out := make([]Offset, len(m.forward))
	for i, o := range m.forward {
		out[i] = Offset{X: -o.X, Y: -o.Y, Z: -o.Z, Weight: o.Weight, FWeight: o.FWeight}
	}
	return out
}

// New2D builds a 2D mask from 2 weights (orthogonal, diagonal; a 3x3
// neighborhood) or 3 weights (adding the (2,1)-type knight offsets; a 5x5
// neighborhood). floatWeights may be nil, in which case the integer weights
// are used as-is; when given it must have the same length.
func New2D(weights []int, floatWeights []float64) (*Mask, error) {
	if len(weights) < 2 || len(weights) > 3 {
		return nil, fmt.Errorf("%w: got %d weights for a 2D mask, want 2 or 3",
			ErrInvalidWeightCount, len(weights))
	}
	fw, err := matchFloatWeights(weights, floatWeights)
	if err != nil {
		return nil, err
	}
	m := &Mask{
		rank:     2,
		label:    weightLabel(weights),
		weights:  append([]int(nil), weights...),
		fweights: fw,
	}
	m.forward = generateForward(2, len(weights), weights, fw)
	return m, nil
}

// New3D builds a 3D mask from 3 weights (orthogonal, square-diagonal,
// cube-diagonal; a 3x3x3 neighborhood) or 4 weights (adding the
// (2,1,1)-permutation knight offsets). floatWeights may be nil, in which case
// the integer weights are used as-is; when given it must have the same
// length.
func New3D(weights []int, floatWeights []float64) (*Mask, error) {
	if len(weights) < 3 || len(weights) > 4 {
		return nil, fmt.Errorf("%w: got %d weights for a 3D mask, want 3 or 4",
			ErrInvalidWeightCount, len(weights))
	}
	fw, err := matchFloatWeights(weights, floatWeights)
	if err != nil {
		return nil, err
	}
	m := &Mask{
		rank:     3,
		label:    weightLabel(weights),
		weights:  append([]int(nil), weights...),
		fweights: fw,
	}
	m.forward = generateForward(3, len(weights), weights, fw)
	return m, nil
}

func matchFloatWeights(weights []int, floatWeights []float64) ([]float64, error) {
	if floatWeights == nil {
		fw := make([]float64, len(weights))
		for i, w := range weights {
			fw[i] = float64(w)
		}
		return fw, nil
	}
	if len(floatWeights) != len(weights) {
		return nil, fmt.Errorf("%w: %d integer weights but %d floating weights",
			ErrInvalidWeightCount, len(weights), len(floatWeights))
	}
	return append([]float64(nil), floatWeights...), nil
}

func weightLabel(weights []int) string {
	s := "Custom ("
	for i, w := range weights {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", w)
	}
	return s + ")"
}

// shapeKey identifies an offset by its sorted absolute displacements, which
// determines the weight index regardless of direction: (0,0,1) is orthogonal,
// (0,1,1) diagonal, (1,1,1) cube-diagonal, (0,1,2)/(1,1,2) knight.
type shapeKey struct{ a, b, c int }

func keyOf(dx, dy, dz int) shapeKey {
	a, b, c := abs(dx), abs(dy), abs(dz)
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return shapeKey{a, b, c}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// generateForward enumerates the forward half of the neighborhood in
// ascending raster order. The shape table maps each sorted-absolute
// displacement to its weight index; displacements not in the table, such as
// (2,2) in the 5x5 mask, carry no weight and are skipped.
func generateForward(rank, nWeights int, weights []int, fweights []float64) []Offset {
	shapes := map[shapeKey]int{}
	radius := 1
	switch {
	case rank == 2:
		shapes[shapeKey{0, 0, 1}] = 0
		shapes[shapeKey{0, 1, 1}] = 1
		if nWeights == 3 {
			shapes[shapeKey{0, 1, 2}] = 2
			radius = 2
		}
	default:
		shapes[shapeKey{0, 0, 1}] = 0
		shapes[shapeKey{0, 1, 1}] = 1
		shapes[shapeKey{1, 1, 1}] = 2
		if nWeights == 4 {
			shapes[shapeKey{1, 1, 2}] = 3
			radius = 2
		}
	}

	zlo, zhi := 0, 0
	if rank == 3 {
		zlo, zhi = -radius, radius
	}

	var out []Offset
	for dz := zlo; dz <= zhi; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if !isForward(dx, dy, dz) {
					continue
				}
				wi, ok := shapes[keyOf(dx, dy, dz)]
				if !ok {
					continue
				}
				out = append(out, Offset{
					X: dx, Y: dy, Z: dz,
					Weight:  weights[wi],
					FWeight: fweights[wi],
				})
			}
		}
	}
	return out
}

// isForward reports whether the displacement points to a cell visited
// strictly before the current one in raster order.
func isForward(dx, dy, dz int) bool {
	if dz != 0 {
		return dz < 0
	}
	if dy != 0 {
		return dy < 0
	}
	return dx < 0
}

// Sqrt2 and Sqrt3 are the exact floating weights of the quasi-Euclidean
// masks.
var (
	Sqrt2 = math.Sqrt2
	Sqrt3 = math.Sqrt(3)
)
