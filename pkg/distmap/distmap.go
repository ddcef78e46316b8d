// Package distmap computes chamfer distance maps over binary grids.
//
// DistanceMap2D and DistanceMap3D implement the standard two-pass chamfer
// transform: a forward raster sweep followed by a backward sweep, each
// relaxing cell distances through the half of the chamfer mask that points at
// already-visited cells. GeodesicMap2D and GeodesicMap3D restrict the
// propagation to a mask region and repeat sweep pairs until a fixed point is
// reached, since concave masks can require many repetitions to converge.
//
// Distances accumulate internally in float64, which represents every
// supported output width exactly. Unreached cells hold +Inf internally and
// the maximum representable value (or +Inf for float32) in the output.
package distmap

import (
	"errors"
	"fmt"
	"math"

	"morphogrid/pkg/chamfer"
	"morphogrid/pkg/grid"
)

var (
	// ErrRankMismatch reports a chamfer mask whose dimensionality does not
	// match the grid: a 2D mask handed to a 3D transform or vice versa.
	ErrRankMismatch = errors.New("distmap: mask rank does not match grid rank")

	// ErrDistanceOverflow reports a finite distance that exceeds the
	// representable range of the requested integer output width.
	ErrDistanceOverflow = errors.New("distmap: distance exceeds output range")

	// ErrCancelled reports that the cancellation poll requested an abort.
	// No partial result is returned.
	ErrCancelled = errors.New("distmap: cancelled")

	// ErrShapeMismatch reports marker and mask grids of different
	// dimensions.
	ErrShapeMismatch = errors.New("distmap: marker and mask dimensions differ")
)

// Options controls a distance transform run. The zero value computes raw
// chamfer distances with no cancellation or progress reporting.
type Options struct {
	// Normalize divides every distance by the orthogonal (first) weight so
	// results are expressed in pixel/voxel units. Integer outputs round
	// half-up.
	Normalize bool

	// Cancelled, when non-nil, is polled once per raster-scan row. When it
	// returns true the transform stops and reports ErrCancelled.
	Cancelled func() bool

	// Progress, when non-nil, is invoked once per raster-scan row with the
	// number of rows swept so far in the current pass and the pass total.
	Progress func(done, total int)
}

// DistanceMap2D computes the chamfer distance map of a binary grid: each
// foreground cell receives the minimum accumulated weight of a lattice path
// to the nearest background cell, each background cell receives 0. A grid
// with no background cell at all yields the unreached sentinel everywhere in
// the foreground; that is a legitimate result, not an error.
//
// The output type selects the numeric semantics: integer widths use the
// mask's integer weights and fail with ErrDistanceOverflow when a finite
// distance exceeds the width, float32 uses the floating weights and has no
// ceiling.
func DistanceMap2D[T grid.Num](bin *grid.Binary2D, mask *chamfer.Mask, opts Options) (*grid.Grid2D[T], error) {
	if mask.Rank() != 2 {
		return nil, fmt.Errorf("%w: rank-%d mask on a 2D grid", ErrRankMismatch, mask.Rank())
	}
	w, h := bin.W, bin.H
	buf := make([]float64, w*h)
	for i, v := range bin.Cells() {
		if v != 0 {
			buf[i] = math.Inf(1)
		}
	}

	fw, bw := maskTables[T](mask)
	if _, err := sweepForward2D(buf, nil, w, h, fw, opts); err != nil {
		return nil, err
	}
	if _, err := sweepBackward2D(buf, nil, w, h, bw, opts); err != nil {
		return nil, err
	}

	out := grid.New2D[T](w, h)
	if err := convertField[T](buf, nil, out.Cells(), divisor[T](mask, opts)); err != nil {
		return nil, err
	}
	return out, nil
}

// DistanceMap3D computes the chamfer distance map of a 3D binary grid. See
// DistanceMap2D for the full contract.
func DistanceMap3D[T grid.Num](bin *grid.Binary3D, mask *chamfer.Mask, opts Options) (*grid.Grid3D[T], error) {
	if mask.Rank() != 3 {
		return nil, fmt.Errorf("%w: rank-%d mask on a 3D grid", ErrRankMismatch, mask.Rank())
	}
	w, h, d := bin.W, bin.H, bin.D
	buf := make([]float64, w*h*d)
	for i, v := range bin.Cells() {
		if v != 0 {
			buf[i] = math.Inf(1)
		}
	}

	fw, bw := maskTables[T](mask)
	if _, err := sweepForward3D(buf, nil, w, h, d, fw, opts); err != nil {
		return nil, err
	}
	if _, err := sweepBackward3D(buf, nil, w, h, d, bw, opts); err != nil {
		return nil, err
	}

	out := grid.New3D[T](w, h, d)
	if err := convertField[T](buf, nil, out.Cells(), divisor[T](mask, opts)); err != nil {
		return nil, err
	}
	return out, nil
}

// divisor returns the normalization divisor for the output kind, or 1 when
// normalization is off.
func divisor[T grid.Num](mask *chamfer.Mask, opts Options) float64 {
	if !opts.Normalize {
		return 1
	}
	if isFloatKind[T]() {
		return mask.FloatWeights()[0]
	}
	return float64(mask.Weights()[0])
}
