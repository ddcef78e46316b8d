package distmap

import (
	"fmt"
	"math"

	"morphogrid/pkg/chamfer"
	"morphogrid/pkg/grid"
)

// GeodesicMap2D computes the geodesic distance map from marker cells within
// a mask region: each in-mask cell receives the minimum accumulated weight of
// a lattice path to the nearest marker cell that stays entirely inside the
// mask. Marker cells outside the mask are not sources. Cells outside the mask
// receive 0 in the output; in-mask cells unreachable from any marker keep the
// unreached sentinel, which is the documented signal for infinite geodesic
// distance.
//
// A single forward/backward pair is not sufficient on concave masks, so sweep
// pairs repeat until one completes without changing any cell value. The
// number of pairs required grows with the geodesic complexity of the mask
// shape; convergence is guaranteed because cell values only ever decrease.
func GeodesicMap2D[T grid.Num](marker, region *grid.Binary2D, mask *chamfer.Mask, opts Options) (*grid.Grid2D[T], error) {
	if mask.Rank() != 2 {
		return nil, fmt.Errorf("%w: rank-%d mask on a 2D grid", ErrRankMismatch, mask.Rank())
	}
	if marker.W != region.W || marker.H != region.H {
		return nil, fmt.Errorf("%w: marker %dx%d, mask %dx%d",
			ErrShapeMismatch, marker.W, marker.H, region.W, region.H)
	}
	w, h := marker.W, marker.H
	inMask := region.Cells()
	buf := initGeodesic(marker.Cells(), inMask)

	fw, bw := maskTables[T](mask)
	for {
		c1, err := sweepForward2D(buf, inMask, w, h, fw, opts)
		if err != nil {
			return nil, err
		}
		c2, err := sweepBackward2D(buf, inMask, w, h, bw, opts)
		if err != nil {
			return nil, err
		}
		if !c1 && !c2 {
			break
		}
	}

	out := grid.New2D[T](w, h)
	if err := convertField[T](buf, inMask, out.Cells(), divisor[T](mask, opts)); err != nil {
		return nil, err
	}
	return out, nil
}

// GeodesicMap3D computes the geodesic distance map over a 3D marker and mask
// pair. See GeodesicMap2D for the full contract.
func GeodesicMap3D[T grid.Num](marker, region *grid.Binary3D, mask *chamfer.Mask, opts Options) (*grid.Grid3D[T], error) {
	if mask.Rank() != 3 {
		return nil, fmt.Errorf("%w: rank-%d mask on a 3D grid", ErrRankMismatch, mask.Rank())
	}
	if marker.W != region.W || marker.H != region.H || marker.D != region.D {
		return nil, fmt.Errorf("%w: marker %dx%dx%d, mask %dx%dx%d",
			ErrShapeMismatch, marker.W, marker.H, marker.D, region.W, region.H, region.D)
	}
	w, h, d := marker.W, marker.H, marker.D
	inMask := region.Cells()
	buf := initGeodesic(marker.Cells(), inMask)

	fw, bw := maskTables[T](mask)
	for {
		c1, err := sweepForward3D(buf, inMask, w, h, d, fw, opts)
		if err != nil {
			return nil, err
		}
		c2, err := sweepBackward3D(buf, inMask, w, h, d, bw, opts)
		if err != nil {
			return nil, err
		}
		if !c1 && !c2 {
			break
		}
	}

	out := grid.New3D[T](w, h, d)
	if err := convertField[T](buf, inMask, out.Cells(), divisor[T](mask, opts)); err != nil {
		return nil, err
	}
	return out, nil
}

// initGeodesic builds the accumulator: 0 at in-mask marker cells, +Inf
// everywhere else. Outside-mask cells are never read or written by the
// sweeps; they hold +Inf so a bookkeeping slip can never make them
// contribute a path.
func initGeodesic(marker, inMask []uint8) []float64 {
	buf := make([]float64, len(marker))
	inf := math.Inf(1)
	for i := range buf {
		if inMask[i] != 0 && marker[i] != 0 {
			buf[i] = 0
		} else {
			buf[i] = inf
		}
	}
	return buf
}
