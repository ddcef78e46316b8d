package distmap

import (
	"math"

	"morphogrid/pkg/chamfer"
	"morphogrid/pkg/grid"
)

// weightedOffset is a mask offset with its weight resolved to the float64
// accumulator domain.
type weightedOffset struct {
	dx, dy, dz int
	w          float64
}

// maskTables resolves the forward and backward offset tables of a mask for
// the output kind: integer outputs sweep with the integer weights, float
// outputs with the floating weights.
func maskTables[T grid.Num](mask *chamfer.Mask) (fw, bw []weightedOffset) {
	useFloat := isFloatKind[T]()
	conv := func(offs []chamfer.Offset) []weightedOffset {
		out := make([]weightedOffset, len(offs))
		for i, o := range offs {
			w := float64(o.Weight)
			if useFloat {
				w = o.FWeight
			}
			out[i] = weightedOffset{dx: o.X, dy: o.Y, dz: o.Z, w: w}
		}
		return out
	}
	return conv(mask.ForwardOffsets()), conv(mask.BackwardOffsets())
}

func isFloatKind[T grid.Num]() bool {
	var z T
	switch any(z).(type) {
	case float32:
		return true
	}
	return false
}

// maxFinite returns the largest finite value the output kind can hold, as a
// float64. float32 outputs have no ceiling.
func maxFinite[T grid.Num]() float64 {
	var z T
	switch any(z).(type) {
	case uint8:
		return math.MaxUint8
	case uint16:
		return math.MaxUint16
	case uint32:
		return math.MaxUint32
	default:
		return math.Inf(1)
	}
}

// sweepForward2D relaxes every cell in increasing raster order through the
// given offsets. Cells holding 0 are sources and are never updated; when
// inMask is non-nil, cells outside it are neither updated nor read. Reports
// whether any cell value changed.
func sweepForward2D(buf []float64, inMask []uint8, w, h int, offs []weightedOffset, opts Options) (bool, error) {
	changed := false
	for y := 0; y < h; y++ {
		if opts.Cancelled != nil && opts.Cancelled() {
			return changed, ErrCancelled
		}
		for x := 0; x < w; x++ {
			i := y*w + x
			if inMask != nil && inMask[i] == 0 {
				continue
			}
			d := buf[i]
			if d == 0 {
				continue
			}
			for _, o := range offs {
				nx, ny := x+o.dx, y+o.dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if inMask != nil && inMask[n] == 0 {
					continue
				}
				nd := buf[n]
				if math.IsInf(nd, 1) {
					continue
				}
				if c := nd + o.w; c < d {
					d = c
				}
			}
			if d < buf[i] {
				buf[i] = d
				changed = true
			}
		}
		if opts.Progress != nil {
			opts.Progress(y+1, h)
		}
	}
	return changed, nil
}

// sweepBackward2D is the mirror of sweepForward2D: decreasing raster order
// with the backward offsets.
func sweepBackward2D(buf []float64, inMask []uint8, w, h int, offs []weightedOffset, opts Options) (bool, error) {
	changed := false
	for y := h - 1; y >= 0; y-- {
		if opts.Cancelled != nil && opts.Cancelled() {
			return changed, ErrCancelled
		}
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			if inMask != nil && inMask[i] == 0 {
				continue
			}
			d := buf[i]
			if d == 0 {
				continue
			}
			for _, o := range offs {
				nx, ny := x+o.dx, y+o.dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if inMask != nil && inMask[n] == 0 {
					continue
				}
				nd := buf[n]
				if math.IsInf(nd, 1) {
					continue
				}
				if c := nd + o.w; c < d {
					d = c
				}
			}
			if d < buf[i] {
				buf[i] = d
				changed = true
			}
		}
		if opts.Progress != nil {
			opts.Progress(h-y, h)
		}
	}
	return changed, nil
}

// sweepForward3D relaxes every cell in increasing raster order (increasing
// z, then y, then x). See sweepForward2D.
func sweepForward3D(buf []float64, inMask []uint8, w, h, d int, offs []weightedOffset, opts Options) (bool, error) {
	changed := false
	rows := h * d
	row := 0
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			if opts.Cancelled != nil && opts.Cancelled() {
				return changed, ErrCancelled
			}
			for x := 0; x < w; x++ {
				i := (z*h+y)*w + x
				if inMask != nil && inMask[i] == 0 {
					continue
				}
				v := buf[i]
				if v == 0 {
					continue
				}
				for _, o := range offs {
					nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
					if nx < 0 || nx >= w || ny < 0 || ny >= h || nz < 0 || nz >= d {
						continue
					}
					n := (nz*h+ny)*w + nx
					if inMask != nil && inMask[n] == 0 {
						continue
					}
					nd := buf[n]
					if math.IsInf(nd, 1) {
						continue
					}
					if c := nd + o.w; c < v {
						v = c
					}
				}
				if v < buf[i] {
					buf[i] = v
					changed = true
				}
			}
			row++
			if opts.Progress != nil {
				opts.Progress(row, rows)
			}
		}
	}
	return changed, nil
}

// sweepBackward3D is the mirror of sweepForward3D.
func sweepBackward3D(buf []float64, inMask []uint8, w, h, d int, offs []weightedOffset, opts Options) (bool, error) {
	changed := false
	rows := h * d
	row := 0
	for z := d - 1; z >= 0; z-- {
		for y := h - 1; y >= 0; y-- {
			if opts.Cancelled != nil && opts.Cancelled() {
				return changed, ErrCancelled
			}
			for x := w - 1; x >= 0; x-- {
				i := (z*h+y)*w + x
				if inMask != nil && inMask[i] == 0 {
					continue
				}
				v := buf[i]
				if v == 0 {
					continue
				}
				for _, o := range offs {
					nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
					if nx < 0 || nx >= w || ny < 0 || ny >= h || nz < 0 || nz >= d {
						continue
					}
					n := (nz*h+ny)*w + nx
					if inMask != nil && inMask[n] == 0 {
						continue
					}
					nd := buf[n]
					if math.IsInf(nd, 1) {
						continue
					}
					if c := nd + o.w; c < v {
						v = c
					}
				}
				if v < buf[i] {
					buf[i] = v
					changed = true
				}
			}
			row++
			if opts.Progress != nil {
				opts.Progress(row, rows)
			}
		}
	}
	return changed, nil
}

// convertField writes the float64 accumulator into the output cells,
// normalizing by div. Cells outside inMask (when non-nil) become 0. Unreached
// cells (+Inf) become the maximum representable value for integer outputs and
// +Inf for float32. A finite distance above an integer output's ceiling fails
// with ErrDistanceOverflow rather than wrapping.
func convertField[T grid.Num](buf []float64, inMask []uint8, out []T, div float64) error {
	limit := maxFinite[T]()
	integer := !isFloatKind[T]()
	for i, v := range buf {
		if inMask != nil && inMask[i] == 0 {
			out[i] = 0
			continue
		}
		if math.IsInf(v, 1) {
			if integer {
				out[i] = T(limit)
			} else {
				out[i] = T(math.Inf(1))
			}
			continue
		}
		v /= div
		if integer {
			v = math.Floor(v + 0.5)
			if v > limit {
				return ErrDistanceOverflow
			}
		}
		out[i] = T(v)
	}
	return nil
}
