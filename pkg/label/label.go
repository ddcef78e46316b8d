// Package label partitions the foreground of a binary grid into connected
// components. Each maximal connected region receives a unique positive label;
// background keeps 0. Labels are assigned in the raster-scan order in which
// each region's first foreground cell is discovered: label 1 is the first
// region found scanning row-major (z-major for 3D), label 2 the second, and
// so on.
//
// Label identity is solely a function of scan order. It is not stable across
// different adjacency or grid-orientation choices; that is inherent to the
// algorithm, not a defect.
package label

import (
	"errors"
	"fmt"

	"morphogrid/pkg/grid"
)

var (
	// ErrLabelCapacityExceeded reports a grid containing more connected
	// components than the label capacity allows. The check happens before
	// the region that would exceed the capacity is filled, so the failure
	// never wraps or truncates labels.
	ErrLabelCapacityExceeded = errors.New("label: label capacity exceeded")

	// ErrUnsupportedConnectivity reports an adjacency outside {4, 8} for
	// 2D grids or {6, 26} for 3D grids.
	ErrUnsupportedConnectivity = errors.New("label: unsupported connectivity")

	// ErrCancelled reports that the cancellation poll requested an abort.
	ErrCancelled = errors.New("label: cancelled")
)

// Connectivity selects the adjacency relation between foreground cells.
type Connectivity int

const (
	// Conn4 connects 2D cells sharing an edge.
	Conn4 Connectivity = 4
	// Conn8 connects 2D cells sharing an edge or a corner.
	Conn8 Connectivity = 8
	// Conn6 connects 3D cells sharing a face.
	Conn6 Connectivity = 6
	// Conn26 connects 3D cells sharing a face, an edge or a corner.
	Conn26 Connectivity = 26
)

// Options controls a labeling run. The zero value labels with the full
// capacity of the output width and no cancellation.
type Options struct {
	// Capacity caps the number of labels. Zero or a value above the output
	// width's ceiling means the ceiling itself: 255 for uint8, 65535 for
	// uint16, 2^23-1 for 32-bit outputs.
	Capacity int

	// Cancelled, when non-nil, is polled once per scan row.
	Cancelled func() bool
}

// MaxLabels returns the label ceiling of an output width: 255 for uint8,
// 65535 for uint16 and 2^23-1 for the 32-bit widths. The 32-bit ceiling is
// the float-mantissa bound, kept for both float32 and uint32 backings so the
// documented 8/16/32 capacities do not depend on the backing type.
func MaxLabels[T grid.Num]() int {
	var z T
	switch any(z).(type) {
	case uint8:
		return 255
	case uint16:
		return 65535
	default:
		return 1<<23 - 1
	}
}

func capacityOf[T grid.Num](opts Options) int {
	ceiling := MaxLabels[T]()
	if opts.Capacity > 0 && opts.Capacity < ceiling {
		return opts.Capacity
	}
	return ceiling
}

// offsets2D returns the neighbor displacements of a 2D connectivity.
func offsets2D(conn Connectivity) ([][2]int, error) {
	switch conn {
	case Conn4:
		return [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}, nil
	case Conn8:
		return [][2]int{
			{-1, -1}, {0, -1}, {1, -1},
			{-1, 0}, {1, 0},
			{-1, 1}, {0, 1}, {1, 1},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d for a 2D grid", ErrUnsupportedConnectivity, conn)
	}
}

// offsets3D returns the neighbor displacements of a 3D connectivity.
func offsets3D(conn Connectivity) ([][3]int, error) {
	switch conn {
	case Conn6:
		return [][3]int{
			{-1, 0, 0}, {1, 0, 0},
			{0, -1, 0}, {0, 1, 0},
			{0, 0, -1}, {0, 0, 1},
		}, nil
	case Conn26:
		var out [][3]int
		for dz := -1; dz <= 1; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 && dz == 0 {
						continue
					}
					out = append(out, [3]int{dx, dy, dz})
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d for a 3D grid", ErrUnsupportedConnectivity, conn)
	}
}

// FloodFill2D labels the connected components of a 2D binary grid by
// raster-scan flood fill. It returns the label field and the number of
// labels used, so callers can size result tables without a second pass.
//
// The fill is iterative with an explicit stack; region size is bounded by
// memory, not call-stack depth.
func FloodFill2D[T grid.Num](bin *grid.Binary2D, conn Connectivity, opts Options) (*grid.Grid2D[T], int, error) {
	offs, err := offsets2D(conn)
	if err != nil {
		return nil, 0, err
	}
	capacity := capacityOf[T](opts)

	w, h := bin.W, bin.H
	cells := bin.Cells()
	out := grid.New2D[T](w, h)
	labels := out.Cells()

	count := 0
	stack := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		if opts.Cancelled != nil && opts.Cancelled() {
			return nil, 0, ErrCancelled
		}
		for x := 0; x < w; x++ {
			i := y*w + x
			if cells[i] == 0 || labels[i] != 0 {
				continue
			}
			if count >= capacity {
				return nil, 0, fmt.Errorf("%w: more than %d regions",
					ErrLabelCapacityExceeded, capacity)
			}
			count++
			lv := T(count)

			stack = append(stack[:0], i)
			labels[i] = lv
			for len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				jx, jy := j%w, j/w
				for _, o := range offs {
					nx, ny := jx+o[0], jy+o[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if cells[n] == 0 || labels[n] != 0 {
						continue
					}
					labels[n] = lv
					stack = append(stack, n)
				}
			}
		}
	}
	return out, count, nil
}

// FloodFill3D labels the connected components of a 3D binary grid. See
// FloodFill2D for the full contract.
func FloodFill3D[T grid.Num](bin *grid.Binary3D, conn Connectivity, opts Options) (*grid.Grid3D[T], int, error) {
	offs, err := offsets3D(conn)
	if err != nil {
		return nil, 0, err
	}
	capacity := capacityOf[T](opts)

	w, h, d := bin.W, bin.H, bin.D
	cells := bin.Cells()
	out := grid.New3D[T](w, h, d)
	labels := out.Cells()

	count := 0
	stack := make([]int, 0, 64)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			if opts.Cancelled != nil && opts.Cancelled() {
				return nil, 0, ErrCancelled
			}
			for x := 0; x < w; x++ {
				i := (z*h+y)*w + x
				if cells[i] == 0 || labels[i] != 0 {
					continue
				}
				if count >= capacity {
					return nil, 0, fmt.Errorf("%w: more than %d regions",
						ErrLabelCapacityExceeded, capacity)
				}
				count++
				lv := T(count)

				stack = append(stack[:0], i)
				labels[i] = lv
				for len(stack) > 0 {
					j := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					jx := j % w
					jy := (j / w) % h
					jz := j / (w * h)
					for _, o := range offs {
						nx, ny, nz := jx+o[0], jy+o[1], jz+o[2]
						if nx < 0 || nx >= w || ny < 0 || ny >= h || nz < 0 || nz >= d {
							continue
						}
						n := (nz*h+ny)*w + nx
						if cells[n] == 0 || labels[n] != 0 {
							continue
						}
						labels[n] = lv
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return out, count, nil
}
