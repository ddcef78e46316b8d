package label

import (
	"fmt"

	"github.com/theodesp/unionfind"

	"morphogrid/pkg/grid"
)

// TwoPass2D labels the connected components of a 2D binary grid with the
// classic two-pass algorithm: a first raster scan assigns provisional labels
// and records equivalences in a union-find structure, a second scan resolves
// each provisional label to its equivalence-class root and renumbers the
// roots in first-appearance scan order.
//
// The result is cell-for-cell identical to FloodFill2D, including label
// identities. FloodFill2D is the reference implementation; this variant
// trades the fill stack for the union-find structure, which behaves better
// on grids with few, very large regions.
func TwoPass2D[T grid.Num](bin *grid.Binary2D, conn Connectivity, opts Options) (*grid.Grid2D[T], int, error) {
	if _, err := offsets2D(conn); err != nil {
		return nil, 0, err
	}
	capacity := capacityOf[T](opts)

	w, h := bin.W, bin.H
	cells := bin.Cells()
	prov := make([]int, w*h)

	// A new provisional label needs every visited neighbor to be
	// background, which cannot happen for more than every other cell of a
	// row, so half the grid plus slack bounds the label count.
	uf := unionfind.NewThreadSafeUnionFind(w*h/2 + 2)

	// First pass: provisional labels from the already-visited neighbors
	// (left and up, plus the upper diagonals for 8-connectivity).
	visited := [][2]int{{-1, 0}, {0, -1}}
	if conn == Conn8 {
		visited = [][2]int{{-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	}
	next := 1
	for y := 0; y < h; y++ {
		if opts.Cancelled != nil && opts.Cancelled() {
			return nil, 0, ErrCancelled
		}
		for x := 0; x < w; x++ {
			i := y*w + x
			if cells[i] == 0 {
				continue
			}
			first := 0
			for _, o := range visited {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || nx >= w || ny < 0 {
					continue
				}
				p := prov[ny*w+nx]
				if p == 0 {
					continue
				}
				if first == 0 {
					first = p
				} else if p != first {
					uf.Union(first, p)
				}
			}
			if first == 0 {
				first = next
				next++
			}
			prov[i] = first
		}
	}

	// Second pass: resolve roots and renumber them in the scan order of
	// their first appearance, so label identity matches the flood fill.
	out := grid.New2D[T](w, h)
	labels := out.Cells()
	final := make(map[int]int, next)
	count := 0
	for i, p := range prov {
		if p == 0 {
			continue
		}
		root := uf.Root(p)
		if root < 0 {
			root = p
		}
		lv, ok := final[root]
		if !ok {
			if count >= capacity {
				return nil, 0, fmt.Errorf("%w: more than %d regions",
					ErrLabelCapacityExceeded, capacity)
			}
			count++
			lv = count
			final[root] = lv
		}
		labels[i] = T(lv)
	}
	return out, count, nil
}
