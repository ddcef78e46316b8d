// Package regions provides the thin convenience wrappers built on top of the
// labeling core: thresholding a value grid into a binary region, counting
// region sizes, and extracting the largest connected region.
package regions

import (
	"gonum.org/v1/gonum/floats"

	"morphogrid/pkg/grid"
	"morphogrid/pkg/label"
)

// Binarize2D thresholds a value grid into a binary grid: cells strictly
// above the threshold become foreground.
func Binarize2D[T grid.Num](g *grid.Grid2D[T], threshold float64) *grid.Binary2D {
	out := grid.New2D[uint8](g.W, g.H)
	binarize(g.Cells(), out.Cells(), threshold)
	return out
}

// Binarize3D thresholds a 3D value grid into a binary grid: cells strictly
// above the threshold become foreground.
func Binarize3D[T grid.Num](g *grid.Grid3D[T], threshold float64) *grid.Binary3D {
	out := grid.New3D[uint8](g.W, g.H, g.D)
	binarize(g.Cells(), out.Cells(), threshold)
	return out
}

func binarize[T grid.Num](in []T, out []uint8, threshold float64) {
	for i, v := range in {
		if float64(v) > threshold {
			out[i] = 255
		}
	}
}

// Sizes2D counts the cells of each label in a label field. The returned
// slice has count+1 entries; index 0 holds the background cell count and
// index l the size of region l.
func Sizes2D[T grid.Num](labels *grid.Grid2D[T], count int) []int {
	return sizes(labels.Cells(), count)
}

// Sizes3D counts the cells of each label in a 3D label field. See Sizes2D.
func Sizes3D[T grid.Num](labels *grid.Grid3D[T], count int) []int {
	return sizes(labels.Cells(), count)
}

func sizes[T grid.Num](cells []T, count int) []int {
	out := make([]int, count+1)
	for _, v := range cells {
		out[int(v)]++
	}
	return out
}

// KeepLargestRegion2D returns a binary grid containing only the largest
// connected foreground region of the input. Ties break toward the region
// discovered first in scan order. An empty input yields an empty output.
func KeepLargestRegion2D(bin *grid.Binary2D, conn label.Connectivity) (*grid.Binary2D, error) {
	lbl, count, err := label.FloodFill2D[uint32](bin, conn, label.Options{})
	if err != nil {
		return nil, err
	}
	out := grid.New2D[uint8](bin.W, bin.H)
	best := largest(Sizes2D(lbl, count), count)
	if best == 0 {
		return out, nil
	}
	keep(lbl.Cells(), out.Cells(), uint32(best))
	return out, nil
}

// KeepLargestRegion3D returns a binary grid containing only the largest
// connected foreground region of the 3D input. See KeepLargestRegion2D.
func KeepLargestRegion3D(bin *grid.Binary3D, conn label.Connectivity) (*grid.Binary3D, error) {
	lbl, count, err := label.FloodFill3D[uint32](bin, conn, label.Options{})
	if err != nil {
		return nil, err
	}
	out := grid.New3D[uint8](bin.W, bin.H, bin.D)
	best := largest(Sizes3D(lbl, count), count)
	if best == 0 {
		return out, nil
	}
	keep(lbl.Cells(), out.Cells(), uint32(best))
	return out, nil
}

// largest returns the label with the most cells, or 0 when no region
// exists. floats.MaxIdx returns the first maximum, which gives the
// scan-order tie break.
func largest(sizes []int, count int) int {
	if count == 0 {
		return 0
	}
	regionSizes := make([]float64, count)
	for l := 1; l <= count; l++ {
		regionSizes[l-1] = float64(sizes[l])
	}
	return floats.MaxIdx(regionSizes) + 1
}

func keep(labels []uint32, out []uint8, best uint32) {
	for i, v := range labels {
		if v == best {
			out[i] = 255
		}
	}
}
