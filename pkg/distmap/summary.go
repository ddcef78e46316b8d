package distmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"morphogrid/pkg/grid"
)

// Stats summarizes a distance field. Cells holding the unreached sentinel
// (the maximum representable value for integer fields, +Inf for float32) are
// counted separately and excluded from the moments.
type Stats struct {
	// Min, Max, Mean and StdDev describe the finite distances.
	Min, Max, Mean, StdDev float64

	// Finite is the number of cells carrying a finite distance, Unreached
	// the number carrying the sentinel.
	Finite, Unreached int
}

// Summary2D computes summary statistics over a 2D distance field.
func Summary2D[T grid.Num](field *grid.Grid2D[T]) Stats {
	return summarize(field.Cells())
}

// Summary3D computes summary statistics over a 3D distance field.
func Summary3D[T grid.Num](field *grid.Grid3D[T]) Stats {
	return summarize(field.Cells())
}

func summarize[T grid.Num](cells []T) Stats {
	sentinel := maxFinite[T]()
	vals := make([]float64, 0, len(cells))
	var s Stats
	for _, c := range cells {
		v := float64(c)
		if v >= sentinel || math.IsInf(v, 1) {
			s.Unreached++
			continue
		}
		vals = append(vals, v)
	}
	s.Finite = len(vals)
	if s.Finite == 0 {
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if s.Finite == 1 {
		s.StdDev = 0
	}
	return s
}
