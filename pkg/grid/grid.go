// Package grid provides dense rectangular (2D) and cuboid (3D) value grids
// used throughout the library. Grids store their cells in a flat row-major
// slice (z-major for 3D) with explicit dimensions, which keeps the raster
// sweep loops of the distance transforms simple and cache friendly.
package grid

// Num constrains the scalar types a grid can hold. Distance fields and label
// fields use the unsigned widths for fixed-point results and float32 for
// real-valued results.
type Num interface {
	~uint8 | ~uint16 | ~uint32 | ~float32
}

// Grid2D is a dense rectangular array of scalar values addressed by integer
// coordinates. Out-of-range access is a programming error and panics; it is
// never silently clamped.
type Grid2D[T Num] struct {
	// W and H are the grid dimensions in cells.
	W, H int

	data []T
}

// New2D allocates a zero-filled grid with the given dimensions.
func New2D[T Num](w, h int) *Grid2D[T] {
	if w <= 0 || h <= 0 {
		panic("grid: non-positive dimensions")
	}
	return &Grid2D[T]{W: w, H: h, data: make([]T, w*h)}
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid2D[T]) Index(x, y int) int { return y*g.W + x }

// At returns the value stored at (x, y).
func (g *Grid2D[T]) At(x, y int) T {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		panic("grid: coordinates out of range")
	}
	return g.data[y*g.W+x]
}

// Set stores v at (x, y).
func (g *Grid2D[T]) Set(x, y int, v T) {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		panic("grid: coordinates out of range")
	}
	g.data[y*g.W+x] = v
}

// Cells exposes the backing slice so sweep loops can read and write values
// directly by linear index.
func (g *Grid2D[T]) Cells() []T { return g.data }

// Grid3D is a dense cuboid array of scalar values. Cells are stored z-major:
// the linear index of (x, y, z) is (z*H+y)*W+x.
type Grid3D[T Num] struct {
	// W, H and D are the grid dimensions in cells.
	W, H, D int

	data []T
}

// New3D allocates a zero-filled grid with the given dimensions.
func New3D[T Num](w, h, d int) *Grid3D[T] {
	if w <= 0 || h <= 0 || d <= 0 {
		panic("grid: non-positive dimensions")
	}
	return &Grid3D[T]{W: w, H: h, D: d, data: make([]T, w*h*d)}
}

// Index returns the linear slice index for coordinates (x, y, z).
func (g *Grid3D[T]) Index(x, y, z int) int { return (z*g.H+y)*g.W + x }

// At returns the value stored at (x, y, z).
func (g *Grid3D[T]) At(x, y, z int) T {
	if x < 0 || x >= g.W || y < 0 || y >= g.H || z < 0 || z >= g.D {
		panic("grid: coordinates out of range")
	}
	return g.data[(z*g.H+y)*g.W+x]
}

// Set stores v at (x, y, z).
func (g *Grid3D[T]) Set(x, y, z int, v T) {
	if x < 0 || x >= g.W || y < 0 || y >= g.H || z < 0 || z >= g.D {
		panic("grid: coordinates out of range")
	}
	g.data[(z*g.H+y)*g.W+x] = v
}

// Cells exposes the backing slice so sweep loops can read and write values
// directly by linear index.
func (g *Grid3D[T]) Cells() []T { return g.data }

// Binary2D holds a 2D foreground/background region. Any nonzero cell is
// foreground.
type Binary2D = Grid2D[uint8]

// Binary3D holds a 3D foreground/background region. Any nonzero cell is
// foreground.
type Binary3D = Grid3D[uint8]
