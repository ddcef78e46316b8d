package label

import (
	"errors"
	"testing"

	"morphogrid/pkg/grid"
)

// TestSingleBlock reproduces the reference scenario: a 10x10 all-background
// grid except a filled 2x2 block at (2,2)-(3,3). Labeling with 4-adjacency
// and 8-bit capacity returns exactly one label covering those four cells and
// 0 elsewhere.
func TestSingleBlock(t *testing.T) {
	bin := grid.New2D[uint8](10, 10)
	for y := 2; y <= 3; y++ {
		for x := 2; x <= 3; x++ {
			bin.Set(x, y, 255)
		}
	}

	lbl, count, err := FloodFill2D[uint8](bin, Conn4, Options{})
	if err != nil {
		t.Fatalf("FloodFill2D failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 label, got %d", count)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := uint8(0)
			if x >= 2 && x <= 3 && y >= 2 && y <= 3 {
				want = 1
			}
			if got := lbl.At(x, y); got != want {
				t.Errorf("Expected label %d at (%d,%d), got %d", want, x, y, got)
			}
		}
	}
}

// TestScanOrderLabeling checks that label identity follows the raster order
// of each region's first cell.
func TestScanOrderLabeling(t *testing.T) {
	bin := grid.New2D[uint8](6, 6)
	bin.Set(4, 0, 255) // first in scan order
	bin.Set(0, 2, 255) // second
	bin.Set(2, 4, 255) // third

	lbl, count, err := FloodFill2D[uint8](bin, Conn8, Options{})
	if err != nil {
		t.Fatalf("FloodFill2D failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 labels, got %d", count)
	}
	if lbl.At(4, 0) != 1 || lbl.At(0, 2) != 2 || lbl.At(2, 4) != 3 {
		t.Errorf("Expected labels (1,2,3) in scan order, got (%d,%d,%d)",
			lbl.At(4, 0), lbl.At(0, 2), lbl.At(2, 4))
	}
}

// TestConnectivityChoice verifies that corner-touching cells form one region
// under 8-adjacency and two under 4-adjacency.
func TestConnectivityChoice(t *testing.T) {
	bin := grid.New2D[uint8](4, 4)
	bin.Set(1, 1, 255)
	bin.Set(2, 2, 255)

	_, count4, err := FloodFill2D[uint8](bin, Conn4, Options{})
	if err != nil {
		t.Fatalf("FloodFill2D (4) failed: %v", err)
	}
	if count4 != 2 {
		t.Errorf("Expected 2 regions under 4-adjacency, got %d", count4)
	}

	_, count8, err := FloodFill2D[uint8](bin, Conn8, Options{})
	if err != nil {
		t.Fatalf("FloodFill2D (8) failed: %v", err)
	}
	if count8 != 1 {
		t.Errorf("Expected 1 region under 8-adjacency, got %d", count8)
	}
}

// TestConnectivity3D does the same for corner-touching voxels with 6- and
// 26-adjacency.
func TestConnectivity3D(t *testing.T) {
	bin := grid.New3D[uint8](3, 3, 3)
	bin.Set(0, 0, 0, 255)
	bin.Set(1, 1, 1, 255)

	_, count6, err := FloodFill3D[uint8](bin, Conn6, Options{})
	if err != nil {
		t.Fatalf("FloodFill3D (6) failed: %v", err)
	}
	if count6 != 2 {
		t.Errorf("Expected 2 regions under 6-adjacency, got %d", count6)
	}

	_, count26, err := FloodFill3D[uint8](bin, Conn26, Options{})
	if err != nil {
		t.Fatalf("FloodFill3D (26) failed: %v", err)
	}
	if count26 != 1 {
		t.Errorf("Expected 1 region under 26-adjacency, got %d", count26)
	}
}

// TestCapacity engineers 256 isolated single-cell regions: an 8-bit output
// (capacity 255) must fail before wrapping, a 16-bit output must succeed
// with exactly 256 labels.
func TestCapacity(t *testing.T) {
	bin := grid.New2D[uint8](32, 32)
	for y := 0; y < 32; y += 2 {
		for x := 0; x < 32; x += 2 {
			bin.Set(x, y, 255)
		}
	}

	if _, _, err := FloodFill2D[uint8](bin, Conn4, Options{}); !errors.Is(err, ErrLabelCapacityExceeded) {
		t.Errorf("Expected ErrLabelCapacityExceeded with 8-bit labels, got %v", err)
	}

	lbl, count, err := FloodFill2D[uint16](bin, Conn4, Options{})
	if err != nil {
		t.Fatalf("Expected 16-bit labels to succeed, got %v", err)
	}
	if count != 256 {
		t.Errorf("Expected 256 labels, got %d", count)
	}
	if got := lbl.At(30, 30); got != 256 {
		t.Errorf("Expected the last region to carry label 256, got %d", got)
	}
}

// TestExplicitCapacity checks a caller-lowered capacity ceiling.
func TestExplicitCapacity(t *testing.T) {
	bin := grid.New2D[uint8](10, 1)
	bin.Set(0, 0, 255)
	bin.Set(2, 0, 255)
	bin.Set(4, 0, 255)

	if _, _, err := FloodFill2D[uint16](bin, Conn4, Options{Capacity: 2}); !errors.Is(err, ErrLabelCapacityExceeded) {
		t.Errorf("Expected ErrLabelCapacityExceeded with capacity 2, got %v", err)
	}
}

// TestMaxLabels pins the label ceilings, including the float-mantissa bound
// shared by both 32-bit backings.
func TestMaxLabels(t *testing.T) {
	if got := MaxLabels[uint8](); got != 255 {
		t.Errorf("Expected 255 for uint8, got %d", got)
	}
	if got := MaxLabels[uint16](); got != 65535 {
		t.Errorf("Expected 65535 for uint16, got %d", got)
	}
	if got := MaxLabels[float32](); got != 8388607 {
		t.Errorf("Expected 8388607 for float32, got %d", got)
	}
	if got := MaxLabels[uint32](); got != 8388607 {
		t.Errorf("Expected 8388607 for uint32, got %d", got)
	}
}

// blobs returns a pattern with three 8-connected regions of varying shape,
// including a U that exercises label equivalences in the two-pass variant.
func blobs() *grid.Binary2D {
	bin := grid.New2D[uint8](10, 8)
	// A U shape: two arms joined at the bottom, so the arms get distinct
	// provisional labels that must be merged.
	for y := 0; y < 4; y++ {
		bin.Set(1, y, 255)
		bin.Set(4, y, 255)
	}
	for x := 1; x <= 4; x++ {
		bin.Set(x, 4, 255)
	}
	// A lone cell.
	bin.Set(7, 1, 255)
	// A diagonal chain.
	bin.Set(6, 5, 255)
	bin.Set(7, 6, 255)
	bin.Set(8, 7, 255)
	return bin
}

// TestRelabelingIdempotence labels a field, treats the result as a binary
// grid and labels it again: the component count and cell membership must
// survive, even though identities may renumber.
func TestRelabelingIdempotence(t *testing.T) {
	bin := blobs()
	first, count1, err := FloodFill2D[uint16](bin, Conn8, Options{})
	if err != nil {
		t.Fatalf("first labeling failed: %v", err)
	}

	asBinary := grid.New2D[uint8](bin.W, bin.H)
	for i, v := range first.Cells() {
		if v > 0 {
			asBinary.Cells()[i] = 1
		}
	}
	second, count2, err := FloodFill2D[uint16](asBinary, Conn8, Options{})
	if err != nil {
		t.Fatalf("second labeling failed: %v", err)
	}

	if count1 != count2 {
		t.Fatalf("Expected the same region count, got %d then %d", count1, count2)
	}
	// Same membership: cells share a label in the first field exactly when
	// they share one in the second.
	for i, a := range first.Cells() {
		for j, b := range first.Cells() {
			if (a == b) != (second.Cells()[i] == second.Cells()[j]) {
				t.Fatalf("Membership changed between labelings at cells %d and %d", i, j)
			}
		}
	}
}

// TestTwoPassMatchesFloodFill checks the union-find variant produces a field
// identical to the flood fill, label identities included.
func TestTwoPassMatchesFloodFill(t *testing.T) {
	bin := blobs()
	for _, conn := range []Connectivity{Conn4, Conn8} {
		ff, countFF, err := FloodFill2D[uint16](bin, conn, Options{})
		if err != nil {
			t.Fatalf("FloodFill2D failed: %v", err)
		}
		tp, countTP, err := TwoPass2D[uint16](bin, conn, Options{})
		if err != nil {
			t.Fatalf("TwoPass2D failed: %v", err)
		}
		if countFF != countTP {
			t.Fatalf("conn %d: flood fill found %d regions, two-pass %d", conn, countFF, countTP)
		}
		for i := range ff.Cells() {
			if ff.Cells()[i] != tp.Cells()[i] {
				t.Errorf("conn %d: fields differ at cell %d: %d vs %d",
					conn, i, ff.Cells()[i], tp.Cells()[i])
			}
		}
	}
}

// TestFloatLabels checks float32-backed label fields carry exact small
// integers.
func TestFloatLabels(t *testing.T) {
	bin := blobs()
	lbl, count, err := FloodFill2D[float32](bin, Conn8, Options{})
	if err != nil {
		t.Fatalf("FloodFill2D failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 regions, got %d", count)
	}
	seen := map[float32]bool{}
	for _, v := range lbl.Cells() {
		if v != 0 {
			seen[v] = true
		}
	}
	for l := float32(1); l <= 3; l++ {
		if !seen[l] {
			t.Errorf("Expected label %v to appear in the field", l)
		}
	}
}

// TestUnsupportedConnectivity verifies the adjacency validation.
func TestUnsupportedConnectivity(t *testing.T) {
	bin2 := grid.New2D[uint8](2, 2)
	if _, _, err := FloodFill2D[uint8](bin2, Conn6, Options{}); !errors.Is(err, ErrUnsupportedConnectivity) {
		t.Errorf("Expected ErrUnsupportedConnectivity for 6 in 2D, got %v", err)
	}
	bin3 := grid.New3D[uint8](2, 2, 2)
	if _, _, err := FloodFill3D[uint8](bin3, Conn8, Options{}); !errors.Is(err, ErrUnsupportedConnectivity) {
		t.Errorf("Expected ErrUnsupportedConnectivity for 8 in 3D, got %v", err)
	}
}

// TestLabelCancellation verifies the per-row cancellation poll.
func TestLabelCancellation(t *testing.T) {
	bin := grid.New2D[uint8](8, 8)
	for i := range bin.Cells() {
		bin.Cells()[i] = 255
	}
	calls := 0
	_, _, err := FloodFill2D[uint8](bin, Conn4, Options{Cancelled: func() bool {
		calls++
		return calls > 2
	}})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}
