package regions

import (
	"testing"

	"morphogrid/pkg/grid"
	"morphogrid/pkg/label"
)

// TestBinarize checks the strict-threshold contract: cells strictly above
// the threshold become foreground.
func TestBinarize(t *testing.T) {
	g := grid.New2D[uint8](3, 1)
	g.Set(0, 0, 10)
	g.Set(1, 0, 127)
	g.Set(2, 0, 128)

	bin := Binarize2D(g, 127)
	if bin.At(0, 0) != 0 || bin.At(1, 0) != 0 {
		t.Errorf("Expected cells at or below the threshold to be background")
	}
	if bin.At(2, 0) == 0 {
		t.Errorf("Expected cells above the threshold to be foreground")
	}
}

// TestSizes verifies the per-label cell counts, background included.
func TestSizes(t *testing.T) {
	bin := grid.New2D[uint8](5, 5)
	bin.Set(0, 0, 255)
	bin.Set(1, 0, 255)
	bin.Set(4, 4, 255)

	lbl, count, err := label.FloodFill2D[uint8](bin, label.Conn4, label.Options{})
	if err != nil {
		t.Fatalf("FloodFill2D failed: %v", err)
	}
	sizes := Sizes2D(lbl, count)
	if len(sizes) != 3 {
		t.Fatalf("Expected sizes for background and 2 labels, got %d entries", len(sizes))
	}
	if sizes[0] != 22 {
		t.Errorf("Expected 22 background cells, got %d", sizes[0])
	}
	if sizes[1] != 2 || sizes[2] != 1 {
		t.Errorf("Expected region sizes (2,1), got (%d,%d)", sizes[1], sizes[2])
	}
}

// TestKeepLargestRegion keeps only the biggest blob; ties are impossible
// here so the result is exact.
func TestKeepLargestRegion(t *testing.T) {
	bin := grid.New2D[uint8](10, 3)
	// A 3-cell blob and a 5-cell blob.
	for x := 0; x < 3; x++ {
		bin.Set(x, 0, 255)
	}
	for x := 5; x < 10; x++ {
		bin.Set(x, 2, 255)
	}

	out, err := KeepLargestRegion2D(bin, label.Conn4)
	if err != nil {
		t.Fatalf("KeepLargestRegion2D failed: %v", err)
	}
	for x := 0; x < 3; x++ {
		if out.At(x, 0) != 0 {
			t.Errorf("Expected the smaller blob to be removed at (%d,0)", x)
		}
	}
	for x := 5; x < 10; x++ {
		if out.At(x, 2) == 0 {
			t.Errorf("Expected the larger blob to survive at (%d,2)", x)
		}
	}
}

// TestKeepLargestRegionEmpty checks the empty-input edge case.
func TestKeepLargestRegionEmpty(t *testing.T) {
	bin := grid.New2D[uint8](4, 4)
	out, err := KeepLargestRegion2D(bin, label.Conn8)
	if err != nil {
		t.Fatalf("KeepLargestRegion2D failed: %v", err)
	}
	for _, v := range out.Cells() {
		if v != 0 {
			t.Errorf("Expected an empty output for an empty input")
		}
	}
}

// TestKeepLargestRegion3D runs the 3D variant on two cubes of different
// size.
func TestKeepLargestRegion3D(t *testing.T) {
	bin := grid.New3D[uint8](6, 3, 3)
	bin.Set(0, 0, 0, 255) // single voxel
	for z := 1; z < 3; z++ {
		for y := 1; y < 3; y++ {
			for x := 3; x < 5; x++ {
				bin.Set(x, y, z, 255) // 2x2x2 cube
			}
		}
	}

	out, err := KeepLargestRegion3D(bin, label.Conn26)
	if err != nil {
		t.Fatalf("KeepLargestRegion3D failed: %v", err)
	}
	if out.At(0, 0, 0) != 0 {
		t.Errorf("Expected the single voxel to be removed")
	}
	if out.At(3, 1, 1) == 0 || out.At(4, 2, 2) == 0 {
		t.Errorf("Expected the cube to survive")
	}
}
