// Package imgio loads slice-image directories into grids and writes result
// fields back out as grayscale slice images. Slices are ordered by the
// numeric part of their filenames so anatomical/stack order survives
// arbitrary naming schemes.
package imgio

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	// Registered decoders for image.Decode.
	_ "image/jpeg"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"

	"morphogrid/pkg/grid"
)

var sliceExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// LoadStack reads every supported image in a directory, sorted by the
// numeric part of the filename, into a z-major grayscale grid. All slices
// must share the dimensions of the first.
func LoadStack(dir string) (*grid.Grid3D[uint8], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading slice directory %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if sliceExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.Errorf("no slice images found in %s", dir)
	}

	// Sort by the number embedded in the filename so slice order matches
	// the stack order regardless of zero padding.
	sort.Slice(names, func(i, j int) bool {
		return extractNumber(names[i]) < extractNumber(names[j])
	})

	var stack *grid.Grid3D[uint8]
	for z, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "loading slice %s", name)
		}
		b := img.Bounds()
		if stack == nil {
			stack = grid.New3D[uint8](b.Dx(), b.Dy(), len(names))
		} else if b.Dx() != stack.W || b.Dy() != stack.H {
			return nil, errors.Errorf("slice %s is %dx%d, want %dx%d",
				name, b.Dx(), b.Dy(), stack.W, stack.H)
		}
		for y := 0; y < stack.H; y++ {
			for x := 0; x < stack.W; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				// 16-bit channel average down to 8 bits.
				stack.Set(x, y, z, uint8(((r+g+bl)/3)>>8))
			}
		}
	}
	return stack, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(path)); ext == ".tif" || ext == ".tiff" {
		return tiff.Decode(file)
	}
	img, _, err := image.Decode(file)
	return img, err
}

// SaveStack writes each z slice of a field to dir as grayscale images named
// by slice index, rescaling the field's finite value range to 8 bits.
// format is "png" or "tiff".
func SaveStack[T grid.Num](field *grid.Grid3D[T], dir, format string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", dir)
	}
	lo, hi := valueRange(field.Cells())
	for z := 0; z < field.D; z++ {
		img := image.NewGray(image.Rect(0, 0, field.W, field.H))
		for y := 0; y < field.H; y++ {
			for x := 0; x < field.W; x++ {
				img.SetGray(x, y, color.Gray{Y: rescale(float64(field.At(x, y, z)), lo, hi)})
			}
		}
		path := filepath.Join(dir, sliceName(z, format))
		if err := saveImage(img, path, format); err != nil {
			return errors.Wrapf(err, "saving slice %d", z)
		}
	}
	return nil
}

func sliceName(z int, format string) string {
	ext := ".png"
	if format == "tiff" {
		ext = ".tif"
	}
	return "slice_" + strconv.Itoa(z) + ext
}

func saveImage(img image.Image, path, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if format == "tiff" {
		return tiff.Encode(file, img, nil)
	}
	return png.Encode(file, img)
}

// valueRange returns the smallest and largest finite cell values, ignoring
// +Inf so unreached cells render as full white instead of flattening the
// scale.
func valueRange[T grid.Num](cells []T) (lo, hi float64) {
	first := true
	for _, c := range cells {
		v := float64(c)
		if math.IsInf(v, 1) {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func rescale(v, lo, hi float64) uint8 {
	if math.IsInf(v, 1) {
		return 255
	}
	if hi <= lo {
		return 0
	}
	s := (v - lo) / (hi - lo) * 255
	if s < 0 {
		s = 0
	}
	if s > 255 {
		s = 255
	}
	return uint8(s)
}
