package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math/rand"
)

// SamplesPerPixel is the number of samples stored for each pixel (R, G, B, A).
const SamplesPerPixel = 4

// ErrInvalidRaster indicates the pixel buffer does not match the dimensions.
var ErrInvalidRaster = errors.New("invalid raster")

// Image is a decoded raster: non-premultiplied RGBA samples, row-major,
// 4 samples per pixel.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed (transparent black) raster.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*SamplesPerPixel),
	}
}

// FromImage converts any image.Image into a raster. The source is drawn into
// an NRGBA buffer so every colour model ends up as plain 8-bit samples.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	size := width * height * SamplesPerPixel

	// A SubImage keeps the parent's trailing rows in Pix, so the length is
	// checked along with the stride.
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Stride != width*SamplesPerPixel || bounds.Min != (image.Point{}) || len(nrgba.Pix) < size {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
		return &Image{Width: width, Height: height, Pix: nrgba.Pix}
	}

	// Fast path: copy so the caller's image is never aliased.
	pix := make([]uint8, size)
	copy(pix, nrgba.Pix[:size])
	return &Image{Width: width, Height: height, Pix: pix}
}

// NRGBA returns an image.Image view over a copy of the samples, ready to be
// handed to an encoder.
func (r *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	copy(out.Pix, r.Pix)
	return out
}

// Clone returns an independent deep copy.
func (r *Image) Clone() *Image {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Image{Width: r.Width, Height: r.Height, Pix: pix}
}

// Pixels is the number of pixels, which is also the number of embedding slots.
func (r *Image) Pixels() int {
	return r.Width * r.Height
}

// Validate checks len(Pix) == Width*Height*SamplesPerPixel.
func (r *Image) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidRaster)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidRaster, r.Width, r.Height)
	}
	if want := r.Width * r.Height * SamplesPerPixel; len(r.Pix) != want {
		return fmt.Errorf("%w: have %d samples, want %d for %dx%d", ErrInvalidRaster, len(r.Pix), want, r.Width, r.Height)
	}
	return nil
}

// Noise builds an opaque carrier filled with pseudo-random colours.
// The same seed always yields the same pixels.
func Noise(width, height int, seed int64) *Image {
	img := New(width, height)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < len(img.Pix); i += SamplesPerPixel {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 0xFF
	}
	return img
}
