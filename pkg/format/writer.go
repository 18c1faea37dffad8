package format

import (
	"fmt"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Beastly713/stegano/pkg/raster"
)

// Writer encodes rasters into lossless containers.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer (usually an os.File).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes img as f. Lossy formats are refused before anything is written.
func (fw *Writer) Write(img *raster.Image, f Format) error {
	if !f.Lossless() {
		return fmt.Errorf("%w: %s", ErrLossyFormat, f)
	}
	if err := img.Validate(); err != nil {
		return err
	}

	m := img.NRGBA()

	var err error
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(fw.w, m)
	case BMP:
		err = bmp.Encode(fw.w, m)
	case TIFF:
		err = tiff.Encode(fw.w, m, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}
