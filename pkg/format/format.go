package format

import (
	"errors"
	"path/filepath"
	"strings"
)

// Format names an image container.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	GIF  Format = "gif"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// ErrUnsupportedImage indicates the input could not be decoded as any known container.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// ErrLossyFormat indicates an output container that would destroy LSB data.
var ErrLossyFormat = errors.New("lossy image format cannot carry hidden data")

// ErrImageTooLarge guards against decoding absurd dimensions.
var ErrImageTooLarge = errors.New("image dimensions too large")

// MaxPixels bounds the carriers we are willing to decode (~64 megapixels).
const MaxPixels = 64 << 20

// Lossless reports whether the format preserves every sample bit on write.
// Only lossless formats may be used for stego output.
func (f Format) Lossless() bool {
	switch f {
	case PNG, BMP, TIFF:
		return true
	default:
		return false
	}
}

// Parse maps a user supplied name ("PNG", "tif", "jpg") onto a Format.
func Parse(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png":
		return PNG, true
	case "bmp":
		return BMP, true
	case "tif", "tiff":
		return TIFF, true
	case "gif":
		return GIF, true
	case "jpg", "jpeg":
		return JPEG, true
	case "webp":
		return WebP, true
	default:
		return "", false
	}
}

// FromPath guesses the format from a file extension, defaulting to PNG.
func FromPath(path string) Format {
	if f, ok := Parse(filepath.Ext(path)); ok {
		return f
	}
	return PNG
}

// IsImagePath reports whether path has an extension we can decode.
func IsImagePath(path string) bool {
	_, ok := Parse(filepath.Ext(path))
	return ok
}
