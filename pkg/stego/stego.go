package stego

import (
	"errors"
	"fmt"
	"image"

	"github.com/Beastly713/stegano/pkg/bitstream"
	"github.com/Beastly713/stegano/pkg/capacity"
	"github.com/Beastly713/stegano/pkg/framing"
	"github.com/Beastly713/stegano/pkg/raster"
)

// ErrCapacityExceeded indicates the carrier has fewer slots than framed bits.
// It is only returned in strict mode; by default the overflow is dropped.
var ErrCapacityExceeded = errors.New("message too large for carrier image")

// ErrNoHiddenData indicates no end marker was found, or the payload before it
// could not be decoded.
var ErrNoHiddenData = errors.New("no hidden data found")

// ErrWrongPassphrase indicates a payload exists but the passphrase does not match.
var ErrWrongPassphrase = errors.New("hidden data found but passphrase is wrong")

// ErrInvalidChannel indicates a channel index outside the pixel's samples.
var ErrInvalidChannel = errors.New("invalid channel")

// ErrInvalidBits indicates a bit sequence holding values other than 0 and 1.
var ErrInvalidBits = errors.New("bit sequence contains values other than 0 and 1")

// DefaultChannel is the sample (red) that carries one bit per pixel.
const DefaultChannel = 0

type config struct {
	channel int
	strict  bool
}

// Option tweaks Embed/Extract.
type Option func(*config)

// WithChannel selects which single sample of each pixel carries the bit.
func WithChannel(channel int) Option {
	return func(c *config) {
		c.channel = channel
	}
}

// WithStrict makes Embed fail with ErrCapacityExceeded instead of
// silently truncating an oversized message.
func WithStrict() Option {
	return func(c *config) {
		c.strict = true
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{channel: DefaultChannel}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.channel < 0 || cfg.channel >= raster.SamplesPerPixel {
		return nil, fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidChannel, cfg.channel, raster.SamplesPerPixel-1)
	}
	return cfg, nil
}

// Embed writes bits into the least significant bit of one channel per pixel,
// in pixel order, and returns a new image. The input is never modified.
//
// Bits beyond the last pixel are dropped without error unless WithStrict is
// given. A dropped end marker means the result reads back as "no hidden data".
func Embed(img *raster.Image, bits bitstream.Bits, opts ...Option) (*raster.Image, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if !bits.Valid() {
		return nil, ErrInvalidBits
	}

	slots := img.Pixels()
	if cfg.strict && len(bits) > slots {
		return nil, fmt.Errorf("%w: need %d pixels, have %d", ErrCapacityExceeded, len(bits), slots)
	}

	output := img.Clone()
	for i := 0; i < slots && i < len(bits); i++ {
		idx := i*raster.SamplesPerPixel + cfg.channel
		output.Pix[idx] = (output.Pix[idx] & 0xFE) | (bits[i] & 1)
	}

	return output, nil
}

// Extract reads the least significant bit of the designated channel of every
// pixel. The result always has one bit per pixel; finding the marker is up to
// the caller.
func Extract(img *raster.Image, opts ...Option) (bitstream.Bits, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	bits := make(bitstream.Bits, img.Pixels())
	for i := range bits {
		bits[i] = img.Pix[i*raster.SamplesPerPixel+cfg.channel] & 0x01
	}
	return bits, nil
}

// Hide frames message (tagging it when passphrase is set) and embeds it into
// carrier. The report describes the framed bits against this carrier, so
// report.Fits() is false exactly when truncation happened.
func Hide(carrier image.Image, message, passphrase string, opts ...Option) (*raster.Image, capacity.Report, error) {
	img := raster.FromImage(carrier)
	bits := framing.Frame(message, passphrase)
	report := capacity.Calculate(img.Width, img.Height, 1, len(bits))

	out, err := Embed(img, bits, opts...)
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// Reveal extracts and unframes the hidden message, if any.
func Reveal(stegoImage image.Image, passphrase string, opts ...Option) (framing.Result, error) {
	bits, err := Extract(raster.FromImage(stegoImage), opts...)
	if err != nil {
		return framing.Result{}, err
	}
	return framing.Unframe(bits, passphrase), nil
}

// ResultErr maps a non-successful result onto ErrNoHiddenData or
// ErrWrongPassphrase. Found messages map to nil.
func ResultErr(res framing.Result) error {
	switch res.Status {
	case framing.Plain, framing.Decrypted:
		return nil
	case framing.WrongPassphrase:
		return ErrWrongPassphrase
	default:
		if res.Err != nil {
			return fmt.Errorf("%w: %v", ErrNoHiddenData, res.Err)
		}
		return ErrNoHiddenData
	}
}
