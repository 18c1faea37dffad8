package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/Beastly713/stegano/pkg/capacity"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/framing"
	"github.com/Beastly713/stegano/pkg/stego"
)

// HideConfig holds the parameters for the hide operation
type HideConfig struct {
	Message    string
	Passphrase string
	Format     format.Format
	Channel    int
	Strict     bool
}

func (c HideConfig) options() []stego.Option {
	opts := []stego.Option{stego.WithChannel(c.Channel)}
	if c.Strict {
		opts = append(opts, stego.WithStrict())
	}
	return opts
}

// HidePipeline orchestrates the flow: Decode -> Frame -> Embed -> Encode.
// The context is only consulted around the image I/O; the embed itself is
// atomic and nothing is written to output unless every step succeeded.
func HidePipeline(ctx context.Context, input io.Reader, output io.Writer, cfg HideConfig) (capacity.Report, error) {
	if cfg.Format == "" {
		cfg.Format = format.PNG
	}
	if !cfg.Format.Lossless() {
		return capacity.Report{}, fmt.Errorf("%w: %s", format.ErrLossyFormat, cfg.Format)
	}

	// 1. Decode carrier
	if err := ctx.Err(); err != nil {
		return capacity.Report{}, err
	}
	reader, err := format.NewReader(input)
	if err != nil {
		return capacity.Report{}, fmt.Errorf("failed to decode carrier: %w", err)
	}
	carrier := reader.Image

	// 2. Frame
	bits := framing.Frame(cfg.Message, cfg.Passphrase)
	report := capacity.Calculate(carrier.Width, carrier.Height, 1, len(bits))

	// 3. Embed
	stegoImg, err := stego.Embed(carrier, bits, cfg.options()...)
	if err != nil {
		return report, fmt.Errorf("embedding failed: %w", err)
	}

	// 4. Encode
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if err := format.NewWriter(output).Write(stegoImg, cfg.Format); err != nil {
		return report, fmt.Errorf("failed to encode output: %w", err)
	}

	return report, nil
}

// RevealPipeline orchestrates the reverse: Decode -> Extract -> Unframe
func RevealPipeline(ctx context.Context, input io.Reader, passphrase string, channel int) (framing.Result, error) {
	if err := ctx.Err(); err != nil {
		return framing.Result{}, err
	}
	reader, err := format.NewReader(input)
	if err != nil {
		return framing.Result{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bits, err := stego.Extract(reader.Image, stego.WithChannel(channel))
	if err != nil {
		return framing.Result{}, fmt.Errorf("extraction failed: %w", err)
	}

	return framing.Unframe(bits, passphrase), nil
}

// FileResult is the outcome of revealing a single file in a batch.
type FileResult struct {
	Path   string
	Result framing.Result
	Err    error
}

// RevealFiles reveals every path independently, at most workers at a time.
// Results come back in input order. A failure on one file is recorded in its
// FileResult and never stops the others; only ctx cancellation does.
func RevealFiles(ctx context.Context, paths []string, passphrase string, channel, workers int) []FileResult {
	results := make([]FileResult, len(paths))
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		results[i].Path = path
		g.Go(func() error {
			res, err := revealFile(gctx, path, passphrase, channel)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func revealFile(ctx context.Context, path, passphrase string, channel int) (framing.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return framing.Result{}, err
	}
	defer f.Close()

	return RevealPipeline(ctx, f, passphrase, channel)
}
