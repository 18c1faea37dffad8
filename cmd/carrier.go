package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/raster"
)

func newCarrierCmd(a *app) *cobra.Command {
	var (
		width, height int
		seed          int64
		output        string
		outputFormat  string
	)

	carrierCmd := &cobra.Command{
		Use:   "carrier",
		Short: "Generate a random noise image to hide messages in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 1 || height < 1 {
				return fmt.Errorf("dimensions must be positive, got %dx%d", width, height)
			}
			if width*height > format.MaxPixels {
				return fmt.Errorf("%w: %dx%d", format.ErrImageTooLarge, width, height)
			}

			f := a.cfg.OutputFormat
			switch {
			case outputFormat != "":
				parsed, ok := format.Parse(outputFormat)
				if !ok {
					return fmt.Errorf("unknown output format %q", outputFormat)
				}
				f = parsed
			case cmd.Flags().Changed("output") && format.IsImagePath(output):
				f = format.FromPath(output)
			}
			if !cmd.Flags().Changed("output") {
				output = fmt.Sprintf("carrier.%s", f)
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			a.log.Debug().Int("width", width).Int("height", height).Int64("seed", seed).Str("output", output).Msg("generating carrier")

			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := format.NewWriter(out).Write(raster.Noise(width, height, seed), f); err != nil {
				out.Close()
				os.Remove(output)
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			printer{w: cmd.OutOrStdout()}.success("Created %s (%dx%d, seed %d)", output, width, height, seed)
			return nil
		},
	}

	carrierCmd.Flags().IntVar(&width, "width", 256, "Image width in pixels")
	carrierCmd.Flags().IntVar(&height, "height", 256, "Image height in pixels")
	carrierCmd.Flags().Int64Var(&seed, "seed", 0, "Noise seed (default: current time)")
	carrierCmd.Flags().StringVarP(&output, "output", "o", "", "Output image (default: carrier.<format>)")
	carrierCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: png, bmp or tiff")

	return carrierCmd
}
