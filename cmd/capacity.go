package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/capacity"
	"github.com/Beastly713/stegano/pkg/format"
)

func newCapacityCmd(a *app) *cobra.Command {
	var message, passphrase string

	capacityCmd := &cobra.Command{
		Use:   "capacity [image]",
		Short: "Show how much text an image can carry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()

			reader, err := format.NewReader(f)
			if err != nil {
				return err
			}
			w, h := reader.Image.Width, reader.Image.Height
			a.log.Debug().Str("input", args[0]).Str("format", string(reader.Format)).Int("width", w).Int("height", h).Msg("carrier decoded")

			wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(wtr, "Image\t%s (%s)\n", args[0], reader.Format)
			fmt.Fprintf(wtr, "Dimensions\t%dx%d (%s pixels)\n", w, h, humanize.Comma(int64(w*h)))
			fmt.Fprintf(wtr, "Capacity\t%s bits (%s)\n", humanize.Comma(int64(w*h)), humanize.IBytes(uint64(w*h/8)))
			fmt.Fprintf(wtr, "Max message\t%s bytes\n", humanize.Comma(int64(capacity.MaxMessageBytes(w, h))))

			if cmd.Flags().Changed("message") {
				report := capacity.ForMessage(w, h, message, passphrase)
				fits := "yes"
				if !report.Fits() {
					fits = fmt.Sprintf("no, %d bits would be truncated", report.Overflow())
				}
				fmt.Fprintf(wtr, "Payload\t%s bits (%.1f%%)\n", humanize.Comma(int64(report.BitsUsed)), report.Utilization*100)
				fmt.Fprintf(wtr, "Fits\t%s\n", fits)
			}
			return wtr.Flush()
		},
	}

	capacityCmd.Flags().StringVarP(&message, "message", "m", "", "Check whether this message would fit")
	capacityCmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "Passphrase the message would be tagged with")

	return capacityCmd
}
