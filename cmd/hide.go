package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/capacity"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/secrets"
)

type hideOptions struct {
	message        string
	messageFile    string
	passphrase     string
	passphraseFile string
	output         string
	outputFormat   string
	channel        int
	strict         bool
}

func newHideCmd(a *app) *cobra.Command {
	opts := &hideOptions{}

	hideCmd := &cobra.Command{
		Use:   "hide [image]",
		Short: "Hide a message inside an image",
		Long: `Hide writes the message into the least significant bit of one channel of
every pixel, followed by an end marker. The result is always a lossless image.

If the message does not fit, the overflow (possibly including the end marker)
is silently dropped and reveal will report no hidden data. Use --strict to
fail instead.

Example:
  stegano hide cat.png -m "meet at dawn" -p swordfish -o cat_stego.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHide(cmd, a, opts, args[0])
		},
	}

	hideCmd.Flags().StringVarP(&opts.message, "message", "m", "", "Message to hide")
	hideCmd.Flags().StringVar(&opts.messageFile, "message-file", "", "Read the message from a file")
	hideCmd.Flags().StringVarP(&opts.passphrase, "passphrase", "p", "", "Tag the message with a passphrase (base64, not encryption)")
	hideCmd.Flags().StringVar(&opts.passphraseFile, "passphrase-file", "", "Read the passphrase from a file")
	hideCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output image (default: <name>_stego.<ext> next to the input)")
	hideCmd.Flags().StringVar(&opts.outputFormat, "format", "", "Output format: png, bmp or tiff")
	hideCmd.Flags().IntVar(&opts.channel, "channel", 0, "Pixel channel carrying the bits (0=R 1=G 2=B 3=A)")
	hideCmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail instead of truncating a message that does not fit")

	hideCmd.MarkFlagsMutuallyExclusive("message", "message-file")
	hideCmd.MarkFlagsMutuallyExclusive("passphrase", "passphrase-file")

	return hideCmd
}

func runHide(cmd *cobra.Command, a *app, opts *hideOptions, inputPath string) error {
	out := printer{w: cmd.OutOrStdout()}

	// 1. Resolve inputs
	message, err := resolveMessage(cmd, opts)
	if err != nil {
		return err
	}
	passphrase, err := resolvePassphrase(opts)
	if err != nil {
		return err
	}

	cfg := pipeline.HideConfig{
		Message:    message,
		Passphrase: passphrase,
		Channel:    a.cfg.Channel,
		Strict:     a.cfg.Strict,
	}
	if cmd.Flags().Changed("channel") {
		cfg.Channel = opts.channel
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = opts.strict
	}

	outputPath := opts.output
	cfg.Format, err = resolveOutputFormat(a, opts, outputPath)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, cfg.Format)
	}

	a.log.Debug().
		Str("input", inputPath).
		Str("output", outputPath).
		Str("format", string(cfg.Format)).
		Int("channel", cfg.Channel).
		Bool("strict", cfg.Strict).
		Int("message_bytes", len(message)).
		Msg("hiding message")

	// 2. Open the carrier
	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer input.Close()

	// 3. Write to a temp file and rename, so a failed run never leaves a
	// half-written image behind.
	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	tmp, err := os.CreateTemp(outDir, ".stegano-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	report, err := pipeline.HidePipeline(cmd.Context(), input, tmp, cfg)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("hide failed: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	// 4. Report
	out.info("%s", report)
	if passphrase != "" {
		out.warning("Passphrase tagging is base64 obfuscation, not encryption.")
	}
	if !report.Fits() {
		out.warning("Message truncated: %d of %d bits did not fit (max message %s). Reveal will find no hidden data.",
			report.Overflow(), report.BitsUsed, humanize.IBytes(uint64(capacity.MaxMessageBytes(report.Width, report.Height))))
		a.log.Warn().Int("overflow_bits", report.Overflow()).Msg("message truncated")
	}
	out.success("Created %s", outputPath)
	return nil
}

func resolveMessage(cmd *cobra.Command, opts *hideOptions) (string, error) {
	if opts.messageFile != "" {
		data, err := os.ReadFile(opts.messageFile)
		if err != nil {
			return "", fmt.Errorf("failed to read message file: %w", err)
		}
		return string(data), nil
	}
	if !cmd.Flags().Changed("message") {
		return "", errors.New("a message is required (--message or --message-file)")
	}
	return opts.message, nil
}

func resolvePassphrase(opts *hideOptions) (string, error) {
	if opts.passphraseFile == "" {
		return opts.passphrase, nil
	}
	return readPassphraseFile(opts.passphraseFile)
}

// readPassphraseFile returns the first line of path. The raw file contents
// are wiped once the line has been copied out.
func readPassphraseFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}
	raw := secrets.WrapSecret(data)
	defer raw.Destroy()

	line, _, _ := strings.Cut(string(raw.Bytes()), "\n")
	return strings.TrimRight(line, "\r"), nil
}

func resolveOutputFormat(a *app, opts *hideOptions, outputPath string) (format.Format, error) {
	if opts.outputFormat != "" {
		f, ok := format.Parse(opts.outputFormat)
		if !ok {
			return "", fmt.Errorf("unknown output format %q", opts.outputFormat)
		}
		return f, nil
	}
	if outputPath != "" && format.IsImagePath(outputPath) {
		return format.FromPath(outputPath), nil
	}
	return a.cfg.OutputFormat, nil
}

// defaultOutputPath turns dir/cat.jpg into dir/cat_stego.png (for PNG output).
func defaultOutputPath(inputPath string, f format.Format) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("%s_stego.%s", name, f))
}
