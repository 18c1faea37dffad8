package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/framing"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/stego"
)

type revealOptions struct {
	passphrase     string
	passphraseFile string
	channel        int
	workers        int
	raw            bool
}

func newRevealCmd(a *app) *cobra.Command {
	opts := &revealOptions{}

	revealCmd := &cobra.Command{
		Use:   "reveal [image|directory]",
		Short: "Read a hidden message back out of an image",
		Long: `Reveal reads one bit per pixel, looks for the end marker and decodes the
message in front of it.

Given a directory, every image inside it is checked concurrently and one line
is printed per file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReveal(cmd, a, opts, args[0])
		},
	}

	revealCmd.Flags().StringVarP(&opts.passphrase, "passphrase", "p", "", "Passphrase the message was tagged with")
	revealCmd.Flags().StringVar(&opts.passphraseFile, "passphrase-file", "", "Read the passphrase from a file")
	revealCmd.Flags().IntVar(&opts.channel, "channel", 0, "Pixel channel carrying the bits (0=R 1=G 2=B 3=A)")
	revealCmd.Flags().IntVar(&opts.workers, "workers", 0, "Images decoded in parallel when revealing a directory")
	revealCmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the message, without status decoration")

	revealCmd.MarkFlagsMutuallyExclusive("passphrase", "passphrase-file")

	return revealCmd
}

func runReveal(cmd *cobra.Command, a *app, opts *revealOptions, target string) error {
	passphrase := opts.passphrase
	if opts.passphraseFile != "" {
		p, err := readPassphraseFile(opts.passphraseFile)
		if err != nil {
			return err
		}
		passphrase = p
	}

	channel := a.cfg.Channel
	if cmd.Flags().Changed("channel") {
		channel = opts.channel
	}
	workers := a.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", target, err)
	}
	if info.IsDir() {
		return revealDir(cmd, a, target, passphrase, channel, workers)
	}

	a.log.Debug().Str("input", target).Int("channel", channel).Msg("revealing message")

	f, err := os.Open(target)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	res, err := pipeline.RevealPipeline(cmd.Context(), f, passphrase, channel)
	if err != nil {
		return err
	}
	if res.Err != nil {
		a.log.Debug().Err(res.Err).Msg("payload rejected")
	}
	if err := stego.ResultErr(res); err != nil {
		return err
	}

	if opts.raw {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	}
	out := printer{w: cmd.OutOrStdout()}
	out.success("Hidden message (%s):", res.Status)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func revealDir(cmd *cobra.Command, a *app, dir, passphrase string, channel, workers int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && format.IsImagePath(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(paths)

	a.log.Debug().Str("dir", dir).Int("images", len(paths)).Int("workers", workers).Msg("revealing directory")

	out := printer{w: cmd.OutOrStdout()}
	found := 0
	for _, r := range pipeline.RevealFiles(cmd.Context(), paths, passphrase, channel, workers) {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			out.failure("%s: %v", name, r.Err)
		case r.Result.Status == framing.Decrypted || r.Result.Status == framing.Plain:
			found++
			out.success("%s: %q", name, r.Result.Message)
		case r.Result.Status == framing.WrongPassphrase:
			found++
			out.warning("%s: %s", name, r.Result.Status)
		default:
			out.info("%s: %s", name, r.Result.Status)
		}
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if found == 0 {
		return fmt.Errorf("%w in any of %d images", stego.ErrNoHiddenData, len(paths))
	}
	out.info("%d of %d images carry hidden data", found, len(paths))
	return nil
}
