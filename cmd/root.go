package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/config"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log zerolog.Logger
}

// NewRootCmd builds a fresh command tree. Each call is independent, which
// keeps flag state from leaking between invocations in tests.
func NewRootCmd() *cobra.Command {
	a := &app{
		cfg: config.Default(),
		log: zerolog.Nop(),
	}

	rootCmd := &cobra.Command{
		Use:   "stegano",
		Short: "Hide text inside images using LSB steganography",
		Long: `Stegano hides a text message in the least significant bit of one colour
channel of every pixel of an image, and reads it back.

An optional passphrase tags the message. The tag is base64, NOT encryption:
anyone who finds the payload can decode it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(
		newHideCmd(a),
		newRevealCmd(a),
		newCapacityCmd(a),
		newCarrierCmd(a),
		newPassphraseCmd(a),
		newInteractiveCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Validate has already rejected unknown levels.
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	if a.verbose {
		level = zerolog.DebugLevel
	}

	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		Level(level).
		With().Timestamp().Str("cmd", cmd.Name()).
		Logger()
	a.log.Debug().Interface("config", cfg).Msg("configuration resolved")
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
