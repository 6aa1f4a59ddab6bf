package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/saivivek-01/VISION/internal/config"
	"github.com/saivivek-01/VISION/internal/pipeline"
	"github.com/saivivek-01/VISION/internal/types"
)

func run(cmd *cobra.Command, input string) error {
	mode, _ := cmd.Flags().GetString("mode")
	outDir, _ := cmd.Flags().GetString("out")
	cfgPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if concurrency > 0 {
		settings.Concurrency = concurrency
	}
	if width > 0 {
		settings.Width = width
	}
	if height > 0 {
		settings.Height = height
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	cfg := pipeline.Config{
		Input:  absIn,
		Mode:   types.Mode(mode),
		OutDir: outDir,
		Log:    log,
		Config: settings,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	video, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), video)
	return nil
}
