package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vision <document>",
		Short:        "Turn a document into a narrated, illustrated video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("mode", "segmented", "Visual mode: segmented (still images) or full (video clips)")
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("config", "", "Optional YAML config file")
	root.Flags().Bool("verbose", false, "Debug logging")

	// Hidden tuning flags (internal)
	root.Flags().Int("concurrency", 0, "Parallel provider calls per stage")
	root.Flags().Int("width", 0, "Frame width in pixels")
	root.Flags().Int("height", 0, "Frame height in pixels")
	_ = root.Flags().MarkHidden("concurrency")
	_ = root.Flags().MarkHidden("width")
	_ = root.Flags().MarkHidden("height")

	return root
}
