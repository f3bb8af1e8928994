package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/config"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/frames"
)

func newFramesCmd(stdout io.Writer) *cobra.Command {
	opts := frames.Options{
		InputDir:  config.DefaultInputDir,
		VisDir:    config.DefaultVisDir,
		OutputDir: config.DefaultOutputDir,
	}
	var (
		group   int
		noStrip bool
	)

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Pack the visualisation frames into a video",
		Long: `Pack every <step>.png in the visualisation directory into an MJPEG
video, in step order. Each frame is topped by the population curve of one
grid width up to that step.

Examples:
  paperfig frames -i sample/data/ -o sample/figures/
  paperfig frames --group 4096 --fps 10 --strip 0,10,100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts.Group = float64(group)
			if noStrip {
				opts.Strip = nil
			}

			if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			res, err := frames.Render(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Video saved to %s (%d frames)\n", res.Video, res.Frames)
			if res.Strip != "" {
				fmt.Fprintf(stdout, "Frame strip saved to %s\n", res.Strip)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.InputDir, "input-dir", "i", opts.InputDir, "directory holding "+frames.PerStepCSV)
	flags.StringVarP(&opts.VisDir, "vis-dir", "v", opts.VisDir, "directory holding the <step>.png frames")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", opts.OutputDir, "directory for "+frames.VideoName)
	flags.IntVar(&opts.FPS, "fps", frames.DefaultFPS, "video frame rate")
	flags.IntVar(&opts.Width, "width", frames.DefaultWidth, "frame width in pixels")
	flags.IntVar(&group, "group", frames.DefaultGroup, "grid width whose population curve is drawn")
	flags.IntSliceVar(&opts.Strip, "strip", frames.DefaultStrip, "steps combined side by side into "+frames.StripName)
	flags.BoolVar(&noStrip, "no-strip", false, "skip "+frames.StripName)
	return cmd
}
