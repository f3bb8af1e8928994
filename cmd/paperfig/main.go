package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/config"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/export"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/figure"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/logging"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/recipe"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/validate"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/viewer"
)

// DataXLSXName is the panel data workbook written with --data-xlsx.
const DataXLSXName = "paper_figure_data.xlsx"

// errInvalid means validation failed; the diagnostics are already printed.
var errInvalid = errors.New("invalid arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Default()
	var show bool

	cmd := &cobra.Command{
		Use:   "paperfig",
		Short: "Build the submodel benchmark paper figure",
		Long: `paperfig reads the benchmark CSV files and visualisation frames and
composes them into the multi-panel paper figure.

Examples:
  paperfig -i sample/data/ -o sample/figures/
  paperfig -i results/ -r scaling --show=false
  paperfig -i results/ -o out/ --dpi 600 --data-xlsx`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.NewLogger(cfg.LogLevel, stderr)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if cmd.Flags().Changed("show") {
				cfg.Show = &show
			}
			return runFigure(cmd.Context(), cfg, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.OutputDir, "output-dir", "o", config.DefaultOutputDir, "directory for the figure files")
	flags.IntVar(&cfg.DPI, "dpi", config.DefaultDPI, "resolution of the PNG output")
	flags.StringVarP(&cfg.InputDir, "input-dir", "i", config.DefaultInputDir, "directory holding the benchmark CSV files")
	flags.StringVarP(&cfg.VisDir, "vis-dir", "v", config.DefaultVisDir, "directory holding the visualisation frames")
	flags.StringVarP(&cfg.Recipe, "recipe", "r", config.DefaultRecipe, "built-in layout name or path to a YAML recipe")
	flags.BoolVar(&show, "show", false, "open the PNG once written (defaults to the recipe's setting)")
	flags.BoolVar(&cfg.DataXLSX, "data-xlsx", false, "also write the plotted panel data to "+DataXLSXName)
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")

	cmd.AddCommand(newFramesCmd(stdout))
	return cmd
}

func runFigure(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	logger := logging.FromContext(ctx)

	rec, err := recipe.Load(cfg.Recipe)
	if err != nil {
		return err
	}
	if !validate.Validate(stdout, cfg, rec) {
		return errInvalid
	}

	fig, err := figure.Build(ctx, rec, cfg.InputDir, cfg.VisDir)
	if err != nil {
		return fmt.Errorf("failed to build figure: %w", err)
	}
	paths, err := fig.Save(ctx, cfg.OutputDir, cfg.DPI)
	if err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "Figure saved to %s\n", p)
	}

	if cfg.DataXLSX {
		path := filepath.Join(cfg.OutputDir, DataXLSXName)
		if err := export.SaveXLSX(path, fig); err != nil {
			return fmt.Errorf("failed to export panel data: %w", err)
		}
		logger.Info("wrote panel data", "path", path)
		fmt.Fprintf(stdout, "Panel data saved to %s\n", path)
	}

	if cfg.ShowFigure(rec.Show) {
		if err := viewer.Open(paths[0]); err != nil {
			logger.Warn("could not open figure", "path", paths[0], "error", err)
		}
	}
	return nil
}
