// Package validate checks a run configuration against a recipe before any
// plotting starts. Every check runs; all failures are reported together.
package validate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/config"
	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/recipe"
)

// Problem is one failed check. Missing lists the absent files, if any.
type Problem struct {
	Message string
	Missing []string
}

// Check runs every check and returns the failures. It creates the output
// directory (non-recursively) as a side effect.
func Check(cfg config.Config, rec *recipe.Recipe) []Problem {
	var problems []Problem

	if err := ensureDir(cfg.OutputDir); err != nil {
		problems = append(problems, Problem{
			Message: fmt.Sprintf("Could not create output directory %s: %v", cfg.OutputDir, err),
		})
	}

	if cfg.DPI < 1 {
		problems = append(problems, Problem{
			Message: fmt.Sprintf("--dpi must be a positive value. %d", cfg.DPI),
		})
	}

	if p := checkFiles(cfg.InputDir, "input_dir", rec.RequiredCSVs()); p != nil {
		problems = append(problems, *p)
	}

	if images := rec.RequiredImages(); len(images) > 0 {
		if p := checkFiles(cfg.VisDir, "vis_dir", images); p != nil {
			problems = append(problems, *p)
		}
	}

	return problems
}

// Report prints problems to w and reports whether there were none.
func Report(w io.Writer, problems []Problem) bool {
	r := lipgloss.NewRenderer(w)
	errStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	for _, p := range problems {
		fmt.Fprintln(w, errStyle.Render("Error: "+p.Message))
		for _, m := range p.Missing {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	return len(problems) == 0
}

// Validate runs Check and prints the result to w.
func Validate(w io.Writer, cfg config.Config, rec *recipe.Recipe) bool {
	return Report(w, Check(cfg, rec))
}

// ensureDir creates dir when absent. An existing directory is fine; an
// existing non-directory is not.
func ensureDir(dir string) error {
	err := os.Mkdir(dir, 0755)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, statErr := os.Stat(dir)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return err
	}
	return nil
}

func checkFiles(dir, flagName string, required []string) *Problem {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &Problem{Message: fmt.Sprintf("Invalid %s provided %s", flagName, dir)}
	}

	var missing []string
	for _, name := range required {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			missing = append(missing, path)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Problem{
		Message: fmt.Sprintf("%s does not contain required files:", dir),
		Missing: missing,
	}
}
