// Package recipe describes figure layouts: the grid, the panels placed in it,
// the inputs each panel reads and the files the figure is saved to.
//
// Two layouts ship with the binary. "paper" is the publication figure with
// three charts above three visualisation frames, saved as PNG and PDF.
// "scaling" holds the three charts only and opens the PNG once written.
package recipe

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FLAMEGPU/FLAMEGPU2-submodel-benchmark/internal/dataset"
)

//go:embed recipes/*.yaml
var builtins embed.FS

// Kind selects what a panel draws.
type Kind string

const (
	KindLine  Kind = "line"
	KindBar   Kind = "bar"
	KindImage Kind = "image"
)

// Recipe is a complete figure description.
type Recipe struct {
	Name     string  `yaml:"name"`
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
	Outputs  Outputs `yaml:"outputs"`
	Show     bool    `yaml:"show"`
	Panels   []Panel `yaml:"panels"`
}

// Outputs names the files written under the output directory.
// An empty PDF means no vector output.
type Outputs struct {
	PNG string `yaml:"png"`
	PDF string `yaml:"pdf,omitempty"`
}

// Panel is one cell of the grid.
type Panel struct {
	Row  int  `yaml:"row"`
	Col  int  `yaml:"col"`
	Kind Kind `yaml:"kind"`

	// CSV is the input file for chart panels, relative to the input dir.
	CSV string `yaml:"csv,omitempty"`
	// Image is the raster for image panels, relative to the vis dir.
	Image string `yaml:"image,omitempty"`

	Filter *Filter              `yaml:"filter,omitempty"`
	Derive []dataset.Derivation `yaml:"derive,omitempty"`

	X   string `yaml:"x,omitempty"`
	Y   string `yaml:"y,omitempty"`
	Hue string `yaml:"hue,omitempty"`

	XLabel      string `yaml:"x_label,omitempty"`
	YLabel      string `yaml:"y_label,omitempty"`
	LegendTitle string `yaml:"legend_title,omitempty"`
}

// Filter keeps the rows whose Column value is one of Values.
type Filter struct {
	Column string    `yaml:"column"`
	Values []float64 `yaml:"values"`
}

// Names lists the built-in recipes.
func Names() []string {
	entries, err := builtins.ReadDir("recipes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns the named built-in recipe.
func Builtin(name string) (*Recipe, error) {
	data, err := builtins.ReadFile(path.Join("recipes", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown recipe %q (built-in: %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// Load resolves nameOrPath as a built-in recipe name first, then as the path
// of a YAML recipe file.
func Load(nameOrPath string) (*Recipe, error) {
	if !strings.ContainsAny(nameOrPath, `/\.`) {
		return Builtin(nameOrPath)
	}
	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", nameOrPath, err)
	}
	return r, nil
}

// Parse decodes and checks a YAML recipe.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the layout is consistent: every panel sits in its own cell
// inside the grid and names the fields its kind needs.
func (r *Recipe) Validate() error {
	if r.Rows < 1 || r.Cols < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", r.Rows, r.Cols)
	}
	if r.WidthIn <= 0 || r.HeightIn <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g in", r.WidthIn, r.HeightIn)
	}
	if r.Outputs.PNG == "" {
		return errors.New("outputs.png is required")
	}
	if len(r.Panels) == 0 {
		return errors.New("recipe has no panels")
	}

	used := make(map[[2]int]bool, len(r.Panels))
	for i, p := range r.Panels {
		if p.Row < 0 || p.Row >= r.Rows || p.Col < 0 || p.Col >= r.Cols {
			return fmt.Errorf("panel %d: cell (%d,%d) outside %dx%d grid", i, p.Row, p.Col, r.Rows, r.Cols)
		}
		cell := [2]int{p.Row, p.Col}
		if used[cell] {
			return fmt.Errorf("panel %d: cell (%d,%d) already used", i, p.Row, p.Col)
		}
		used[cell] = true

		if err := p.validate(); err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
	}
	return nil
}

func (p Panel) validate() error {
	switch p.Kind {
	case KindImage:
		if p.Image == "" {
			return errors.New("image panel needs an image")
		}
		return nil
	case KindLine, KindBar:
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}

	if p.CSV == "" || p.X == "" || p.Y == "" {
		return fmt.Errorf("%s panel needs csv, x and y", p.Kind)
	}
	if p.Filter != nil && (p.Filter.Column == "" || len(p.Filter.Values) == 0) {
		return errors.New("filter needs a column and values")
	}
	for _, d := range p.Derive {
		if err := d.Check(); err != nil {
			return err
		}
	}
	return nil
}

// IsChart reports whether the panel plots CSV data.
func (p Panel) IsChart() bool { return p.Kind != KindImage }

// RequiredCSVs returns the distinct CSV inputs in panel order.
func (r *Recipe) RequiredCSVs() []string {
	return r.collect(func(p Panel) string {
		if p.IsChart() {
			return p.CSV
		}
		return ""
	})
}

// RequiredImages returns the distinct visualisation images in panel order.
func (r *Recipe) RequiredImages() []string {
	return r.collect(func(p Panel) string {
		if p.Kind == KindImage {
			return p.Image
		}
		return ""
	})
}

func (r *Recipe) collect(pick func(Panel) string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range r.Panels {
		name := pick(p)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
