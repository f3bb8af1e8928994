// Package config holds the run configuration resolved from the command line.
package config

// Default values used when a flag is omitted.
const (
	DefaultOutputDir = "."
	DefaultInputDir  = "."
	DefaultVisDir    = "./sample/figures/visualisation"
	DefaultDPI       = 300
	DefaultRecipe    = "paper"
	DefaultLogLevel  = "info"
)

// Config is the resolved configuration for one figure run.
type Config struct {
	OutputDir string
	InputDir  string
	VisDir    string
	DPI       int

	// Recipe is a built-in recipe name or the path of a YAML recipe file.
	Recipe string

	// Show overrides the recipe's show setting when non-nil.
	Show *bool

	// DataXLSX also writes the plotted panel data to a workbook.
	DataXLSX bool

	LogLevel string
}

// Default returns a Config populated with the command line defaults.
func Default() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		InputDir:  DefaultInputDir,
		VisDir:    DefaultVisDir,
		DPI:       DefaultDPI,
		Recipe:    DefaultRecipe,
		LogLevel:  DefaultLogLevel,
	}
}

// ShowFigure reports whether the saved figure should be opened in a viewer,
// given the recipe's own preference.
func (c Config) ShowFigure(recipeShow bool) bool {
	if c.Show != nil {
		return *c.Show
	}
	return recipeShow
}
