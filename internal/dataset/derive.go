package dataset

import (
	"errors"
	"fmt"
)

// Derivation describes one computed column. Exactly one form is used:
//
//	product:     name = product[0] * product[1] * ...
//	ratio:       name = numerator / (denominator[0] * ...) * scale
//
// A zero Scale means 1.
type Derivation struct {
	Name        string   `yaml:"name"`
	Product     []string `yaml:"product,omitempty"`
	Numerator   string   `yaml:"numerator,omitempty"`
	Denominator []string `yaml:"denominator,omitempty"`
	Scale       float64  `yaml:"scale,omitempty"`
}

// Check reports a derivation that names no output or mixes both forms.
func (d Derivation) Check() error {
	if d.Name == "" {
		return errors.New("derived column has no name")
	}
	isProduct := len(d.Product) > 0
	isRatio := d.Numerator != ""
	switch {
	case isProduct && isRatio:
		return fmt.Errorf("derived column %q: product and numerator are exclusive", d.Name)
	case !isProduct && !isRatio:
		return fmt.Errorf("derived column %q: needs product or numerator", d.Name)
	case isRatio && len(d.Denominator) == 0:
		return fmt.Errorf("derived column %q: numerator without denominator", d.Name)
	}
	return nil
}

// Derive computes d row-wise and stores it as a new column. Division by
// zero follows IEEE rules and yields Inf or NaN.
func (t *Table) Derive(d Derivation) error {
	if err := d.Check(); err != nil {
		return err
	}

	var (
		acc   []float64
		terms = d.Product
	)
	if d.Numerator != "" {
		num, err := t.Floats(d.Numerator)
		if err != nil {
			return fmt.Errorf("derived column %q: %w", d.Name, err)
		}
		acc = num
		terms = d.Denominator
	}

	den := make([]float64, t.Len())
	for i := range den {
		den[i] = 1
	}
	for _, col := range terms {
		vals, err := t.Floats(col)
		if err != nil {
			return fmt.Errorf("derived column %q: %w", d.Name, err)
		}
		for i, v := range vals {
			den[i] *= v
		}
	}

	scale := d.Scale
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, t.Len())
	for i := range out {
		if acc == nil {
			out[i] = den[i] * scale
			continue
		}
		out[i] = acc[i] / den[i] * scale
	}
	return t.SetFloats(d.Name, out)
}

// DeriveAll applies ds in order, so later entries may use earlier results.
func (t *Table) DeriveAll(ds []Derivation) error {
	for _, d := range ds {
		if err := t.Derive(d); err != nil {
			return err
		}
	}
	return nil
}
