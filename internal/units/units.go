// Package units provides pure helpers for converting and formatting
// measurement units and per-unit display prices on the menu.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit is a supported measurement unit.
type Unit string

const (
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Each       Unit = "ea"
)

// ErrIncompatibleUnits is returned when converting across measurement kinds.
var ErrIncompatibleUnits = errors.New("units: incompatible measurement units")

// gramsPer maps weight units to grams; millilitersPer maps volume units to ml.
var (
	gramsPer = map[Unit]float64{
		Ounce:    28.349523125,
		Pound:    453.59237,
		Gram:     1,
		Kilogram: 1000,
	}
	millilitersPer = map[Unit]float64{
		Milliliter: 1,
		Liter:      1000,
	}
)

// upstream measurement unit names and common spellings.
var unitAliases = map[string]Unit{
	"OZ": Ounce, "OUNCE": Ounce, "IMPERIAL_WEIGHT_OUNCE": Ounce,
	"LB": Pound, "POUND": Pound, "IMPERIAL_POUND": Pound,
	"G": Gram, "GRAM": Gram, "METRIC_GRAM": Gram,
	"KG": Kilogram, "KILOGRAM": Kilogram, "METRIC_KILOGRAM": Kilogram,
	"ML": Milliliter, "MILLILITER": Milliliter, "METRIC_MILLILITER": Milliliter,
	"L": Liter, "LITER": Liter, "METRIC_LITER": Liter,
	"EA": Each, "EACH": Each, "UNIT": Each,
}

// Normalize resolves an upstream unit name to a supported Unit.
func Normalize(name string) (Unit, bool) {
	unit, ok := unitAliases[strings.ToUpper(strings.TrimSpace(name))]
	return unit, ok
}

// Abbreviation returns the short display form for a unit.
func Abbreviation(u Unit) string {
	return string(u)
}

// Convert converts a value between two units of the same measurement kind.
func Convert(value float64, from, to Unit) (float64, error) {
	if from == to {
		return value, nil
	}
	if fromFactor, ok := gramsPer[from]; ok {
		toFactor, ok := gramsPer[to]
		if !ok {
			return 0, ErrIncompatibleUnits
		}
		return value * fromFactor / toFactor, nil
	}
	if fromFactor, ok := millilitersPer[from]; ok {
		toFactor, ok := millilitersPer[to]
		if !ok {
			return 0, ErrIncompatibleUnits
		}
		return value * fromFactor / toFactor, nil
	}
	return 0, ErrIncompatibleUnits
}

// PerUnit computes the price of a single unit given a price covering quantity
// units. Returns 0 for non-positive quantities.
func PerUnit(price, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}
	return price / quantity
}

// FormatPrice renders a decimal amount as a dollar string, e.g. "$5.00".
func FormatPrice(amount float64) string {
	// Round to cents first so 4.999999 renders as $5.00.
	cents := math.Round(amount*100) / 100
	return fmt.Sprintf("$%.2f", cents)
}

// FormatQuantity renders a measured quantity, e.g. "8 oz" or "1.5 lb".
func FormatQuantity(value float64, u Unit) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d %s", int64(value), Abbreviation(u))
	}
	return fmt.Sprintf("%g %s", value, Abbreviation(u))
}

// FormatPerUnit renders a per-unit display price, e.g. "$2.50/oz".
func FormatPerUnit(price, quantity float64, u Unit) string {
	return fmt.Sprintf("%s/%s", FormatPrice(PerUnit(price, quantity)), Abbreviation(u))
}
