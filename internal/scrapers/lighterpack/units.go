package lighterpack

import (
	"fmt"
	"math"
)

// grams per unit, matching the units lighterpack lets a list be displayed in.
var gramsPerUnit = map[string]float64{
	"lb": 453.59,
	"oz": 28.35,
	"g":  1,
	"kg": 1000,
}

// ToGrams converts a weight given in `unit` to grams, a result that is not
// finite is a malformed value.
func ToGrams(value float64, unit string) (float64, error) {
	factor, ok := gramsPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	grams := value * factor
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		return 0, fmt.Errorf("%w: %v %s is not a finite weight in grams", ErrMalformedFieldValue, value, unit)
	}
	return grams, nil
}
