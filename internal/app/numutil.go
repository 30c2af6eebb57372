package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseBounded reads a numeric entry and rejects values outside the
// questionnaire bounds. NaN compares false against any bound, so it is
// rejected before the range check.
func parseBounded(text string, min, max float64, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %.0f and %.0f", field, min, max)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
